// internal/domain/user.go
package domain

// User представляет модель пользователя в системе.
// Соответствует таблице 'users' в базе данных.
type User struct {
	ID           int64  `json:"id" db:"id" gorm:"primaryKey"`
	Username     string `json:"username" db:"username" gorm:"size:80;uniqueIndex;not null"`
	PasswordHash string `json:"-" db:"password_hash" gorm:"size:200;not null"`

	// Tasks принадлежат пользователю целиком, удаляются вместе с ним (см. TaskUseCase.DeleteUser)
	Tasks []Task `json:"tasks,omitempty" db:"-" gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}
