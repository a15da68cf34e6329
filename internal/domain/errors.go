package domain

import "errors"

var (
	// ErrDuplicateUsername: пользователь с таким именем уже существует
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrInvalidCredentials не уточняет, что именно неверно: имя или пароль
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotAuthenticated   = errors.New("not authenticated")
	// ErrNotFound возвращается и для чужих задач, чтобы не раскрывать их существование
	ErrNotFound = errors.New("not found")
)

// ValidationError описывает ошибку проверки одного поля формы.
// Error() возвращает текст, который показывается пользователю.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IsValidationError сообщает, является ли err (или что-то в его цепочке) ошибкой валидации
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
