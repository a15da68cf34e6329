package usecase

import (
	"context"

	"github.com/GoArmGo/TodoApp/internal/domain"
)

// PasswordHasher определяет порт для хэширования паролей (реализация в internal/auth)
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
	// VerifyDummy выравнивает время ответа, когда пользователя нет
	VerifyDummy(password string) bool
}

// RegisterInput содержит данные формы регистрации
type RegisterInput struct {
	Username string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

// TaskInput содержит данные формы задачи.
// Priority остаётся строкой из формы и проверяется валидатором.
type TaskInput struct {
	Title       string
	Description string
	Priority    string
}

// AuthUseCase определяет бизнес-логику регистрации и входа
type AuthUseCase interface {
	// Register создаёт пользователя. В сессию не входит.
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)

	// Login проверяет имя и пароль, при неудаче возвращает domain.ErrInvalidCredentials
	Login(ctx context.Context, in LoginInput) (*domain.User, error)

	// CurrentUser возвращает пользователя сессии или nil, если его уже нет в бд
	CurrentUser(ctx context.Context, userID int64) (*domain.User, error)

	// FindUser ищет пользователя по точному имени, domain.ErrNotFound если нет
	FindUser(ctx context.Context, username string) (*domain.User, error)
}

// TaskUseCase определяет операции над задачами, всегда в рамках владельца
type TaskUseCase interface {
	ListTasks(ctx context.Context, userID int64) (*domain.TaskList, error)

	AddTask(ctx context.Context, userID int64, in TaskInput) (*domain.Task, error)

	// GetTask возвращает domain.ErrNotFound и для отсутствующей, и для чужой задачи
	GetTask(ctx context.Context, userID, taskID int64) (*domain.Task, error)

	// EditTask перезаписывает title, description и priority; completed не трогает
	EditTask(ctx context.Context, userID, taskID int64, in TaskInput) (*domain.Task, error)

	// ToggleTask для чужой или отсутствующей задачи ничего не делает и возвращает nil, nil
	ToggleTask(ctx context.Context, userID, taskID int64) (*domain.Task, error)

	// DeleteTask сообщает, была ли задача удалена; чужая задача не трогается
	DeleteTask(ctx context.Context, userID, taskID int64) (bool, error)

	// DeleteUser удаляет пользователя вместе со всеми задачами, возвращает число удалённых задач
	DeleteUser(ctx context.Context, userID int64) (int64, error)
}
