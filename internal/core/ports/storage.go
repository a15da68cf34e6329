package ports

import (
	"context"

	"github.com/GoArmGo/TodoApp/internal/domain"
)

// UserStorage определяет методы для взаимодействия с хранилищем пользователей.
// Get-методы возвращают nil, nil, если пользователь не найден.
type UserStorage interface {
	// CreateUser сохраняет пользователя и проставляет ему ID.
	// Нарушение уникальности username возвращается как domain.ErrDuplicateUsername.
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// TaskStorage определяет методы для взаимодействия с хранилищем задач.
// Изменяющие методы дополнительно ограничены user_id владельца.
type TaskStorage interface {
	CreateTask(ctx context.Context, task *domain.Task) error
	// GetTaskByID возвращает nil, nil, если задачи нет
	GetTaskByID(ctx context.Context, id int64) (*domain.Task, error)
	// ListTasksByUser возвращает задачи владельца в порядке создания
	ListTasksByUser(ctx context.Context, userID int64) ([]domain.Task, error)
	// UpdateTask перезаписывает title, description, priority и completed; user_id не меняется
	UpdateTask(ctx context.Context, task *domain.Task) error
	DeleteTask(ctx context.Context, id, userID int64) error
	// DeleteUserWithTasks в одной транзакции удаляет задачи пользователя и его самого,
	// возвращает число удалённых задач
	DeleteUserWithTasks(ctx context.Context, userID int64) (int64, error)
}
