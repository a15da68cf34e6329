package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/TodoApp/internal/core/ports"
	"github.com/GoArmGo/TodoApp/internal/domain"
	"github.com/GoArmGo/TodoApp/internal/validation"
)

// taskUseCase implements TaskUseCase
type taskUseCase struct {
	tasks  ports.TaskStorage
	logger *slog.Logger
}

// NewTaskUseCase создает новый экземпляр TaskUseCase
func NewTaskUseCase(tasks ports.TaskStorage, logger *slog.Logger) TaskUseCase {
	return &taskUseCase{tasks: tasks, logger: logger}
}

func (uc *taskUseCase) ListTasks(ctx context.Context, userID int64) (*domain.TaskList, error) {
	tasks, err := uc.tasks.ListTasksByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении задач: %w", err)
	}
	return domain.NewTaskList(tasks), nil
}

func (uc *taskUseCase) AddTask(ctx context.Context, userID int64, in TaskInput) (*domain.Task, error) {
	if err := validateTask(in); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		Priority:    domain.Priority(in.Priority),
		UserID:      userID,
	}
	if err := uc.tasks.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при создании задачи: %w", err)
	}
	return task, nil
}

func (uc *taskUseCase) GetTask(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	task, err := uc.loadOwnedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrNotFound
	}
	return task, nil
}

// EditTask сначала проверяет владение, потом поля формы
func (uc *taskUseCase) EditTask(ctx context.Context, userID, taskID int64, in TaskInput) (*domain.Task, error) {
	task, err := uc.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if err := validateTask(in); err != nil {
		return nil, err
	}

	task.Title = in.Title
	task.Description = in.Description
	task.Priority = domain.Priority(in.Priority)
	if err := uc.tasks.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при обновлении задачи: %w", err)
	}
	return task, nil
}

func (uc *taskUseCase) ToggleTask(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	task, err := uc.loadOwnedTask(ctx, userID, taskID)
	if err != nil || task == nil {
		return nil, err
	}

	task.Completed = !task.Completed
	if err := uc.tasks.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при переключении задачи: %w", err)
	}
	return task, nil
}

func (uc *taskUseCase) DeleteTask(ctx context.Context, userID, taskID int64) (bool, error) {
	task, err := uc.loadOwnedTask(ctx, userID, taskID)
	if err != nil || task == nil {
		return false, err
	}

	if err := uc.tasks.DeleteTask(ctx, task.ID, userID); err != nil {
		return false, fmt.Errorf("usecase: ошибка при удалении задачи: %w", err)
	}
	return true, nil
}

func (uc *taskUseCase) DeleteUser(ctx context.Context, userID int64) (int64, error) {
	removed, err := uc.tasks.DeleteUserWithTasks(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("usecase: ошибка при удалении пользователя: %w", err)
	}
	uc.logger.Info("user deleted", "user_id", userID, "tasks_removed", removed)
	return removed, nil
}

// loadOwnedTask возвращает задачу, только если она принадлежит userID.
// Отсутствующая и чужая задача дают одинаковый результат: nil, nil.
func (uc *taskUseCase) loadOwnedTask(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	task, err := uc.tasks.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении задачи: %w", err)
	}
	if task == nil || task.UserID != userID {
		if task != nil {
			uc.logger.Warn("access to foreign task denied", "task_id", taskID, "user_id", userID)
		}
		return nil, nil
	}
	return task, nil
}

func validateTask(in TaskInput) error {
	return validation.First(validation.TaskTitle(in.Title), validation.Priority(in.Priority))
}
