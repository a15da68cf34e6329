package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/GoArmGo/TodoApp/internal/core/ports"
	"github.com/GoArmGo/TodoApp/internal/domain"
)

var _ ports.TaskStorage = (*TaskStorage)(nil)

// TaskStorage реализует интерфейс ports.TaskStorage поверх sqlx
type TaskStorage struct {
	db     *sqlx.DB
	sb     sq.StatementBuilderType
	logger *slog.Logger
}

func NewTaskStorage(db *sqlx.DB, logger *slog.Logger) *TaskStorage {
	return &TaskStorage{db: db, sb: statementBuilder(db), logger: logger}
}

// CreateTask сохраняет задачу в базе данных
func (s *TaskStorage) CreateTask(ctx context.Context, task *domain.Task) error {
	start := time.Now()

	ins := s.sb.Insert(tasksTable).
		Columns("title", "description", "completed", "priority", "user_id").
		Values(task.Title, task.Description, task.Completed, string(task.Priority), task.UserID)

	id, err := insertReturningID(ctx, s.db, s.db.DriverName(), ins)
	if err != nil {
		s.logger.Error("failed to save task", "user_id", task.UserID, "error", err)
		return fmt.Errorf("ошибка при сохранении задачи: %w", err)
	}
	task.ID = id

	s.logger.Info("task saved successfully",
		"task_id", task.ID,
		"user_id", task.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetTaskByID получает задачу по ID
func (s *TaskStorage) GetTaskByID(ctx context.Context, id int64) (*domain.Task, error) {
	start := time.Now()

	query, args, err := s.sb.Select(taskColumns...).From(tasksTable).Where(sq.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка построения запроса задачи: %w", err)
	}

	var task domain.Task
	if err := s.db.GetContext(ctx, &task, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("task not found by id", "task_id", id)
			return nil, nil
		}
		s.logger.Error("failed to get task by id", "task_id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении задачи по ID: %w", err)
	}

	s.logger.Debug("task retrieved by id",
		"task_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &task, nil
}

// ListTasksByUser получает задачи пользователя в порядке создания
func (s *TaskStorage) ListTasksByUser(ctx context.Context, userID int64) ([]domain.Task, error) {
	start := time.Now()

	query, args, err := s.sb.Select(taskColumns...).From(tasksTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка построения запроса списка задач: %w", err)
	}

	tasks := []domain.Task{}
	if err := s.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		s.logger.Error("failed to list tasks", "user_id", userID, "error", err)
		return nil, fmt.Errorf("ошибка при получении списка задач: %w", err)
	}

	s.logger.Info("listed tasks successfully",
		"user_id", userID,
		"count", len(tasks),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return tasks, nil
}

// UpdateTask перезаписывает изменяемые поля задачи
func (s *TaskStorage) UpdateTask(ctx context.Context, task *domain.Task) error {
	start := time.Now()

	query, args, err := s.sb.Update(tasksTable).
		Set("title", task.Title).
		Set("description", task.Description).
		Set("priority", string(task.Priority)).
		Set("completed", task.Completed).
		Where(sq.Eq{"id": task.ID, "user_id": task.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка построения запроса обновления задачи: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Error("failed to update task", "task_id", task.ID, "error", err)
		return fmt.Errorf("ошибка при обновлении задачи: %w", err)
	}

	s.logger.Info("task updated successfully",
		"task_id", task.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// DeleteTask удаляет задачу владельца
func (s *TaskStorage) DeleteTask(ctx context.Context, id, userID int64) error {
	start := time.Now()

	query, args, err := s.sb.Delete(tasksTable).Where(sq.Eq{"id": id, "user_id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка построения запроса удаления задачи: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Error("failed to delete task", "task_id", id, "error", err)
		return fmt.Errorf("ошибка при удалении задачи: %w", err)
	}

	s.logger.Info("task deleted successfully",
		"task_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// DeleteUserWithTasks удаляет пользователя вместе со всеми его задачами в одной транзакции
func (s *TaskStorage) DeleteUserWithTasks(ctx context.Context, userID int64) (int64, error) {
	start := time.Now()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("не удалось начать транзакцию: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := s.sb.Delete(tasksTable).Where(sq.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка построения запроса удаления задач: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("failed to delete user tasks", "user_id", userID, "error", err)
		return 0, fmt.Errorf("ошибка при удалении задач пользователя: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("не удалось получить число удалённых задач: %w", err)
	}

	query, args, err = s.sb.Delete(usersTable).Where(sq.Eq{"id": userID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка построения запроса удаления пользователя: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		s.logger.Error("failed to delete user", "user_id", userID, "error", err)
		return 0, fmt.Errorf("ошибка при удалении пользователя: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("не удалось зафиксировать транзакцию: %w", err)
	}

	s.logger.Info("user deleted with tasks",
		"user_id", userID,
		"tasks_removed", removed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return removed, nil
}
