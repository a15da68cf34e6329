package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/GoArmGo/TodoApp/internal/core/ports"
	"github.com/GoArmGo/TodoApp/internal/domain"
)

var _ ports.TaskStorage = (*GormTaskStorage)(nil)

// GormTaskStorage реализует интерфейс ports.TaskStorage с использованием GORM
type GormTaskStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGormTaskStorage(db *gorm.DB, logger *slog.Logger) *GormTaskStorage {
	return &GormTaskStorage{db: db, logger: logger}
}

// CreateTask сохраняет задачу в бд с помощью GORM
func (s *GormTaskStorage) CreateTask(ctx context.Context, task *domain.Task) error {
	start := time.Now()

	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		s.logger.Error("failed to save task", "user_id", task.UserID, "error", err)
		return fmt.Errorf("ошибка при сохранении задачи с помощью GORM: %w", err)
	}

	s.logger.Info("task saved successfully",
		"task_id", task.ID,
		"user_id", task.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetTaskByID получает задачу по ID с помощью GORM
func (s *GormTaskStorage) GetTaskByID(ctx context.Context, id int64) (*domain.Task, error) {
	var task domain.Task
	if err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка при получении задачи по ID с помощью GORM: %w", err)
	}
	return &task, nil
}

// ListTasksByUser получает задачи пользователя в порядке создания
func (s *GormTaskStorage) ListTasksByUser(ctx context.Context, userID int64) ([]domain.Task, error) {
	start := time.Now()

	tasks := []domain.Task{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&tasks).Error; err != nil {
		s.logger.Error("failed to list tasks", "user_id", userID, "error", err)
		return nil, fmt.Errorf("ошибка при получении списка задач с помощью GORM: %w", err)
	}

	s.logger.Info("listed tasks successfully",
		"user_id", userID,
		"count", len(tasks),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return tasks, nil
}

// UpdateTask перезаписывает изменяемые поля задачи.
// map вместо структуры, иначе GORM пропустит completed=false.
func (s *GormTaskStorage) UpdateTask(ctx context.Context, task *domain.Task) error {
	start := time.Now()

	err := s.db.WithContext(ctx).Model(&domain.Task{}).
		Where("id = ? AND user_id = ?", task.ID, task.UserID).
		Updates(map[string]any{
			"title":       task.Title,
			"description": task.Description,
			"priority":    string(task.Priority),
			"completed":   task.Completed,
		}).Error
	if err != nil {
		s.logger.Error("failed to update task", "task_id", task.ID, "error", err)
		return fmt.Errorf("ошибка при обновлении задачи с помощью GORM: %w", err)
	}

	s.logger.Info("task updated successfully",
		"task_id", task.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// DeleteTask удаляет задачу владельца
func (s *GormTaskStorage) DeleteTask(ctx context.Context, id, userID int64) error {
	start := time.Now()

	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Task{}).Error
	if err != nil {
		s.logger.Error("failed to delete task", "task_id", id, "error", err)
		return fmt.Errorf("ошибка при удалении задачи с помощью GORM: %w", err)
	}

	s.logger.Info("task deleted successfully",
		"task_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// DeleteUserWithTasks удаляет пользователя вместе с задачами в одной транзакции
func (s *GormTaskStorage) DeleteUserWithTasks(ctx context.Context, userID int64) (int64, error) {
	start := time.Now()

	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ?", userID).Delete(&domain.Task{})
		if res.Error != nil {
			return fmt.Errorf("ошибка при удалении задач пользователя: %w", res.Error)
		}
		removed = res.RowsAffected

		if err := tx.Where("id = ?", userID).Delete(&domain.User{}).Error; err != nil {
			return fmt.Errorf("ошибка при удалении пользователя: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to delete user with tasks", "user_id", userID, "error", err)
		return 0, err
	}

	s.logger.Info("user deleted with tasks",
		"user_id", userID,
		"tasks_removed", removed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return removed, nil
}
