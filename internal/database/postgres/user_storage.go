package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/GoArmGo/TodoApp/internal/core/ports"
	"github.com/GoArmGo/TodoApp/internal/database/client"
	"github.com/GoArmGo/TodoApp/internal/domain"
)

var _ ports.UserStorage = (*GormUserStorage)(nil)

// GormUserStorage реализует интерфейс ports.UserStorage с использованием GORM
type GormUserStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormUserStorage создает новый экземпляр GormUserStorage
func NewGormUserStorage(db *gorm.DB, logger *slog.Logger) *GormUserStorage {
	return &GormUserStorage{db: db, logger: logger}
}

// CreateUser сохраняет пользователя в бд с помощью GORM
func (s *GormUserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	if err := s.db.WithContext(ctx).Omit("Tasks").Create(user).Error; err != nil {
		if client.IsUniqueViolation(err) {
			s.logger.Warn("username already taken", "username", user.Username)
			return domain.ErrDuplicateUsername
		}
		s.logger.Error("failed to save user", "username", user.Username, "error", err)
		return fmt.Errorf("ошибка при сохранении пользователя с помощью GORM: %w", err)
	}

	s.logger.Info("user saved successfully",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetUserByID получает пользователя по ID с помощью GORM
func (s *GormUserStorage) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка при получении пользователя по ID с помощью GORM: %w", err)
	}
	return &user, nil
}

// GetUserByUsername получает пользователя по имени с помощью GORM
func (s *GormUserStorage) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка при получении пользователя по имени с помощью GORM: %w", err)
	}
	return &user, nil
}
