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
	"github.com/GoArmGo/TodoApp/internal/database/client"
	"github.com/GoArmGo/TodoApp/internal/domain"
)

var _ ports.UserStorage = (*UserStorage)(nil)

// UserStorage реализует интерфейс ports.UserStorage поверх sqlx
type UserStorage struct {
	db     *sqlx.DB
	sb     sq.StatementBuilderType
	logger *slog.Logger
}

// NewUserStorage создает новый экземпляр UserStorage
func NewUserStorage(db *sqlx.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, sb: statementBuilder(db), logger: logger}
}

// CreateUser сохраняет нового пользователя и проставляет ему ID
func (s *UserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	ins := s.sb.Insert(usersTable).
		Columns("username", "password_hash").
		Values(user.Username, user.PasswordHash)

	id, err := insertReturningID(ctx, s.db, s.db.DriverName(), ins)
	if err != nil {
		if client.IsUniqueViolation(err) {
			s.logger.Warn("username already taken", "username", user.Username)
			return domain.ErrDuplicateUsername
		}
		s.logger.Error("failed to insert user", "username", user.Username, "error", err)
		return fmt.Errorf("ошибка при сохранении пользователя: %w", err)
	}
	user.ID = id

	s.logger.Info("user created successfully",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetUserByID получает пользователя по ID
func (s *UserStorage) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.getUser(ctx, sq.Eq{"id": id})
}

// GetUserByUsername ищет пользователя по точному (регистрозависимому) совпадению имени
func (s *UserStorage) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getUser(ctx, sq.Eq{"username": username})
}

func (s *UserStorage) getUser(ctx context.Context, where sq.Eq) (*domain.User, error) {
	start := time.Now()

	query, args, err := s.sb.Select(userColumns...).From(usersTable).Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка построения запроса пользователя: %w", err)
	}

	var user domain.User
	if err := s.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Debug("user not found", "where", fmt.Sprint(where))
			return nil, nil
		}
		s.logger.Error("failed to select user", "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	s.logger.Debug("user retrieved",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &user, nil
}
