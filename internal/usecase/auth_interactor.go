package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/TodoApp/internal/core/ports"
	"github.com/GoArmGo/TodoApp/internal/domain"
	"github.com/GoArmGo/TodoApp/internal/validation"
)

// authUseCase implements AuthUseCase
type authUseCase struct {
	users  ports.UserStorage
	hasher PasswordHasher
	logger *slog.Logger
}

// NewAuthUseCase создает новый экземпляр AuthUseCase
func NewAuthUseCase(users ports.UserStorage, hasher PasswordHasher, logger *slog.Logger) AuthUseCase {
	return &authUseCase{users: users, hasher: hasher, logger: logger}
}

// Register проверяет имя, затем пароль, затем уникальность имени и сохраняет пользователя
func (uc *authUseCase) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if err := validation.First(validation.Username(in.Username), validation.Password(in.Password)); err != nil {
		return nil, err
	}

	existing, err := uc.users.GetUserByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при проверке имени пользователя: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateUsername
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}

	user := &domain.User{Username: in.Username, PasswordHash: hash}
	if err := uc.users.CreateUser(ctx, user); err != nil {
		// гонка двух регистраций с одним именем
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("usecase: ошибка при создании пользователя: %w", err)
	}

	uc.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login проверяет формат имени и пароль. Отсутствие пользователя и неверный пароль неразличимы.
func (uc *authUseCase) Login(ctx context.Context, in LoginInput) (*domain.User, error) {
	if err := validation.Username(in.Username); err != nil {
		return nil, err
	}

	user, err := uc.users.GetUserByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при поиске пользователя: %w", err)
	}
	if user == nil {
		uc.hasher.VerifyDummy(in.Password)
		uc.logger.Warn("login failed", "reason", "unknown user")
		return nil, domain.ErrInvalidCredentials
	}
	if !uc.hasher.Verify(user.PasswordHash, in.Password) {
		uc.logger.Warn("login failed", "reason", "password mismatch", "user_id", user.ID)
		return nil, domain.ErrInvalidCredentials
	}

	uc.logger.Info("user logged in", "user_id", user.ID)
	return user, nil
}

func (uc *authUseCase) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := uc.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении пользователя сессии: %w", err)
	}
	return user, nil
}

func (uc *authUseCase) FindUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := uc.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при поиске пользователя: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}
