package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/TodoApp/internal/app"
	"github.com/GoArmGo/TodoApp/internal/auth"
	"github.com/GoArmGo/TodoApp/internal/config"
	"github.com/GoArmGo/TodoApp/internal/core/ports"
	"github.com/GoArmGo/TodoApp/internal/database/client"
	"github.com/GoArmGo/TodoApp/internal/database/migrations"
	"github.com/GoArmGo/TodoApp/internal/database/postgres"
	"github.com/GoArmGo/TodoApp/internal/database/storage"
	"github.com/GoArmGo/TodoApp/internal/logger"
	"github.com/GoArmGo/TodoApp/internal/usecase"
)

// NewLogger создаёт основной логгер по конфигурации
func NewLogger(cfg *config.Config) *slog.Logger {
	return logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
}

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp(ctx context.Context, cfg *config.Config) (*app.App, error) {
	slogger := NewLogger(cfg)
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// 1. Подключение к БД
	dbClient, err := client.NewClient(ctx, cfg.DatabaseURL, slogger)
	if err != nil {
		return nil, err
	}

	// 2. Миграции
	if cfg.AutoMigrate {
		if err := migrations.Apply(dbClient.DB, slogger); err != nil {
			_ = dbClient.Close()
			return nil, err
		}
	}

	// 3. Хранилища
	userStorage, taskStorage, err := NewStorages(cfg, dbClient, slogger)
	if err != nil {
		_ = dbClient.Close()
		return nil, err
	}

	// 4. Сессии и пароли
	hasher, err := auth.NewHasher(cfg.BcryptCost)
	if err != nil {
		_ = dbClient.Close()
		return nil, err
	}
	sessions, err := auth.NewManager(auth.ManagerConfig{
		Secret:     cfg.SecretKey,
		TTL:        cfg.Session.TTL,
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.CookieSecure,
	})
	if err != nil {
		_ = dbClient.Close()
		return nil, err
	}

	// 5. Бизнес-логика (usecases)
	authUseCase := usecase.NewAuthUseCase(userStorage, hasher, slogger)
	taskUseCase := usecase.NewTaskUseCase(taskStorage, slogger)

	// 6. Сборка итогового приложения
	application := app.NewApp(cfg, slogger, dbClient.DB, sessions, authUseCase, taskUseCase)

	slogger.Info("dependencies initialized", "driver", dbClient.Driver, "storage_engine", cfg.StorageEngine)
	return application, nil
}

// NewStorages выбирает реализацию хранилищ по STORAGE_ENGINE
func NewStorages(cfg *config.Config, dbClient *client.Client, slogger *slog.Logger) (ports.UserStorage, ports.TaskStorage, error) {
	switch cfg.StorageEngine {
	case config.StorageEngineGorm:
		if dbClient.Driver != client.DriverPostgres {
			return nil, nil, fmt.Errorf("STORAGE_ENGINE=gorm поддерживает только PostgreSQL, получен драйвер %q", dbClient.Driver)
		}
		gdb, err := postgres.NewGormDB(dbClient.DB.DB)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewGormUserStorage(gdb, slogger), postgres.NewGormTaskStorage(gdb, slogger), nil

	case config.StorageEngineSQLX:
		return storage.NewUserStorage(dbClient.DB, slogger), storage.NewTaskStorage(dbClient.DB, slogger), nil
	}
	return nil, nil, fmt.Errorf("неизвестный STORAGE_ENGINE: %q", cfg.StorageEngine)
}
