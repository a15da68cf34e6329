package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

	"github.com/GoArmGo/TodoApp/internal/auth"
	"github.com/GoArmGo/TodoApp/internal/config"
	"github.com/GoArmGo/TodoApp/internal/usecase"
)

type App struct {
	Config      *config.Config
	logger      *slog.Logger
	db          *sqlx.DB
	sessions    *auth.Manager
	authUseCase usecase.AuthUseCase
	taskUseCase usecase.TaskUseCase
}

func NewApp(cfg *config.Config,
	logger *slog.Logger,
	db *sqlx.DB,
	sessions *auth.Manager,
	authUseCase usecase.AuthUseCase,
	taskUseCase usecase.TaskUseCase) *App {
	return &App{
		Config:      cfg,
		logger:      logger,
		db:          db,
		sessions:    sessions,
		authUseCase: authUseCase,
		taskUseCase: taskUseCase,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

func (a *App) Auth() usecase.AuthUseCase {
	return a.authUseCase
}

func (a *App) Tasks() usecase.TaskUseCase {
	return a.taskUseCase
}

// Run запускает HTTP сервер и блокируется до SIGINT/SIGTERM или отмены ctx
func (a *App) Run(ctx context.Context) error {
	// канал для graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router, err := NewRouter(a.Config, a.logger, a.db, a.sessions, a.authUseCase, a.taskUseCase)
	if err != nil {
		return err
	}

	a.logger.Info("starting http server", "port", a.Config.ServerPort, "storage_engine", a.Config.StorageEngine)
	err = runServer(ctx, a.Config, router, a.logger)

	// аккуратно закрываем ресурсы
	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("failed to release resources", "error", closeErr)
	}
	return err
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("ошибка закрытия БД: %w", err)
		}
		a.db = nil
	}
	return nil
}
