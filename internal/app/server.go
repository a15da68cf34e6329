package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"

	"github.com/GoArmGo/TodoApp/internal/auth"
	"github.com/GoArmGo/TodoApp/internal/config"
	"github.com/GoArmGo/TodoApp/internal/handler"
	"github.com/GoArmGo/TodoApp/internal/usecase"
)

const shutdownTimeout = 30 * time.Second

// NewRouter собирает chi-роутер со всеми маршрутами приложения
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	db *sqlx.DB,
	sessions *auth.Manager,
	authUseCase usecase.AuthUseCase,
	taskUseCase usecase.TaskUseCase,
) (http.Handler, error) {
	render, err := handler.NewRenderer(logger)
	if err != nil {
		return nil, err
	}
	authHandler := handler.NewAuthHandler(authUseCase, render, logger)
	taskHandler := handler.NewTaskHandler(taskUseCase, render, logger)
	healthHandler := handler.NewHealthHandler(db, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handler.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/healthz", healthHandler.Health)

	r.Group(func(r chi.Router) {
		r.Use(handler.Sessions(sessions, logger))

		r.Get("/", authHandler.Index)
		r.Get("/login", authHandler.LoginPage)
		r.Post("/login", authHandler.Login)
		r.Get("/register", authHandler.RegisterPage)
		r.Post("/register", authHandler.Register)
		r.Get("/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(handler.RequireAuth(authUseCase, logger))

			r.Get("/dashboard", taskHandler.Dashboard)
			r.Get("/add-task", taskHandler.AddTaskPage)
			r.Post("/add-task", taskHandler.AddTask)
			r.Get("/edit-task/{id:[0-9]+}", taskHandler.EditTaskPage)
			r.Post("/edit-task/{id:[0-9]+}", taskHandler.EditTask)
			r.Get("/toggle-task/{id:[0-9]+}", taskHandler.ToggleTask)
			r.Get("/delete-task/{id:[0-9]+}", taskHandler.DeleteTask)
		})
	})

	return r, nil
}

// runServer запускает HTTP сервер и ждёт отмены ctx для graceful shutdown
func runServer(ctx context.Context, cfg *config.Config, h http.Handler, logger *slog.Logger) error {
	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка при запуске сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, stopping server")

	ctxServer, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxServer); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
