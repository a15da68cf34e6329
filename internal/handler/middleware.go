package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/TodoApp/internal/auth"
	"github.com/GoArmGo/TodoApp/internal/usecase"
)

// RequestLogger — middleware для логирования HTTP-запросов.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Оборачиваем ResponseWriter, чтобы знать статус
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration_ms", duration.Milliseconds(),
			)
		})
	}
}

// responseWriter нужен, чтобы перехватывать код ответа
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Sessions загружает сессию из cookie и кладёт её в контекст запроса.
// Изменённая сессия записывается в cookie перед отправкой заголовков.
func Sessions(manager *auth.Manager, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := manager.Load(r)

			sw := &sessionWriter{ResponseWriter: w, save: func() {
				if !sess.Modified() {
					return
				}
				if err := manager.Save(w, sess); err != nil {
					logger.Error("failed to save session", "error", err)
				}
			}}

			ctx := auth.WithSession(r.Context(), sess)
			ctx = auth.WithRequestContext(ctx, sess.RequestContext())
			next.ServeHTTP(sw, r.WithContext(ctx))

			// обработчик ничего не записал
			if !sw.wroteHeader {
				sw.WriteHeader(http.StatusOK)
			}
		})
	}
}

// sessionWriter сохраняет сессию в момент отправки заголовков
type sessionWriter struct {
	http.ResponseWriter
	save        func()
	wroteHeader bool
}

func (sw *sessionWriter) WriteHeader(code int) {
	if !sw.wroteHeader {
		sw.wroteHeader = true
		sw.save()
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *sessionWriter) Write(b []byte) (int, error) {
	if !sw.wroteHeader {
		sw.WriteHeader(http.StatusOK)
	}
	return sw.ResponseWriter.Write(b)
}

// RequireAuth пропускает только аутентифицированные запросы.
// Сессия пользователя, которого уже нет в бд, очищается.
func RequireAuth(authUseCase usecase.AuthUseCase, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session(r)

			p, err := auth.Require(r.Context())
			if err != nil {
				sess.AddFlash(auth.FlashWarning, "Please log in to access this page")
				redirect(w, r, "/login")
				return
			}

			user, err := authUseCase.CurrentUser(r.Context(), p.UserID)
			if err != nil {
				serverError(w, logger, "failed to load session user", err)
				return
			}
			if user == nil {
				logger.Warn("session refers to deleted user", "user_id", p.UserID)
				sess.Clear()
				sess.AddFlash(auth.FlashWarning, "Please log in to access this page")
				redirect(w, r, "/login")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
