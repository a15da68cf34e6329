package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/TodoApp/internal/auth"
	"github.com/GoArmGo/TodoApp/internal/domain"
	"github.com/GoArmGo/TodoApp/internal/usecase"
)

// AuthHandler обрабатывает регистрацию, вход и выход
type AuthHandler struct {
	authUseCase usecase.AuthUseCase
	render      *Renderer
	logger      *slog.Logger
}

// NewAuthHandler создаёт новый экземпляр AuthHandler.
func NewAuthHandler(uc usecase.AuthUseCase, render *Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authUseCase: uc, render: render, logger: logger}
}

type authForm struct {
	Username string
}

// Index перенаправляет на дашборд или на вход
func (h *AuthHandler) Index(w http.ResponseWriter, r *http.Request) {
	if session(r).Authenticated() {
		redirect(w, r, "/dashboard")
		return
	}
	redirect(w, r, "/login")
}

// LoginPage отдаёт форму входа
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if session(r).Authenticated() {
		redirect(w, r, "/dashboard")
		return
	}
	h.render.Render(w, r, http.StatusOK, "login", "Log in", authForm{})
}

// Login обрабатывает POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	sess := session(r)
	if sess.Authenticated() {
		redirect(w, r, "/dashboard")
		return
	}

	username, password, err := parseCredentials(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	user, err := h.authUseCase.Login(r.Context(), usecase.LoginInput{Username: username, Password: password})
	switch {
	case err == nil:
	case domain.IsValidationError(err):
		sess.AddFlash(auth.FlashError, err.Error())
		h.render.Render(w, r, http.StatusOK, "login", "Log in", authForm{Username: username})
		return
	case errors.Is(err, domain.ErrInvalidCredentials):
		sess.AddFlash(auth.FlashError, "Invalid username or password")
		h.render.Render(w, r, http.StatusOK, "login", "Log in", authForm{Username: username})
		return
	default:
		serverError(w, h.logger, "failed to log in", err)
		return
	}

	sess.Login(user.ID, user.Username)
	sess.AddFlash(auth.FlashSuccess, "Logged in successfully!")
	redirect(w, r, "/dashboard")
}

// RegisterPage отдаёт форму регистрации
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if session(r).Authenticated() {
		redirect(w, r, "/dashboard")
		return
	}
	h.render.Render(w, r, http.StatusOK, "register", "Register", authForm{})
}

// Register обрабатывает POST /register. После успешной регистрации пользователь не входит автоматически.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	sess := session(r)
	if sess.Authenticated() {
		redirect(w, r, "/dashboard")
		return
	}

	username, password, err := parseCredentials(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	_, err = h.authUseCase.Register(r.Context(), usecase.RegisterInput{Username: username, Password: password})
	switch {
	case err == nil:
	case domain.IsValidationError(err):
		sess.AddFlash(auth.FlashError, err.Error())
		h.render.Render(w, r, http.StatusOK, "register", "Register", authForm{Username: username})
		return
	case errors.Is(err, domain.ErrDuplicateUsername):
		sess.AddFlash(auth.FlashError, "Username already exists")
		h.render.Render(w, r, http.StatusOK, "register", "Register", authForm{Username: username})
		return
	default:
		serverError(w, h.logger, "failed to register user", err)
		return
	}

	sess.AddFlash(auth.FlashSuccess, "Registration successful! Please log in.")
	redirect(w, r, "/login")
}

// Logout очищает сессию безусловно
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session(r)
	sess.Clear()
	sess.AddFlash(auth.FlashInfo, "You have been logged out")
	redirect(w, r, "/login")
}
