// Package validation проверяет поля форм: имя пользователя, пароль, название и приоритет задачи.
// Все функции чистые и возвращают nil или *domain.ValidationError с текстом для пользователя.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/GoArmGo/TodoApp/internal/domain"
)

const (
	UsernameMinLen  = 3
	UsernameMaxLen  = 80
	PasswordMinLen  = 4
	TaskTitleMaxLen = 200
)

var usernameChars = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Username проверяет длину (3..80) и набор символов [A-Za-z0-9_]
func Username(s string) error {
	n := utf8.RuneCountInString(s)
	if n < UsernameMinLen {
		return &domain.ValidationError{Field: "username", Reason: "Username is too short: at least 3 characters are required"}
	}
	if n > UsernameMaxLen {
		return &domain.ValidationError{Field: "username", Reason: "Username is too long: at most 80 characters are allowed"}
	}
	if !usernameChars.MatchString(s) {
		return &domain.ValidationError{Field: "username", Reason: "Username contains invalid characters: only letters, digits and underscore are allowed"}
	}
	return nil
}

// Password требует минимум 4 символа, других ограничений нет
func Password(s string) error {
	if utf8.RuneCountInString(s) < PasswordMinLen {
		return &domain.ValidationError{Field: "password", Reason: "Password is too short: at least 4 characters are required"}
	}
	return nil
}

// TaskTitle требует непустое после обрезки название не длиннее 200 символов
func TaskTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return &domain.ValidationError{Field: "title", Reason: "Task title is required"}
	}
	if utf8.RuneCountInString(s) > TaskTitleMaxLen {
		return &domain.ValidationError{Field: "title", Reason: "Task title is too long: at most 200 characters are allowed"}
	}
	return nil
}

// Priority принимает ровно low, medium или high (с учётом регистра)
func Priority(s string) error {
	for _, p := range domain.Priorities() {
		if s == string(p) {
			return nil
		}
	}
	return &domain.ValidationError{Field: "priority", Reason: "Invalid priority"}
}

// First возвращает первую ошибку из списка
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
