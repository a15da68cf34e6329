package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/GoArmGo/TodoApp/internal/domain"
	"github.com/GoArmGo/TodoApp/internal/usecase"
)

// parseCredentials обрезает пробелы у имени, но не у пароля
func parseCredentials(r *http.Request) (username, password string, err error) {
	if err := r.ParseForm(); err != nil {
		return "", "", fmt.Errorf("ошибка разбора формы: %w", err)
	}
	return strings.TrimSpace(r.PostForm.Get("username")), r.PostForm.Get("password"), nil
}

// parseTaskInput читает форму задачи. Отсутствующее поле priority
// заменяется на значение по умолчанию, пустое остаётся пустым и не пройдёт валидацию.
func parseTaskInput(r *http.Request) (usecase.TaskInput, error) {
	if err := r.ParseForm(); err != nil {
		return usecase.TaskInput{}, fmt.Errorf("ошибка разбора формы: %w", err)
	}

	in := usecase.TaskInput{
		Title:       strings.TrimSpace(r.PostForm.Get("title")),
		Description: strings.TrimSpace(r.PostForm.Get("description")),
		Priority:    string(domain.DefaultPriority),
	}
	if vals, ok := r.PostForm["priority"]; ok && len(vals) > 0 {
		in.Priority = vals[0]
	}
	return in, nil
}

// taskID достаёт {id} из пути; роут уже гарантирует, что это цифры
func taskID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
