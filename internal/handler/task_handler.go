package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/TodoApp/internal/auth"
	"github.com/GoArmGo/TodoApp/internal/domain"
	"github.com/GoArmGo/TodoApp/internal/usecase"
)

// TaskHandler обрабатывает дашборд и операции над задачами.
// Все маршруты за RequireAuth.
type TaskHandler struct {
	taskUseCase usecase.TaskUseCase
	render      *Renderer
	logger      *slog.Logger
}

// NewTaskHandler создаёт новый экземпляр TaskHandler.
func NewTaskHandler(uc usecase.TaskUseCase, render *Renderer, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{taskUseCase: uc, render: render, logger: logger}
}

type dashboardView struct {
	Username string
	List     *domain.TaskList
}

type taskForm struct {
	Title       string
	Description string
	Priority    string
}

type taskFormView struct {
	Action     string
	Submit     string
	Form       taskForm
	Priorities []domain.Priority
}

func newTaskFormView(action, submit string, in usecase.TaskInput) taskFormView {
	return taskFormView{
		Action:     action,
		Submit:     submit,
		Form:       taskForm{Title: in.Title, Description: in.Description, Priority: in.Priority},
		Priorities: domain.Priorities(),
	}
}

// principal достаёт пользователя запроса; анонимов уже отсеял RequireAuth
func (h *TaskHandler) principal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, err := auth.Require(r.Context())
	if err != nil {
		redirect(w, r, "/login")
		return auth.Principal{}, false
	}
	return p, true
}

// Dashboard показывает задачи пользователя и счётчики
func (h *TaskHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	list, err := h.taskUseCase.ListTasks(r.Context(), p.UserID)
	if err != nil {
		serverError(w, h.logger, "failed to list tasks", err)
		return
	}
	h.render.Render(w, r, http.StatusOK, "dashboard", "Dashboard", dashboardView{Username: p.Username, List: list})
}

func (h *TaskHandler) AddTaskPage(w http.ResponseWriter, r *http.Request) {
	view := newTaskFormView("/add-task", "Add task", usecase.TaskInput{Priority: string(domain.DefaultPriority)})
	h.render.Render(w, r, http.StatusOK, "task_form", "Add task", view)
}

// AddTask создаёт задачу из формы
func (h *TaskHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	in, err := parseTaskInput(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	task, err := h.taskUseCase.AddTask(r.Context(), p.UserID, in)
	if err != nil {
		if domain.IsValidationError(err) {
			session(r).AddFlash(auth.FlashError, err.Error())
			h.render.Render(w, r, http.StatusOK, "task_form", "Add task", newTaskFormView("/add-task", "Add task", in))
			return
		}
		serverError(w, h.logger, "failed to add task", err)
		return
	}

	h.logger.Info("task added", "task_id", task.ID, "user_id", p.UserID)
	session(r).AddFlash(auth.FlashSuccess, "Task added!")
	redirect(w, r, "/dashboard")
}

// EditTaskPage отдаёт форму редактирования своей задачи
func (h *TaskHandler) EditTaskPage(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := taskID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	task, err := h.taskUseCase.GetTask(r.Context(), p.UserID, id)
	if err != nil {
		h.handleEditError(w, r, err)
		return
	}

	in := usecase.TaskInput{Title: task.Title, Description: task.Description, Priority: string(task.Priority)}
	h.render.Render(w, r, http.StatusOK, "task_form", "Edit task", newTaskFormView(r.URL.Path, "Save", in))
}

// EditTask сохраняет изменения задачи
func (h *TaskHandler) EditTask(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := taskID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	in, err := parseTaskInput(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if _, err := h.taskUseCase.EditTask(r.Context(), p.UserID, id, in); err != nil {
		if domain.IsValidationError(err) {
			session(r).AddFlash(auth.FlashError, err.Error())
			h.render.Render(w, r, http.StatusOK, "task_form", "Edit task", newTaskFormView(r.URL.Path, "Save", in))
			return
		}
		h.handleEditError(w, r, err)
		return
	}

	session(r).AddFlash(auth.FlashSuccess, "Task updated!")
	redirect(w, r, "/dashboard")
}

func (h *TaskHandler) handleEditError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		session(r).AddFlash(auth.FlashError, "Task not found")
		redirect(w, r, "/dashboard")
		return
	}
	serverError(w, h.logger, "failed to edit task", err)
}

// ToggleTask переключает completed; чужая задача молча игнорируется
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := taskID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	task, err := h.taskUseCase.ToggleTask(r.Context(), p.UserID, id)
	if err != nil {
		serverError(w, h.logger, "failed to toggle task", err)
		return
	}
	if task != nil {
		if task.Completed {
			session(r).AddFlash(auth.FlashSuccess, "Task completed!")
		} else {
			session(r).AddFlash(auth.FlashSuccess, "Task reopened!")
		}
	}
	redirect(w, r, "/dashboard")
}

// DeleteTask удаляет задачу; чужая задача молча игнорируется
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, ok := taskID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	deleted, err := h.taskUseCase.DeleteTask(r.Context(), p.UserID, id)
	if err != nil {
		serverError(w, h.logger, "failed to delete task", err)
		return
	}
	if deleted {
		session(r).AddFlash(auth.FlashSuccess, "Task deleted!")
	}
	redirect(w, r, "/dashboard")
}
