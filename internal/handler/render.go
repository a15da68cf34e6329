package handler

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/TodoApp/internal/auth"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"login", "register", "dashboard", "task_form"}

// Renderer отрисовывает HTML-страницы из встроенных шаблонов
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// page содержит данные, общие для всех страниц
type page struct {
	Title   string
	Session auth.RequestContext
	Flashes []auth.Flash
	Data    any
}

// NewRenderer разбирает шаблоны: каждая страница в паре с layout.html
func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("ошибка разбора шаблона %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages, logger: logger}, nil
}

// Render отрисовывает страницу и забирает из сессии накопленные flash-сообщения
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	tmpl, ok := rd.pages[name]
	if !ok {
		rd.logger.Error("unknown template", "template", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	p := page{Title: title, Data: data}
	if sess := auth.SessionFrom(r.Context()); sess != nil {
		p.Session = sess.RequestContext()
		p.Flashes = sess.PopFlashes()
	}

	// сначала в буфер, чтобы ошибка шаблона не оставила полуотрисованную страницу
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		rd.logger.Error("failed to render template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		rd.logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// redirect отвечает 302 Found
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusFound)
}

func serverError(w http.ResponseWriter, logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// session возвращает сессию запроса; без middleware Sessions её нет, это ошибка сборки роутера
func session(r *http.Request) *auth.Session {
	if s := auth.SessionFrom(r.Context()); s != nil {
		return s
	}
	panic("handler: session middleware is not installed")
}
