package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/TodoApp/internal/auth"
	"github.com/GoArmGo/TodoApp/internal/domain"
	"github.com/GoArmGo/TodoApp/internal/logger"
	"github.com/GoArmGo/TodoApp/internal/usecase"
)

func postForm(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestParseTaskInput(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want usecase.TaskInput
	}{
		{
			name: "trims title and description",
			form: url.Values{"title": {"  Buy milk "}, "description": {"\t2 l\n"}, "priority": {"high"}},
			want: usecase.TaskInput{Title: "Buy milk", Description: "2 l", Priority: "high"},
		},
		{
			name: "missing priority defaults to medium",
			form: url.Values{"title": {"x"}},
			want: usecase.TaskInput{Title: "x", Priority: "medium"},
		},
		{
			name: "empty priority stays empty",
			form: url.Values{"title": {"x"}, "priority": {""}},
			want: usecase.TaskInput{Title: "x", Priority: ""},
		},
		{
			name: "priority is not normalized",
			form: url.Values{"title": {"x"}, "priority": {"HIGH"}},
			want: usecase.TaskInput{Title: "x", Priority: "HIGH"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTaskInput(postForm(tt.form))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCredentials(t *testing.T) {
	username, password, err := parseCredentials(postForm(url.Values{"username": {" alice "}, "password": {" p w "}}))
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
	assert.Equal(t, " p w ", password)
}

func TestTaskID(t *testing.T) {
	withParam := func(v string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", v)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	id, ok := taskID(withParam("42"))
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	for _, v := range []string{"0", "99999999999999999999", "abc", ""} {
		_, ok := taskID(withParam(v))
		assert.False(t, ok, v)
	}
}

func newManager(t *testing.T) *auth.Manager {
	t.Helper()
	m, err := auth.NewManager(auth.ManagerConfig{Secret: "s", TTL: time.Hour, CookieName: "sid"})
	require.NoError(t, err)
	return m
}

func TestSessions_SavesModifiedSessionBeforeHeaders(t *testing.T) {
	m := newManager(t)
	h := Sessions(m, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc, ok := auth.FromContext(r.Context())
		require.True(t, ok)
		assert.False(t, rc.Authenticated())

		sess := auth.SessionFrom(r.Context())
		sess.Login(9, "zoe")
		redirect(w, r, "/dashboard")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusFound, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	// следующий запрос с этим cookie аутентифицирован
	var seen auth.RequestContext
	h2 := Sessions(m, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.FromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h2.ServeHTTP(rec, req)
	assert.Equal(t, int64(9), seen.UserID)
	assert.Equal(t, "zoe", seen.Username)
	// сессия не менялась, cookie не переписывается
	assert.Empty(t, rec.Result().Cookies())
}

type stubAuth struct {
	usecase.AuthUseCase
	users map[int64]*domain.User
}

func (s stubAuth) CurrentUser(_ context.Context, id int64) (*domain.User, error) {
	return s.users[id], nil
}

func TestRequireAuth(t *testing.T) {
	m := newManager(t)
	stub := stubAuth{users: map[int64]*domain.User{1: {ID: 1, Username: "alice"}}}

	var reached bool
	h := Sessions(m, logger.Discard())(RequireAuth(stub, logger.Discard())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { reached = true }),
	))

	withSession := func(userID int64) *http.Request {
		s := &auth.Session{ID: "sid-1", UserID: userID, Username: "alice"}
		token, err := m.Encode(s)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: "sid", Value: token})
		return req
	}

	t.Run("anonymous", func(t *testing.T) {
		reached = false
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		assert.False(t, reached)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("authenticated", func(t *testing.T) {
		reached = false
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withSession(1))
		assert.True(t, reached)
	})

	t.Run("deleted user", func(t *testing.T) {
		reached = false
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withSession(2))
		assert.False(t, reached)
		assert.Equal(t, "/login", rec.Header().Get("Location"))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		s, err := m.Decode(cookies[0].Value)
		require.NoError(t, err)
		assert.False(t, s.Authenticated())
		require.Len(t, s.Flashes, 1)
		assert.Equal(t, auth.FlashWarning, s.Flashes[0].Category)
	})
}

func TestRenderer_ConsumesFlashes(t *testing.T) {
	rd, err := NewRenderer(logger.Discard())
	require.NoError(t, err)

	sess := &auth.Session{ID: "x"}
	sess.AddFlash(auth.FlashError, "<b>boom</b>")
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req = req.WithContext(auth.WithSession(req.Context(), sess))

	rec := httptest.NewRecorder()
	rd.Render(rec, req, http.StatusOK, "login", "Log in", authForm{Username: `a"b`})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, `flash-error`)
	assert.Contains(t, body, "&lt;b&gt;boom&lt;/b&gt;")
	assert.NotContains(t, body, `value="a"b"`)
	assert.Empty(t, sess.Flashes)
	assert.True(t, sess.Modified())
}

func TestRenderer_DashboardCounts(t *testing.T) {
	rd, err := NewRenderer(logger.Discard())
	require.NoError(t, err)

	list := domain.NewTaskList([]domain.Task{
		{ID: 1, Title: "a", Priority: domain.PriorityLow, Completed: true},
		{ID: 2, Title: "b", Priority: domain.PriorityHigh},
	})
	rec := httptest.NewRecorder()
	rd.Render(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil), http.StatusOK, "dashboard", "Dashboard",
		dashboardView{Username: "alice", List: list})

	body := rec.Body.String()
	assert.Contains(t, body, `data-total="2"`)
	assert.Contains(t, body, `data-completed="1"`)
	assert.Contains(t, body, `data-pending="1"`)
	assert.Contains(t, body, `href="/toggle-task/2"`)
}
