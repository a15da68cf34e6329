package auth

import (
	"context"

	"github.com/GoArmGo/TodoApp/internal/domain"
)

// RequestContext является неизменяемым снимком сессии для текущего запроса
type RequestContext struct {
	SessionID string
	UserID    int64
	Username  string
}

// Authenticated сообщает, вошёл ли пользователь
func (rc RequestContext) Authenticated() bool {
	return rc.UserID != 0
}

// Principal описывает пользователя, от имени которого выполняется запрос
type Principal struct {
	UserID   int64
	Username string
}

type requestContextKey struct{}
type sessionKey struct{}

// WithRequestContext сохраняет RequestContext в контексте
func WithRequestContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// FromContext достаёт RequestContext из контекста (если он есть)
func FromContext(ctx context.Context) (RequestContext, bool) {
	rc, ok := ctx.Value(requestContextKey{}).(RequestContext)
	return rc, ok
}

// WithSession сохраняет изменяемую сессию в контексте
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom возвращает сессию запроса или nil
func SessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}

// Require возвращает Principal или domain.ErrNotAuthenticated для анонимного запроса
func Require(ctx context.Context) (Principal, error) {
	rc, ok := FromContext(ctx)
	if !ok || !rc.Authenticated() {
		return Principal{}, domain.ErrNotAuthenticated
	}
	return Principal{UserID: rc.UserID, Username: rc.Username}, nil
}
