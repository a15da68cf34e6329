package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Категории flash-сообщений
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// Flash показывается один раз, на следующей отрисованной странице
type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// Session хранит изменяемое состояние сессии на время одного запроса
type Session struct {
	ID       string
	UserID   int64
	Username string
	Flashes  []Flash

	modified bool
}

func newSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// Authenticated сообщает, привязана ли сессия к пользователю
func (s *Session) Authenticated() bool {
	return s.UserID != 0
}

// Login переводит сессию в состояние authenticated(userID).
// Идентификатор сессии при этом меняется.
func (s *Session) Login(userID int64, username string) {
	s.ID = uuid.NewString()
	s.UserID = userID
	s.Username = username
	s.modified = true
}

// Clear сбрасывает всё состояние сессии, включая flash-сообщения
func (s *Session) Clear() {
	s.ID = uuid.NewString()
	s.UserID = 0
	s.Username = ""
	s.Flashes = nil
	s.modified = true
}

// AddFlash добавляет сообщение в очередь
func (s *Session) AddFlash(category, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
	s.modified = true
}

// PopFlashes возвращает накопленные сообщения и очищает очередь
func (s *Session) PopFlashes() []Flash {
	if len(s.Flashes) == 0 {
		return nil
	}
	flashes := s.Flashes
	s.Flashes = nil
	s.modified = true
	return flashes
}

// Modified сообщает, нужно ли перезаписать cookie
func (s *Session) Modified() bool {
	return s.modified
}

// RequestContext возвращает неизменяемый снимок сессии
func (s *Session) RequestContext() RequestContext {
	return RequestContext{SessionID: s.ID, UserID: s.UserID, Username: s.Username}
}

func (s *Session) empty() bool {
	return !s.Authenticated() && len(s.Flashes) == 0
}

// ManagerConfig описывает параметры cookie сессии
type ManagerConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// Manager хранит сессию в cookie в виде JWT, подписанного HS256
type Manager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time
}

type sessionClaims struct {
	UserID   int64   `json:"uid,omitempty"`
	Username string  `json:"usr,omitempty"`
	Flashes  []Flash `json:"fl,omitempty"`
	jwt.RegisteredClaims
}

// NewManager создаёт Manager
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("пустой секрет сессии")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("некорректный TTL сессии: %s", cfg.TTL)
	}
	if cfg.CookieName == "" {
		return nil, errors.New("пустое имя cookie сессии")
	}
	return &Manager{
		secret:     []byte(cfg.Secret),
		ttl:        cfg.TTL,
		cookieName: cfg.CookieName,
		secure:     cfg.Secure,
		now:        time.Now,
	}, nil
}

// Load читает сессию из cookie запроса.
// Отсутствующий, просроченный или подделанный cookie даёт новую анонимную сессию.
func (m *Manager) Load(r *http.Request) *Session {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return newSession()
	}
	s, err := m.Decode(c.Value)
	if err != nil {
		// старый cookie нужно затереть
		s = newSession()
		s.modified = true
	}
	return s
}

// Save записывает сессию в cookie. Пустая сессия удаляет cookie.
func (m *Manager) Save(w http.ResponseWriter, s *Session) error {
	if s.empty() {
		http.SetCookie(w, m.cookie("", -1, time.Unix(0, 0)))
		s.modified = false
		return nil
	}

	token, err := m.Encode(s)
	if err != nil {
		return err
	}
	http.SetCookie(w, m.cookie(token, int(m.ttl.Seconds()), m.now().Add(m.ttl)))
	s.modified = false
	return nil
}

func (m *Manager) cookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Encode подписывает сессию
func (m *Manager) Encode(s *Session) (string, error) {
	now := m.now()
	claims := sessionClaims{
		UserID:   s.UserID,
		Username: s.Username,
		Flashes:  s.Flashes,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("не удалось подписать сессию: %w", err)
	}
	return token, nil
}

// Decode проверяет подпись и срок действия и восстанавливает сессию
func (m *Manager) Decode(token string) (*Session, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("недействительная сессия: %w", err)
	}
	if claims.ID == "" {
		return nil, errors.New("недействительная сессия: нет идентификатора")
	}
	return &Session{
		ID:       claims.ID,
		UserID:   claims.UserID,
		Username: claims.Username,
		Flashes:  claims.Flashes,
	}, nil
}
