package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt смотрит только на первые 72 байта и отвергает более длинные пароли
const bcryptMaxPasswordLen = 72

// Hasher хэширует и проверяет пароли через bcrypt
type Hasher struct {
	cost  int
	dummy []byte
}

// NewHasher создаёт Hasher с заданной стоимостью bcrypt.
// Заодно считается фиктивный хэш для VerifyDummy.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("недопустимая стоимость bcrypt: %d", cost)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), cost)
	if err != nil {
		return nil, fmt.Errorf("не удалось подготовить фиктивный хэш: %w", err)
	}
	return &Hasher{cost: cost, dummy: dummy}, nil
}

// Hash возвращает bcrypt-хэш пароля
func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(normalize(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("ошибка хэширования пароля: %w", err)
	}
	return string(hash), nil
}

// Verify сообщает, соответствует ли пароль хэшу
func (h *Hasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), normalize(password)) == nil
}

// VerifyDummy тратит столько же времени, сколько Verify, и всегда возвращает false.
// Используется при входе несуществующего пользователя.
func (h *Hasher) VerifyDummy(password string) bool {
	_ = bcrypt.CompareHashAndPassword(h.dummy, normalize(password))
	return false
}

// normalize сворачивает длинные пароли в SHA-256, чтобы bcrypt учитывал их целиком
func normalize(password string) []byte {
	if len(password) <= bcryptMaxPasswordLen {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
