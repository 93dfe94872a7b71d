// Package jwt реализует выпуск и проверку подписанных токенов идентичности.
//
// Maker определяет интерфейс для создания и проверки JWT с идентификатором пользователя.
// MakerImpl — реализация на HMAC-SHA256 с секретным ключом и сроком жизни.
package jwt

import (
	"errors"
	"time"
)

// DefaultTTL — срок жизни токена по умолчанию.
const DefaultTTL = 7 * 24 * time.Hour

// ErrInvalidToken возвращается, если подпись неверна, payload повреждён или срок истёк.
var ErrInvalidToken = errors.New("invalid token")

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	GenerateToken(userID string) (string, error)
	ParseToken(tokenStr string) (*Claims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey []byte           // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration    // Время жизни токена.
	now       func() time.Time // Источник времени, подменяется в тестах.
}

// Option настраивает MakerImpl.
type Option func(*MakerImpl)

// WithClock задаёт источник текущего времени для выпуска и проверки.
func WithClock(now func() time.Time) Option {
	return func(m *MakerImpl) {
		m.now = now
	}
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
// Нулевой ttl заменяется на DefaultTTL.
func NewJWTMaker(secretKey string, ttl time.Duration, opts ...Option) *MakerImpl {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	m := &MakerImpl{
		secretKey: []byte(secretKey),
		tokenTTL:  ttl,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL возвращает срок жизни выпускаемых токенов.
func (j *MakerImpl) TTL() time.Duration {
	return j.tokenTTL
}
