// Package cache хранит в redis список отозванных токенов.
// Запись живёт до истечения срока действия токена и затем удаляется самим redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/expense-tracker/internal/config"
)

const revokedPrefix = "revoked:"

// Cache — список отзыва поверх redis.
type Cache struct {
	Db *redis.Client
}

// InitServer подключается к redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

// Revoke помечает токен tokenID отозванным до момента until.
// Токен с уже истёкшим сроком не записывается.
func (c *Cache) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	const op = "cache.Revoke"
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := c.Db.Set(ctx, revokedPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsRevoked сообщает, отозван ли токен tokenID.
func (c *Cache) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	const op = "cache.IsRevoked"
	err := c.Db.Get(ctx, revokedPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Close закрывает соединение с redis.
func (c *Cache) Close() error {
	return c.Db.Close()
}

// Noop используется, когда redis не настроен: токены действуют до истечения срока.
type Noop struct{}

// Revoke ничего не делает.
func (Noop) Revoke(context.Context, string, time.Time) error { return nil }

// IsRevoked всегда возвращает false.
func (Noop) IsRevoked(context.Context, string) (bool, error) { return false, nil }
