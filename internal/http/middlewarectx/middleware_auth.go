// Package middlewarectx содержит HTTP middleware для проверки JWT токенов
// и передачи идентичности запроса через context.
//
// JWTMiddleware проверяет заголовок Authorization: Bearer <token>, валидирует токен
// через Validator и кладёт models.Identity в контекст. При ошибке отвечает 401.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/expense-tracker/internal/http/response"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// IdentityKey — ключ идентичности запроса в контексте.
const IdentityKey Key = "identity"

const bearerPrefix = "Bearer "

// Validator проверяет токен и возвращает идентичность.
type Validator interface {
	ValidateToken(ctx context.Context, token string) (*models.Identity, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
func JWTMiddleware(v Validator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
			if !strings.HasPrefix(authHeader, bearerPrefix) || tokenStr == "" {
				response.Fail(w, r, log, apperr.ErrMissingToken)
				return
			}

			identity, err := v.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				response.Fail(w, r, log, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), *identity)))
		})
	}
}

// WithIdentity возвращает контекст с идентичностью запроса.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// IdentityFromContext достаёт идентичность, положенную JWTMiddleware.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(models.Identity)
	if !ok || id.ID == "" {
		return models.Identity{}, false
	}
	return id, true
}

// RequireIdentity достаёт идентичность или возвращает apperr.ErrUnauthorized.
func RequireIdentity(ctx context.Context) (models.Identity, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return models.Identity{}, apperr.ErrUnauthorized
	}
	return id, nil
}
