package middlewarectx_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/expense-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/expense-tracker/internal/http/response"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
)

// Mock for Validator
type ValidatorMock struct {
	mock.Mock
}

func (m *ValidatorMock) ValidateToken(ctx context.Context, token string) (*models.Identity, error) {
	args := m.Called(ctx, token)
	id, _ := args.Get(0).(*models.Identity)
	return id, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		setupMock      func(m *ValidatorMock)
		wantStatusCode int
		wantError      string
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			authHeader:     "",
			setupMock:      func(_ *ValidatorMock) {},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "missing or invalid authorization header",
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			setupMock:      func(_ *ValidatorMock) {},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "missing or invalid authorization header",
		},
		{
			name:           "empty bearer token",
			authHeader:     "Bearer ",
			setupMock:      func(_ *ValidatorMock) {},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "missing or invalid authorization header",
		},
		{
			name:       "invalid token",
			authHeader: "Bearer token",
			setupMock: func(m *ValidatorMock) {
				m.On("ValidateToken", mock.Anything, "token").Return(nil, apperr.ErrUnauthorized).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "invalid or expired token",
		},
		{
			name:       "revocation store failure",
			authHeader: "Bearer token",
			setupMock: func(m *ValidatorMock) {
				m.On("ValidateToken", mock.Anything, "token").
					Return(nil, apperr.Internal(errors.New("redis down"))).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal server error",
		},
		{
			name:       "valid token",
			authHeader: "Bearer validtoken",
			setupMock: func(m *ValidatorMock) {
				m.On("ValidateToken", mock.Anything, "validtoken").
					Return(&models.Identity{ID: "uid-ana", TokenID: "jti-1"}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := new(ValidatorMock)
			tt.setupMock(validator)

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				id, ok := middlewarectx.IdentityFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, "uid-ana", id.ID)
				assert.Equal(t, "jti-1", id.TokenID)
				w.WriteHeader(http.StatusOK)
			})
			handler := middlewarectx.JWTMiddleware(validator, newNoopLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatusCode, rr.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			if tt.wantError != "" {
				var body response.ErrorResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, tt.wantError, body.Error)
			}
			validator.AssertExpectations(t)
		})
	}
}

func TestIdentityFromContext(t *testing.T) {
	_, ok := middlewarectx.IdentityFromContext(context.Background())
	assert.False(t, ok)

	_, err := middlewarectx.RequireIdentity(context.Background())
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	ctx := middlewarectx.WithIdentity(context.Background(), models.Identity{ID: "uid-ana"})
	id, ok := middlewarectx.IdentityFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "uid-ana", id.ID)
}
