package logout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/expense-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Logout(ctx context.Context, id models.Identity) error {
	return m.Called(ctx, id).Error(0)
}

func TestLogoutHandler(t *testing.T) {
	identity := models.Identity{ID: "uid-ana", TokenID: "jti-1"}

	tests := []struct {
		name       string
		identity   *models.Identity
		mockErr    error
		wantStatus int
	}{
		{name: "revoked", identity: &identity, wantStatus: http.StatusOK},
		{name: "no identity", wantStatus: http.StatusUnauthorized},
		{name: "store failure", identity: &identity, mockErr: apperr.Internal(errors.New("redis down")),
			wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.identity != nil {
				svc.On("Logout", mock.Anything, *tt.identity).Return(tt.mockErr).Once()
			}
			h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)

			req := httptest.NewRequest(http.MethodPost, "/logout", nil)
			if tt.identity != nil {
				req = req.WithContext(middlewarectx.WithIdentity(req.Context(), *tt.identity))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
