package progress

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/expense-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) PaymentProgress(ctx context.Context, caller models.Identity) (map[string]models.Progress, error) {
	args := m.Called(ctx, caller)
	p, _ := args.Get(0).(map[string]models.Progress)
	return p, args.Error(1)
}

func TestProgressHandler(t *testing.T) {
	ana := models.Identity{ID: "uid-ana"}
	svc := new(ServiceMock)
	svc.On("PaymentProgress", mock.Anything, ana).
		Return(map[string]models.Progress{"2024-05": {Current: 1, Total: 3}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/analytics/progress", nil)
	req = req.WithContext(middlewarectx.WithIdentity(req.Context(), ana))
	rec := httptest.NewRecorder()
	New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Data struct {
			Progress map[string]models.Progress `json:"progress"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.Progress{Current: 1, Total: 3}, got.Data.Progress["2024-05"])
	svc.AssertExpectations(t)
}

func TestProgressHandler_NoIdentity(t *testing.T) {
	svc := new(ServiceMock)
	rec := httptest.NewRecorder()
	New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analytics/progress", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "PaymentProgress", mock.Anything, mock.Anything)
}
