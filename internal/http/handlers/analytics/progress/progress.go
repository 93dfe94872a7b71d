// Package progress реализует HTTP-обработчик прогресса оплаты по месяцам.
package progress

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/expense-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/expense-tracker/internal/http/response"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
)

// Service считает прогресс оплаты.
type Service interface {
	PaymentProgress(ctx context.Context, caller models.Identity) (map[string]models.Progress, error)
}

// Handler отдаёт число оплаченных расходов из общего по месяцам.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Прогресс оплаты по месяцам
// @Tags Analytics
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /analytics/expense-progress [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.progress"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, err := middlewarectx.RequireIdentity(r.Context())
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	progress, err := h.service.PaymentProgress(r.Context(), identity)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"progress": progress,
	}))
}
