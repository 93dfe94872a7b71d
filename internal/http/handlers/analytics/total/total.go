// Package total реализует HTTP-обработчик сумм расходов по месяцам.
package total

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

// Service считает суммы по месяцам.
type Service interface {
	MonthlyTotals(ctx context.Context, caller models.Identity) (map[string]float64, error)
}

// Handler отдаёт суммы расходов по месяцам dueDate.
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
// @Summary Суммы расходов по месяцам
// @Description Ключ — месяц dueDate в формате YYYY-MM (UTC).
// @Tags Analytics
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /analytics/total-expenses [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.total"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, err := middlewarectx.RequireIdentity(r.Context())
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	totals, err := h.service.MonthlyTotals(r.Context(), identity)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"monthlyTotals": totals,
	}))
}
