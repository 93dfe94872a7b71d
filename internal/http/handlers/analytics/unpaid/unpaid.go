// Package unpaid реализует HTTP-обработчик сводки ближайших неоплаченных расходов.
package unpaid

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

// Service возвращает ближайшие неоплаченные расходы.
type Service interface {
	UnpaidSummary(ctx context.Context, caller models.Identity) ([]*models.Expense, error)
}

// Handler отдаёт сводку неоплаченных расходов.
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
// @Summary Ближайшие неоплаченные расходы
// @Description До трёх неоплаченных расходов с самым ранним dueDate.
// @Tags Analytics
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /analytics/unpaid-summary [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.unpaid"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, err := middlewarectx.RequireIdentity(r.Context())
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	items, err := h.service.UnpaidSummary(r.Context(), identity)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"unpaidExpenses": items,
	}))
}
