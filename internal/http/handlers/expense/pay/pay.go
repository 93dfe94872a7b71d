// Package pay реализует HTTP-обработчик отметки расхода оплаченным.
// Повторная оплата отклоняется с 409.
package pay

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/expense-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/expense-tracker/internal/http/request"
	"github.com/magabrotheeeer/expense-tracker/internal/http/response"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
)

// Service отмечает расход оплаченным и возвращает его название.
type Service interface {
	Pay(ctx context.Context, caller models.Identity, id string) (string, error)
}

// Handler обрабатывает оплату расхода.
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
// @Summary Оплатить расход
// @Tags Expenses
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID расхода (uuid)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Расход не найден"
// @Failure 409 {object} response.ErrorResponse "Расход уже оплачен"
// @Router /expenses/{id}/pay [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.pay"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, err := middlewarectx.RequireIdentity(r.Context())
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	id, err := request.ExpenseID(r)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	title, err := h.service.Pay(r.Context(), identity, id)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("expense paid", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "expense marked as paid",
		"title":   title,
	}))
}
