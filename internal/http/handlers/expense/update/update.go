// Package update реализует HTTP-обработчик частичного обновления расхода.
// Поля, отсутствующие в JSON, сохраняют прежние значения.
package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/expense-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/expense-tracker/internal/http/request"
	"github.com/magabrotheeeer/expense-tracker/internal/http/response"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
)

// Service обновляет расход владельца.
type Service interface {
	Update(ctx context.Context, caller models.Identity, id string, req models.DummyExpenseUpdate) (*models.Expense, error)
}

// Handler обрабатывает обновление расхода.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: request.NewValidator(),
	}
}

// ServeHTTP godoc
// @Summary Обновить расход
// @Tags Expenses
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID расхода (uuid)"
// @Param request body models.DummyExpenseUpdate true "Изменяемые поля"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Расход не найден"
// @Router /expenses/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.update"
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

	var req models.DummyExpenseUpdate
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Fail(w, r, log, err)
		return
	}
	if err := request.Validate(h.validate, req); err != nil {
		response.Fail(w, r, log, err)
		return
	}

	updated, err := h.service.Update(r.Context(), identity, id, req)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("expense updated", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"updatedExpense": updated,
	}))
}
