// Package list реализует HTTP-обработчик постраничного списка расходов пользователя
// с поиском по названию и сортировкой.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/expense-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/expense-tracker/internal/http/request"
	"github.com/magabrotheeeer/expense-tracker/internal/http/response"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
)

// Service описывает интерфейс получения страницы расходов.
type Service interface {
	List(ctx context.Context, caller models.Identity, q models.ExpenseListQuery) (*models.ExpensePage, error)
}

// Handler обрабатывает запросы списка расходов.
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
// @Summary Список расходов
// @Description Возвращает страницу расходов текущего пользователя.
// @Tags Expenses
// @Produce  json
// @Security BearerAuth
// @Param page query int true "Номер страницы, с 1"
// @Param size query int true "Размер страницы"
// @Param search query string false "Подстрока названия, без учёта регистра"
// @Param sortBy query string false "title или dueDate"
// @Param sortOrder query string false "asc или desc"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /expenses [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, err := middlewarectx.RequireIdentity(r.Context())
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	query := r.URL.Query()
	page, pageErr := strconv.Atoi(query.Get("page"))
	size, sizeErr := strconv.Atoi(query.Get("size"))
	if pageErr != nil || sizeErr != nil {
		response.Fail(w, r, log, apperr.Validation("page and size must be positive integers"))
		return
	}
	q := models.ExpenseListQuery{
		Page:      page,
		Size:      size,
		Search:    query.Get("search"),
		SortBy:    query.Get("sortBy"),
		SortOrder: query.Get("sortOrder"),
	}
	if err := request.Validate(h.validate, q); err != nil {
		response.Fail(w, r, log, err)
		return
	}

	result, err := h.service.List(r.Context(), identity, q)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("expenses listed", slog.Int("count", len(result.Expenses)), slog.Int("total", result.TotalExpenses))
	render.JSON(w, r, response.StatusOKWithData(result))
}
