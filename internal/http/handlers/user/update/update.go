// Package update реализует HTTP-обработчик частичного обновления профиля (PUT /user).
//
// Переданные поля формы заменяют текущие значения, остальные не меняются.
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

// Request — поля профиля, nil означает «не менять».
type Request struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
}

// Service обновляет профиль.
type Service interface {
	UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error)
}

// Handler обрабатывает обновление профиля.
type Handler struct {
	log         *slog.Logger
	service     Service
	validate    *validator.Validate
	maxFileSize int64
}

// New создает Handler. maxFileSize — предел размера фото профиля в байтах.
func New(log *slog.Logger, service Service, maxFileSize int64) *Handler {
	return &Handler{
		log:         log,
		service:     service,
		validate:    request.NewValidator(),
		maxFileSize: maxFileSize,
	}
}

// ServeHTTP godoc
// @Summary Обновить профиль
// @Tags User
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param name formData string false "Имя"
// @Param email formData string false "Email"
// @Param password formData string false "Новый пароль"
// @Param profilePicture formData file false "Фото профиля"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Email уже занят"
// @Failure 413 {object} response.ErrorResponse "Файл слишком большой"
// @Router /user [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, err := middlewarectx.RequireIdentity(r.Context())
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	form, err := request.ParseProfileForm(w, r, h.maxFileSize)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	req := Request{Name: form.Name, Email: form.Email, Password: form.Password}
	if err := request.Validate(h.validate, req); err != nil {
		response.Fail(w, r, log, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), identity.ID, models.ProfileUpdate{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		ProfilePicture: form.ProfilePicture,
	})
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("profile updated", slog.String("user_id", user.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "profile updated successfully",
		"user":    user.Public(),
	}))
}
