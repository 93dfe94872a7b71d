// Package register реализует HTTP-обработчик регистрации пользователя.
//
// Принимает multipart/form-data (name, email, password и необязательный файл profilePicture)
// или JSON, валидирует поля и создаёт пользователя через Service.
package register

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/expense-tracker/internal/http/request"
	"github.com/magabrotheeeer/expense-tracker/internal/http/response"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
)

// Request — входные данные для регистрации.
type Request struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, in models.RegisterInput) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы на регистрацию.
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
// @Summary Регистрация пользователя
// @Description Создаёт пользователя. Фото профиля необязательно, размер ограничен настройкой upload.max_file_size.
// @Tags Auth
// @Accept  multipart/form-data
// @Produce  json
// @Param name formData string true "Имя"
// @Param email formData string true "Email"
// @Param password formData string true "Пароль, минимум 6 символов"
// @Param profilePicture formData file false "Фото профиля"
// @Success 201 {object} response.Response "Пользователь создан"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 409 {object} response.ErrorResponse "Email уже занят"
// @Failure 413 {object} response.ErrorResponse "Файл слишком большой"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	form, err := request.ParseProfileForm(w, r, h.maxFileSize)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	req := Request{
		Name:     deref(form.Name),
		Email:    deref(form.Email),
		Password: deref(form.Password),
	}
	if err := request.Validate(h.validate, req); err != nil {
		response.Fail(w, r, log, err)
		return
	}
	log.Info("all fields are validated", slog.String("email", req.Email))

	user, err := h.service.Register(r.Context(), models.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		ProfilePicture: form.ProfilePicture,
	})
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	log.Info("user registered", slog.String("user_id", user.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "user registered successfully",
		"user":    user.Public(),
	}))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
