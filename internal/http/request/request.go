// Package request содержит разбор и валидацию входящих HTTP-запросов:
// JSON-тела, multipart-формы профиля и параметра id в пути.
// Все ошибки возвращаются как apperr, чтобы их перевёл в ответ response.Fail.
package request

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/expense-tracker/internal/http/response"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/apperr"
)

// ErrInvalidBody — тело запроса не удалось разобрать.
var ErrInvalidBody = apperr.Validation("invalid request body")

// NewValidator создаёт валидатор, который называет поля по json-тегам.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate проверяет структуру s и возвращает ошибку валидации с текстом по полям.
func Validate(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperr.Validation(response.ValidationMessage(verrs))
	}
	return apperr.Internal(err)
}

// DecodeJSON читает JSON-тело в dst.
func DecodeJSON(r *http.Request, dst any) error {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		return apperr.Wrap(apperr.KindValidation, ErrInvalidBody.Message, err)
	}
	return nil
}

// ExpenseID возвращает параметр {id} из пути, если это UUID.
func ExpenseID(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperr.Wrap(apperr.KindValidation, "invalid expense id", err)
	}
	return id.String(), nil
}
