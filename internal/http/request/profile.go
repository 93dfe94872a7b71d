package request

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/expense-tracker/internal/lib/apperr"
)

// ProfilePictureField — имя файла фото профиля в multipart-форме.
const ProfilePictureField = "profilePicture"

// multipartOverhead — запас на остальные поля формы и границы multipart.
const multipartOverhead = 1 << 20

// ProfileForm — поля профиля из формы регистрации или обновления.
// nil означает, что поле не передано.
type ProfileForm struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Password       *string `json:"password"`
	ProfilePicture []byte  `json:"profilePicture"`
}

// ParseProfileForm разбирает multipart/form-data или JSON с полями профиля.
// Файл больше maxFileSize даёт ошибку apperr.KindPayloadTooLarge.
func ParseProfileForm(w http.ResponseWriter, r *http.Request, maxFileSize int64) (*ProfileForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFileSize+multipartOverhead)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if render.GetRequestContentType(r) == render.ContentTypeJSON {
		form := &ProfileForm{}
		if err := render.DecodeJSON(r.Body, form); err != nil {
			return nil, bodyError(err, maxFileSize)
		}
		if int64(len(form.ProfilePicture)) > maxFileSize {
			return nil, apperr.FileTooLarge(maxFileSize)
		}
		return form, nil
	}
	if mediaType != "multipart/form-data" && mediaType != "application/x-www-form-urlencoded" {
		return nil, apperr.Validation("content type must be multipart/form-data or application/json")
	}

	if err := r.ParseMultipartForm(maxFileSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, bodyError(err, maxFileSize)
	}

	form := &ProfileForm{
		Name:     formValue(r, "name"),
		Email:    formValue(r, "email"),
		Password: formValue(r, "password"),
	}

	file, header, err := r.FormFile(ProfilePictureField)
	switch {
	case errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart):
		return form, nil
	case err != nil:
		return nil, bodyError(err, maxFileSize)
	}
	defer func() {
		_ = file.Close()
	}()

	if header.Size > maxFileSize {
		return nil, apperr.FileTooLarge(maxFileSize)
	}
	data, err := io.ReadAll(io.LimitReader(file, maxFileSize+1))
	if err != nil {
		return nil, bodyError(err, maxFileSize)
	}
	if int64(len(data)) > maxFileSize {
		return nil, apperr.FileTooLarge(maxFileSize)
	}
	form.ProfilePicture = data
	return form, nil
}

func formValue(r *http.Request, key string) *string {
	if r.MultipartForm != nil {
		if vals, ok := r.MultipartForm.Value[key]; ok && len(vals) > 0 {
			v := strings.TrimSpace(vals[0])
			return &v
		}
		return nil
	}
	if vals, ok := r.PostForm[key]; ok && len(vals) > 0 {
		v := strings.TrimSpace(vals[0])
		return &v
	}
	return nil
}

func bodyError(err error, maxFileSize int64) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperr.FileTooLarge(maxFileSize)
	}
	return apperr.Wrap(apperr.KindValidation, ErrInvalidBody.Message, err)
}
