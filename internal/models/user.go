// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и фото профиля.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID             string    // Уникальный идентификатор пользователя (uuid)
	Name           string    // Имя
	Email          string    // Электронная почта (уникальная)
	PasswordHash   string    // Хэш пароля пользователя, наружу не отдаётся
	ProfilePicture []byte    // Фото профиля, может отсутствовать
	CreatedAt      time.Time // Дата регистрации
}

// PublicUser — безопасная проекция пользователя для ответов API.
type PublicUser struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture []byte `json:"profilePicture"`
}

// Public возвращает проекцию пользователя без хэша пароля.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
	}
}

// RegisterInput — данные для регистрации.
type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	ProfilePicture []byte
}

// ProfileUpdate — частичное обновление профиля, nil означает «не менять».
type ProfileUpdate struct {
	Name           *string
	Email          *string
	Password       *string
	ProfilePicture []byte
}

// Identity — идентичность запроса, полученная из токена.
type Identity struct {
	ID        string    // Идентификатор пользователя
	TokenID   string    // jti токена, используется для отзыва
	ExpiresAt time.Time // Срок действия токена
}
