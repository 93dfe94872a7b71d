// Package password реализует хеширование и проверку паролей.
//
// GetHash создает bcrypt-хеш пароля с фиксированной стоимостью Cost.
// CompareHash сравнивает хеш с введённым паролем; bcrypt выполняет сравнение
// за время, не зависящее от позиции несовпадения.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost — work factor bcrypt. Меняется только вместе с миграцией хешей.
const Cost = 10

// GetHash принимает пароль пользователя и возвращает его bcrypt‑хэш.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает nil, если пароль соответствует хэшу, иначе — ошибку.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
