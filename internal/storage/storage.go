// Package storage содержит общие ошибки слоя хранения данных.
// Реализации (repository) возвращают их, сервисы переводят в бизнес-ошибки.
package storage

import "errors"

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("record not found")
	// ErrEmailTaken — нарушено ограничение уникальности email.
	ErrEmailTaken = errors.New("email already taken")
)
