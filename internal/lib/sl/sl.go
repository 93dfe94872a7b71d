// Package sl содержит вспомогательные функции для работы с логгером slog.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
// Для nil-ошибки возвращается пустая строка, чтобы не паниковать в defer-логах.
//
// Пример:
//
//	log.Error("failed to create expense", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Op возвращает атрибут с именем операции, который добавляется в каждый лог обработчика.
func Op(op string) slog.Attr {
	return slog.String("op", op)
}
