// Package apperr описывает закрытый набор бизнес-ошибок приложения.
//
// Ошибка создаётся в месте обнаружения (сервис, middleware, парсер запроса)
// и переводится в HTTP-ответ ровно в одном месте — response.Fail.
package apperr

import (
	"errors"
	"fmt"
)

// Kind — вид бизнес-ошибки.
type Kind int

const (
	// KindInternal — непредвиденная ошибка, детали клиенту не раскрываются.
	KindInternal Kind = iota
	// KindUnauthorized — нет токена, токен невалиден или истёк.
	KindUnauthorized
	// KindNotFound — ресурс не найден или принадлежит другому пользователю.
	KindNotFound
	// KindConflict — конфликт уникальности (email уже занят).
	KindConflict
	// KindInvalidCredentials — неверная пара email/пароль.
	KindInvalidCredentials
	// KindValidation — некорректные входные данные.
	KindValidation
	// KindPayloadTooLarge — загружаемый файл больше допустимого размера.
	KindPayloadTooLarge
	// KindAlreadyPaid — расход уже отмечен как оплаченный.
	KindAlreadyPaid
)

var kindNames = map[Kind]string{
	KindInternal:           "internal",
	KindUnauthorized:       "unauthorized",
	KindNotFound:           "not_found",
	KindConflict:           "conflict",
	KindInvalidCredentials: "invalid_credentials",
	KindValidation:         "validation",
	KindPayloadTooLarge:    "payload_too_large",
	KindAlreadyPaid:        "already_paid",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Error — типизированная бизнес-ошибка.
// Message безопасно отдавать клиенту, Err — внутренняя причина, только для логов.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is сравнивает ошибки по виду и сообщению, чтобы errors.Is работал
// с предопределёнными ошибками даже после Wrap.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// New создаёт ошибку заданного вида.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap создаёт ошибку заданного вида с внутренней причиной.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// Validation создаёт ошибку валидации с сообщением по полям.
func Validation(msg string) *Error {
	return New(KindValidation, msg)
}

// Internal оборачивает непредвиденную ошибку.
func Internal(err error) *Error {
	return Wrap(KindInternal, ErrInternal.Message, err)
}

// As достаёт *Error из цепочки ошибок.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf возвращает вид ошибки. Ошибки вне пакета считаются KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Предопределённые ошибки. Сообщения одинаковы для всех вызывающих,
// поэтому тела ответов совпадают побайтно.
var (
	ErrInternal           = New(KindInternal, "internal server error")
	ErrUnauthorized       = New(KindUnauthorized, "invalid or expired token")
	ErrMissingToken       = New(KindUnauthorized, "missing or invalid authorization header")
	ErrInvalidCredentials = New(KindInvalidCredentials, "invalid email or password")
	ErrEmailInUse         = New(KindConflict, "email already in use")
	ErrExpenseNotFound    = New(KindNotFound, "expense not found")
	ErrUserNotFound       = New(KindNotFound, "user not found")
	ErrAlreadyPaid        = New(KindAlreadyPaid, "expense is already marked as paid")
)

// FileTooLarge сообщает о превышении лимита загрузки, limit — в байтах.
func FileTooLarge(limit int64) *Error {
	return New(KindPayloadTooLarge,
		fmt.Sprintf("file too large, maximum allowed size is %dMB", limit>>20))
}
