// Package models содержит доменные структуры расходов,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Expense представляет собой основную модель расхода,
// используемую в бизнес-логике и хранилище.
// UserID задаётся при создании и больше не меняется.
type Expense struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Amount      float64   `json:"amount"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	IsPaid      bool      `json:"isPaid"`
	DueDate     time.Time `json:"dueDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DummyExpense используется для приёма данных из JSON-запроса на создание,
// прежде чем конвертировать их в Expense. Дата приходит строкой.
type DummyExpense struct {
	Amount      *float64 `json:"amount" validate:"required"`
	Title       string   `json:"title" validate:"required,min=6"`
	Description string   `json:"description" validate:"omitempty,min=6"`
	Category    string   `json:"category" validate:"omitempty,min=3"`
	IsPaid      bool     `json:"isPaid"`
	DueDate     string   `json:"dueDate" validate:"required"`
}

// DummyExpenseUpdate — частичное обновление расхода, отсутствующие поля не меняются.
type DummyExpenseUpdate struct {
	Amount      *float64 `json:"amount"`
	Title       *string  `json:"title" validate:"omitempty,min=6"`
	Description *string  `json:"description" validate:"omitempty,min=6"`
	Category    *string  `json:"category" validate:"omitempty,min=3"`
	IsPaid      *bool    `json:"isPaid"`
	DueDate     *string  `json:"dueDate"`
}

// ExpenseUpdate — провалидированное частичное обновление.
type ExpenseUpdate struct {
	Amount      *float64
	Title       *string
	Description *string
	Category    *string
	IsPaid      *bool
	DueDate     *time.Time
}

// Сортировка списка расходов.
const (
	SortByDueDate = "dueDate"
	SortByTitle   = "title"
	SortAsc       = "asc"
	SortDesc      = "desc"
)

// ExpenseFilter — параметры выборки расходов пользователя.
type ExpenseFilter struct {
	UserID    string
	Search    string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

// ExpensePage — страница списка расходов.
type ExpensePage struct {
	Expenses      []*Expense `json:"expenses"`
	TotalExpenses int        `json:"totalExpenses"`
	CurrentPage   int        `json:"currentPage"`
	TotalPages    int        `json:"totalPages"`
}

// Progress — число оплаченных расходов из общего числа за месяц.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// ExpenseListQuery — параметры запроса списка расходов.
type ExpenseListQuery struct {
	Page      int    `json:"page" validate:"required,min=1"`
	Size      int    `json:"size" validate:"required,min=1"`
	Search    string `json:"search"`
	SortBy    string `json:"sortBy" validate:"omitempty,oneof=title dueDate"`
	SortOrder string `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}
