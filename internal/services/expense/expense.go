// Package expense содержит бизнес-логику работы с расходами пользователя:
// создание, чтение, список, изменение, удаление, оплату и аналитику.
//
// Все операции над конкретным расходом проходят через Authorize.
package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/expense-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
	"github.com/magabrotheeeer/expense-tracker/internal/storage"
)

// Repository определяет методы для работы с расходами в хранилище.
type Repository interface {
	// CreateExpense добавляет расход и возвращает его ID.
	CreateExpense(ctx context.Context, e models.Expense) (string, error)
	// GetExpense возвращает расход по ID или storage.ErrNotFound.
	GetExpense(ctx context.Context, id string) (*models.Expense, error)
	// UpdateExpense перезаписывает изменяемые поля расхода.
	UpdateExpense(ctx context.Context, e models.Expense) error
	// DeleteExpense удаляет расход.
	DeleteExpense(ctx context.Context, id string) error
	// MarkPaid отмечает расход оплаченным, false — если он уже был оплачен.
	MarkPaid(ctx context.Context, id string) (bool, error)
	// ListExpenses возвращает страницу расходов и общее число по фильтру.
	ListExpenses(ctx context.Context, f models.ExpenseFilter) ([]*models.Expense, int, error)
	// ListUserExpenses возвращает все расходы пользователя.
	ListUserExpenses(ctx context.Context, userID string) ([]*models.Expense, error)
	// ListUnpaid возвращает ближайшие неоплаченные расходы.
	ListUnpaid(ctx context.Context, userID string, limit int) ([]*models.Expense, error)
}

// UserRepository нужен, чтобы не создавать расходы удалённому пользователю.
type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Service реализует бизнес-логику работы с расходами.
type Service struct {
	repo  Repository
	users UserRepository
	log   *slog.Logger
	now   func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, users UserRepository, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		users: users,
		log:   log,
		now:   time.Now,
	}
}

const dateLayout = "2006-01-02"

// ParseDueDate разбирает дату в формате YYYY-MM-DD или RFC 3339 и приводит её к UTC.
func ParseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, apperr.Validation("field dueDate must be a date in YYYY-MM-DD or RFC 3339 format")
	}
	return t.UTC(), nil
}

// Create создает расход владельца caller и возвращает его ID.
func (s *Service) Create(ctx context.Context, caller models.Identity, req models.DummyExpense) (string, error) {
	const op = "expense.Create"

	if req.Amount == nil {
		return "", apperr.Validation("field amount is required")
	}
	dueDate, err := ParseDueDate(req.DueDate)
	if err != nil {
		return "", err
	}
	if _, err := s.users.GetUserByID(ctx, caller.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", apperr.ErrUserNotFound
		}
		return "", apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}

	e := models.Expense{
		UserID:      caller.ID,
		Amount:      *req.Amount,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		IsPaid:      req.IsPaid,
		DueDate:     dueDate,
		CreatedAt:   s.now().UTC(),
	}
	id, err := s.repo.CreateExpense(ctx, e)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}

	s.log.Info("created new expense", slog.String("id", id), slog.String("user_id", caller.ID))
	return id, nil
}

// Read возвращает расход, если caller — его владелец.
func (s *Service) Read(ctx context.Context, caller models.Identity, id string) (*models.Expense, error) {
	return s.owned(ctx, caller, id, "expense.Read")
}

// List возвращает страницу расходов caller.
func (s *Service) List(ctx context.Context, caller models.Identity, q models.ExpenseListQuery) (*models.ExpensePage, error) {
	const op = "expense.List"

	if q.Page < 1 || q.Size < 1 {
		return nil, apperr.Validation("page and size must be positive integers")
	}
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = models.SortByDueDate
	}
	sortOrder := q.SortOrder
	if sortOrder == "" {
		sortOrder = models.SortAsc
	}

	items, total, err := s.repo.ListExpenses(ctx, models.ExpenseFilter{
		UserID:    caller.ID,
		Search:    q.Search,
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Limit:     q.Size,
		Offset:    (q.Page - 1) * q.Size,
	})
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}

	return &models.ExpensePage{
		Expenses:      items,
		TotalExpenses: total,
		CurrentPage:   q.Page,
		TotalPages:    (total + q.Size - 1) / q.Size,
	}, nil
}

// Update применяет частичное обновление. UserID и CreatedAt не меняются.
func (s *Service) Update(ctx context.Context, caller models.Identity, id string,
	req models.DummyExpenseUpdate) (*models.Expense, error) {
	const op = "expense.Update"

	e, err := s.owned(ctx, caller, id, op)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		e.Amount = *req.Amount
	}
	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Category != nil {
		e.Category = *req.Category
	}
	if req.IsPaid != nil {
		e.IsPaid = *req.IsPaid
	}
	if req.DueDate != nil {
		dueDate, err := ParseDueDate(*req.DueDate)
		if err != nil {
			return nil, err
		}
		e.DueDate = dueDate
	}

	if err := s.repo.UpdateExpense(ctx, *e); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.ErrExpenseNotFound
		}
		return nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	return e, nil
}

// Remove удаляет расход и возвращает его название.
func (s *Service) Remove(ctx context.Context, caller models.Identity, id string) (string, error) {
	const op = "expense.Remove"

	e, err := s.owned(ctx, caller, id, op)
	if err != nil {
		return "", err
	}
	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", apperr.ErrExpenseNotFound
		}
		return "", apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}

	s.log.Info("removed expense", slog.String("id", id), slog.String("user_id", caller.ID))
	return e.Title, nil
}

// Pay отмечает расход оплаченным и возвращает его название.
// Повторная оплата возвращает ErrAlreadyPaid и ничего не меняет.
func (s *Service) Pay(ctx context.Context, caller models.Identity, id string) (string, error) {
	const op = "expense.Pay"

	e, err := s.owned(ctx, caller, id, op)
	if err != nil {
		return "", err
	}
	if e.IsPaid {
		return "", apperr.ErrAlreadyPaid
	}

	changed, err := s.repo.MarkPaid(ctx, id)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	if !changed {
		// Параллельный запрос успел оплатить расход или удалить его.
		return "", apperr.ErrAlreadyPaid
	}
	return e.Title, nil
}

// owned загружает расход и проверяет владельца.
func (s *Service) owned(ctx context.Context, caller models.Identity, id, op string) (*models.Expense, error) {
	e, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.ErrExpenseNotFound
		}
		return nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	if err := Authorize(e, caller); err != nil {
		s.log.Debug("expense access denied", slog.String("id", id), slog.String("user_id", caller.ID))
		return nil, err
	}
	return e, nil
}
