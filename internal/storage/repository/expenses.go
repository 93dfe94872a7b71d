package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/expense-tracker/internal/models"
	"github.com/magabrotheeeer/expense-tracker/internal/storage"
)

const expenseColumns = `id, user_id, amount, title, description, category, is_paid, due_date, created_at`

// Разрешённые колонки сортировки; значение из запроса в SQL напрямую не попадает.
var sortColumns = map[string]string{
	models.SortByDueDate: "due_date",
	models.SortByTitle:   "title",
}

// CreateExpense вставляет новый расход и возвращает его ID.
func (s *Storage) CreateExpense(ctx context.Context, e models.Expense) (string, error) {
	const op = "storage.CreateExpense"
	if err := checkCtx(ctx, op); err != nil {
		return "", err
	}

	query := `INSERT INTO expenses (user_id, amount, title, description, category,
			      is_paid, due_date, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		e.UserID, e.Amount, e.Title, e.Description, e.Category,
		e.IsPaid, e.DueDate, e.CreatedAt).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetExpense возвращает расход по ID без проверки владельца.
func (s *Storage) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	const op = "storage.GetExpense"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`
	e, err := scanExpense(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// UpdateExpense перезаписывает изменяемые поля расхода. user_id и created_at не меняются.
func (s *Storage) UpdateExpense(ctx context.Context, e models.Expense) error {
	const op = "storage.UpdateExpense"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE expenses
			  SET amount = $1, title = $2, description = $3, category = $4,
			      is_paid = $5, due_date = $6
			  WHERE id = $7`
	res, err := s.DB.ExecContext(ctx, query,
		e.Amount, e.Title, e.Description, e.Category, e.IsPaid, e.DueDate, e.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return requireAffected(res, op)
}

// DeleteExpense удаляет расход по ID.
func (s *Storage) DeleteExpense(ctx context.Context, id string) error {
	const op = "storage.DeleteExpense"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return requireAffected(res, op)
}

// MarkPaid отмечает расход оплаченным. Возвращает false, если расход уже был оплачен.
func (s *Storage) MarkPaid(ctx context.Context, id string) (bool, error) {
	const op = "storage.MarkPaid"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE expenses SET is_paid = true WHERE id = $1 AND is_paid = false`, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected == 1, nil
}

// ListExpenses возвращает страницу расходов пользователя и общее количество по фильтру.
func (s *Storage) ListExpenses(ctx context.Context, f models.ExpenseFilter) ([]*models.Expense, int, error) {
	const op = "storage.ListExpenses"
	if err := checkCtx(ctx, op); err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = sortColumns[models.SortByDueDate]
	}
	direction := "ASC"
	if f.SortOrder == models.SortDesc {
		direction = "DESC"
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM expenses
				   WHERE user_id = $1 AND ($2::text = '' OR title ILIKE '%' || $2::text || '%')`
	if err := s.DB.QueryRowContext(ctx, countQuery, f.UserID, f.Search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + expenseColumns + `
			  FROM expenses
			  WHERE user_id = $1 AND ($2::text = '' OR title ILIKE '%' || $2::text || '%')
			  ORDER BY ` + column + ` ` + direction + `, id
			  LIMIT $3 OFFSET $4`
	rows, err := s.DB.QueryContext(ctx, query, f.UserID, f.Search, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	result, err := collectExpenses(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// ListUserExpenses возвращает все расходы пользователя по возрастанию due_date.
func (s *Storage) ListUserExpenses(ctx context.Context, userID string) ([]*models.Expense, error) {
	const op = "storage.ListUserExpenses"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + expenseColumns + `
			  FROM expenses
			  WHERE user_id = $1
			  ORDER BY due_date ASC, id`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result, err := collectExpenses(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListUnpaid возвращает limit ближайших по due_date неоплаченных расходов пользователя.
func (s *Storage) ListUnpaid(ctx context.Context, userID string, limit int) ([]*models.Expense, error) {
	const op = "storage.ListUnpaid"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + expenseColumns + `
			  FROM expenses
			  WHERE user_id = $1 AND is_paid = false
			  ORDER BY due_date ASC, id
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result, err := collectExpenses(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	var e models.Expense
	if err := row.Scan(&e.ID, &e.UserID, &e.Amount, &e.Title, &e.Description,
		&e.Category, &e.IsPaid, &e.DueDate, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.DueDate = e.DueDate.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	return &e, nil
}

func collectExpenses(rows *sql.Rows) ([]*models.Expense, error) {
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func requireAffected(res sql.Result, op string) error {
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}
