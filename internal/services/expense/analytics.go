package expense

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/expense-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/month"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
)

// UnpaidSummaryLimit — сколько ближайших неоплаченных расходов показывает сводка.
const UnpaidSummaryLimit = 3

// MonthlyTotals возвращает сумму расходов caller по месяцам dueDate (UTC), ключ — YYYY-MM.
func (s *Service) MonthlyTotals(ctx context.Context, caller models.Identity) (map[string]float64, error) {
	const op = "expense.MonthlyTotals"

	items, err := s.repo.ListUserExpenses(ctx, caller.ID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}

	totals := make(map[string]float64)
	for _, e := range items {
		totals[month.Key(e.DueDate)] += e.Amount
	}
	return totals, nil
}

// PaymentProgress возвращает по месяцам число оплаченных расходов из общего.
func (s *Service) PaymentProgress(ctx context.Context, caller models.Identity) (map[string]models.Progress, error) {
	const op = "expense.PaymentProgress"

	items, err := s.repo.ListUserExpenses(ctx, caller.ID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}

	progress := make(map[string]models.Progress)
	for _, e := range items {
		key := month.Key(e.DueDate)
		p := progress[key]
		p.Total++
		if e.IsPaid {
			p.Current++
		}
		progress[key] = p
	}
	return progress, nil
}

// UnpaidSummary возвращает ближайшие по dueDate неоплаченные расходы.
func (s *Service) UnpaidSummary(ctx context.Context, caller models.Identity) ([]*models.Expense, error) {
	const op = "expense.UnpaidSummary"

	items, err := s.repo.ListUnpaid(ctx, caller.ID, UnpaidSummaryLimit)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("%s: %w", op, err))
	}
	return items, nil
}
