package expense

import (
	"github.com/magabrotheeeer/expense-tracker/internal/lib/apperr"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
)

// Authorize пропускает только владельца расхода.
// Чужой расход неотличим от несуществующего: обоим соответствует ErrExpenseNotFound.
func Authorize(e *models.Expense, caller models.Identity) error {
	if e == nil || caller.ID == "" || e.UserID != caller.ID {
		return apperr.ErrExpenseNotFound
	}
	return nil
}
