package expensetracker

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/expense-tracker/internal/models"
	"github.com/magabrotheeeer/expense-tracker/internal/storage"
)

// memStore — хранилище в памяти с поведением repository.Storage.
type memStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	expenses map[string]models.Expense
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]models.User),
		expenses: make(map[string]models.Expense),
	}
}

func (m *memStore) CheckDatabaseReady(context.Context) error { return nil }

func (m *memStore) CreateUser(_ context.Context, u models.User) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return "", storage.ErrEmailTaken
		}
	}
	u.ID = uuid.NewString()
	m.users[u.ID] = u
	return u.ID, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (m *memStore) UpdateUser(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return storage.ErrNotFound
	}
	for id, existing := range m.users {
		if id != u.ID && existing.Email == u.Email {
			return storage.ErrEmailTaken
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memStore) CreateExpense(_ context.Context, e models.Expense) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = uuid.NewString()
	m.expenses[e.ID] = e
	return e.ID, nil
}

func (m *memStore) GetExpense(_ context.Context, id string) (*models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.expenses[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &e, nil
}

func (m *memStore) UpdateExpense(_ context.Context, e models.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.expenses[e.ID]
	if !ok {
		return storage.ErrNotFound
	}
	e.UserID = prev.UserID
	e.CreatedAt = prev.CreatedAt
	m.expenses[e.ID] = e
	return nil
}

func (m *memStore) DeleteExpense(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.expenses[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.expenses, id)
	return nil
}

func (m *memStore) MarkPaid(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.expenses[id]
	if !ok || e.IsPaid {
		return false, nil
	}
	e.IsPaid = true
	m.expenses[id] = e
	return true, nil
}

func (m *memStore) ListExpenses(_ context.Context, f models.ExpenseFilter) ([]*models.Expense, int, error) {
	all := m.byUser(f.UserID)
	matched := make([]*models.Expense, 0, len(all))
	for _, e := range all {
		if f.Search == "" || strings.Contains(strings.ToLower(e.Title), strings.ToLower(f.Search)) {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		less := matched[i].DueDate.Before(matched[j].DueDate)
		if f.SortBy == models.SortByTitle {
			less = matched[i].Title < matched[j].Title
		}
		if f.SortOrder == models.SortDesc {
			return !less
		}
		return less
	})

	total := len(matched)
	if f.Offset >= total {
		return []*models.Expense{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return matched[f.Offset:end], total, nil
}

func (m *memStore) ListUserExpenses(_ context.Context, userID string) ([]*models.Expense, error) {
	return m.byUser(userID), nil
}

func (m *memStore) ListUnpaid(_ context.Context, userID string, limit int) ([]*models.Expense, error) {
	result := make([]*models.Expense, 0, limit)
	for _, e := range m.byUser(userID) {
		if !e.IsPaid && len(result) < limit {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *memStore) byUser(userID string) []*models.Expense {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*models.Expense, 0)
	for _, e := range m.expenses {
		if e.UserID == userID {
			result = append(result, &e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DueDate.Equal(result[j].DueDate) {
			return result[i].ID < result[j].ID
		}
		return result[i].DueDate.Before(result[j].DueDate)
	})
	return result
}
