package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/expense-tracker/internal/migrations"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
)

// testDataFactory создаёт тестовые записи напрямую через Storage.
type testDataFactory struct {
	storage *Storage
}

func newTestDataFactory(storage *Storage) *testDataFactory {
	return &testDataFactory{storage: storage}
}

// createUser создаёт пользователя с уникальным email и возвращает его ID.
func (f *testDataFactory) createUser(t *testing.T, name string) string {
	t.Helper()
	id, err := f.storage.CreateUser(context.Background(), models.User{
		Name:         name,
		Email:        name + "-" + uuid.NewString()[:8] + "@example.com",
		PasswordHash: "$2a$10$hashhashhashhashhashhu",
	})
	require.NoError(t, err)
	return id
}

// createExpense создаёт расход пользователя userID.
func (f *testDataFactory) createExpense(t *testing.T, userID, title string, amount float64,
	dueDate time.Time, isPaid bool) string {
	t.Helper()
	id, err := f.storage.CreateExpense(context.Background(), models.Expense{
		UserID:    userID,
		Amount:    amount,
		Title:     title,
		Category:  "utilities",
		IsPaid:    isPaid,
		DueDate:   dueDate,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return id
}

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(ctx, connStr)
	require.NoError(t, err, "failed to create storage")

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath), "failed to apply migrations")

	t.Cleanup(func() {
		_ = storage.Close()
		_ = pgContainer.Terminate(ctx)
	})
	return storage
}
