//go:build integration

package order

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupOrdersPostgresContainer(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("shilajit_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { pgContainer.Terminate(ctx) })

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	applyMigrations(t, db)
	return db
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	files, err := filepath.Glob(filepath.Join("..", "..", "migrations", "*.sql"))
	require.NoError(t, err)
	sort.Strings(files)

	for _, f := range files {
		content, err := os.ReadFile(f)
		require.NoError(t, err)
		up, _, _ := strings.Cut(string(content), "-- +migrate Down")
		_, err = db.Exec(up)
		require.NoError(t, err, f)
	}
}

func TestRepository_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := setupOrdersPostgresContainer(t)
	repo := NewRepository(db)
	ctx := context.Background()

	o := sampleOrder()
	require.NoError(t, repo.Create(ctx, o))
	assert.NotEmpty(t, o.ID)
	assert.False(t, o.CreatedAt.IsZero())

	t.Run("Duplicate order number", func(t *testing.T) {
		dup := sampleOrder()
		assert.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicateOrderNumber)
	})

	t.Run("Find by number keeps item snapshot", func(t *testing.T) {
		got, err := repo.FindByOrderNumber(ctx, o.OrderNumber)
		require.NoError(t, err)
		require.Len(t, got.Items, 1)
		assert.Equal(t, "Pure Shilajit Resin 30g", got.Items[0].Name)
		assert.True(t, got.Total.Equal(decimal.RequireFromString("99.98")))
		assert.Equal(t, "Pakistan", got.Customer.Address.Country)
	})

	t.Run("Wallet settlement round trip", func(t *testing.T) {
		require.NoError(t, repo.SetTransactionID(ctx, o.OrderNumber, "EP-1700000000000-ZZZZZZZZZ"))

		got, err := repo.FindByTransactionID(ctx, "EP-1700000000000-ZZZZZZZZZ")
		require.NoError(t, err)
		assert.Equal(t, o.OrderNumber, got.OrderNumber)

		paid, processing := PaymentCompleted, StatusProcessing
		require.NoError(t, repo.UpdateStatus(ctx, o.OrderNumber, StatusUpdate{PaymentStatus: &paid, OrderStatus: &processing}))

		got, err = repo.FindByOrderNumber(ctx, o.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, PaymentCompleted, got.PaymentStatus)
		assert.Equal(t, StatusProcessing, got.OrderStatus)
	})

	t.Run("Bank reference must match", func(t *testing.T) {
		require.NoError(t, repo.SetBankReference(ctx, o.OrderNumber, "TRX-42"))

		_, err := repo.FindByBankReference(ctx, o.OrderNumber, "TRX-42")
		assert.NoError(t, err)
		_, err = repo.FindByBankReference(ctx, o.OrderNumber, "TRX-99")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("Unknown order", func(t *testing.T) {
		paid := PaymentCompleted
		assert.ErrorIs(t, repo.UpdateStatus(ctx, "HS-404", StatusUpdate{PaymentStatus: &paid}), ErrOrderNotFound)
	})

	t.Run("List filters by status", func(t *testing.T) {
		list, err := repo.List(ctx, ListFilter{OrderStatus: StatusProcessing, Limit: 10})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Len(t, list[0].Items, 1)

		list, err = repo.List(ctx, ListFilter{OrderStatus: StatusShipped, Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
