package payment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/amirdashti/darchin-backend/pkg/db/models"
	"github.com/amirdashti/darchin-backend/pkg/enums"
)

func setupPaymentTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	payments := `
CREATE TABLE IF NOT EXISTS payments (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  amount INTEGER NOT NULL,
  authority TEXT,
  ref_id TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`
	ordersTable := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  items TEXT NOT NULL,
  total_price INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_id TEXT NOT NULL UNIQUE,
  receipt_number INTEGER NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	counters := `
CREATE TABLE IF NOT EXISTS receipt_counters (
  id INTEGER PRIMARY KEY,
  value INTEGER NOT NULL DEFAULT 0
);`

	require.NoError(t, db.Exec(payments).Error)
	require.NoError(t, db.Exec(ordersTable).Error)
	require.NoError(t, db.Exec(counters).Error)
	require.NoError(t, db.Exec("INSERT INTO receipt_counters (id, value) VALUES (1, 0)").Error)
	return db
}

func TestRepositoryPaymentLifecycle(t *testing.T) {
	db := setupPaymentTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.Payment{
		UserID: uuid.New(),
		Amount: 2300000,
		Status: enums.PaymentStatusPending,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	require.NoError(t, repo.Update(ctx, created.ID, map[string]any{
		"authority": "A00000000000000000000000000000000001",
	}))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2300000, found.Amount)
	require.NotNil(t, found.Authority)
	assert.Equal(t, "A00000000000000000000000000000000001", *found.Authority)
	assert.Equal(t, enums.PaymentStatusPending, found.Status)

	require.NoError(t, repo.Update(ctx, created.ID, map[string]any{
		"status": enums.PaymentStatusSuccess,
		"ref_id": "12345678",
	}))

	settled, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusSuccess, settled.Status)
	require.NotNil(t, settled.RefID)
	assert.Equal(t, "12345678", *settled.RefID)
}

func TestRepositoryFindMissingPayment(t *testing.T) {
	db := setupPaymentTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
