package address

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newAddressService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupAddressTestDB(t)
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db})
	require.NoError(t, err)
	return svc, db
}

func TestServiceFirstAddressBecomesDefault(t *testing.T) {
	svc, _ := newAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.Create(ctx, userID, CreateInput{Address: "Home"})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.Create(ctx, userID, CreateInput{Address: "Work"})
	require.NoError(t, err)
	assert.False(t, second.IsDefault)

	def, err := svc.GetDefault(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, def.ID)
}

func TestServiceSetDefaultFlipsPrevious(t *testing.T) {
	svc, _ := newAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.Create(ctx, userID, CreateInput{Address: "Home"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, userID, CreateInput{Address: "Work"})
	require.NoError(t, err)

	require.NoError(t, svc.SetDefault(ctx, userID, second.ID))

	listed, err := svc.List(ctx, userID)
	require.NoError(t, err)
	defaults := 0
	for _, a := range listed {
		if a.IsDefault {
			defaults++
			assert.Equal(t, second.ID, a.ID)
		}
	}
	assert.Equal(t, 1, defaults)
	_ = first
}

func TestServiceGetDefaultMissing(t *testing.T) {
	svc, _ := newAddressService(t)

	_, err := svc.GetDefault(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, ErrNoDefaultAddress))
}

func TestServiceOwnershipReadsAsNotFound(t *testing.T) {
	svc, _ := newAddressService(t)
	ctx := context.Background()

	owner := uuid.New()
	intruder := uuid.New()

	created, err := svc.Create(ctx, owner, CreateInput{Address: "Home"})
	require.NoError(t, err)

	err = svc.SetDefault(ctx, intruder, created.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, ErrAddressNotFound))

	err = svc.Delete(ctx, intruder, created.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, ErrAddressNotFound))
}

func TestServiceCreateValidation(t *testing.T) {
	svc, _ := newAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Create(ctx, userID, CreateInput{Address: "   "})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	lat := 36.3
	_, err = svc.Create(ctx, userID, CreateInput{Address: "Home", Lat: &lat})
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceCacheShippingPriceInTxRollsBackWithCaller(t *testing.T) {
	svc, db := newAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, CreateInput{Address: "Home"})
	require.NoError(t, err)

	// Committed transactions persist the fee.
	err = gormTxRunner{db: db}.WithTx(ctx, func(tx *gorm.DB) error {
		return svc.CacheShippingPriceInTx(ctx, tx, created.ID, 30000)
	})
	require.NoError(t, err)

	def, err := svc.GetDefault(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 30000, def.Price)

	// A failing transaction must leave the previous fee in place.
	boom := pkgerrors.New(pkgerrors.CodeDependency, "gateway unavailable")
	err = gormTxRunner{db: db}.WithTx(ctx, func(tx *gorm.DB) error {
		if err := svc.CacheShippingPriceInTx(ctx, tx, created.ID, 99000); err != nil {
			return err
		}
		return boom
	})
	require.Error(t, err)

	def, err = svc.GetDefault(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 30000, def.Price)
}

func TestServiceUpdateCoordinatesResetsCachedPrice(t *testing.T) {
	svc, db := newAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, CreateInput{Address: "Home"})
	require.NoError(t, err)

	require.NoError(t, db.Exec("UPDATE addresses SET price = 45000 WHERE id = ?", created.ID).Error)

	lat, lng := 36.31, 59.59
	updated, err := svc.Update(ctx, userID, created.ID, UpdateInput{Lat: &lat, Lng: &lng})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Price)
}
