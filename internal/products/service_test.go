package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
)

func newCatalogService(t *testing.T) (Service, Repository) {
	t.Helper()
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestServiceCreateProductValidation(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, CreateProductInput{Name: "", Price: 1000, CategoryID: uuid.New()})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.CreateProduct(ctx, CreateProductInput{Name: "Soup", Price: -1, CategoryID: uuid.New()})
	requireCode(t, err, pkgerrors.CodeValidation)

	// unknown category becomes a not-found, not a raw gorm error
	_, err = svc.CreateProduct(ctx, CreateProductInput{Name: "Soup", Price: 1000, CategoryID: uuid.New()})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceProductRoundTrip(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "  sushi  "})
	require.NoError(t, err)
	assert.Equal(t, "sushi", category.Name)

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:       "Salmon Roll",
		Price:      280000,
		CategoryID: category.ID,
		Available:  true,
	})
	require.NoError(t, err)

	newPrice := 300000
	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 300000, updated.Price)

	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Salmon Roll", got.Name)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))
	_, err = svc.GetProduct(ctx, created.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceGetProductUnknownID(t *testing.T) {
	svc, _ := newCatalogService(t)

	_, err := svc.GetProduct(context.Background(), uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.GetProduct(context.Background(), uuid.Nil)
	requireCode(t, err, pkgerrors.CodeValidation)
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}
