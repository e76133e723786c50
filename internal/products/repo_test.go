package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/amirdashti/darchin-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  image_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	productTable := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  price INTEGER NOT NULL,
  category_id TEXT NOT NULL,
  image_url TEXT,
  available INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`

	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(productTable).Error)
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{ID: uuid.New(), Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func TestRepositoryProductLifecycle(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db, "pizza")

	created, err := repo.CreateProduct(ctx, &models.Product{
		Name:       "Margherita",
		Price:      150000,
		CategoryID: category.ID,
		Available:  true,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	found, err := repo.FindProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Margherita", found.Name)
	assert.Equal(t, 150000, found.Price)

	require.NoError(t, repo.UpdateProduct(ctx, created.ID, map[string]any{"price": 160000, "available": false}))

	updated, err := repo.FindProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 160000, updated.Price)
	assert.False(t, updated.Available)

	require.NoError(t, repo.DeleteProduct(ctx, created.ID))
	_, err = repo.FindProductByID(ctx, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListProductsFilters(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	pizza := seedCategory(t, db, "pizza")
	burger := seedCategory(t, db, "burger")

	for _, fixture := range []struct {
		name      string
		category  uuid.UUID
		available bool
	}{
		{"Margherita", pizza.ID, true},
		{"Pepperoni", pizza.ID, false},
		{"Cheeseburger", burger.ID, true},
	} {
		_, err := repo.CreateProduct(ctx, &models.Product{
			Name:       fixture.name,
			Price:      100000,
			CategoryID: fixture.category,
			Available:  fixture.available,
		})
		require.NoError(t, err)
	}

	byCategory, err := repo.ListProducts(ctx, ProductFilters{CategoryID: &pizza.ID})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	available, err := repo.ListProducts(ctx, ProductFilters{CategoryID: &pizza.ID, OnlyAvailable: true})
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Margherita", available[0].Name)

	byQuery, err := repo.ListProducts(ctx, ProductFilters{Query: "burger"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, "Cheeseburger", byQuery[0].Name)

	limited, err := repo.ListProducts(ctx, ProductFilters{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRepositoryFindProductsByIDs(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db, "drinks")

	first, err := repo.CreateProduct(ctx, &models.Product{Name: "Cola", Price: 30000, CategoryID: category.ID, Available: true})
	require.NoError(t, err)
	second, err := repo.CreateProduct(ctx, &models.Product{Name: "Water", Price: 10000, CategoryID: category.ID, Available: true})
	require.NoError(t, err)

	found, err := repo.FindProductsByIDs(ctx, []uuid.UUID{first.ID, second.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	none, err := repo.FindProductsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepositoryCategoryLifecycle(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.CreateCategory(ctx, &models.Category{Name: "kebab"})
	require.NoError(t, err)

	listed, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	require.NoError(t, repo.UpdateCategory(ctx, created.ID, map[string]any{"name": "grill"}))
	reloaded, err := repo.FindCategoryByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "grill", reloaded.Name)

	require.NoError(t, repo.DeleteCategory(ctx, created.ID))
	_, err = repo.FindCategoryByID(ctx, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
