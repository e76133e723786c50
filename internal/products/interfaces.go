package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amirdashti/darchin-backend/pkg/db/models"
)

// Repository defines persistence operations for the catalog tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	ListProducts(ctx context.Context, filters ProductFilters) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}
