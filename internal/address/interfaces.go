package address

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amirdashti/darchin-backend/pkg/db/models"
)

// Repository defines persistence operations for delivery addresses.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, address *models.Address) (*models.Address, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	FindDefaultByUser(ctx context.Context, userID uuid.UUID) (*models.Address, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ClearDefault(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
