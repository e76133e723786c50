package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amirdashti/darchin-backend/pkg/db/models"
)

// Repository defines persistence operations for cart snapshots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// Cache is the subset of the redis client the cart service needs.
type Cache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(userID string) string
}
