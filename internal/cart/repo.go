package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amirdashti/darchin-backend/pkg/db/models"
	"github.com/amirdashti/darchin-backend/pkg/types"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *repository) Save(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	if cart.Items == nil {
		cart.Items = types.OrderItems{}
	}
	if err := r.db.WithContext(ctx).Save(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *repository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"items":       types.OrderItems{},
			"total_price": 0,
		}).Error
}
