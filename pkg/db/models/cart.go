package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/amirdashti/darchin-backend/pkg/types"
)

// Cart is the single active cart per user, upserted on first item addition
// and emptied (never deleted) when a payment settles.
type Cart struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Items      types.OrderItems `gorm:"column:items;type:jsonb;not null"`
	TotalPrice int              `gorm:"column:total_price;not null;default:0"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// IsEmpty reports whether the cart holds no items.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}
