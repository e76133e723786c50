package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/amirdashti/darchin-backend/pkg/enums"
	"github.com/amirdashti/darchin-backend/pkg/types"
)

// Order is created once per settled payment. Items and total are a snapshot
// of the cart at verification time, not a reference. The unique index on
// payment_id is the idempotency guard: a second verification of the same
// payment can never produce a second order.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID        uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Items         types.OrderItems  `gorm:"column:items;type:jsonb;not null"`
	TotalPrice    int               `gorm:"column:total_price;not null"`
	Status        enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	PaymentID     uuid.UUID         `gorm:"column:payment_id;type:uuid;not null;uniqueIndex:idx_orders_payment_id"`
	ReceiptNumber int64             `gorm:"column:receipt_number;not null;uniqueIndex"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
