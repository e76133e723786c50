package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/amirdashti/darchin-backend/pkg/types"
)

// Address is a delivery destination. At most one address per user carries
// is_default=true; the orchestrator reads that one when building a payment.
// Price caches the last shipping quote computed for this destination.
type Address struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Address   string    `gorm:"column:address;not null"`
	Lat       *float64  `gorm:"column:lat"`
	Lng       *float64  `gorm:"column:lng"`
	IsDefault bool      `gorm:"column:is_default;not null;default:false"`
	Price     int       `gorm:"column:price;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Coordinates returns the stored point, or nil when either axis is missing.
func (a *Address) Coordinates() *types.Point {
	if a == nil || a.Lat == nil || a.Lng == nil {
		return nil
	}
	return &types.Point{Lat: *a.Lat, Lng: *a.Lng}
}
