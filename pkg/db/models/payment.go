package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/amirdashti/darchin-backend/pkg/enums"
)

// Payment is one gateway payment attempt. Amount is in Rial (Toman × 10),
// frozen at creation so cart edits between creation and verification cannot
// change what the gateway is asked to verify. Rows are never deleted; the
// table is the audit trail of every attempt.
type Payment struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Amount    int                 `gorm:"column:amount;not null"`
	Authority *string             `gorm:"column:authority"`
	RefID     *string             `gorm:"column:ref_id"`
	Status    enums.PaymentStatus `gorm:"column:status;not null;default:'pending'"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
