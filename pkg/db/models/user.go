package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/amirdashti/darchin-backend/pkg/enums"
)

// User is a registered customer or admin account. Phone is the login
// identity; registration is completed only after OTP verification.
type User struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Name      string         `gorm:"column:name;not null"`
	Phone     string         `gorm:"column:phone;not null;uniqueIndex"`
	Password  string         `gorm:"column:password;not null"`
	Role      enums.UserRole `gorm:"column:role;not null;default:'user'"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
