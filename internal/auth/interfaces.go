package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amirdashti/darchin-backend/pkg/db/models"
)

// Repository defines persistence operations for user accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hashed string) error
}

// Store is the subset of the redis client the auth flows need. OTP codes,
// pending registrations, reset codes and the token blacklist all live here.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	OTPKey(phone string) string
	PendingUserKey(phone string) string
	ResetTokenKey(phone string) string
	BlacklistKey(token string) string
}

// smsSender delivers one-time codes.
type smsSender interface {
	Send(ctx context.Context, receptor, message string) error
}
