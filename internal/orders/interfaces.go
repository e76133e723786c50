package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amirdashti/darchin-backend/pkg/db/models"
	"github.com/amirdashti/darchin-backend/pkg/enums"
)

// Repository defines persistence operations for orders and the receipt
// number counter.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByPaymentID(ctx context.Context, paymentID uuid.UUID) (*models.Order, error)
	FindByReceiptNumber(ctx context.Context, receiptNumber int64) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error

	// NextReceiptNumber increments the shared counter and returns the new
	// value. Must run inside the caller's transaction: the row lock taken by
	// the increment is what makes concurrent verifications serialize.
	NextReceiptNumber(ctx context.Context) (int64, error)
}
