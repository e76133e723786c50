package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amirdashti/darchin-backend/pkg/db/models"
	"github.com/amirdashti/darchin-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByPaymentID(ctx context.Context, paymentID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByReceiptNumber(ctx context.Context, receiptNumber int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("receipt_number = ?", receiptNumber).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var list []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) NextReceiptNumber(ctx context.Context) (int64, error) {
	// The UPDATE takes the row lock in Postgres; later reads in the same
	// transaction see the incremented value, concurrent transactions block.
	result := r.db.WithContext(ctx).Exec(
		"UPDATE receipt_counters SET value = value + 1 WHERE id = ?", models.ReceiptCounterID)
	if result.Error != nil {
		return 0, fmt.Errorf("incrementing receipt counter: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, fmt.Errorf("receipt counter row missing")
	}

	var counter models.ReceiptCounter
	err := r.db.WithContext(ctx).
		Where("id = ?", models.ReceiptCounterID).
		First(&counter).Error
	if err != nil {
		return 0, fmt.Errorf("reading receipt counter: %w", err)
	}
	return counter.Value, nil
}
