package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amirdashti/darchin-backend/pkg/db/models"
	"github.com/amirdashti/darchin-backend/pkg/enums"
	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
)

// ErrOrderNotFound is returned when an order does not exist or belongs to
// another user.
var ErrOrderNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "order not found")

// Service exposes order reads and status transitions. Order creation lives
// in the payment orchestrator, inside the verification transaction.
type Service interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
}

type service struct {
	repo Repository
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("loading order: %w", err)
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	if _, err := s.repo.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("loading order: %w", err)
	}
	return s.repo.UpdateStatus(ctx, orderID, status)
}
