package address

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amirdashti/darchin-backend/pkg/db/models"
	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
)

// ErrNoDefaultAddress is returned when a user has no default delivery address.
var ErrNoDefaultAddress = pkgerrors.New(pkgerrors.CodeNotFound, "no default address")

// ErrAddressNotFound is returned when an address does not exist or belongs to
// another user.
var ErrAddressNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "address not found")

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateInput carries the fields accepted when creating an address.
type CreateInput struct {
	Address   string
	Lat       *float64
	Lng       *float64
	IsDefault bool
}

// UpdateInput carries the optional fields accepted on update.
type UpdateInput struct {
	Address *string
	Lat     *float64
	Lng     *float64
}

// Service defines address operations exposed to the API layer.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Address, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, input UpdateInput) (*models.Address, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error
	GetDefault(ctx context.Context, userID uuid.UUID) (*models.Address, error)
	// CacheShippingPriceInTx stores the last quoted delivery fee on the
	// address inside the caller's transaction.
	CacheShippingPriceInTx(ctx context.Context, tx *gorm.DB, addressID uuid.UUID, price int) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an address service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	text := strings.TrimSpace(input.Address)
	if text == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address text required")
	}
	if (input.Lat == nil) != (input.Lng == nil) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "latitude and longitude must be provided together")
	}

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing addresses: %w", err)
	}

	// The first address a user creates always becomes the default.
	makeDefault := input.IsDefault || len(existing) == 0

	record := &models.Address{
		UserID:    userID,
		Address:   text,
		Lat:       input.Lat,
		Lng:       input.Lng,
		IsDefault: makeDefault,
	}

	if !makeDefault {
		created, err := s.repo.Create(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("creating address: %w", err)
		}
		return created, nil
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ClearDefault(ctx, userID); err != nil {
			return fmt.Errorf("clearing previous default: %w", err)
		}
		if _, err := txRepo.Create(ctx, record); err != nil {
			return fmt.Errorf("creating address: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Update(ctx context.Context, userID, addressID uuid.UUID, input UpdateInput) (*models.Address, error) {
	record, err := s.findOwned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Address != nil {
		trimmed := strings.TrimSpace(*input.Address)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "address text cannot be empty")
		}
		updates["address"] = trimmed
	}
	if (input.Lat == nil) != (input.Lng == nil) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "latitude and longitude must be provided together")
	}
	if input.Lat != nil {
		updates["lat"] = *input.Lat
		updates["lng"] = *input.Lng
		// Moving the pin invalidates the cached shipping fee.
		updates["price"] = 0
	}

	if err := s.repo.Update(ctx, record.ID, updates); err != nil {
		return nil, fmt.Errorf("updating address: %w", err)
	}
	return s.repo.FindByID(ctx, record.ID)
}

func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	record, err := s.findOwned(ctx, userID, addressID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, record.ID)
}

func (s *service) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	record, err := s.findOwned(ctx, userID, addressID)
	if err != nil {
		return err
	}
	if record.IsDefault {
		return nil
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ClearDefault(ctx, userID); err != nil {
			return fmt.Errorf("clearing previous default: %w", err)
		}
		if err := txRepo.Update(ctx, record.ID, map[string]any{"is_default": true}); err != nil {
			return fmt.Errorf("marking default: %w", err)
		}
		return nil
	})
}

func (s *service) GetDefault(ctx context.Context, userID uuid.UUID) (*models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	record, err := s.repo.FindDefaultByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoDefaultAddress
		}
		return nil, fmt.Errorf("loading default address: %w", err)
	}
	return record, nil
}

func (s *service) CacheShippingPriceInTx(ctx context.Context, tx *gorm.DB, addressID uuid.UUID, price int) error {
	if addressID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "address id required")
	}
	if price < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return s.repo.WithTx(tx).Update(ctx, addressID, map[string]any{"price": price})
}

func (s *service) findOwned(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if addressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id required")
	}

	record, err := s.repo.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("loading address: %w", err)
	}
	if record.UserID != userID {
		// Ownership failures read as not-found so ids cannot be probed.
		return nil, ErrAddressNotFound
	}
	return record, nil
}
