package shipping

import (
	"context"
	"fmt"

	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
	"github.com/amirdashti/darchin-backend/pkg/logger"
	"github.com/amirdashti/darchin-backend/pkg/snapp"
	"github.com/amirdashti/darchin-backend/pkg/types"
)

// ErrMissingCoordinates is returned when the destination has no pin.
var ErrMissingCoordinates = pkgerrors.New(pkgerrors.CodeValidation, "destination coordinates missing")

// ErrNoServiceAvailable is returned when the courier API offers no enabled
// service for the route.
var ErrNoServiceAvailable = pkgerrors.New(pkgerrors.CodeDependency, "no delivery service available")

// quoteProvider is the slice of the courier client the estimator needs.
type quoteProvider interface {
	RidePrice(ctx context.Context, from, to types.Point) ([]snapp.PriceQuote, error)
}

// Service estimates the delivery fee from the restaurant to a destination.
type Service interface {
	Estimate(ctx context.Context, destination types.Point) (int, error)
}

type service struct {
	provider quoteProvider
	origin   types.Point
	logg     *logger.Logger
}

// NewService builds a shipping estimator anchored at the restaurant origin.
func NewService(provider quoteProvider, origin types.Point, logg *logger.Logger) (Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("quote provider required")
	}
	if origin.IsZero() {
		return nil, fmt.Errorf("restaurant origin coordinates required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{provider: provider, origin: origin, logg: logg}, nil
}

// Estimate asks the courier API for quotes and returns the fee of the first
// enabled one. A single attempt, no retries: the caller surfaces the failure
// and the user retries the whole payment.
func (s *service) Estimate(ctx context.Context, destination types.Point) (int, error) {
	if destination.IsZero() {
		return 0, ErrMissingCoordinates
	}

	quotes, err := s.provider.RidePrice(ctx, s.origin, destination)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "courier price request failed")
	}

	for _, quote := range quotes {
		if quote.IsEnabled {
			s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
				"service_type": quote.Type,
				"price":        quote.Final,
			}), "delivery quote selected")
			return quote.Final, nil
		}
	}

	return 0, ErrNoServiceAvailable
}
