package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amirdashti/darchin-backend/pkg/db/models"
	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
	"github.com/amirdashti/darchin-backend/pkg/logger"
	"github.com/amirdashti/darchin-backend/pkg/types"
)

// cartCacheTTL bounds staleness if an invalidation is ever lost.
const cartCacheTTL = time.Hour

// ErrProductUnavailable is returned when an item cannot be added to the cart.
var ErrProductUnavailable = pkgerrors.New(pkgerrors.CodeValidation, "product is not available")

// productFinder is the slice of the catalog the cart service needs.
type productFinder interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service defines cart operations exposed to the API layer and the payment
// orchestrator.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	UpsertItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, error)
	// ClearInTx zeroes the cart inside the caller's transaction and drops the
	// cache entry. The cache delete happens after the DB write so a rolled
	// back transaction leaves a consistent (stale-at-worst) cache.
	ClearInTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type service struct {
	repo    Repository
	cache   Cache
	catalog productFinder
	logg    *logger.Logger
}

// NewService builds a cart service with the required dependencies.
func NewService(repo Repository, cache Cache, catalog productFinder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cart cache required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, cache: cache, catalog: catalog, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	key := s.cache.CartKey(userID.String())
	if raw, err := s.cache.Get(ctx, key); err == nil {
		var cached models.Cart
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &cached, nil
		}
		// Corrupt entries are dropped and reloaded from Postgres.
		if err := s.cache.Del(ctx, key); err != nil {
			s.logg.Warn(ctx, "dropping corrupt cart cache entry failed")
		}
	}

	cart, err := s.loadFromDB(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.writeCache(ctx, key, cart)
	return cart, nil
}

func (s *service) UpsertItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	cart, err := s.loadFromDB(ctx, userID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		cart.Items = removeItem(cart.Items, productID)
	} else {
		product, err := s.catalog.FindProductByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, fmt.Errorf("loading product: %w", err)
		}
		if !product.Available {
			return nil, ErrProductUnavailable
		}
		// Name and price are copied into the snapshot so later catalog edits
		// cannot change what the user is charged.
		cart.Items = upsertItem(cart.Items, types.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  quantity,
		})
	}

	cart.TotalPrice = cart.Items.Total()

	saved, err := s.repo.Save(ctx, cart)
	if err != nil {
		return nil, fmt.Errorf("saving cart: %w", err)
	}

	s.writeCache(ctx, s.cache.CartKey(userID.String()), saved)
	return saved, nil
}

func (s *service) ClearInTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := s.repo.WithTx(tx).Clear(ctx, userID); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	if err := s.cache.Del(ctx, s.cache.CartKey(userID.String())); err != nil {
		// A stale cache entry self-heals on TTL expiry; the DB is the truth.
		s.logg.Warn(ctx, "cart cache invalidation failed")
	}
	return nil
}

func (s *service) loadFromDB(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.Cart{
				UserID: userID,
				Items:  types.OrderItems{},
			}, nil
		}
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	return cart, nil
}

func (s *service) writeCache(ctx context.Context, key string, cart *models.Cart) {
	payload, err := json.Marshal(cart)
	if err != nil {
		s.logg.Warn(ctx, "marshalling cart for cache failed")
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), cartCacheTTL); err != nil {
		s.logg.Warn(ctx, "writing cart cache failed")
	}
}

func upsertItem(items types.OrderItems, item types.OrderItem) types.OrderItems {
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func removeItem(items types.OrderItems, productID uuid.UUID) types.OrderItems {
	result := make(types.OrderItems, 0, len(items))
	for _, existing := range items {
		if existing.ProductID == productID {
			continue
		}
		result = append(result, existing)
	}
	return result
}
