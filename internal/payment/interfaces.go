package payment

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amirdashti/darchin-backend/pkg/db/models"
	"github.com/amirdashti/darchin-backend/pkg/enums"
	"github.com/amirdashti/darchin-backend/pkg/types"
	"github.com/amirdashti/darchin-backend/pkg/zarinpal"
)

// Repository defines persistence operations for payment attempts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// gateway is the slice of the Zarinpal client the orchestrator needs.
type gateway interface {
	RequestPayment(ctx context.Context, req zarinpal.PaymentRequest) (string, error)
	VerifyPayment(ctx context.Context, authority string, amount int) (zarinpal.VerificationResult, error)
	StartPayURL(authority string) string
}

// cartService is the slice of the cart the orchestrator needs.
type cartService interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	ClearInTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

// addressService resolves the delivery destination and caches the fee.
type addressService interface {
	GetDefault(ctx context.Context, userID uuid.UUID) (*models.Address, error)
	CacheShippingPriceInTx(ctx context.Context, tx *gorm.DB, addressID uuid.UUID, price int) error
}

// shippingService estimates the delivery fee to a destination.
type shippingService interface {
	Estimate(ctx context.Context, destination types.Point) (int, error)
}

// userFinder loads the customer details shown on delivery receipts.
type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreatePaymentResult is returned to the API so the client can redirect the
// user to the gateway and show the quoted totals. TotalPrice and
// ShippingPrice are Toman; Amount is the Rial figure frozen on the payment.
type CreatePaymentResult struct {
	PaymentID     uuid.UUID
	Authority     string
	PayURL        string
	Amount        int
	TotalPrice    int
	ShippingPrice int
	Status        enums.PaymentStatus
}
