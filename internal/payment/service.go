package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amirdashti/darchin-backend/internal/orders"
	"github.com/amirdashti/darchin-backend/internal/receipts"
	"github.com/amirdashti/darchin-backend/pkg/db"
	"github.com/amirdashti/darchin-backend/pkg/db/models"
	"github.com/amirdashti/darchin-backend/pkg/enums"
	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
	"github.com/amirdashti/darchin-backend/pkg/logger"
	"github.com/amirdashti/darchin-backend/pkg/types"
	"github.com/amirdashti/darchin-backend/pkg/zarinpal"
)

var (
	// ErrEmptyCart rejects payment creation before anything is persisted.
	ErrEmptyCart = pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")

	// ErrPaymentNotFound is returned when the callback names an unknown payment.
	ErrPaymentNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")

	// ErrPaymentAlreadyFailed is returned when a failed payment is verified again.
	ErrPaymentAlreadyFailed = pkgerrors.New(pkgerrors.CodeStateConflict, "payment already failed")

	// ErrPaymentCanceled is returned when the gateway redirects without the
	// OK status. The customer backed out, so this is a state outcome rather
	// than a dependency fault.
	ErrPaymentCanceled = pkgerrors.New(pkgerrors.CodeStateConflict, "payment canceled at gateway")

	// ErrPaymentDeclined is returned when verification reaches the gateway
	// and the gateway says no.
	ErrPaymentDeclined = pkgerrors.New(pkgerrors.CodeDependency, "gateway declined payment")

	// errDuplicateOrder aborts the verification transaction when a concurrent
	// verify won the race to insert the order.
	errDuplicateOrder = errors.New("order already exists for payment")
)

// Service is the payment orchestrator: it owns the PENDING → SUCCESS|FAILED
// state machine and the single transaction that settles an order.
type Service interface {
	CreatePayment(ctx context.Context, userID uuid.UUID) (*CreatePaymentResult, error)
	VerifyPayment(ctx context.Context, paymentID uuid.UUID, authority, callbackStatus string) (*models.Order, error)
}

type service struct {
	repo      Repository
	orders    orders.Repository
	carts     cartService
	addresses addressService
	shipping  shippingService
	gateway   gateway
	receipts  receipts.Service
	users     userFinder
	tx        txRunner
	logg      *logger.Logger

	callbackBase string
}

// Deps bundles the orchestrator's collaborators.
type Deps struct {
	Repo         Repository
	Orders       orders.Repository
	Carts        cartService
	Addresses    addressService
	Shipping     shippingService
	Gateway      gateway
	Receipts     receipts.Service
	Users        userFinder
	Tx           txRunner
	Logger       *logger.Logger
	CallbackBase string
}

// NewService builds the payment orchestrator with the required dependencies.
func NewService(deps Deps) (Service, error) {
	switch {
	case deps.Repo == nil:
		return nil, fmt.Errorf("payments repository required")
	case deps.Orders == nil:
		return nil, fmt.Errorf("orders repository required")
	case deps.Carts == nil:
		return nil, fmt.Errorf("cart service required")
	case deps.Addresses == nil:
		return nil, fmt.Errorf("address service required")
	case deps.Shipping == nil:
		return nil, fmt.Errorf("shipping service required")
	case deps.Gateway == nil:
		return nil, fmt.Errorf("payment gateway required")
	case deps.Receipts == nil:
		return nil, fmt.Errorf("receipts service required")
	case deps.Users == nil:
		return nil, fmt.Errorf("user finder required")
	case deps.Tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case deps.Logger == nil:
		return nil, fmt.Errorf("logger required")
	case deps.CallbackBase == "":
		return nil, fmt.Errorf("callback base url required")
	}
	return &service{
		repo:         deps.Repo,
		orders:       deps.Orders,
		carts:        deps.Carts,
		addresses:    deps.Addresses,
		shipping:     deps.Shipping,
		gateway:      deps.Gateway,
		receipts:     deps.Receipts,
		users:        deps.Users,
		tx:           deps.Tx,
		logg:         deps.Logger,
		callbackBase: strings.TrimRight(deps.CallbackBase, "/"),
	}, nil
}

// CreatePayment quotes shipping, freezes the amount and registers the
// payment with the gateway. All writes run in one transaction wrapped around
// the gateway call: nothing is persisted unless the gateway accepts the
// registration. The pending row is inserted before the gateway is contacted
// so the callback URL can carry its id.
func (s *service) CreatePayment(ctx context.Context, userID uuid.UUID) (*CreatePaymentResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	addr, err := s.addresses.GetDefault(ctx, userID)
	if err != nil {
		return nil, err
	}

	destination := types.Point{}
	if coords := addr.Coordinates(); coords != nil {
		destination = *coords
	}
	shippingPrice, err := s.shipping.Estimate(ctx, destination)
	if err != nil {
		return nil, err
	}

	// Toman totals, Rial on the wire.
	amount := (cart.TotalPrice + shippingPrice) * 10

	// The cached fee, the pending row and its authority commit together with
	// the gateway registration: a failure at any point, the gateway call
	// included, rolls back every local write.
	var (
		payment   *models.Payment
		authority string
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txPayments := s.repo.WithTx(tx)

		if err := s.addresses.CacheShippingPriceInTx(ctx, tx, addr.ID, shippingPrice); err != nil {
			return fmt.Errorf("caching shipping price: %w", err)
		}

		created, err := txPayments.Create(ctx, &models.Payment{
			UserID: userID,
			Amount: amount,
			Status: enums.PaymentStatusPending,
		})
		if err != nil {
			return fmt.Errorf("creating payment: %w", err)
		}
		pctx := s.logg.WithPaymentID(ctx, created.ID.String())

		a, err := s.gateway.RequestPayment(pctx, zarinpal.PaymentRequest{
			Amount:      amount,
			CallbackURL: s.callbackURL(created.ID),
			Description: fmt.Sprintf("darchin order, %d items", len(cart.Items)),
		})
		if err != nil {
			return err
		}

		if err := txPayments.Update(pctx, created.ID, map[string]any{"authority": a}); err != nil {
			return fmt.Errorf("storing authority: %w", err)
		}

		payment, authority = created, a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithPaymentID(ctx, payment.ID.String()), "payment registered with gateway")

	return &CreatePaymentResult{
		PaymentID:     payment.ID,
		Authority:     authority,
		PayURL:        s.gateway.StartPayURL(authority),
		Amount:        amount,
		TotalPrice:    cart.TotalPrice,
		ShippingPrice: shippingPrice,
		Status:        enums.PaymentStatusPending,
	}, nil
}

// VerifyPayment settles a payment after the gateway callback. Success runs
// in a single transaction: payment update, receipt number, order insert,
// receipt archival and cart clear commit or roll back together. A second
// verification of a settled payment returns the existing order.
func (s *service) VerifyPayment(ctx context.Context, paymentID uuid.UUID, authority, callbackStatus string) (*models.Order, error) {
	if paymentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}

	ctx = s.logg.WithPaymentID(ctx, paymentID.String())

	payment, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("loading payment: %w", err)
	}

	switch payment.Status {
	case enums.PaymentStatusSuccess:
		existing, err := s.orders.FindByPaymentID(ctx, payment.ID)
		if err != nil {
			return nil, fmt.Errorf("loading settled order: %w", err)
		}
		return existing, nil
	case enums.PaymentStatusFailed:
		return nil, ErrPaymentAlreadyFailed
	}

	if callbackStatus != zarinpal.CallbackStatusOK {
		if err := s.repo.Update(ctx, payment.ID, map[string]any{"status": enums.PaymentStatusFailed}); err != nil {
			return nil, fmt.Errorf("marking payment failed: %w", err)
		}
		s.logg.Info(ctx, "payment canceled at gateway")
		return nil, ErrPaymentCanceled
	}

	if payment.Authority != nil && *payment.Authority != "" {
		if authority != "" && authority != *payment.Authority {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "authority mismatch")
		}
		authority = *payment.Authority
	}
	if authority == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "authority required")
	}

	result, err := s.gateway.VerifyPayment(ctx, authority, payment.Amount)
	if err != nil {
		// Transport failure: the payment stays pending so the callback can
		// be replayed once the gateway is reachable again.
		return nil, err
	}
	if !result.Verified() {
		if err := s.repo.Update(ctx, payment.ID, map[string]any{"status": enums.PaymentStatusFailed}); err != nil {
			return nil, fmt.Errorf("marking payment failed: %w", err)
		}
		s.logg.Info(ctx, "gateway declined verification")
		return nil, ErrPaymentDeclined
	}

	cart, err := s.carts.Get(ctx, payment.UserID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		// The cart holds the order contents. Losing it between create and
		// verify leaves the payment pending for manual resolution.
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty at verification")
	}

	user, err := s.users.FindByID(ctx, payment.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading customer: %w", err)
	}
	deliveryAddress := ""
	shippingPrice := 0
	if addr, err := s.addresses.GetDefault(ctx, payment.UserID); err == nil {
		deliveryAddress = addr.Address
		shippingPrice = addr.Price
	} else {
		// The courier ticket goes out with a blank address; make that
		// traceable.
		s.logg.Error(ctx, "loading delivery address for receipts failed", err)
	}

	refID := fmt.Sprintf("%d", result.RefID)
	var order *models.Order

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txPayments := s.repo.WithTx(tx)
		txOrders := s.orders.WithTx(tx)

		if err := txPayments.Update(ctx, payment.ID, map[string]any{
			"status": enums.PaymentStatusSuccess,
			"ref_id": refID,
		}); err != nil {
			return fmt.Errorf("settling payment: %w", err)
		}

		receiptNumber, err := txOrders.NextReceiptNumber(ctx)
		if err != nil {
			return err
		}

		order, err = txOrders.Create(ctx, &models.Order{
			UserID:        payment.UserID,
			Items:         cart.Items,
			TotalPrice:    cart.TotalPrice,
			Status:        enums.OrderStatusPaid,
			PaymentID:     payment.ID,
			ReceiptNumber: receiptNumber,
		})
		if err != nil {
			// The only unique index an insert can trip here is the
			// payment_id idempotency guard; receipt numbers come from the
			// locked counter.
			if db.IsUniqueViolation(err, "") {
				return errDuplicateOrder
			}
			return fmt.Errorf("creating order: %w", err)
		}

		input := receipts.RenderInput{
			ReceiptNumber: receiptNumber,
			IssuedAt:      time.Now(),
			Items:         cart.Items,
			TotalPrice:    cart.TotalPrice,
			ShippingPrice: shippingPrice,
			CustomerName:  user.Name,
			CustomerPhone: user.Phone,
			Address:       deliveryAddress,
		}
		if err := receipts.IssueAll(ctx, s.receipts, input,
			enums.ReceiptTypeKitchen, enums.ReceiptTypeDelivery); err != nil {
			return fmt.Errorf("archiving receipts: %w", err)
		}

		return s.carts.ClearInTx(ctx, tx, payment.UserID)
	})
	if errors.Is(err, errDuplicateOrder) {
		// A concurrent callback settled this payment first.
		return s.orders.FindByPaymentID(ctx, payment.ID)
	}
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id":       order.ID.String(),
		"receipt_number": order.ReceiptNumber,
	}), "payment verified, order created")

	return order, nil
}

func (s *service) callbackURL(paymentID uuid.UUID) string {
	return fmt.Sprintf("%s/api/v1/payment/verify/%s", s.callbackBase, paymentID)
}
