package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	paymentsvc "github.com/amirdashti/darchin-backend/internal/payment"
	"github.com/amirdashti/darchin-backend/pkg/db/models"
	"github.com/amirdashti/darchin-backend/pkg/enums"
	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
	"github.com/amirdashti/darchin-backend/pkg/types"
)

type stubPaymentService struct {
	createFn func(ctx context.Context, userID uuid.UUID) (*paymentsvc.CreatePaymentResult, error)
	verifyFn func(ctx context.Context, paymentID uuid.UUID, authority, callbackStatus string) (*models.Order, error)
}

func (s stubPaymentService) CreatePayment(ctx context.Context, userID uuid.UUID) (*paymentsvc.CreatePaymentResult, error) {
	return s.createFn(ctx, userID)
}

func (s stubPaymentService) VerifyPayment(ctx context.Context, paymentID uuid.UUID, authority, callbackStatus string) (*models.Order, error) {
	return s.verifyFn(ctx, paymentID, authority, callbackStatus)
}

func verifyRequestFor(paymentID, authority, status string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/?Authority="+authority+"&Status="+status, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("paymentID", paymentID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestPaymentVerifyPassesCallbackFields(t *testing.T) {
	paymentID := uuid.New()
	var gotAuthority, gotStatus string

	handler := PaymentVerify(stubPaymentService{
		verifyFn: func(_ context.Context, id uuid.UUID, authority, callbackStatus string) (*models.Order, error) {
			if id != paymentID {
				t.Fatalf("expected payment id %s got %s", paymentID, id)
			}
			gotAuthority, gotStatus = authority, callbackStatus
			return &models.Order{ID: uuid.New(), PaymentID: id, ReceiptNumber: 12}, nil
		},
	}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, verifyRequestFor(paymentID.String(), "A0000012345", "OK"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotAuthority != "A0000012345" || gotStatus != "OK" {
		t.Fatalf("callback fields not forwarded: %q %q", gotAuthority, gotStatus)
	}

	var body types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	payload := body.Data.(map[string]any)
	if payload["receipt_number"].(float64) != 12 {
		t.Fatalf("unexpected receipt number in %v", payload)
	}
}

func TestPaymentVerifyRejectsBadID(t *testing.T) {
	handler := PaymentVerify(stubPaymentService{
		verifyFn: func(context.Context, uuid.UUID, string, string) (*models.Order, error) {
			t.Fatal("service must not be called for a malformed id")
			return nil, nil
		},
	}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, verifyRequestFor("not-a-uuid", "A1", "OK"))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestPaymentVerifyMapsCanceledPayment(t *testing.T) {
	handler := PaymentVerify(stubPaymentService{
		verifyFn: func(context.Context, uuid.UUID, string, string) (*models.Order, error) {
			return nil, paymentsvc.ErrPaymentCanceled
		},
	}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, verifyRequestFor(uuid.NewString(), "A1", "NOK"))

	// Cancellation is the customer's decision, not a broken dependency, so
	// it must not surface as a retryable 5xx.
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}

	var body types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Error.Code != string(pkgerrors.CodeStateConflict) {
		t.Fatalf("unexpected error code %s", body.Error.Code)
	}
}

func TestPaymentCreateReturnsRedirect(t *testing.T) {
	handler := PaymentCreate(stubPaymentService{
		createFn: func(context.Context, uuid.UUID) (*paymentsvc.CreatePaymentResult, error) {
			return &paymentsvc.CreatePaymentResult{
				PaymentID:     uuid.New(),
				Authority:     "A0000012345",
				PayURL:        "https://sandbox.zarinpal.com/pg/StartPay/A0000012345",
				Amount:        2300000,
				TotalPrice:    200000,
				ShippingPrice: 30000,
				Status:        enums.PaymentStatusPending,
			}, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	var body types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	payload := body.Data.(map[string]any)
	if payload["pay_url"] != "https://sandbox.zarinpal.com/pg/StartPay/A0000012345" {
		t.Fatalf("unexpected pay url in %v", payload)
	}
	if payload["amount"].(float64) != 2300000 {
		t.Fatalf("unexpected amount in %v", payload)
	}
	if payload["total_price"].(float64) != 200000 || payload["shipping_price"].(float64) != 30000 {
		t.Fatalf("quoted totals missing from %v", payload)
	}
}
