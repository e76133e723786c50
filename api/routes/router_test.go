package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	addresssvc "github.com/amirdashti/darchin-backend/internal/address"
	authsvc "github.com/amirdashti/darchin-backend/internal/auth"
	paymentsvc "github.com/amirdashti/darchin-backend/internal/payment"
	productsvc "github.com/amirdashti/darchin-backend/internal/products"
	pkgauth "github.com/amirdashti/darchin-backend/pkg/auth"
	"github.com/amirdashti/darchin-backend/pkg/config"
	"github.com/amirdashti/darchin-backend/pkg/db/models"
	"github.com/amirdashti/darchin-backend/pkg/enums"
	"github.com/amirdashti/darchin-backend/pkg/types"
)

type stubAuthService struct{}

func (stubAuthService) RegisterStart(context.Context, authsvc.RegisterInput) error { return nil }
func (stubAuthService) RegisterVerify(context.Context, string, string) (*authsvc.AuthResult, error) {
	return &authsvc.AuthResult{Token: "t", User: &models.User{}}, nil
}
func (stubAuthService) Login(context.Context, string, string) (*authsvc.AuthResult, error) {
	return &authsvc.AuthResult{Token: "t", User: &models.User{}}, nil
}
func (stubAuthService) Logout(context.Context, string, time.Duration) error { return nil }
func (stubAuthService) IsBlacklisted(context.Context, string) (bool, error) { return false, nil }
func (stubAuthService) ForgotPassword(context.Context, string) error        { return nil }
func (stubAuthService) ResetPassword(context.Context, string, string, string) error {
	return nil
}

type stubAddressService struct{}

func (stubAddressService) Create(context.Context, uuid.UUID, addresssvc.CreateInput) (*models.Address, error) {
	return &models.Address{}, nil
}
func (stubAddressService) List(context.Context, uuid.UUID) ([]models.Address, error) {
	return nil, nil
}
func (stubAddressService) Update(context.Context, uuid.UUID, uuid.UUID, addresssvc.UpdateInput) (*models.Address, error) {
	return &models.Address{}, nil
}
func (stubAddressService) Delete(context.Context, uuid.UUID, uuid.UUID) error     { return nil }
func (stubAddressService) SetDefault(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (stubAddressService) GetDefault(context.Context, uuid.UUID) (*models.Address, error) {
	return &models.Address{}, nil
}
func (stubAddressService) CacheShippingPriceInTx(context.Context, *gorm.DB, uuid.UUID, int) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) Get(context.Context, uuid.UUID) (*models.Cart, error) {
	return &models.Cart{Items: types.OrderItems{}}, nil
}
func (stubCartService) UpsertItem(context.Context, uuid.UUID, uuid.UUID, int) (*models.Cart, error) {
	return &models.Cart{Items: types.OrderItems{}}, nil
}
func (stubCartService) ClearInTx(context.Context, *gorm.DB, uuid.UUID) error { return nil }

type stubCatalogService struct{}

func (stubCatalogService) ListCategories(context.Context) ([]models.Category, error) {
	return nil, nil
}
func (stubCatalogService) CreateCategory(context.Context, productsvc.CreateCategoryInput) (*models.Category, error) {
	return &models.Category{}, nil
}
func (stubCatalogService) UpdateCategory(context.Context, uuid.UUID, *string, *string) (*models.Category, error) {
	return &models.Category{}, nil
}
func (stubCatalogService) DeleteCategory(context.Context, uuid.UUID) error { return nil }
func (stubCatalogService) ListProducts(context.Context, productsvc.ProductFilters) ([]models.Product, error) {
	return nil, nil
}
func (stubCatalogService) GetProduct(context.Context, uuid.UUID) (*models.Product, error) {
	return &models.Product{}, nil
}
func (stubCatalogService) CreateProduct(context.Context, productsvc.CreateProductInput) (*models.Product, error) {
	return &models.Product{}, nil
}
func (stubCatalogService) UpdateProduct(context.Context, uuid.UUID, productsvc.UpdateProductInput) (*models.Product, error) {
	return &models.Product{}, nil
}
func (stubCatalogService) DeleteProduct(context.Context, uuid.UUID) error { return nil }

type stubOrdersService struct{}

func (stubOrdersService) ListByUser(context.Context, uuid.UUID) ([]models.Order, error) {
	return nil, nil
}
func (stubOrdersService) Get(context.Context, uuid.UUID, uuid.UUID) (*models.Order, error) {
	return &models.Order{}, nil
}
func (stubOrdersService) UpdateStatus(context.Context, uuid.UUID, enums.OrderStatus) error {
	return nil
}

type stubPaymentService struct {
	verifiedID uuid.UUID
}

func (stubPaymentService) CreatePayment(context.Context, uuid.UUID) (*paymentsvc.CreatePaymentResult, error) {
	return &paymentsvc.CreatePaymentResult{Status: enums.PaymentStatusPending}, nil
}

func (s *stubPaymentService) VerifyPayment(_ context.Context, paymentID uuid.UUID, _, _ string) (*models.Order, error) {
	s.verifiedID = paymentID
	return &models.Order{ID: uuid.New(), PaymentID: paymentID, ReceiptNumber: 7}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "darchin", ExpirationMinutes: 60},
	}
}

func newTestRouter(t *testing.T, payments *stubPaymentService) http.Handler {
	t.Helper()
	return NewRouter(Deps{
		Config:  testConfig(),
		Auth:    stubAuthService{},
		Address: stubAddressService{},
		Cart:    stubCartService{},
		Catalog: stubCatalogService{},
		Orders:  stubOrdersService{},
		Payment: payments,
	})
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t, &stubPaymentService{})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t, &stubPaymentService{})

	for _, path := range []string{"/api/v1/cart/", "/api/v1/orders/", "/api/v1/addresses/"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s got %d", path, resp.Code)
		}
	}
}

func TestPaymentVerifyIsPublic(t *testing.T) {
	payments := &stubPaymentService{}
	router := newTestRouter(t, payments)

	paymentID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/payment/verify/"+paymentID.String()+"?Authority=A1&Status=OK", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (body %s)", resp.Code, resp.Body.String())
	}
	if payments.verifiedID != paymentID {
		t.Fatalf("expected verify called with %s got %s", paymentID, payments.verifiedID)
	}

	var body types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	router := newTestRouter(t, &stubPaymentService{})
	cfg := testConfig()

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Phone:  "09120000000",
		Role:   enums.UserRoleUser,
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/receipts/reprint", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestCartFetchWithValidToken(t *testing.T) {
	router := newTestRouter(t, &stubPaymentService{})
	cfg := testConfig()

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Phone:  "09120000000",
		Role:   enums.UserRoleUser,
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (body %s)", resp.Code, resp.Body.String())
	}
}
