package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amirdashti/darchin-backend/api/controllers"
	"github.com/amirdashti/darchin-backend/api/middleware"
	addresssvc "github.com/amirdashti/darchin-backend/internal/address"
	authsvc "github.com/amirdashti/darchin-backend/internal/auth"
	cartsvc "github.com/amirdashti/darchin-backend/internal/cart"
	ordersvc "github.com/amirdashti/darchin-backend/internal/orders"
	paymentsvc "github.com/amirdashti/darchin-backend/internal/payment"
	productsvc "github.com/amirdashti/darchin-backend/internal/products"
	receiptsvc "github.com/amirdashti/darchin-backend/internal/receipts"
	"github.com/amirdashti/darchin-backend/pkg/config"
	"github.com/amirdashti/darchin-backend/pkg/db"
	"github.com/amirdashti/darchin-backend/pkg/enums"
	"github.com/amirdashti/darchin-backend/pkg/logger"
	"github.com/amirdashti/darchin-backend/pkg/metrics"
	"github.com/amirdashti/darchin-backend/pkg/redis"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DB    *db.Client
	Redis *redis.Client

	HTTPMetrics *metrics.HTTPMetrics

	Auth     authsvc.Service
	Address  addresssvc.Service
	Cart     cartsvc.Service
	Catalog  productsvc.Service
	Orders   ordersvc.Service
	Payment  paymentsvc.Service
	Receipts receiptsvc.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(d.Auth, logg))
		r.Post("/register/verify", controllers.AuthRegisterVerify(d.Auth, logg))
		r.Post("/login", controllers.AuthLogin(d.Auth, logg))
		r.Post("/forgot-password", controllers.AuthForgotPassword(d.Auth, logg))
		r.Post("/reset-password", controllers.AuthResetPassword(d.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, d.Auth, logg)).Post("/logout", controllers.AuthLogout(d.Auth, logg))
	})

	// Public catalog.
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/categories", controllers.CategoriesList(d.Catalog, logg))
		r.Get("/products", controllers.ProductsList(d.Catalog, logg))
		r.Get("/products/{productID}", controllers.ProductGet(d.Catalog, logg))
	})

	// The gateway redirects the shopper here without a bearer token; the
	// payment id in the path is the only identity this endpoint gets.
	r.Get("/api/v1/payment/verify/{paymentID}", controllers.PaymentVerify(d.Payment, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Auth, logg))

		r.Route("/api/v1/addresses", func(r chi.Router) {
			r.Get("/", controllers.AddressList(d.Address, logg))
			r.Post("/", controllers.AddressCreate(d.Address, logg))
			r.Patch("/{addressID}", controllers.AddressUpdate(d.Address, logg))
			r.Delete("/{addressID}", controllers.AddressDelete(d.Address, logg))
			r.Post("/{addressID}/default", controllers.AddressSetDefault(d.Address, logg))
		})

		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(d.Cart, logg))
			r.Put("/items", controllers.CartUpsertItem(d.Cart, logg))
		})

		r.Post("/api/v1/payment/create", controllers.PaymentCreate(d.Payment, logg))

		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(d.Orders, logg))
			r.Get("/{orderID}", controllers.OrderGet(d.Orders, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Auth, logg))
		r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.CategoryCreate(d.Catalog, logg))
			r.Patch("/{categoryID}", controllers.CategoryUpdate(d.Catalog, logg))
			r.Delete("/{categoryID}", controllers.CategoryDelete(d.Catalog, logg))
		})
		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.ProductCreate(d.Catalog, logg))
			r.Patch("/{productID}", controllers.ProductUpdate(d.Catalog, logg))
			r.Delete("/{productID}", controllers.ProductDelete(d.Catalog, logg))
		})
		r.Post("/orders/{orderID}/status", controllers.OrderUpdateStatus(d.Orders, logg))
		r.Post("/receipts/reprint", controllers.ReceiptReprint(d.Receipts, logg))
	})

	return r
}
