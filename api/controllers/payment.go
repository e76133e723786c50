package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amirdashti/darchin-backend/api/controllers/dto"
	"github.com/amirdashti/darchin-backend/api/middleware"
	"github.com/amirdashti/darchin-backend/api/responses"
	"github.com/amirdashti/darchin-backend/api/validators"
	paymentsvc "github.com/amirdashti/darchin-backend/internal/payment"
	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
	"github.com/amirdashti/darchin-backend/pkg/logger"
)

// PaymentCreate builds a pending payment from the caller's cart and default
// address and returns the gateway redirect URL.
func PaymentCreate(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		result, err := svc.CreatePayment(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto.NewPaymentCreated(result))
	}
}

// PaymentVerify is the gateway callback. It is unauthenticated: the shopper
// lands here from the gateway redirect, identified only by the payment id in
// the path and the Authority echoed in the query.
func PaymentVerify(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		paymentID, err := validators.ParsePathUUID(chi.URLParam(r, "paymentID"), "paymentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		authority := r.URL.Query().Get("Authority")
		callbackStatus := r.URL.Query().Get("Status")

		order, err := svc.VerifyPayment(r.Context(), paymentID, authority, callbackStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto.NewOrder(order))
	}
}
