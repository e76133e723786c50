package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/amirdashti/darchin-backend/api/controllers/dto"
	"github.com/amirdashti/darchin-backend/api/middleware"
	"github.com/amirdashti/darchin-backend/api/responses"
	"github.com/amirdashti/darchin-backend/api/validators"
	cartsvc "github.com/amirdashti/darchin-backend/internal/cart"
	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
	"github.com/amirdashti/darchin-backend/pkg/logger"
)

type upsertCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	// Quantity zero removes the item from the cart.
	Quantity int `json:"quantity" validate:"min=0,max=100"`
}

// CartFetch returns the caller's active cart, empty when nothing was added.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		record, err := svc.Get(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto.NewCart(record))
	}
}

// CartUpsertItem sets the quantity of one product in the caller's cart.
func CartUpsertItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var body upsertCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.UpsertItem(r.Context(), middleware.UserIDFromContext(r.Context()), body.ProductID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto.NewCart(record))
	}
}
