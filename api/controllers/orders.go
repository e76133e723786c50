package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amirdashti/darchin-backend/api/controllers/dto"
	"github.com/amirdashti/darchin-backend/api/middleware"
	"github.com/amirdashti/darchin-backend/api/responses"
	"github.com/amirdashti/darchin-backend/api/validators"
	ordersvc "github.com/amirdashti/darchin-backend/internal/orders"
	"github.com/amirdashti/darchin-backend/pkg/enums"
	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
	"github.com/amirdashti/darchin-backend/pkg/logger"
)

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func OrdersList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		records, err := svc.ListByUser(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto.NewOrderList(records))
	}
}

func OrderGet(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Get(r.Context(), middleware.UserIDFromContext(r.Context()), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto.NewOrder(record))
	}
}

// OrderUpdateStatus moves an order along the fulfilment flow. Admin only.
func OrderUpdateStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		if err := svc.UpdateStatus(r.Context(), orderID, status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}
