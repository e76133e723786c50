package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amirdashti/darchin-backend/api/controllers/dto"
	"github.com/amirdashti/darchin-backend/api/middleware"
	"github.com/amirdashti/darchin-backend/api/responses"
	"github.com/amirdashti/darchin-backend/api/validators"
	addresssvc "github.com/amirdashti/darchin-backend/internal/address"
	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
	"github.com/amirdashti/darchin-backend/pkg/logger"
)

type createAddressRequest struct {
	Address   string   `json:"address" validate:"required,min=5,max=500"`
	Lat       *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng       *float64 `json:"lng" validate:"omitempty,longitude"`
	IsDefault bool     `json:"is_default"`
}

type updateAddressRequest struct {
	Address *string  `json:"address" validate:"omitempty,min=5,max=500"`
	Lat     *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng     *float64 `json:"lng" validate:"omitempty,longitude"`
}

func AddressCreate(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		var body createAddressRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Create(r.Context(), middleware.UserIDFromContext(r.Context()), addresssvc.CreateInput{
			Address:   body.Address,
			Lat:       body.Lat,
			Lng:       body.Lng,
			IsDefault: body.IsDefault,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto.NewAddress(record))
	}
}

func AddressList(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		records, err := svc.List(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto.NewAddressList(records))
	}
}

func AddressUpdate(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		addressID, err := validators.ParsePathUUID(chi.URLParam(r, "addressID"), "addressID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateAddressRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Update(r.Context(), middleware.UserIDFromContext(r.Context()), addressID, addresssvc.UpdateInput{
			Address: body.Address,
			Lat:     body.Lat,
			Lng:     body.Lng,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto.NewAddress(record))
	}
}

func AddressDelete(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		addressID, err := validators.ParsePathUUID(chi.URLParam(r, "addressID"), "addressID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), middleware.UserIDFromContext(r.Context()), addressID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func AddressSetDefault(svc addresssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		addressID, err := validators.ParsePathUUID(chi.URLParam(r, "addressID"), "addressID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetDefault(r.Context(), middleware.UserIDFromContext(r.Context()), addressID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "default_set"})
	}
}
