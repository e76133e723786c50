package controllers

import (
	"net/http"

	"github.com/amirdashti/darchin-backend/api/responses"
	"github.com/amirdashti/darchin-backend/api/validators"
	receiptsvc "github.com/amirdashti/darchin-backend/internal/receipts"
	"github.com/amirdashti/darchin-backend/pkg/enums"
	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
	"github.com/amirdashti/darchin-backend/pkg/logger"
)

type reprintRequest struct {
	Type          string `json:"type" validate:"required"`
	ReceiptNumber int64  `json:"receipt_number" validate:"required,min=1"`
}

// ReceiptReprint re-sends an archived receipt to the thermal printer. Unlike
// the original print at settlement, a reprint failure is reported to the
// caller so staff know the printer needs attention. Admin only.
func ReceiptReprint(svc receiptsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "receipts service unavailable"))
			return
		}

		var body reprintRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receiptType, err := enums.ParseReceiptType(body.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid receipt type"))
			return
		}

		if err := svc.Reprint(r.Context(), receiptType, body.ReceiptNumber); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "printed"})
	}
}
