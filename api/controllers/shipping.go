package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/firmarollers/b2b-backend/api/responses"
	"github.com/firmarollers/b2b-backend/api/validators"
	shippingsvc "github.com/firmarollers/b2b-backend/internal/shipping"
	pkgerrors "github.com/firmarollers/b2b-backend/pkg/errors"
	"github.com/firmarollers/b2b-backend/pkg/logger"
)

type bookShipmentRequest struct {
	ServiceID int64            `json:"service_id" validate:"required,min=1"`
	Price     *decimal.Decimal `json:"price,omitempty"`
}

type quoteRequest struct {
	OrderID string `json:"order_id" validate:"required,uuid"`
}

// RequestShippingQuotes returns the bookable carrier services for an order,
// priced against the warehouse-to-customer route and the frozen package
// snapshot.
func RequestShippingQuotes(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuid.Parse(payload.OrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		quotes, err := svc.Quote(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quotes)
	}
}

// BookShipment registers the shipment with the carrier and moves the order
// to enviado.
func BookShipment(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload bookShipmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.BookShipment(r.Context(), id, shippingsvc.BookInput{
			ServiceID: payload.ServiceID,
			Price:     payload.Price,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// RefreshOrderTracking pulls the live carrier state for a shipped order and
// persists the tracking link.
func RefreshOrderTracking(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		info, err := svc.RefreshTracking(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, info)
	}
}
