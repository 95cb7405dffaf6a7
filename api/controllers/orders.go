package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/firmarollers/b2b-backend/api/responses"
	"github.com/firmarollers/b2b-backend/api/validators"
	ordersvc "github.com/firmarollers/b2b-backend/internal/orders"
	"github.com/firmarollers/b2b-backend/pkg/db/models"
	"github.com/firmarollers/b2b-backend/pkg/enums"
	pkgerrors "github.com/firmarollers/b2b-backend/pkg/errors"
	"github.com/firmarollers/b2b-backend/pkg/logger"
	"github.com/firmarollers/b2b-backend/pkg/pagination"
)

type orderItemRequest struct {
	SKU            string          `json:"sku" validate:"required"`
	NombreProducto string          `json:"nombre_producto" validate:"required"`
	Cantidad       int             `json:"cantidad" validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required"`
	PesoUnitario   decimal.Decimal `json:"peso_unitario"`
}

type createOrderRequest struct {
	CustomerID         string             `json:"customer_id" validate:"required,uuid"`
	Items              []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	CosteEnvioEstimado *decimal.Decimal   `json:"coste_envio_estimado,omitempty"`
	PaqueteAncho       *int               `json:"paquete_ancho,omitempty" validate:"omitempty,min=1"`
	PaqueteAlto        *int               `json:"paquete_alto,omitempty" validate:"omitempty,min=1"`
	PaqueteLargo       *int               `json:"paquete_largo,omitempty" validate:"omitempty,min=1"`
}

type changeOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type listOrdersResponse struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

func (r createOrderRequest) toInput() (ordersvc.CreateInput, error) {
	customerID, err := uuid.Parse(r.CustomerID)
	if err != nil {
		return ordersvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id")
	}

	items := make([]ordersvc.ItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, ordersvc.ItemInput{
			SKU:            item.SKU,
			NombreProducto: item.NombreProducto,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			PesoUnitario:   item.PesoUnitario,
		})
	}

	return ordersvc.CreateInput{
		CustomerID:         customerID,
		Items:              items,
		CosteEnvioEstimado: r.CosteEnvioEstimado,
		PaqueteAncho:       r.PaqueteAncho,
		PaqueteAlto:        r.PaqueteAlto,
		PaqueteLargo:       r.PaqueteLargo,
	}, nil
}

// CreateOrder confirms a back-office draft into a persisted order.
func CreateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// ListOrders pages through orders newest first. Supports customer_id and
// status filters plus cursor pagination.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := listFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, nextCursor, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listOrdersResponse{Orders: orders, NextCursor: nextCursor})
	}
}

func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ChangeOrderStatus moves an order along its lifecycle. Invalid edges come
// back as 422 with the offending pair.
func ChangeOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload changeOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requested, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		order, err := svc.ChangeStatus(r.Context(), id, requested)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func listFilterFromQuery(r *http.Request) (ordersvc.ListFilter, error) {
	limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
	if err != nil {
		return ordersvc.ListFilter{}, err
	}

	filter := ordersvc.ListFilter{
		Pagination: pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		},
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("customer_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return ordersvc.ListFilter{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer_id filter")
		}
		filter.CustomerID = &id
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		filter.Status = &raw
	}

	return filter, nil
}
