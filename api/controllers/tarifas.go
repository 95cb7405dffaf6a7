package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/firmarollers/b2b-backend/api/responses"
	"github.com/firmarollers/b2b-backend/api/validators"
	tariffsvc "github.com/firmarollers/b2b-backend/internal/tariffs"
	"github.com/firmarollers/b2b-backend/pkg/logger"
)

type createTarifaRequest struct {
	Nombre            string           `json:"nombre" validate:"required"`
	Descripcion       *string          `json:"descripcion,omitempty"`
	Multiplicador     decimal.Decimal  `json:"multiplicador" validate:"required"`
	Activo            *bool            `json:"activo,omitempty"`
	MinimumOrderValue *decimal.Decimal `json:"minimum_order_value,omitempty"`
	PackSize          *int             `json:"pack_size,omitempty" validate:"omitempty,min=1"`
	HiddenProducts    []string         `json:"hidden_products,omitempty"`
}

type updateTarifaRequest struct {
	Nombre            *string          `json:"nombre,omitempty"`
	Descripcion       *string          `json:"descripcion,omitempty"`
	Multiplicador     *decimal.Decimal `json:"multiplicador,omitempty"`
	Activo            *bool            `json:"activo,omitempty"`
	MinimumOrderValue *decimal.Decimal `json:"minimum_order_value,omitempty"`
	PackSize          *int             `json:"pack_size,omitempty" validate:"omitempty,min=1"`
	HiddenProducts    []string         `json:"hidden_products,omitempty"`
}

type tarifaPriceRequest struct {
	SKU    string          `json:"sku" validate:"required"`
	Precio decimal.Decimal `json:"precio" validate:"required"`
}

type replacePricesRequest struct {
	Precios []tarifaPriceRequest `json:"precios" validate:"required,dive"`
}

func (r createTarifaRequest) toInput() tariffsvc.CreateInput {
	input := tariffsvc.CreateInput{
		Nombre:         r.Nombre,
		Descripcion:    r.Descripcion,
		Multiplicador:  r.Multiplicador,
		Activo:         r.Activo,
		HiddenProducts: r.HiddenProducts,
	}
	if r.MinimumOrderValue != nil {
		input.MinimumOrderValue = *r.MinimumOrderValue
	}
	if r.PackSize != nil {
		input.PackSize = *r.PackSize
	}
	return input
}

func (r updateTarifaRequest) toInput() tariffsvc.UpdateInput {
	return tariffsvc.UpdateInput{
		Nombre:            r.Nombre,
		Descripcion:       r.Descripcion,
		Multiplicador:     r.Multiplicador,
		Activo:            r.Activo,
		MinimumOrderValue: r.MinimumOrderValue,
		PackSize:          r.PackSize,
		HiddenProducts:    r.HiddenProducts,
	}
}

func CreateTarifa(svc tariffsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createTarifaRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tarifa, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, tarifa)
	}
}

func ListTarifas(svc tariffsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tarifas, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tarifas)
	}
}

func GetTarifa(svc tariffsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "tarifaID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tarifa, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tarifa)
	}
}

func UpdateTarifa(svc tariffsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "tarifaID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateTarifaRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tarifa, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tarifa)
	}
}

// ReplaceTarifaPrices swaps the full per-SKU override set in one transaction.
func ReplaceTarifaPrices(svc tariffsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "tarifaID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload replacePricesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		prices := make([]tariffsvc.PriceInput, 0, len(payload.Precios))
		for _, p := range payload.Precios {
			prices = append(prices, tariffsvc.PriceInput{SKU: p.SKU, Precio: p.Precio})
		}

		if err := svc.ReplacePrices(r.Context(), id, prices); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"precios": len(prices)})
	}
}
