package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/firmarollers/b2b-backend/api/responses"
	"github.com/firmarollers/b2b-backend/api/validators"
	customersvc "github.com/firmarollers/b2b-backend/internal/customers"
	"github.com/firmarollers/b2b-backend/pkg/enums"
	pkgerrors "github.com/firmarollers/b2b-backend/pkg/errors"
	"github.com/firmarollers/b2b-backend/pkg/logger"
	"github.com/firmarollers/b2b-backend/pkg/types"
)

type createCustomerRequest struct {
	CompanyName     string                `json:"company_name" validate:"required"`
	NombreComercial *string               `json:"nombre_comercial,omitempty"`
	NifCif          string                `json:"nif_cif" validate:"required"`
	ContactoNombre  string                `json:"contacto_nombre" validate:"required"`
	Email           string                `json:"email" validate:"required,email"`
	Telefono        *string               `json:"telefono,omitempty"`
	Password        string                `json:"password" validate:"required,min=8"`
	DireccionEnvio  types.ShippingAddress `json:"direccion_envio" validate:"required"`
	TarifaID        *string               `json:"tarifa_id,omitempty" validate:"omitempty,uuid"`
	DescuentoPct    *decimal.Decimal      `json:"descuento_pct,omitempty"`
}

type updateCustomerRequest struct {
	CompanyName     *string                `json:"company_name,omitempty"`
	NombreComercial *string                `json:"nombre_comercial,omitempty"`
	NifCif          *string                `json:"nif_cif,omitempty"`
	ContactoNombre  *string                `json:"contacto_nombre,omitempty"`
	Telefono        *string                `json:"telefono,omitempty"`
	DireccionEnvio  *types.ShippingAddress `json:"direccion_envio,omitempty"`
	TarifaID        *string                `json:"tarifa_id,omitempty"`
	DescuentoPct    *decimal.Decimal       `json:"descuento_pct,omitempty"`
	Estado          *string                `json:"estado,omitempty"`
}

func (r createCustomerRequest) toInput() (customersvc.CreateInput, error) {
	input := customersvc.CreateInput{
		CompanyName:     r.CompanyName,
		NombreComercial: r.NombreComercial,
		NifCif:          r.NifCif,
		ContactoNombre:  r.ContactoNombre,
		Email:           r.Email,
		Telefono:        r.Telefono,
		Password:        r.Password,
		DireccionEnvio:  r.DireccionEnvio,
	}
	if r.TarifaID != nil {
		tid, err := uuid.Parse(*r.TarifaID)
		if err != nil {
			return customersvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tarifa id")
		}
		input.TarifaID = &tid
	}
	if r.DescuentoPct != nil {
		input.DescuentoPct = *r.DescuentoPct
	}
	return input, nil
}

func (r updateCustomerRequest) toInput() (customersvc.UpdateInput, error) {
	input := customersvc.UpdateInput{
		CompanyName:     r.CompanyName,
		NombreComercial: r.NombreComercial,
		NifCif:          r.NifCif,
		ContactoNombre:  r.ContactoNombre,
		Telefono:        r.Telefono,
		DireccionEnvio:  r.DireccionEnvio,
		DescuentoPct:    r.DescuentoPct,
	}
	if r.TarifaID != nil {
		// An explicit empty string detaches the customer from its tarifa.
		if strings.TrimSpace(*r.TarifaID) == "" {
			input.ClearTarifa = true
		} else {
			tid, err := uuid.Parse(*r.TarifaID)
			if err != nil {
				return customersvc.UpdateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tarifa id")
			}
			input.TarifaID = &tid
		}
	}
	if r.Estado != nil {
		estado, err := enums.ParseCustomerEstado(*r.Estado)
		if err != nil {
			return customersvc.UpdateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid estado")
		}
		input.Estado = &estado
	}
	return input, nil
}

// CreateCustomer provisions an identity account and a customer row.
func CreateCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createCustomerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, customer)
	}
}

func ListCustomers(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customers, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customers)
	}
}

func GetCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customer)
	}
}

func UpdateCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCustomerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customer)
	}
}

// DeactivateCustomer soft-deletes the account and revokes portal access.
func DeactivateCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+param)
	}
	return id, nil
}
