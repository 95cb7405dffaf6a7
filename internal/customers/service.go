package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/firmarollers/b2b-backend/pkg/db"
	"github.com/firmarollers/b2b-backend/pkg/db/models"
	"github.com/firmarollers/b2b-backend/pkg/enums"
	pkgerrors "github.com/firmarollers/b2b-backend/pkg/errors"
	"github.com/firmarollers/b2b-backend/pkg/identity"
	"github.com/firmarollers/b2b-backend/pkg/logger"
	"github.com/firmarollers/b2b-backend/pkg/types"
)

type identityProvider interface {
	CreateUser(ctx context.Context, params identity.CreateUserParams) (uuid.UUID, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type welcomeSender interface {
	SendWelcome(ctx context.Context, customer *models.Customer) error
}

// Service manages customer accounts and their portal access.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Customer, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	GetByAuthUser(ctx context.Context, authUserID uuid.UUID) (*models.Customer, error)
	List(ctx context.Context) ([]models.Customer, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     Repository
	identity identityProvider
	emails   welcomeSender
	logg     *logger.Logger
}

// CreateInput carries the fields for a new customer account.
type CreateInput struct {
	CompanyName     string
	NombreComercial *string
	NifCif          string
	ContactoNombre  string
	Email           string
	Telefono        *string
	Password        string
	DireccionEnvio  types.ShippingAddress
	TarifaID        *uuid.UUID
	DescuentoPct    decimal.Decimal
}

// UpdateInput applies a partial customer update; nil fields are untouched.
type UpdateInput struct {
	CompanyName     *string
	NombreComercial *string
	NifCif          *string
	ContactoNombre  *string
	Telefono        *string
	DireccionEnvio  *types.ShippingAddress
	TarifaID        *uuid.UUID
	ClearTarifa     bool
	DescuentoPct    *decimal.Decimal
	Estado          *enums.CustomerEstado
}

// NewService builds a customers service with the required dependencies.
func NewService(repo Repository, provider identityProvider, emails welcomeSender, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	if provider == nil {
		return nil, fmt.Errorf("identity provider required")
	}
	if emails == nil {
		return nil, fmt.Errorf("email sender required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, identity: provider, emails: emails, logg: logg}, nil
}

// Create provisions the portal account first and only then inserts the row.
// If the insert fails the freshly provisioned account is deleted again so no
// orphaned login remains.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Customer, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a customer with this email already exists")
	} else if err != nil && err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing customer")
	}

	authUserID, err := s.identity.CreateUser(ctx, identity.CreateUserParams{
		Email:    email,
		Password: input.Password,
		Role:     enums.UserRoleCustomer,
	})
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		AuthUserID:      authUserID,
		CompanyName:     strings.TrimSpace(input.CompanyName),
		NombreComercial: input.NombreComercial,
		NifCif:          strings.TrimSpace(input.NifCif),
		ContactoNombre:  strings.TrimSpace(input.ContactoNombre),
		Email:           email,
		Telefono:        input.Telefono,
		DireccionEnvio:  input.DireccionEnvio,
		Estado:          enums.CustomerEstadoActive,
		TarifaID:        input.TarifaID,
		DescuentoPct:    input.DescuentoPct,
	}

	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		if delErr := s.identity.DeleteUser(ctx, authUserID); delErr != nil {
			s.logg.Error(ctx, "compensating identity deletion failed", delErr)
		}
		// the FindByEmail precheck races with concurrent creates; the
		// unique index has the final word
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a customer with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}

	// portal access works even if the welcome email does not go out
	if err := s.emails.SendWelcome(ctx, created); err != nil {
		s.logg.Error(s.logg.WithCustomerID(ctx, created.ID.String()), "welcome email failed", err)
	}

	return created, nil
}

func validateCreate(input CreateInput) error {
	switch {
	case strings.TrimSpace(input.CompanyName) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "company name is required")
	case strings.TrimSpace(input.NifCif) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "nif/cif is required")
	case strings.TrimSpace(input.ContactoNombre) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "contact name is required")
	case strings.TrimSpace(input.Email) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	case len(input.Password) < 8:
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	case input.DescuentoPct.IsNegative() || input.DescuentoPct.GreaterThan(decimal.NewFromInt(100)):
		return pkgerrors.New(pkgerrors.CodeValidation, "descuento must be between 0 and 100")
	}
	return nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Customer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	updates := map[string]any{}
	if input.CompanyName != nil {
		name := strings.TrimSpace(*input.CompanyName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name cannot be empty")
		}
		updates["company_name"] = name
	}
	if input.NombreComercial != nil {
		updates["nombre_comercial"] = *input.NombreComercial
	}
	if input.NifCif != nil {
		updates["nif_cif"] = strings.TrimSpace(*input.NifCif)
	}
	if input.ContactoNombre != nil {
		updates["contacto_nombre"] = strings.TrimSpace(*input.ContactoNombre)
	}
	if input.Telefono != nil {
		updates["telefono"] = *input.Telefono
	}
	if input.DireccionEnvio != nil {
		updates["direccion_envio"] = *input.DireccionEnvio
	}
	if input.ClearTarifa {
		updates["tarifa_id"] = nil
	} else if input.TarifaID != nil {
		updates["tarifa_id"] = *input.TarifaID
	}
	if input.DescuentoPct != nil {
		if input.DescuentoPct.IsNegative() || input.DescuentoPct.GreaterThan(decimal.NewFromInt(100)) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "descuento must be between 0 and 100")
		}
		updates["descuento_pct"] = *input.DescuentoPct
	}
	if input.Estado != nil {
		if !input.Estado.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid estado %q", *input.Estado))
		}
		updates["estado"] = *input.Estado
	}

	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	if _, err := s.mustFind(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}
	return s.Get(ctx, id)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	return s.mustFind(ctx, id)
}

func (s *service) GetByAuthUser(ctx context.Context, authUserID uuid.UUID) (*models.Customer, error) {
	if authUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	customer, err := s.repo.FindByAuthUserID(ctx, authUserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func (s *service) List(ctx context.Context) ([]models.Customer, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	return customers, nil
}

// Deactivate revokes portal access and marks the row inactive. Order history
// stays untouched.
func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Update(ctx, id, map[string]any{"estado": enums.CustomerEstadoInactive}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate customer")
	}

	if err := s.identity.DeleteUser(ctx, customer.AuthUserID); err != nil {
		return err
	}
	return nil
}

func (s *service) mustFind(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}
