package tariffs

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/firmarollers/b2b-backend/pkg/db/models"
	pkgerrors "github.com/firmarollers/b2b-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages tarifas and their per-SKU overrides.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Tarifa, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Tarifa, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Tarifa, error)
	List(ctx context.Context) ([]models.Tarifa, error)
	ReplacePrices(ctx context.Context, tarifaID uuid.UUID, prices []PriceInput) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// CreateInput carries the fields for a new tarifa.
type CreateInput struct {
	Nombre            string
	Descripcion       *string
	Multiplicador     decimal.Decimal
	Activo            *bool
	MinimumOrderValue decimal.Decimal
	PackSize          int
	HiddenProducts    []string
}

// UpdateInput applies a partial tarifa update; nil fields are untouched.
type UpdateInput struct {
	Nombre            *string
	Descripcion       *string
	Multiplicador     *decimal.Decimal
	Activo            *bool
	MinimumOrderValue *decimal.Decimal
	PackSize          *int
	HiddenProducts    []string
}

// PriceInput is one (sku, precio) override row for bulk replacement.
type PriceInput struct {
	SKU    string
	Precio decimal.Decimal
}

// NewService builds a tariffs service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tariffs repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Tarifa, error) {
	nombre := strings.TrimSpace(input.Nombre)
	if nombre == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nombre is required")
	}
	if !input.Multiplicador.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "multiplicador must be greater than zero")
	}
	if input.MinimumOrderValue.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum order value cannot be negative")
	}
	packSize := input.PackSize
	if packSize < 1 {
		packSize = 1
	}

	tarifa := &models.Tarifa{
		Nombre:            nombre,
		Descripcion:       input.Descripcion,
		Multiplicador:     input.Multiplicador,
		Activo:            true,
		MinimumOrderValue: input.MinimumOrderValue,
		PackSize:          packSize,
		HiddenProducts:    pq.StringArray(input.HiddenProducts),
	}
	if input.Activo != nil {
		tarifa.Activo = *input.Activo
	}

	created, err := s.repo.Create(ctx, tarifa)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create tarifa")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Tarifa, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tarifa id required")
	}

	updates := map[string]any{}
	if input.Nombre != nil {
		nombre := strings.TrimSpace(*input.Nombre)
		if nombre == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "nombre cannot be empty")
		}
		updates["nombre"] = nombre
	}
	if input.Descripcion != nil {
		updates["descripcion"] = *input.Descripcion
	}
	if input.Multiplicador != nil {
		if !input.Multiplicador.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "multiplicador must be greater than zero")
		}
		updates["multiplicador"] = *input.Multiplicador
	}
	if input.Activo != nil {
		updates["activo"] = *input.Activo
	}
	if input.MinimumOrderValue != nil {
		if input.MinimumOrderValue.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum order value cannot be negative")
		}
		updates["minimum_order_value"] = *input.MinimumOrderValue
	}
	if input.PackSize != nil {
		if *input.PackSize < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "pack size must be at least 1")
		}
		updates["pack_size"] = *input.PackSize
	}
	if input.HiddenProducts != nil {
		updates["hidden_products"] = pq.StringArray(input.HiddenProducts)
	}

	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	if _, err := s.mustFind(ctx, s.repo, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update tarifa")
	}
	return s.Get(ctx, id)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Tarifa, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tarifa id required")
	}
	return s.mustFind(ctx, s.repo, id)
}

func (s *service) List(ctx context.Context) ([]models.Tarifa, error) {
	tarifas, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tarifas")
	}
	return tarifas, nil
}

// ReplacePrices swaps the full override set for a tarifa in one transaction.
// Rows with a blank SKU are skipped; a precio of zero is kept because an
// override of zero is meaningful. Duplicate SKUs keep the last occurrence.
func (s *service) ReplacePrices(ctx context.Context, tarifaID uuid.UUID, prices []PriceInput) error {
	if tarifaID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "tarifa id required")
	}

	rows := make([]models.TarifaPrecio, 0, len(prices))
	seen := map[string]int{}
	for _, p := range prices {
		sku := strings.TrimSpace(p.SKU)
		if sku == "" {
			continue
		}
		if p.Precio.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("precio for %s cannot be negative", sku))
		}
		row := models.TarifaPrecio{TarifaID: tarifaID, SKU: sku, Precio: p.Precio}
		if idx, ok := seen[sku]; ok {
			rows[idx] = row
			continue
		}
		seen[sku] = len(rows)
		rows = append(rows, row)
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.mustFind(ctx, repo, tarifaID); err != nil {
			return err
		}
		if err := repo.DeletePrecios(ctx, tarifaID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear tarifa precios")
		}
		if err := repo.InsertPrecios(ctx, rows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert tarifa precios")
		}
		return nil
	})
}

func (s *service) mustFind(ctx context.Context, repo Repository, id uuid.UUID) (*models.Tarifa, error) {
	tarifa, err := repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tarifa not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tarifa")
	}
	return tarifa, nil
}
