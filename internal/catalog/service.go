package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/firmarollers/b2b-backend/internal/pricing"
	"github.com/firmarollers/b2b-backend/pkg/db/models"
	pkgerrors "github.com/firmarollers/b2b-backend/pkg/errors"
	"github.com/firmarollers/b2b-backend/pkg/shopify"
)

const defaultVariantTitle = "Default Title"

type catalogSource interface {
	ListProducts(ctx context.Context) ([]shopify.Product, error)
}

// Item is one sellable catalog row as served to the dashboard and portal.
type Item struct {
	ProductID      string          `json:"product_id"`
	SKU            string          `json:"sku"`
	NombreProducto string          `json:"nombre_producto"`
	Variante       *string         `json:"variante,omitempty"`
	Color          *string         `json:"color,omitempty"`
	ColorHex       *string         `json:"color_hex,omitempty"`
	Talla          *string         `json:"talla,omitempty"`
	Precio         decimal.Decimal `json:"precio"`
	PesoKg         float64         `json:"peso_kg"`
	Imagen         *string         `json:"imagen,omitempty"`
}

// Viewer scopes a listing to the requesting actor. The zero value is the
// back-office view: full catalog at base wholesale prices.
type Viewer struct {
	Tarifa       *models.Tarifa
	DescuentoPct decimal.Decimal
}

// Service lists the catalog with viewer pricing and visibility applied.
type Service interface {
	List(ctx context.Context, viewer Viewer) ([]Item, error)
}

type service struct {
	source catalogSource
}

// NewService builds a catalog service backed by the given source.
func NewService(source catalogSource) (Service, error) {
	if source == nil {
		return nil, fmt.Errorf("catalog source required")
	}
	return &service{source: source}, nil
}

func (s *service) List(ctx context.Context, viewer Viewer) ([]Item, error) {
	products, err := s.source.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch catalog")
	}

	items := make([]Item, 0, len(products))
	for _, product := range products {
		if !pricing.IsProductVisible(product.ID, viewer.Tarifa) {
			continue
		}
		for _, variant := range product.Variants {
			if variant.SKU == "" {
				continue
			}
			items = append(items, s.mapVariant(product, variant, viewer))
		}
	}
	return items, nil
}

func (s *service) mapVariant(product shopify.Product, variant shopify.Variant, viewer Viewer) Item {
	item := Item{
		ProductID:      product.ID,
		SKU:            variant.SKU,
		NombreProducto: product.Title,
		PesoKg:         ToKilograms(WeightValue(variant.Weight.Value), variant.Weight.Unit),
		Imagen:         product.ImageURL,
	}
	if variant.ImageURL != nil {
		item.Imagen = variant.ImageURL
	}

	if variant.Title != "" && variant.Title != defaultVariantTitle {
		title := variant.Title
		item.Variante = &title
		parts := ParseVariant(&title)
		item.Color = parts.Color
		item.Talla = parts.Size
		if parts.Color != nil {
			if hex, ok := ColorToHex(*parts.Color); ok {
				item.ColorHex = &hex
			}
		}
	}

	base, err := decimal.NewFromString(variant.Price)
	if err != nil {
		base = decimal.Zero
	}
	item.Precio = pricing.ResolvePrice(variant.SKU, base, viewer.Tarifa, viewer.DescuentoPct)
	return item
}
