// Package pricing resolves effective customer prices and order admission
// rules against the assigned tarifa. All functions are pure.
package pricing

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/firmarollers/b2b-backend/pkg/db/models"
)

var hundred = decimal.NewFromInt(100)

// ResolvePrice computes the effective unit price for one SKU.
//
// Resolution order: per-SKU override on the tarifa, then the tarifa
// multiplier, then the untouched base price when no tarifa is assigned.
// The personal discount applies after all of them. An override row with
// precio 0 is a real override (free item); presence of the row decides,
// never the value.
func ResolvePrice(sku string, basePrice decimal.Decimal, tarifa *models.Tarifa, descuentoPct decimal.Decimal) decimal.Decimal {
	base := basePrice
	if tarifa != nil {
		if override, ok := findOverride(tarifa, sku); ok {
			base = override
		} else {
			base = basePrice.Mul(tarifa.Multiplicador)
		}
	}
	return applyDiscount(base, descuentoPct)
}

func findOverride(tarifa *models.Tarifa, sku string) (decimal.Decimal, bool) {
	for _, precio := range tarifa.Precios {
		if precio.SKU == sku {
			return precio.Precio, true
		}
	}
	return decimal.Decimal{}, false
}

func applyDiscount(base, descuentoPct decimal.Decimal) decimal.Decimal {
	if descuentoPct.IsZero() {
		return base
	}
	return base.Mul(hundred.Sub(descuentoPct)).Div(hundred)
}

// IsOrderAdmissible reports whether the product subtotal satisfies the
// tarifa's minimum order value. No tarifa, or a zero minimum, admits any
// order.
func IsOrderAdmissible(tarifa *models.Tarifa, orderTotal decimal.Decimal) bool {
	if tarifa == nil || !tarifa.MinimumOrderValue.IsPositive() {
		return true
	}
	return orderTotal.GreaterThanOrEqual(tarifa.MinimumOrderValue)
}

// QuantizeResult reports whether a requested quantity fits the pack size
// and, when it does not, the closest valid quantity.
type QuantizeResult struct {
	Valid      bool
	NearestQty int
}

// QuantizeQuantity validates a requested quantity against the tarifa pack
// size. Valid iff the quantity is positive and a multiple of the pack size.
func QuantizeQuantity(requestedQty, packSize int) QuantizeResult {
	if packSize < 1 {
		packSize = 1
	}
	if requestedQty > 0 && requestedQty%packSize == 0 {
		return QuantizeResult{Valid: true, NearestQty: requestedQty}
	}
	if requestedQty <= 0 {
		return QuantizeResult{Valid: false, NearestQty: packSize}
	}
	packs := (requestedQty + packSize/2) / packSize
	if packs < 1 {
		packs = 1
	}
	return QuantizeResult{Valid: false, NearestQty: packs * packSize}
}

// IsProductVisible reports whether the product is offered to customers on
// the given tarifa. No tarifa means the full catalog is visible.
func IsProductVisible(productID string, tarifa *models.Tarifa) bool {
	if tarifa == nil {
		return true
	}
	return !slices.Contains(tarifa.HiddenProducts, productID)
}
