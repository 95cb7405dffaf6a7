package catalog

import (
	"math"
	"strconv"

	"github.com/firmarollers/b2b-backend/pkg/enums"
)

const (
	poundsToKg = 0.453592
	ouncesToKg = 0.0283495
)

// ToKilograms converts a catalog weight to kilograms, rounded to 3 decimal
// places. Unknown unit tags pass the value through unchanged so a missing
// weight record never breaks a listing.
func ToKilograms(value float64, unit string) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}

	kg := value
	switch enums.WeightUnit(unit) {
	case enums.WeightUnitGrams:
		kg = value / 1000
	case enums.WeightUnitPounds:
		kg = value * poundsToKg
	case enums.WeightUnitOunces:
		kg = value * ouncesToKg
	}

	return math.Round(kg*1000) / 1000
}

// WeightValue coerces raw upstream weight data into a float64. Non-numeric
// input yields zero rather than an error.
func WeightValue(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
