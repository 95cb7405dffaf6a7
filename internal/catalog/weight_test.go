package catalog

import (
	"math"
	"testing"
)

func TestToKilograms(t *testing.T) {
	cases := []struct {
		value float64
		unit  string
		want  float64
	}{
		{1000, "GRAMS", 1.000},
		{250, "GRAMS", 0.250},
		{1, "POUNDS", 0.454},
		{16, "OUNCES", 0.454},
		{2.5, "KILOGRAMS", 2.5},
		{5, "foo", 5},
		{0, "GRAMS", 0},
		{1234, "GRAMS", 1.234},
	}

	for _, c := range cases {
		got := ToKilograms(c.value, c.unit)
		if got != c.want {
			t.Errorf("ToKilograms(%v, %q) = %v, want %v", c.value, c.unit, got, c.want)
		}
	}
}

func TestToKilogramsNonFinite(t *testing.T) {
	if got := ToKilograms(math.NaN(), "GRAMS"); got != 0 {
		t.Fatalf("NaN should convert to 0, got %v", got)
	}
	if got := ToKilograms(math.Inf(1), "POUNDS"); got != 0 {
		t.Fatalf("Inf should convert to 0, got %v", got)
	}
}

func TestWeightValue(t *testing.T) {
	cases := []struct {
		raw  any
		want float64
	}{
		{nil, 0},
		{float64(1.5), 1.5},
		{float32(2), 2},
		{int(3), 3},
		{int64(4), 4},
		{"1.25", 1.25},
		{"abc", 0},
		{struct{}{}, 0},
	}

	for _, c := range cases {
		if got := WeightValue(c.raw); got != c.want {
			t.Errorf("WeightValue(%v) = %v, want %v", c.raw, got, c.want)
		}
	}
}
