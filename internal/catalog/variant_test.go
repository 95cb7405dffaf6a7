package catalog

import "testing"

func strptr(s string) *string { return &s }

func TestParseVariantColorAndSize(t *testing.T) {
	parts := ParseVariant(strptr("Red / M"))
	if parts.Color == nil || *parts.Color != "Red" {
		t.Fatalf("expected color Red, got %v", parts.Color)
	}
	if parts.Size == nil || *parts.Size != "M" {
		t.Fatalf("expected size M, got %v", parts.Size)
	}
}

func TestParseVariantDropsThirdPart(t *testing.T) {
	parts := ParseVariant(strptr("Azul / XL / Premium"))
	if parts.Color == nil || *parts.Color != "Azul" {
		t.Fatalf("expected color Azul, got %v", parts.Color)
	}
	if parts.Size == nil || *parts.Size != "XL" {
		t.Fatalf("expected size XL, got %v", parts.Size)
	}
}

func TestParseVariantSinglePartColor(t *testing.T) {
	parts := ParseVariant(strptr("Red"))
	if parts.Color == nil || *parts.Color != "Red" {
		t.Fatalf("expected single color part, got %v", parts.Color)
	}
	if parts.Size != nil {
		t.Fatalf("expected no size, got %v", *parts.Size)
	}
}

func TestParseVariantSinglePartSize(t *testing.T) {
	parts := ParseVariant(strptr("XL"))
	if parts.Size == nil || *parts.Size != "XL" {
		t.Fatalf("expected size XL, got %v", parts.Size)
	}
	if parts.Color != nil {
		t.Fatalf("expected no color, got %v", *parts.Color)
	}
}

func TestParseVariantMissingLabel(t *testing.T) {
	parts := ParseVariant(nil)
	if parts.Color != nil || parts.Size != nil {
		t.Fatalf("nil label should yield empty parts, got %+v", parts)
	}

	parts = ParseVariant(strptr("  "))
	if parts.Color != nil || parts.Size != nil {
		t.Fatalf("blank label should yield empty parts, got %+v", parts)
	}
}

func TestColorToHexExactMatch(t *testing.T) {
	hex, ok := ColorToHex("Rojo")
	if !ok || hex != "#D93A35" {
		t.Fatalf("expected red hex for Rojo, got %q ok=%v", hex, ok)
	}

	hex, ok = ColorToHex("  BLACK  ")
	if !ok || hex != "#111111" {
		t.Fatalf("expected black hex with trimming and case folding, got %q ok=%v", hex, ok)
	}
}

func TestColorToHexSubstringFallback(t *testing.T) {
	hex, ok := ColorToHex("light gray")
	if !ok || hex != "#6b7280" {
		t.Fatalf("expected gray hex via substring fallback, got %q ok=%v", hex, ok)
	}

	hex, ok = ColorToHex("azul marino oscuro")
	if !ok || hex != "#1a56db" {
		t.Fatalf("substring fallback is first-entry-wins, expected azul hex, got %q", hex)
	}
}

func TestColorToHexUnknown(t *testing.T) {
	if _, ok := ColorToHex("fucsia"); ok {
		t.Fatalf("unknown color should not resolve")
	}
	if _, ok := ColorToHex(""); ok {
		t.Fatalf("empty input should not resolve")
	}
}
