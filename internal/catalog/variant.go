package catalog

import "strings"

type colorEntry struct {
	name string
	hex  string
}

// colorTable maps bilingual color names to swatch hexes. Order matters: the
// substring fallback returns the first entry contained in the input.
var colorTable = []colorEntry{
	{"black", "#111111"}, {"negro", "#111111"},
	{"white", "#f5f5f5"}, {"blanco", "#f5f5f5"},
	{"red", "#D93A35"}, {"rojo", "#D93A35"},
	{"blue", "#1a56db"}, {"azul", "#1a56db"},
	{"navy", "#1e3a5f"}, {"marino", "#1e3a5f"},
	{"green", "#15803d"}, {"verde", "#15803d"},
	{"pink", "#ec4899"}, {"rosa", "#ec4899"},
	{"yellow", "#eab308"}, {"amarillo", "#eab308"},
	{"orange", "#f97316"}, {"naranja", "#f97316"},
	{"purple", "#9333ea"}, {"morado", "#9333ea"}, {"lila", "#a855f7"},
	{"brown", "#92400e"}, {"marron", "#92400e"}, {"marrón", "#92400e"},
	{"gray", "#6b7280"}, {"grey", "#6b7280"}, {"gris", "#6b7280"},
	{"beige", "#d4b896"},
	{"cream", "#fdf0dc"}, {"crema", "#fdf0dc"},
	{"ivory", "#fffff0"},
	{"coral", "#ff6b6b"},
	{"teal", "#0d9488"},
	{"camel", "#c19a6b"},
	{"khaki", "#c3b091"}, {"caqui", "#c3b091"},
}

// ColorToHex resolves a color name to its swatch hex. Exact match first,
// then first-entry substring containment ("light gray" resolves via "gray").
func ColorToHex(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "", false
	}
	for _, entry := range colorTable {
		if entry.name == key {
			return entry.hex, true
		}
	}
	for _, entry := range colorTable {
		if strings.Contains(key, entry.name) {
			return entry.hex, true
		}
	}
	return "", false
}

// VariantParts is the color/size pair extracted from a variant label.
type VariantParts struct {
	Color *string
	Size  *string
}

// ParseVariant splits a "Color / Size" label. A single-part label is
// classified by color lookup: a known color name becomes the color,
// anything else becomes the size. Parts past the second are dropped.
func ParseVariant(label *string) VariantParts {
	if label == nil || strings.TrimSpace(*label) == "" {
		return VariantParts{}
	}

	parts := strings.Split(*label, "/")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) >= 2 {
		return VariantParts{Color: &parts[0], Size: &parts[1]}
	}

	if _, ok := ColorToHex(parts[0]); ok {
		return VariantParts{Color: &parts[0]}
	}
	return VariantParts{Size: &parts[0]}
}
