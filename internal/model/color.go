package model

import (
	"strings"
)

const DefaultColorHex = "007AFF"

// Swatch is one entry of the list color picker.
type Swatch struct {
	Name string
	Hex  string
}

// Palette is the fixed set offered when creating a list.
var Palette = []Swatch{
	{"blue", "007AFF"},
	{"red", "FF3B30"},
	{"green", "34C759"},
	{"orange", "FF9500"},
	{"purple", "AF52DE"},
	{"pink", "FF2D55"},
	{"indigo", "5856D6"},
	{"teal", "00C7BE"},
}

// NormalizeColorHex accepts "007aff" or "#007AFF" and returns "007AFF".
func NormalizeColorHex(s string) (string, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return "", false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return "", false
		}
	}
	return strings.ToUpper(s), true
}

// ResolveColor maps a palette name or a hex string to a hex string.
func ResolveColor(s string) (string, bool) {
	for _, sw := range Palette {
		if strings.EqualFold(sw.Name, strings.TrimSpace(s)) {
			return sw.Hex, true
		}
	}
	return NormalizeColorHex(s)
}

// NextSwatch cycles the palette starting after hex.
func NextSwatch(hex string) Swatch {
	for i, sw := range Palette {
		if sw.Hex == hex {
			return Palette[(i+1)%len(Palette)]
		}
	}
	return Palette[0]
}
