package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/kinly/internal/model"
)

const swatchDot = "●"

// Swatch renders a colored dot for a list. Malformed colors fall back to
// the default accent.
func Swatch(colorHex string) string {
	hex, ok := model.NormalizeColorHex(colorHex)
	if !ok {
		hex = model.DefaultColorHex
	}
	if !Enabled() {
		return swatchDot
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#" + hex)).Render(swatchDot)
}
