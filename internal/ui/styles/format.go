package styles

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// FormatPercent renders a 0..1 level as a whole percentage.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%d%%", int(v*100+0.5))
}

// FormatTempo renders a tempo multiplier such as "1.25x".
func FormatTempo(t float64) string {
	return fmt.Sprintf("%.2fx", t)
}

// Dim blends hex toward the theme background by amount (0 keeps the color,
// 1 is the background). Invalid colors are returned unchanged.
func Dim(hex string, amount float64) string {
	if amount <= 0 {
		return hex
	}
	if amount >= 1 {
		return BackgroundColor.Dark
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	bg, err := colorful.Hex(BackgroundColor.Dark)
	if err != nil {
		return hex
	}
	return c.BlendLab(bg, amount).Clamped().Hex()
}

// Contrast returns black or white, whichever reads better on the hex background.
func Contrast(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return TextPrimaryColor.Dark
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return "#000000"
	}
	return "#FFFFFF"
}
