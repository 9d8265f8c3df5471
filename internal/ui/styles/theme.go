// Package styles contains Lip Gloss style definitions and theme presets.
package styles

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ColorToken names a themable color.
type ColorToken string

const (
	TokenTextPrimary   ColorToken = "text.primary"
	TokenTextSecondary ColorToken = "text.secondary"
	TokenTextMuted     ColorToken = "text.muted"
	TokenBorderDefault ColorToken = "border.default"
	TokenBorderFocus   ColorToken = "border.focus"
	TokenStatusError   ColorToken = "status.error"
	TokenStatusSuccess ColorToken = "status.success"
	TokenBackground    ColorToken = "background"
	TokenSpectrum      ColorToken = "spectrum"
)

// Preset is a named set of colors.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// ThemeConfig selects a preset and optional per-token overrides.
type ThemeConfig struct {
	Preset string
	Colors map[string]string
}

// DarkPreset is applied when no preset is named.
var DarkPreset = Preset{
	Name:        "dark",
	Description: "Light text on a dark terminal",
	Colors: map[ColorToken]string{
		TokenTextPrimary:   "#E6E6E6",
		TokenTextSecondary: "#A8A8B3",
		TokenTextMuted:     "#6B6B78",
		TokenBorderDefault: "#3C3C48",
		TokenBorderFocus:   "#7D9CFF",
		TokenStatusError:   "#FF5F5F",
		TokenStatusSuccess: "#5FD787",
		TokenBackground:    "#16161C",
		TokenSpectrum:      "#7D9CFF",
	},
}

// LightPreset suits light terminal backgrounds.
var LightPreset = Preset{
	Name:        "light",
	Description: "Dark text on a light terminal",
	Colors: map[ColorToken]string{
		TokenTextPrimary:   "#1F1F24",
		TokenTextSecondary: "#4A4A55",
		TokenTextMuted:     "#8A8A96",
		TokenBorderDefault: "#C8C8D0",
		TokenBorderFocus:   "#3559D8",
		TokenStatusError:   "#C81E1E",
		TokenStatusSuccess: "#1E8C46",
		TokenBackground:    "#F7F7FA",
		TokenSpectrum:      "#3559D8",
	},
}

// Presets holds every selectable preset by name.
var Presets = map[string]Preset{
	DarkPreset.Name:  DarkPreset,
	LightPreset.Name: LightPreset,
}

// Current colors, replaced by ApplyTheme.
var (
	TextPrimaryColor   lipgloss.AdaptiveColor
	TextSecondaryColor lipgloss.AdaptiveColor
	TextMutedColor     lipgloss.AdaptiveColor
	BorderDefaultColor lipgloss.AdaptiveColor
	BorderFocusColor   lipgloss.AdaptiveColor
	StatusErrorColor   lipgloss.AdaptiveColor
	StatusSuccessColor lipgloss.AdaptiveColor
	BackgroundColor    lipgloss.AdaptiveColor
	SpectrumColor      lipgloss.AdaptiveColor
)

var current = DarkPreset.Name

func init() {
	apply(DarkPreset.Colors)
}

func tokenTargets() map[ColorToken]*lipgloss.AdaptiveColor {
	return map[ColorToken]*lipgloss.AdaptiveColor{
		TokenTextPrimary:   &TextPrimaryColor,
		TokenTextSecondary: &TextSecondaryColor,
		TokenTextMuted:     &TextMutedColor,
		TokenBorderDefault: &BorderDefaultColor,
		TokenBorderFocus:   &BorderFocusColor,
		TokenStatusError:   &StatusErrorColor,
		TokenStatusSuccess: &StatusSuccessColor,
		TokenBackground:    &BackgroundColor,
		TokenSpectrum:      &SpectrumColor,
	}
}

func apply(colors map[ColorToken]string) {
	targets := tokenTargets()
	for tok, hex := range colors {
		if c, ok := targets[tok]; ok {
			c.Light = hex
			c.Dark = hex
		}
	}
}

// ApplyTheme resets colors to the named preset (dark when empty) and then
// applies the overrides. Nothing changes when an error is returned.
func ApplyTheme(cfg ThemeConfig) error {
	name := cfg.Preset
	if name == "" {
		name = DarkPreset.Name
	}
	preset, ok := Presets[name]
	if !ok {
		return fmt.Errorf("unknown theme preset %q (available: %v)", name, PresetNames())
	}

	targets := tokenTargets()
	overrides := make(map[ColorToken]string, len(cfg.Colors))
	for tok, hex := range cfg.Colors {
		t := ColorToken(tok)
		if _, ok := targets[t]; !ok {
			return fmt.Errorf("unknown color token %q", tok)
		}
		if !validHex(hex) {
			return fmt.Errorf("color %s: %q is not #RRGGBB", tok, hex)
		}
		overrides[t] = hex
	}

	// Dark first so tokens missing from a custom preset still have a value.
	apply(DarkPreset.Colors)
	apply(preset.Colors)
	apply(overrides)
	current = name
	return nil
}

// CurrentPreset returns the name of the last applied preset.
func CurrentPreset() string {
	return current
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for n := range Presets {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// NextPreset returns the preset that follows name, wrapping around.
func NextPreset(name string) string {
	names := PresetNames()
	i := slices.Index(names, name)
	return names[(i+1)%len(names)]
}

func validHex(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
