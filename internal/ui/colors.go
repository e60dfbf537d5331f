package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// Accent colors for headers and spinners
const (
	ColorNeonPink    lipgloss.Color = "#FF2E97"
	ColorNeonCyan    lipgloss.Color = "#00FFFF"
	ColorNeonPurple  lipgloss.Color = "#BF40FF"
	ColorNeonGreen   lipgloss.Color = "#39FF14"
	ColorNeonRed     lipgloss.Color = "#FF0055"
	ColorNeonBlue    lipgloss.Color = "#3D8BFF"
	ColorNeonAmber   lipgloss.Color = "#FFAA00"
	ColorGlassBorder lipgloss.Color = "#2A2A4A"
)

// GradientColors is the spinner color cycle.
var GradientColors = []lipgloss.Color{
	ColorNeonPink,
	ColorNeonPurple,
	ColorNeonCyan,
	ColorNeonGreen,
}

// namedColors maps the color names accepted in locations[].color.
var namedColors = map[string]lipgloss.Color{
	"green":   ColorNeonGreen,
	"red":     ColorNeonRed,
	"blue":    ColorNeonBlue,
	"yellow":  lipgloss.Color("#FFE600"),
	"orange":  lipgloss.Color("#FF8800"),
	"amber":   ColorNeonAmber,
	"magenta": ColorNeonPink,
	"pink":    ColorNeonPink,
	"purple":  ColorNeonPurple,
	"cyan":    ColorNeonCyan,
	"white":   lipgloss.Color("#FFFFFF"),
	"gray":    lipgloss.Color("#6B6B8D"),
	"grey":    lipgloss.Color("#6B6B8D"),
}

// LocationPalette assigns colors to locations that don't configure one.
var LocationPalette = []lipgloss.Color{
	ColorNeonGreen,
	ColorNeonRed,
	ColorNeonBlue,
	ColorNeonAmber,
	ColorNeonPurple,
	ColorNeonCyan,
}

// LocationColor resolves a configured location color. It accepts a name from
// namedColors, "#rgb"/"#rrggbb" hex, or an ANSI index 0-255. Anything else
// falls back to the palette slot for index.
func LocationColor(name string, index int) lipgloss.Color {
	name = strings.ToLower(strings.TrimSpace(name))
	if c, ok := namedColors[name]; ok {
		return c
	}
	if isHexColor(name) {
		return lipgloss.Color(name)
	}
	if n, err := strconv.Atoi(name); err == nil && n >= 0 && n <= 255 {
		return lipgloss.Color(name)
	}
	if index < 0 {
		index = -index
	}
	return LocationPalette[index%len(LocationPalette)]
}

func isHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") || (len(s) != 4 && len(s) != 7) {
		return false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// DisableColors switches lipgloss to plain ASCII output (--no-color, NO_COLOR).
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
