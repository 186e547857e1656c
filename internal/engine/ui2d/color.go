package ui2d

// Color represents an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

// Predefined colors for UI theming.
var (
	ColorTransparent = Color{0, 0, 0, 0}
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}

	// Dark glass over the globe, cyan accents.
	ColorPanelBg      = Color{0.02, 0.04, 0.09, 0.82}
	ColorPanelBorder  = Color{0.31, 0.67, 1.0, 0.35}
	ColorButtonNormal = Color{0.05, 0.2, 0.3, 0.9}
	ColorButtonHover  = Color{0.08, 0.32, 0.45, 0.95}
	ColorButtonActive = Color{0.02, 0.55, 0.7, 1}
	ColorText         = Color{0.93, 0.95, 0.98, 1}
	ColorTextDim      = Color{0.58, 0.64, 0.72, 1}
	ColorHighlight    = Color{0.02, 0.71, 0.83, 1} // #06b6d4
	ColorWarning      = Color{0.92, 0.7, 0.03, 1}  // #eab308
	ColorOverlay      = Color{0, 0, 0.02, 0.6}
)

// RGBA creates a color from 8-bit RGBA values (0-255).
func RGBA(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: float32(a) / 255.0,
	}
}

// RGB creates a color from 8-bit RGB values with full alpha.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 255)
}

// Hex creates an opaque color from 0xRRGGBB.
func Hex(v uint32) Color {
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v))
}

// WithAlpha returns a copy of the color with a different alpha value.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, a}
}

// Fade multiplies the alpha by f.
func (c Color) Fade(f float32) Color {
	return Color{c.R, c.G, c.B, c.A * f}
}

// Darken returns a darker version of the color.
func (c Color) Darken(factor float32) Color {
	return Color{
		R: c.R * (1 - factor),
		G: c.G * (1 - factor),
		B: c.B * (1 - factor),
		A: c.A,
	}
}

// Lighten returns a lighter version of the color.
func (c Color) Lighten(factor float32) Color {
	return Color{
		R: c.R + (1-c.R)*factor,
		G: c.G + (1-c.G)*factor,
		B: c.B + (1-c.B)*factor,
		A: c.A,
	}
}
