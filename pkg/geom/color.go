package geom

import (
	"image/color"
	"math"
)

// Color is a linear RGB color with float64 channels. Values are
// unclamped during shading; clamping and gamma happen only at pixel
// conversion to avoid banding in intermediate composites.
type Color struct {
	R, G, B float64
}

// NewColor creates a new color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Black is the zero color
var Black = Color{}

// White is full intensity on all channels
var White = Color{R: 1, G: 1, B: 1}

// Add returns the per-channel sum of two colors
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Multiply returns the color scaled by a scalar
func (c Color) Multiply(scalar float64) Color {
	return Color{c.R * scalar, c.G * scalar, c.B * scalar}
}

// Modulate returns the per-channel product of two colors
func (c Color) Modulate(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Clamp returns a color with channels clamped to [min, max]
func (c Color) Clamp(min, max float64) Color {
	clampValue := func(v float64) float64 {
		if v < min {
			return min
		}
		if v > max {
			return max
		}
		return v
	}
	return Color{clampValue(c.R), clampValue(c.G), clampValue(c.B)}
}

// GammaCorrect applies gamma correction to color values
func (c Color) GammaCorrect(gamma float64) Color {
	invGamma := 1.0 / gamma
	return Color{
		R: math.Pow(math.Max(0, c.R), invGamma),
		G: math.Pow(math.Max(0, c.G), invGamma),
		B: math.Pow(math.Max(0, c.B), invGamma),
	}
}

// ToneMap applies a Reinhard-style curve x/(1+k*x) per channel,
// compressing highlights so emissive surfaces stay in displayable range
func (c Color) ToneMap(k float64) Color {
	return Color{
		R: c.R / (1 + c.R*k),
		G: c.G / (1 + c.G*k),
		B: c.B / (1 + c.B*k),
	}
}

// Luminance returns the perceptual luminance of the color
func (c Color) Luminance() float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// DisplayGamma is applied once per pixel when converting to 8-bit
const DisplayGamma = 2.1

// ToRGBA converts a linear color to 8-bit RGBA with clamping and gamma
func (c Color) ToRGBA() color.RGBA {
	g := c.GammaCorrect(DisplayGamma).Clamp(0, 1)
	return color.RGBA{
		R: uint8(255 * g.R),
		G: uint8(255 * g.G),
		B: uint8(255 * g.B),
		A: 255,
	}
}
