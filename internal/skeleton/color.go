package skeleton

import (
	"fmt"
	"strconv"
)

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// White is the default slot, bone and attachment tint.
var White = Color{1, 1, 1, 1}

// ColorFromRGBA8888 unpacks a 0xRRGGBBAA value.
func ColorFromRGBA8888(v uint32) Color {
	return Color{
		R: float64((v>>24)&0xff) / 255,
		G: float64((v>>16)&0xff) / 255,
		B: float64((v>>8)&0xff) / 255,
		A: float64(v&0xff) / 255,
	}
}

// ColorFromRGB888 unpacks a 0x00RRGGBB value with alpha 1.
func ColorFromRGB888(v uint32) Color {
	return Color{
		R: float64((v>>16)&0xff) / 255,
		G: float64((v>>8)&0xff) / 255,
		B: float64(v&0xff) / 255,
		A: 1,
	}
}

// ParseHexColor parses "RRGGBBAA" or "RRGGBB" (alpha 1).
func ParseHexColor(s string) (Color, error) {
	if len(s) != 8 && len(s) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(s) == 6 {
		return ColorFromRGB888(uint32(v)), nil
	}
	return ColorFromRGBA8888(uint32(v)), nil
}

// Mul returns the component-wise product of two colors.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

// Lerp interpolates each component towards o by t.
func (c Color) Lerp(o Color, t float64) Color {
	return Color{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}

// Hex formats the color as "rrggbbaa".
func (c Color) Hex() string {
	return fmt.Sprintf("%02x%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B), to8(c.A))
}

func to8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}
