// Package style defines the resolved cartographic style model: optional
// fill, stroke, icon and text components extracted from a map styling
// layer. A Style here is always a concrete record; style functions are
// evaluated before a Style reaches the converter.
package style

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a renderer-neutral RGBA color with components in [0, 1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Black is the fallback color used when a style carries no usable color.
var Black = Color{R: 0, G: 0, B: 0, A: 1}

// Transparent is fully see-through, used for dash gaps.
var Transparent = Color{}

// WithAlpha returns the color with its alpha channel replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa" into a Color.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(s, "#")
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6, 8:
	default:
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(h, 16, 64)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}

	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

// MustHex is ParseHex for compile-time constants; it panics on bad input.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Fill describes the interior paint of an area or text glyph.
type Fill struct {
	Color *Color
}

// Stroke describes a line or boundary paint. LineDash, when non-empty,
// requests a dashed rendition with the given on/off segment lengths.
type Stroke struct {
	Color    *Color
	Width    float64
	LineDash []float64
}

// Icon describes a point marker image by source name. Scale multiplies the
// native image size.
type Icon struct {
	Src   string
	Scale float64
}

// Text describes a label derived from a feature. Align is one of "center",
// "left", "right"; Baseline is one of "top", "middle", "bottom",
// "alphabetic", "hanging". Empty values take the conventional defaults
// (center / alphabetic).
type Text struct {
	Content  string
	Font     string
	OffsetX  float64
	OffsetY  float64
	Align    string
	Baseline string
	Fill     *Fill
	Stroke   *Stroke
}

// Style is a resolved style. Every component is optional; a missing
// component means "do not render that aspect".
type Style struct {
	Fill   *Fill
	Stroke *Stroke
	Icon   *Icon
	Text   *Text
}

// HasFill reports whether the style carries a usable fill color.
func (s *Style) HasFill() bool {
	return s != nil && s.Fill != nil && s.Fill.Color != nil
}

// HasStroke reports whether the style carries a usable stroke color.
func (s *Style) HasStroke() bool {
	return s != nil && s.Stroke != nil && s.Stroke.Color != nil
}

// Default returns the conventional web-mapping default style: a translucent
// white fill with a blue 1.25px outline.
func Default() Style {
	fill := Color{R: 1, G: 1, B: 1, A: 0.4}
	stroke := MustHex("#3399CC")
	return Style{
		Fill:   &Fill{Color: &fill},
		Stroke: &Stroke{Color: &stroke, Width: 1.25},
	}
}
