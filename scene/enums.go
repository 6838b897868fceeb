package scene

import "github.com/wegman-software/vec2globe-go/style"

// HeightReference is the policy relating a position's elevation to terrain.
type HeightReference int

const (
	// HeightNone anchors at the absolute ellipsoid height.
	HeightNone HeightReference = iota
	// HeightClampToGround drapes the renderable onto the terrain surface.
	HeightClampToGround
	// HeightRelativeToGround offsets the elevation from the terrain surface.
	HeightRelativeToGround
)

// String returns the hint spelling of the height reference.
func (h HeightReference) String() string {
	switch h {
	case HeightClampToGround:
		return "clampToGround"
	case HeightRelativeToGround:
		return "relativeToGround"
	default:
		return "none"
	}
}

// ParseHeightReference maps a hint value to a height reference. Anything
// unrecognized, including the empty string, means absolute height.
func ParseHeightReference(hint string) HeightReference {
	switch hint {
	case "clampToGround":
		return HeightClampToGround
	case "relativeToGround":
		return HeightRelativeToGround
	default:
		return HeightNone
	}
}

// HorizontalOrigin positions a label or billboard relative to its anchor.
type HorizontalOrigin int

const (
	HorizontalCenter HorizontalOrigin = iota
	HorizontalLeft
	HorizontalRight
)

func (h HorizontalOrigin) String() string {
	switch h {
	case HorizontalLeft:
		return "left"
	case HorizontalRight:
		return "right"
	default:
		return "center"
	}
}

// VerticalOrigin positions a label or billboard relative to its anchor.
type VerticalOrigin int

const (
	VerticalCenter VerticalOrigin = iota
	VerticalTop
	VerticalBottom
)

func (v VerticalOrigin) String() string {
	switch v {
	case VerticalTop:
		return "top"
	case VerticalBottom:
		return "bottom"
	default:
		return "center"
	}
}

// LabelStyle selects which sides of the glyphs are painted.
type LabelStyle int

const (
	LabelFill LabelStyle = iota
	LabelOutline
	LabelFillAndOutline
)

func (s LabelStyle) String() string {
	switch s {
	case LabelOutline:
		return "outline"
	case LabelFillAndOutline:
		return "fill_and_outline"
	default:
		return "fill"
	}
}

// MaterialType distinguishes flat color from dashed/striped paint.
type MaterialType int

const (
	MaterialColor MaterialType = iota
	MaterialStripe
)

func (m MaterialType) String() string {
	if m == MaterialStripe {
		return "stripe"
	}
	return "color"
}

// Material is the renderer-neutral paint description for solids and
// outlines. A stripe material alternates Color and GapColor along the
// primitive using the dash pattern's segment lengths.
type Material struct {
	Type        MaterialType `json:"type"`
	Color       style.Color  `json:"color"`
	GapColor    style.Color  `json:"gapColor,omitempty"`
	DashPattern []float64    `json:"dashPattern,omitempty"`
}
