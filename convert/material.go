package convert

import (
	"math"

	"github.com/wegman-software/vec2globe-go/scene"
	"github.com/wegman-software/vec2globe-go/style"
)

// ExtractColor pulls the color to paint one side of a style with: the
// stroke color when an outline is requested and present, else the fill
// color, else black. It always returns a usable color.
func ExtractColor(st *style.Style, outline bool) style.Color {
	if outline && st.HasStroke() {
		return *st.Stroke.Color
	}
	if st.HasFill() {
		return *st.Fill.Color
	}
	return style.Black
}

// ExtractLineWidth returns the style's stroke width, defaulting to 1,
// clamped to the renderer's line width ceiling.
func ExtractLineWidth(st *style.Style, maxWidth float64) float64 {
	width := 1.0
	if st != nil && st.Stroke != nil && st.Stroke.Width != 0 {
		width = st.Stroke.Width
	}
	return math.Min(width, maxWidth)
}

// StyleToMaterial builds the paint for the requested side of a style. A
// nil result means that side has no style component and must not be
// rendered. A dashed stroke yields a stripe material alternating the
// stroke color with transparency.
func StyleToMaterial(st *style.Style, outline bool) *scene.Material {
	if outline {
		if !st.HasStroke() {
			return nil
		}
		if len(st.Stroke.LineDash) > 0 {
			dash := make([]float64, len(st.Stroke.LineDash))
			copy(dash, st.Stroke.LineDash)
			return &scene.Material{
				Type:        scene.MaterialStripe,
				Color:       *st.Stroke.Color,
				GapColor:    style.Transparent,
				DashPattern: dash,
			}
		}
		return &scene.Material{Type: scene.MaterialColor, Color: *st.Stroke.Color}
	}

	if !st.HasFill() {
		return nil
	}
	return &scene.Material{Type: scene.MaterialColor, Color: *st.Fill.Color}
}
