package convert

import (
	"github.com/wegman-software/vec2globe-go/feature"
	"github.com/wegman-software/vec2globe-go/geom"
	"github.com/wegman-software/vec2globe-go/proj"
	"github.com/wegman-software/vec2globe-go/scene"
	"github.com/wegman-software/vec2globe-go/style"
)

// buildLabel creates the text renderable for a reprojected geometry. The
// label anchors at the center of the geometry's bounding extent, lifted to
// the first coordinate's elevation when the geometry is 3D.
func (cv *Converter) buildLabel(layer *feature.Layer, feat *feature.Feature, text *style.Text, ctx *Context, rg geom.Geometry) *scene.Label {
	center := rg.Bound().Center()
	if rg.Is3D() {
		if first, ok := geom.FirstCoordinate(rg); ok {
			center.Z = first.Z
		}
	}

	l := &scene.Label{
		Position:         proj.ToCartesian(center),
		Text:             text.Content,
		Font:             text.Font,
		HorizontalOrigin: horizontalOrigin(text.Align),
		VerticalOrigin:   verticalOrigin(text.Baseline),
		HeightReference:  resolveHeightReference(layer, feat, pointHint(rg)),
	}

	hasFill := text.Fill != nil && text.Fill.Color != nil
	hasStroke := text.Stroke != nil && text.Stroke.Color != nil
	switch {
	case hasFill && hasStroke:
		l.Style = scene.LabelFillAndOutline
		l.FillColor = *text.Fill.Color
		l.OutlineColor = *text.Stroke.Color
		l.OutlineWidth = text.Stroke.Width
	case hasStroke:
		l.Style = scene.LabelOutline
		l.OutlineColor = *text.Stroke.Color
		l.OutlineWidth = text.Stroke.Width
	case hasFill:
		l.Style = scene.LabelFill
		l.FillColor = *text.Fill.Color
	default:
		l.Style = scene.LabelFill
		l.FillColor = style.Black
	}

	// an offset anchors the label away from its position only when both
	// components are set
	if text.OffsetX != 0 && text.OffsetY != 0 {
		l.PixelOffsetX = text.OffsetX
		l.PixelOffsetY = text.OffsetY
	}

	ctx.Bind(l, layer, feat)
	return l
}

// horizontalOrigin maps a text alignment to a renderer origin. The
// alignment vocabulary is closed; anything else is a configuration error.
func horizontalOrigin(align string) scene.HorizontalOrigin {
	switch align {
	case "center", "":
		return scene.HorizontalCenter
	case "left":
		return scene.HorizontalLeft
	case "right":
		return scene.HorizontalRight
	default:
		contractViolation("unhandled text align %q", align)
		return scene.HorizontalCenter
	}
}

// verticalOrigin maps a text baseline to a renderer origin. The baseline
// vocabulary is closed; anything else is a configuration error.
func verticalOrigin(baseline string) scene.VerticalOrigin {
	switch baseline {
	case "top", "alphabetic", "":
		return scene.VerticalTop
	case "middle":
		return scene.VerticalCenter
	case "bottom", "hanging":
		return scene.VerticalBottom
	default:
		contractViolation("unhandled text baseline %q", baseline)
		return scene.VerticalCenter
	}
}

// pointHint returns the geometry-level altitude hint when labeling a point.
func pointHint(rg geom.Geometry) string {
	if p, ok := rg.(*geom.Point); ok {
		return p.AltitudeMode
	}
	return ""
}
