package convert

import (
	"github.com/golang/geo/r3"

	"github.com/wegman-software/vec2globe-go/feature"
	"github.com/wegman-software/vec2globe-go/geom"
	"github.com/wegman-software/vec2globe-go/icon"
	"github.com/wegman-software/vec2globe-go/proj"
	"github.com/wegman-software/vec2globe-go/scene"
	"github.com/wegman-software/vec2globe-go/style"
)

// convertPoint creates the point's billboard and, when the style carries
// text, returns its label. The billboard itself is registered on the
// context's billboard container, not returned: when the icon asset is not
// ready yet, creation is deferred to a one-shot readiness callback and the
// label is still returned synchronously. Unsupported or undecodable icons
// produce nothing, silently.
func (cv *Converter) convertPoint(layer *feature.Layer, feat *feature.Feature, st *style.Style, ctx *Context, g *geom.Point) scene.Primitive {
	rg := cv.reproject(g, ctx).(*geom.Point)

	coord := rg.Coordinate
	if !rg.HasZ {
		coord.Z = 0
	}
	position := proj.ToCartesian(coord)

	if st.Icon != nil && st.Icon.Src != "" {
		scale := st.Icon.Scale
		if scale == 0 {
			scale = 1
		}

		asset := cv.icons.Resolve(st.Icon.Src)
		switch asset.State() {
		case icon.StateReady:
			cv.createBillboard(layer, feat, rg, asset, position, scale, ctx, ctx.OnBillboardAdded)
		case icon.StateLoading:
			// defer creation until the asset is usable; the callback may
			// fire after the owning context has been logically discarded
			notify := ctx.OnBillboardAdded
			asset.WhenReady(func(a *icon.Asset) {
				cv.createBillboard(layer, feat, rg, a, position, scale, ctx, notify)
			})
		case icon.StateFailed:
			// not a bitmap we can use; no renderable, no error
		}
	}

	return cv.appendLabel(nil, layer, feat, st, ctx, rg)
}

// createBillboard adds the marker to the context's billboard container,
// binds it for picking and invokes the caller's creation hook.
func (cv *Converter) createBillboard(layer *feature.Layer, feat *feature.Feature, g *geom.Point, asset *icon.Asset, position r3.Vector, scale float64, ctx *Context, notify func(*scene.Billboard)) {
	if asset.Image() == nil {
		return
	}

	b := ctx.Billboards.Add(&scene.Billboard{
		Position:        position,
		Image:           asset.Src(),
		Scale:           scale,
		HeightReference: resolveHeightReference(layer, feat, g.AltitudeMode),
	})
	ctx.Bind(b, layer, feat)

	if notify != nil {
		notify(b)
	}
}

// resolveHeightReference resolves the terrain height policy from the most
// specific hint available: geometry, then feature attribute, then layer.
// Unrecognized hints mean absolute height.
func resolveHeightReference(layer *feature.Layer, feat *feature.Feature, geometryHint string) scene.HeightReference {
	hint := geometryHint
	if hint == "" && feat != nil {
		hint = feat.StringAttr("altitudeMode")
	}
	if hint == "" && layer != nil {
		hint = layer.AltitudeMode
	}
	return scene.ParseHeightReference(hint)
}
