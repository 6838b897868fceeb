package convert

import (
	"github.com/golang/geo/r3"

	"github.com/wegman-software/vec2globe-go/feature"
	"github.com/wegman-software/vec2globe-go/geom"
	"github.com/wegman-software/vec2globe-go/proj"
	"github.com/wegman-software/vec2globe-go/scene"
	"github.com/wegman-software/vec2globe-go/style"
)

// convertLineString builds a single polyline. With no stroke there is
// nothing to render and only a possible label is returned.
func (cv *Converter) convertLineString(layer *feature.Layer, feat *feature.Feature, st *style.Style, ctx *Context, g *geom.LineString) scene.Primitive {
	rg := cv.reproject(g, ctx).(*geom.LineString)

	var line scene.Primitive
	if material := StyleToMaterial(st, true); material != nil {
		outline := &scene.Outline{
			Paths:    [][]r3.Vector{proj.ToCartesianBatch(rg.Coords, rg.HasZ)},
			Width:    ExtractLineWidth(st, cv.opts.MaxLineWidth),
			Material: material,
		}
		ctx.Bind(outline, layer, feat)
		line = outline
	}

	return cv.appendLabel(line, layer, feat, st, ctx, rg)
}

// convertPolygon builds the fill and outline sides of a polygon. Ring 0 is
// the outer boundary; every further ring is a hole.
func (cv *Converter) convertPolygon(layer *feature.Layer, feat *feature.Feature, st *style.Style, ctx *Context, g *geom.Polygon) scene.Primitive {
	rg := cv.reproject(g, ctx).(*geom.Polygon)
	if len(rg.Rings) == 0 {
		return cv.appendLabel(nil, layer, feat, st, ctx, rg)
	}

	paths := make([][]r3.Vector, len(rg.Rings))
	for i, ring := range rg.Rings {
		paths[i] = proj.ToCartesianBatch(ring.Coords, ring.HasZ)
	}

	var fill, outline scene.Primitive
	if material := StyleToMaterial(st, false); material != nil {
		solid := &scene.Solid{
			Boundary: paths[0],
			Holes:    paths[1:],
			Material: material,
		}
		ctx.Bind(solid, layer, feat)
		fill = solid
	}
	if material := StyleToMaterial(st, true); material != nil {
		rings := &scene.Outline{
			Paths:    paths,
			Width:    ExtractLineWidth(st, cv.opts.MaxLineWidth),
			Material: material,
		}
		ctx.Bind(rings, layer, feat)
		outline = rings
	}

	return cv.appendLabel(cv.composeSides(fill, outline, layer, feat, ctx), layer, feat, st, ctx, rg)
}

// convertCircle builds the disc and ring sides of a circle. The renderable
// radius is the straight-line Cartesian distance between the projected
// center and a projected point one source radius away, so it stays correct
// under projection distortion. A 3D center extrudes the disc to its
// elevation.
func (cv *Converter) convertCircle(layer *feature.Layer, feat *feature.Feature, st *style.Style, ctx *Context, g *geom.Circle) scene.Primitive {
	rg := cv.reproject(g, ctx).(*geom.Circle)

	center := rg.Center
	if !rg.HasZ {
		center.Z = 0
	}
	centerCart := proj.ToCartesian(center)

	edge := &geom.Point{
		Coordinate: geom.Coordinate{X: g.Center.X + g.Radius, Y: g.Center.Y, Z: center.Z},
		HasZ:       rg.HasZ,
	}
	edgeCart := proj.ToCartesian(cv.reproject(edge, ctx).(*geom.Point).Coordinate)
	radius := proj.Distance(centerCart, edgeCart)

	var fill, outline scene.Primitive
	if material := StyleToMaterial(st, false); material != nil {
		disc := &scene.Solid{
			Disc:     true,
			Center:   centerCart,
			Radius:   radius,
			Material: material,
			Extruded: rg.HasZ,
			Height:   center.Z,
		}
		ctx.Bind(disc, layer, feat)
		fill = disc
	}
	if material := StyleToMaterial(st, true); material != nil {
		ring := &scene.Outline{
			Disc:     true,
			Center:   centerCart,
			Radius:   radius,
			Width:    ExtractLineWidth(st, cv.opts.MaxLineWidth),
			Material: material,
		}
		ctx.Bind(ring, layer, feat)
		outline = ring
	}

	return cv.appendLabel(cv.composeSides(fill, outline, layer, feat, ctx), layer, feat, st, ctx, rg)
}

// composeSides merges independently created fill and outline renderables:
// both present yields a collection, one present yields that side, neither
// yields nil.
func (cv *Converter) composeSides(fill, outline scene.Primitive, layer *feature.Layer, feat *feature.Feature, ctx *Context) scene.Primitive {
	switch {
	case fill == nil:
		return outline
	case outline == nil:
		return fill
	default:
		coll := scene.NewCollection()
		coll.Add(fill)
		coll.Add(outline)
		ctx.Bind(coll, layer, feat)
		return coll
	}
}

// appendLabel attaches the style's text renderable, if any, to a converted
// primitive. rg must already be reprojected.
func (cv *Converter) appendLabel(p scene.Primitive, layer *feature.Layer, feat *feature.Feature, st *style.Style, ctx *Context, rg geom.Geometry) scene.Primitive {
	if st.Text == nil || st.Text.Content == "" {
		return p
	}
	// a geometry with no coordinates has no anchor to label
	if rg.Bound().IsEmpty() {
		return p
	}

	label := cv.buildLabel(layer, feat, st.Text, ctx, rg)
	if p == nil {
		return label
	}
	if coll, ok := p.(*scene.Collection); ok {
		coll.Add(label)
		return coll
	}

	coll := scene.NewCollection()
	coll.Add(p)
	coll.Add(label)
	ctx.Bind(coll, layer, feat)
	return coll
}
