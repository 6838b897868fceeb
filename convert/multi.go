package convert

import (
	"github.com/wegman-software/vec2globe-go/feature"
	"github.com/wegman-software/vec2globe-go/geom"
	"github.com/wegman-software/vec2globe-go/scene"
	"github.com/wegman-software/vec2globe-go/style"
)

// convertMultiPoint converts each member point in source order. Billboards
// are registered individually on the context; without text there is no
// wrapping renderable at all and nil is returned — absence is not an
// error. With text, each member contributes a label to the aggregate.
func (cv *Converter) convertMultiPoint(layer *feature.Layer, feat *feature.Feature, st *style.Style, ctx *Context, g *geom.MultiPoint) scene.Primitive {
	hasText := st.Text != nil && st.Text.Content != ""

	var coll *scene.Collection
	if hasText {
		coll = scene.NewCollection()
	}

	for i := range g.Points {
		p := cv.convertPoint(layer, feat, st, ctx, &g.Points[i])
		if coll != nil {
			coll.Add(p)
		}
	}

	if coll == nil {
		return nil
	}
	ctx.Bind(coll, layer, feat)
	return coll
}

// convertMultiLineString converts members in source order into one flat
// aggregate, skipping members that produced nothing.
func (cv *Converter) convertMultiLineString(layer *feature.Layer, feat *feature.Feature, st *style.Style, ctx *Context, g *geom.MultiLineString) scene.Primitive {
	coll := scene.NewCollection()
	for i := range g.Lines {
		cv.addFlattened(coll, cv.convertLineString(layer, feat, st, ctx, &g.Lines[i]))
	}
	ctx.Bind(coll, layer, feat)
	return coll
}

// convertMultiPolygon converts members in source order into one flat
// aggregate: with both fill and stroke present each member contributes two
// renderables.
func (cv *Converter) convertMultiPolygon(layer *feature.Layer, feat *feature.Feature, st *style.Style, ctx *Context, g *geom.MultiPolygon) scene.Primitive {
	coll := scene.NewCollection()
	for i := range g.Polygons {
		cv.addFlattened(coll, cv.convertPolygon(layer, feat, st, ctx, &g.Polygons[i]))
	}
	ctx.Bind(coll, layer, feat)
	return coll
}

// convertCollection recurses through the feature converter per member
// geometry, skipping absent members. The aggregate preserves member order
// and equals the union of the per-member conversions.
func (cv *Converter) convertCollection(layer *feature.Layer, feat *feature.Feature, st *style.Style, ctx *Context, g *geom.Collection) scene.Primitive {
	coll := scene.NewCollection()
	for _, member := range g.Geometries {
		if member == nil {
			continue
		}
		coll.Add(cv.ConvertFeature(layer, feat, st, ctx, member))
	}
	ctx.Bind(coll, layer, feat)
	return coll
}

// addFlattened merges a member conversion into the aggregate, hoisting
// per-member side collections so the aggregate counts sides directly.
func (cv *Converter) addFlattened(coll *scene.Collection, p scene.Primitive) {
	if member, ok := p.(*scene.Collection); ok {
		for _, child := range member.Children {
			coll.Add(child)
		}
		return
	}
	coll.Add(p)
}
