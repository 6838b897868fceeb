package convert

import (
	"go.uber.org/zap"

	"github.com/wegman-software/vec2globe-go/feature"
	"github.com/wegman-software/vec2globe-go/geom"
	"github.com/wegman-software/vec2globe-go/icon"
	"github.com/wegman-software/vec2globe-go/proj"
	"github.com/wegman-software/vec2globe-go/scene"
	"github.com/wegman-software/vec2globe-go/style"
)

// Options configures a Converter.
type Options struct {
	// MaxLineWidth is the renderer's line width ceiling; extracted stroke
	// widths are clamped to it. Defaults to 8.
	MaxLineWidth float64

	// IconDensity is the fixed display density icon images are resolved
	// at. Defaults to 1.
	IconDensity float64

	// Icons supplies marker images. When nil an empty registry without a
	// loader is used, leaving every icon pending until the host marks it
	// ready.
	Icons *icon.Registry

	// Logger receives debug/summary output. Defaults to a no-op logger.
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxLineWidth <= 0 {
		o.MaxLineWidth = 8
	}
	if o.IconDensity <= 0 {
		o.IconDensity = 1
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Icons == nil {
		o.Icons = icon.NewRegistry(nil, o.IconDensity)
	}
	return o
}

// Converter translates features into scene primitives. It is stateless
// across conversions and safe to reuse; all per-conversion state lives in
// the Context.
type Converter struct {
	opts  Options
	log   *zap.Logger
	icons *icon.Registry
}

// New creates a converter.
func New(opts Options) *Converter {
	opts = opts.withDefaults()
	return &Converter{
		opts:  opts,
		log:   opts.Logger,
		icons: opts.Icons,
	}
}

// ResolveStyle resolves the effective style for a feature at the given
// resolution: the feature's own style function first, then the layer's,
// then the explicit fallback. Nil means "do not render". When a function
// yields several styles exactly the first is used.
func (cv *Converter) ResolveStyle(layer *feature.Layer, feat *feature.Feature, fallback feature.StyleFunc, resolution float64) *style.Style {
	var layerFn feature.StyleFunc
	if layer != nil {
		layerFn = layer.Style
	}

	for _, fn := range []feature.StyleFunc{feat.Style, layerFn, fallback} {
		if fn == nil {
			continue
		}
		if styles := fn(feat, resolution); len(styles) > 0 {
			return &styles[0]
		}
	}
	return nil
}

// ConvertFeature converts one geometry of a feature, dispatching on the
// geometry kind. A nil geometry argument means the feature's own geometry.
// Unrecognized kinds and naked linear rings are caller contract violations
// and panic.
func (cv *Converter) ConvertFeature(layer *feature.Layer, feat *feature.Feature, st *style.Style, ctx *Context, g geom.Geometry) scene.Primitive {
	if g == nil {
		g = feat.Geometry
	}
	if g == nil {
		return nil
	}

	switch g := g.(type) {
	case *geom.Point:
		return cv.convertPoint(layer, feat, st, ctx, g)
	case *geom.LineString:
		return cv.convertLineString(layer, feat, st, ctx, g)
	case *geom.Polygon:
		return cv.convertPolygon(layer, feat, st, ctx, g)
	case *geom.Circle:
		return cv.convertCircle(layer, feat, st, ctx, g)
	case *geom.MultiPoint:
		return cv.convertMultiPoint(layer, feat, st, ctx, g)
	case *geom.MultiLineString:
		return cv.convertMultiLineString(layer, feat, st, ctx, g)
	case *geom.MultiPolygon:
		return cv.convertMultiPolygon(layer, feat, st, ctx, g)
	case *geom.Collection:
		return cv.convertCollection(layer, feat, st, ctx, g)
	case *geom.Ring:
		contractViolation("linear ring outside polygon context")
	default:
		contractViolation("unsupported geometry kind %s", g.Kind())
	}
	return nil
}

// ConvertLayer converts every feature of a layer into one aggregate
// collection, recording each feature's primary renderable in featureMap
// (which may be nil to use a fresh map). Features without geometry or a
// resolvable style are skipped. The view must carry a resolution and a
// projection; anything else is a caller contract violation.
func (cv *Converter) ConvertLayer(layer *feature.Layer, view feature.View, featureMap map[*feature.Feature]scene.Primitive) (*scene.Collection, *Context) {
	if view.Resolution <= 0 {
		contractViolation("view has no defined resolution")
	}
	if view.SRID == 0 {
		contractViolation("view has no defined projection")
	}

	ctx := NewContext(view.SRID)
	if featureMap != nil {
		ctx.FeatureMap = featureMap
	}

	coll := scene.NewCollection()
	var converted, skipped int

	if layer.Source != nil {
		for _, feat := range layer.Source.Features() {
			if feat.Geometry == nil {
				skipped++
				continue
			}
			st := cv.ResolveStyle(layer, feat, nil, view.Resolution)
			if st == nil {
				skipped++
				continue
			}

			// a feature whose only renderable is a deferred billboard has
			// no synchronous result; record the billboard when it lands
			feat := feat
			ctx.OnBillboardAdded = func(b *scene.Billboard) {
				if _, ok := ctx.FeatureMap[feat]; !ok {
					ctx.FeatureMap[feat] = b
				}
			}

			p := cv.ConvertFeature(layer, feat, st, ctx, nil)
			if p == nil {
				continue
			}
			ctx.Bind(p, layer, feat)
			ctx.FeatureMap[feat] = p
			coll.Add(p)
			converted++
		}
	}
	ctx.OnBillboardAdded = nil

	cv.log.Debug("Converted layer",
		zap.String("layer", layer.Name),
		zap.Int("converted", converted),
		zap.Int("skipped", skipped),
		zap.Int("billboards", ctx.Billboards.Len()),
	)

	return coll, ctx
}

// ConvertSingle is the single-feature analogue of ConvertLayer used for
// incremental updates. Unlike ConvertLayer it returns nil instead of
// panicking when the view is incomplete.
func (cv *Converter) ConvertSingle(layer *feature.Layer, view feature.View, feat *feature.Feature, ctx *Context) scene.Primitive {
	if view.Resolution <= 0 || view.SRID == 0 {
		return nil
	}
	if feat == nil || feat.Geometry == nil {
		return nil
	}
	st := cv.ResolveStyle(layer, feat, nil, view.Resolution)
	if st == nil {
		return nil
	}

	p := cv.ConvertFeature(layer, feat, st, ctx, nil)
	if p != nil {
		ctx.Bind(p, layer, feat)
		ctx.FeatureMap[feat] = p
	}
	return p
}

// reproject returns a deep copy of g in the geographic frame. Conversion
// applies it exactly once per geometry, before any primitive is built.
func (cv *Converter) reproject(g geom.Geometry, ctx *Context) geom.Geometry {
	out, err := proj.ReprojectGeometry(g, ctx.SourceSRID)
	if err != nil {
		contractViolation("cannot reproject from SRID %d: %v", ctx.SourceSRID, err)
	}
	return out
}
