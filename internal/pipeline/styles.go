package pipeline

import (
	"github.com/wegman-software/vec2globe-go/feature"
	"github.com/wegman-software/vec2globe-go/geom"
	"github.com/wegman-software/vec2globe-go/style"
)

// StaticStyleFunc turns a YAML style configuration into a style function.
// Each feature gets the component style for its geometry class; label
// content comes from the configured feature attribute.
func StaticStyleFunc(cfg *style.Config) (feature.StyleFunc, error) {
	type classStyle struct {
		st       style.Style
		textAttr string
	}

	built := make(map[string]classStyle, 3)
	for _, class := range []string{"point", "line", "polygon"} {
		cc := cfg.ForClass(class)
		if cc == nil {
			continue
		}
		st, err := cc.Build()
		if err != nil {
			return nil, err
		}
		cs := classStyle{st: st}
		if cc.Text != nil {
			cs.textAttr = cc.Text.Attribute
		}
		built[class] = cs
	}

	return func(f *feature.Feature, _ float64) []style.Style {
		cs, ok := built[geometryClass(f.Geometry)]
		if !ok {
			return nil
		}

		st := cs.st
		if st.Text != nil {
			// per-feature label content; styles are value types so the
			// shared template is not mutated
			text := *st.Text
			if cs.textAttr != "" {
				text.Content = f.StringAttr(cs.textAttr)
			}
			if text.Content == "" {
				st.Text = nil
			} else {
				st.Text = &text
			}
		}
		return []style.Style{st}
	}, nil
}

// geometryClass buckets a geometry into the style configuration's point,
// line and polygon classes. Collections take the class of their first
// member.
func geometryClass(g geom.Geometry) string {
	switch g := g.(type) {
	case *geom.Point, *geom.MultiPoint:
		return "point"
	case *geom.LineString, *geom.MultiLineString:
		return "line"
	case *geom.Polygon, *geom.MultiPolygon, *geom.Circle:
		return "polygon"
	case *geom.Collection:
		if len(g.Geometries) > 0 {
			return geometryClass(g.Geometries[0])
		}
	}
	return ""
}
