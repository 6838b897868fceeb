package convert

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wegman-software/vec2globe-go/feature"
	"github.com/wegman-software/vec2globe-go/geom"
	"github.com/wegman-software/vec2globe-go/icon"
	"github.com/wegman-software/vec2globe-go/scene"
	"github.com/wegman-software/vec2globe-go/style"
)

func fillStroke(fillHex, strokeHex string, width float64) style.Style {
	var st style.Style
	if fillHex != "" {
		c := style.MustHex(fillHex)
		st.Fill = &style.Fill{Color: &c}
	}
	if strokeHex != "" {
		c := style.MustHex(strokeHex)
		st.Stroke = &style.Stroke{Color: &c, Width: width}
	}
	return st
}

func constStyle(st style.Style) feature.StyleFunc {
	return func(*feature.Feature, float64) []style.Style {
		return []style.Style{st}
	}
}

func testLayer(feats ...*feature.Feature) *feature.Layer {
	src := feature.NewSource()
	for _, f := range feats {
		src.Add(f)
	}
	return &feature.Layer{Name: "test", Source: src}
}

func squarePolygon() *geom.Polygon {
	return &geom.Polygon{Rings: []geom.Ring{
		{Coords: []geom.Coordinate{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}}},
		{Coords: []geom.Coordinate{{X: 0.2, Y: 0.2}, {X: 0.4, Y: 0.2}, {X: 0.4, Y: 0.4}, {X: 0.2, Y: 0.2}}},
	}}
}

func TestResolveStyleCascade(t *testing.T) {
	cv := New(Options{})
	featStyle := fillStroke("#ff0000", "", 0)
	layerStyle := fillStroke("#00ff00", "", 0)
	fallback := fillStroke("#0000ff", "", 0)

	feat := &feature.Feature{Style: constStyle(featStyle)}
	layer := &feature.Layer{Style: constStyle(layerStyle)}

	st := cv.ResolveStyle(layer, feat, constStyle(fallback), 1)
	require.NotNil(t, st)
	assert.Equal(t, featStyle.Fill.Color, st.Fill.Color)

	feat.Style = nil
	st = cv.ResolveStyle(layer, feat, constStyle(fallback), 1)
	require.NotNil(t, st)
	assert.Equal(t, layerStyle.Fill.Color, st.Fill.Color)

	layer.Style = nil
	st = cv.ResolveStyle(layer, feat, constStyle(fallback), 1)
	require.NotNil(t, st)
	assert.Equal(t, fallback.Fill.Color, st.Fill.Color)

	st = cv.ResolveStyle(layer, feat, nil, 1)
	assert.Nil(t, st)
}

func TestResolveStyleEmptyFunctionFallsThrough(t *testing.T) {
	cv := New(Options{})
	fallback := fillStroke("#0000ff", "", 0)

	feat := &feature.Feature{Style: func(*feature.Feature, float64) []style.Style { return nil }}
	st := cv.ResolveStyle(nil, feat, constStyle(fallback), 1)
	require.NotNil(t, st)
	assert.Equal(t, fallback.Fill.Color, st.Fill.Color)
}

func TestConvertPolygonSides(t *testing.T) {
	cv := New(Options{})
	ctx := NewContext(4326)
	layer := testLayer()
	feat := &feature.Feature{ID: "p", Geometry: squarePolygon()}
	st := fillStroke("#33cc33", "#005500", 2)

	p := cv.ConvertFeature(layer, feat, &st, ctx, nil)
	coll, ok := p.(*scene.Collection)
	require.True(t, ok)
	require.Equal(t, 2, coll.Len())

	solid, ok := coll.Children[0].(*scene.Solid)
	require.True(t, ok)
	assert.Len(t, solid.Boundary, 5)
	assert.Len(t, solid.Holes, 1)

	outline, ok := coll.Children[1].(*scene.Outline)
	require.True(t, ok)
	assert.Len(t, outline.Paths, 2)
	assert.Equal(t, 2.0, outline.Width)
}

func TestConvertPolygonFillOnly(t *testing.T) {
	cv := New(Options{})
	ctx := NewContext(4326)
	feat := &feature.Feature{Geometry: squarePolygon()}
	st := fillStroke("#33cc33", "", 0)

	p := cv.ConvertFeature(testLayer(), feat, &st, ctx, nil)
	solid, ok := p.(*scene.Solid)
	require.True(t, ok)
	assert.Equal(t, scene.MaterialColor, solid.Material.Type)
}

func TestConvertLineStringStrokeOnly(t *testing.T) {
	cv := New(Options{})
	ctx := NewContext(4326)
	line := &geom.LineString{Coords: []geom.Coordinate{{X: 0, Y: 0}, {X: 1, Y: 1}}}
	feat := &feature.Feature{Geometry: line}

	st := fillStroke("", "#005500", 3)
	p := cv.ConvertFeature(testLayer(), feat, &st, ctx, nil)
	outline, ok := p.(*scene.Outline)
	require.True(t, ok)
	assert.Len(t, outline.Paths, 1)
	assert.Len(t, outline.Paths[0], 2)

	// fill alone renders nothing for a line
	st = fillStroke("#33cc33", "", 0)
	p = cv.ConvertFeature(testLayer(), feat, &st, ctx, nil)
	assert.Nil(t, p)
}

func TestLineWidthClamp(t *testing.T) {
	st := fillStroke("", "#000000", 50)
	assert.Equal(t, 8.0, ExtractLineWidth(&st, 8))

	st = fillStroke("", "#000000", 0.5)
	assert.Equal(t, 0.5, ExtractLineWidth(&st, 8))

	st = fillStroke("", "#000000", 0)
	assert.Equal(t, 1.0, ExtractLineWidth(&st, 8))
}

func TestExtractColorFallbacks(t *testing.T) {
	st := fillStroke("#ff0000", "#00ff00", 1)
	assert.Equal(t, style.MustHex("#00ff00"), ExtractColor(&st, true))
	assert.Equal(t, style.MustHex("#ff0000"), ExtractColor(&st, false))

	st = fillStroke("#ff0000", "", 0)
	assert.Equal(t, style.MustHex("#ff0000"), ExtractColor(&st, true))

	st = fillStroke("", "", 0)
	assert.Equal(t, style.Black, ExtractColor(&st, false))
}

func TestDashedStrokeYieldsStripeMaterial(t *testing.T) {
	c := style.MustHex("#000000")
	st := style.Style{Stroke: &style.Stroke{Color: &c, Width: 1, LineDash: []float64{4, 2}}}

	m := StyleToMaterial(&st, true)
	require.NotNil(t, m)
	assert.Equal(t, scene.MaterialStripe, m.Type)
	assert.Equal(t, []float64{4, 2}, m.DashPattern)
	assert.Equal(t, style.Transparent, m.GapColor)

	assert.Nil(t, StyleToMaterial(&st, false))
}

func TestConvertCircle(t *testing.T) {
	cv := New(Options{})
	ctx := NewContext(3857)
	circle := &geom.Circle{Center: geom.Coordinate{X: 1491592, Y: 6893740}, Radius: 1000}
	feat := &feature.Feature{Geometry: circle}
	st := fillStroke("#33cc33", "#005500", 1)

	p := cv.ConvertFeature(testLayer(), feat, &st, ctx, nil)
	coll, ok := p.(*scene.Collection)
	require.True(t, ok)
	require.Equal(t, 2, coll.Len())

	disc := coll.Children[0].(*scene.Solid)
	assert.True(t, disc.Disc)
	assert.False(t, disc.Extruded)
	// projected radius is measured in the Cartesian frame, near the source
	// radius at this latitude but not equal to it
	assert.Greater(t, disc.Radius, 100.0)
	assert.Less(t, disc.Radius, 1000.0)

	ring := coll.Children[1].(*scene.Outline)
	assert.True(t, ring.Disc)
	assert.Equal(t, disc.Radius, ring.Radius)
}

func TestConvertCircleExtruded(t *testing.T) {
	cv := New(Options{})
	ctx := NewContext(4326)
	circle := &geom.Circle{Center: geom.Coordinate{X: 10, Y: 45, Z: 120}, Radius: 0.01, HasZ: true}
	feat := &feature.Feature{Geometry: circle}
	st := fillStroke("#33cc33", "", 0)

	p := cv.ConvertFeature(testLayer(), feat, &st, ctx, nil)
	disc, ok := p.(*scene.Solid)
	require.True(t, ok)
	assert.True(t, disc.Extruded)
	assert.Equal(t, 120.0, disc.Height)
}

func TestConvertMultiPolygonFlattens(t *testing.T) {
	cv := New(Options{})
	ctx := NewContext(4326)
	tri := func(dx float64) geom.Polygon {
		return geom.Polygon{Rings: []geom.Ring{{Coords: []geom.Coordinate{
			{X: dx, Y: 0}, {X: dx + 1, Y: 0}, {X: dx + 1, Y: 1}, {X: dx, Y: 0},
		}}}}
	}
	mp := &geom.MultiPolygon{Polygons: []geom.Polygon{tri(0), tri(2), tri(4)}}
	feat := &feature.Feature{Geometry: mp}
	st := fillStroke("#33cc33", "#005500", 1)

	p := cv.ConvertFeature(testLayer(), feat, &st, ctx, nil)
	coll, ok := p.(*scene.Collection)
	require.True(t, ok)
	// three members, each contributing a fill and an outline side
	assert.Equal(t, 6, coll.Len())
}

func TestConvertMultiPointWithoutTextIsNil(t *testing.T) {
	cv := New(Options{})
	ctx := NewContext(4326)
	mp := &geom.MultiPoint{Points: []geom.Point{{Coordinate: geom.Coordinate{X: 1, Y: 1}}, {Coordinate: geom.Coordinate{X: 2, Y: 2}}}}
	feat := &feature.Feature{Geometry: mp}
	st := fillStroke("#33cc33", "", 0)

	p := cv.ConvertFeature(testLayer(), feat, &st, ctx, nil)
	assert.Nil(t, p)
}

func TestConvertMultiPointWithText(t *testing.T) {
	cv := New(Options{})
	ctx := NewContext(4326)
	mp := &geom.MultiPoint{Points: []geom.Point{{Coordinate: geom.Coordinate{X: 1, Y: 1}}, {Coordinate: geom.Coordinate{X: 2, Y: 2}}}}
	feat := &feature.Feature{Geometry: mp}
	st := style.Style{Text: &style.Text{Content: "stop"}}

	p := cv.ConvertFeature(testLayer(), feat, &st, ctx, nil)
	coll, ok := p.(*scene.Collection)
	require.True(t, ok)
	require.Equal(t, 2, coll.Len())
	for _, child := range coll.Children {
		label, ok := child.(*scene.Label)
		require.True(t, ok)
		assert.Equal(t, "stop", label.Text)
	}
}

func TestConvertCollectionSkipsNilMembers(t *testing.T) {
	cv := New(Options{})
	ctx := NewContext(4326)
	col := &geom.Collection{Geometries: []geom.Geometry{
		nil,
		squarePolygon(),
		&geom.LineString{Coords: []geom.Coordinate{{X: 0, Y: 0}, {X: 1, Y: 1}}},
	}}
	feat := &feature.Feature{Geometry: col}
	st := fillStroke("#33cc33", "#005500", 1)

	p := cv.ConvertFeature(testLayer(), feat, &st, ctx, nil)
	coll, ok := p.(*scene.Collection)
	require.True(t, ok)
	// two non-nil members, each contributing one child
	assert.Equal(t, 2, coll.Len())
}

func TestConvertFeatureContractViolations(t *testing.T) {
	cv := New(Options{})
	ctx := NewContext(4326)
	feat := &feature.Feature{}
	st := fillStroke("#33cc33", "", 0)

	assert.PanicsWithValue(t, "vec2globe: linear ring outside polygon context", func() {
		cv.ConvertFeature(testLayer(), feat, &st, ctx, &geom.Ring{})
	})
}

func TestLabelOriginMapping(t *testing.T) {
	assert.Equal(t, scene.HorizontalCenter, horizontalOrigin(""))
	assert.Equal(t, scene.HorizontalCenter, horizontalOrigin("center"))
	assert.Equal(t, scene.HorizontalLeft, horizontalOrigin("left"))
	assert.Equal(t, scene.HorizontalRight, horizontalOrigin("right"))
	assert.Panics(t, func() { horizontalOrigin("justify") })

	assert.Equal(t, scene.VerticalTop, verticalOrigin(""))
	assert.Equal(t, scene.VerticalTop, verticalOrigin("top"))
	assert.Equal(t, scene.VerticalTop, verticalOrigin("alphabetic"))
	assert.Equal(t, scene.VerticalCenter, verticalOrigin("middle"))
	assert.Equal(t, scene.VerticalBottom, verticalOrigin("bottom"))
	assert.Equal(t, scene.VerticalBottom, verticalOrigin("hanging"))
	assert.Panics(t, func() { verticalOrigin("ideographic") })
}

func TestLabelStyling(t *testing.T) {
	cv := New(Options{})
	ctx := NewContext(4326)
	line := &geom.LineString{Coords: []geom.Coordinate{{X: 0, Y: 0}, {X: 2, Y: 2}}}
	feat := &feature.Feature{Geometry: line}

	fillColor := style.MustHex("#112233")
	strokeColor := style.MustHex("#445566")
	st := style.Style{Text: &style.Text{
		Content: "river",
		Font:    "10px serif",
		Fill:    &style.Fill{Color: &fillColor},
		Stroke:  &style.Stroke{Color: &strokeColor, Width: 2},
		OffsetX: 4,
		OffsetY: -6,
	}}

	p := cv.ConvertFeature(testLayer(), feat, &st, ctx, nil)
	label, ok := p.(*scene.Label)
	require.True(t, ok)
	assert.Equal(t, scene.LabelFillAndOutline, label.Style)
	assert.Equal(t, fillColor, label.FillColor)
	assert.Equal(t, strokeColor, label.OutlineColor)
	assert.Equal(t, 2.0, label.OutlineWidth)
	assert.Equal(t, 4.0, label.PixelOffsetX)
	assert.Equal(t, -6.0, label.PixelOffsetY)
}

// A labeled geometry without any coordinates has no anchor; nothing is
// rendered rather than a label at an undefined position.
func TestLabelSkippedForEmptyExtent(t *testing.T) {
	cv := New(Options{})
	ctx := NewContext(4326)
	feat := &feature.Feature{Geometry: &geom.Polygon{}}
	st := fillStroke("#33cc33", "", 0)
	st.Text = &style.Text{Content: "nowhere"}

	assert.Nil(t, cv.ConvertFeature(testLayer(), feat, &st, ctx, nil))
}

func TestLabelDefaultsToBlackFill(t *testing.T) {
	cv := New(Options{})
	ctx := NewContext(4326)
	feat := &feature.Feature{Geometry: &geom.Point{Coordinate: geom.Coordinate{X: 1, Y: 1}}}
	st := style.Style{Text: &style.Text{Content: "peak"}}

	p := cv.ConvertFeature(testLayer(), feat, &st, ctx, nil)
	label, ok := p.(*scene.Label)
	require.True(t, ok)
	assert.Equal(t, scene.LabelFill, label.Style)
	assert.Equal(t, style.Black, label.FillColor)
}

func TestLabelOffsetRequiresBothComponents(t *testing.T) {
	cv := New(Options{})
	ctx := NewContext(4326)
	feat := &feature.Feature{Geometry: &geom.Point{Coordinate: geom.Coordinate{X: 1, Y: 1}}}
	st := style.Style{Text: &style.Text{Content: "x", OffsetX: 5}}

	p := cv.ConvertFeature(testLayer(), feat, &st, ctx, nil)
	label := p.(*scene.Label)
	assert.Equal(t, 0.0, label.PixelOffsetX)
	assert.Equal(t, 0.0, label.PixelOffsetY)
}

func readyRegistry(srcs ...string) *icon.Registry {
	imgs := make(map[string]image.Image, len(srcs))
	for _, s := range srcs {
		imgs[s] = image.NewRGBA(image.Rect(0, 0, 4, 4))
	}
	return icon.NewRegistry(stubLoader{imgs}, 1)
}

type stubLoader struct {
	imgs map[string]image.Image
}

func (l stubLoader) Load(src string) (image.Image, error) {
	if img, ok := l.imgs[src]; ok {
		return img, nil
	}
	return nil, assert.AnError
}

func TestConvertPointReadyIcon(t *testing.T) {
	cv := New(Options{Icons: readyRegistry("marker.png")})
	ctx := NewContext(4326)
	layer := testLayer()
	feat := &feature.Feature{Geometry: &geom.Point{Coordinate: geom.Coordinate{X: 1, Y: 1}}}
	st := style.Style{Icon: &style.Icon{Src: "marker.png", Scale: 2}}

	p := cv.ConvertFeature(layer, feat, &st, ctx, nil)
	assert.Nil(t, p) // billboard lives in the container, not the return

	require.Equal(t, 1, ctx.Billboards.Len())
	b := ctx.Billboards.Billboards()[0]
	assert.Equal(t, "marker.png", b.Image)
	assert.Equal(t, 2.0, b.Scale)

	ref, ok := ctx.PickRef(b)
	require.True(t, ok)
	assert.Same(t, feat, ref.Feature)
	assert.Same(t, layer, ref.Layer)
}

func TestConvertPointDeferredIcon(t *testing.T) {
	// no loader: the asset stays loading until marked
	registry := icon.NewRegistry(nil, 1)
	cv := New(Options{Icons: registry})
	ctx := NewContext(4326)
	feat := &feature.Feature{Geometry: &geom.Point{Coordinate: geom.Coordinate{X: 1, Y: 1}}}
	st := style.Style{
		Icon: &style.Icon{Src: "slow.png"},
		Text: &style.Text{Content: "cafe"},
	}

	var notified []*scene.Billboard
	ctx.OnBillboardAdded = func(b *scene.Billboard) { notified = append(notified, b) }

	p := cv.ConvertFeature(testLayer(), feat, &st, ctx, nil)

	// the label is synchronous, the billboard is not
	_, isLabel := p.(*scene.Label)
	assert.True(t, isLabel)
	assert.Equal(t, 0, ctx.Billboards.Len())
	assert.Empty(t, notified)

	registry.Resolve("slow.png").MarkReady(image.NewRGBA(image.Rect(0, 0, 2, 2)))

	require.Equal(t, 1, ctx.Billboards.Len())
	require.Len(t, notified, 1)
	assert.Equal(t, "slow.png", notified[0].Image)
	assert.Equal(t, 1.0, notified[0].Scale)
}

func TestConvertPointFailedIconSilent(t *testing.T) {
	registry := icon.NewRegistry(stubLoader{}, 1)
	cv := New(Options{Icons: registry})
	ctx := NewContext(4326)
	feat := &feature.Feature{Geometry: &geom.Point{Coordinate: geom.Coordinate{X: 1, Y: 1}}}
	st := style.Style{Icon: &style.Icon{Src: "broken.png"}}

	p := cv.ConvertFeature(testLayer(), feat, &st, ctx, nil)
	assert.Nil(t, p)
	assert.Equal(t, 0, ctx.Billboards.Len())
}

func TestResolveHeightReferencePrecedence(t *testing.T) {
	layer := &feature.Layer{AltitudeMode: "relativeToGround"}
	feat := &feature.Feature{Attributes: map[string]any{"altitudeMode": "clampToGround"}}

	// geometry hint wins
	assert.Equal(t, scene.HeightNone, resolveHeightReference(layer, feat, "absolute"))
	// then the feature attribute
	assert.Equal(t, scene.HeightClampToGround, resolveHeightReference(layer, feat, ""))
	// then the layer
	assert.Equal(t, scene.HeightRelativeToGround, resolveHeightReference(layer, &feature.Feature{}, ""))
	// nothing set means absolute
	assert.Equal(t, scene.HeightNone, resolveHeightReference(&feature.Layer{}, &feature.Feature{}, ""))
}

func TestConvertLayer(t *testing.T) {
	cv := New(Options{})
	withGeom := &feature.Feature{ID: "a", Geometry: squarePolygon()}
	noGeom := &feature.Feature{ID: "b"}
	layer := testLayer(withGeom, noGeom)
	layer.Style = constStyle(fillStroke("#33cc33", "", 0))

	coll, ctx := cv.ConvertLayer(layer, feature.View{Resolution: 10, SRID: 4326}, nil)
	assert.Equal(t, 1, coll.Len())

	p, ok := ctx.FeatureMap[withGeom]
	require.True(t, ok)
	ref, ok := ctx.PickRef(p)
	require.True(t, ok)
	assert.Same(t, withGeom, ref.Feature)

	_, ok = ctx.FeatureMap[noGeom]
	assert.False(t, ok)
}

func TestConvertLayerSkipsUnstyledFeatures(t *testing.T) {
	cv := New(Options{})
	unstyled := &feature.Feature{ID: "u", Geometry: squarePolygon()}
	layer := testLayer(unstyled)

	coll, ctx := cv.ConvertLayer(layer, feature.View{Resolution: 10, SRID: 4326}, nil)
	assert.Equal(t, 0, coll.Len())
	assert.Empty(t, ctx.FeatureMap)
}

func TestConvertLayerPanicsOnInvalidView(t *testing.T) {
	cv := New(Options{})
	layer := testLayer()

	assert.Panics(t, func() { cv.ConvertLayer(layer, feature.View{Resolution: 0, SRID: 4326}, nil) })
	assert.Panics(t, func() { cv.ConvertLayer(layer, feature.View{Resolution: 1, SRID: 0}, nil) })
}

func TestConvertLayerRecordsDeferredBillboardAsPrimary(t *testing.T) {
	registry := icon.NewRegistry(nil, 1)
	cv := New(Options{Icons: registry})

	feat := &feature.Feature{
		ID:       "poi",
		Geometry: &geom.Point{Coordinate: geom.Coordinate{X: 1, Y: 1}},
		Style:    constStyle(style.Style{Icon: &style.Icon{Src: "slow.png"}}),
	}
	layer := testLayer(feat)

	coll, ctx := cv.ConvertLayer(layer, feature.View{Resolution: 1, SRID: 4326}, nil)
	assert.Equal(t, 0, coll.Len())
	_, ok := ctx.FeatureMap[feat]
	assert.False(t, ok)

	registry.Resolve("slow.png").MarkReady(image.NewRGBA(image.Rect(0, 0, 2, 2)))

	p, ok := ctx.FeatureMap[feat]
	require.True(t, ok)
	_, isBillboard := p.(*scene.Billboard)
	assert.True(t, isBillboard)
}

func TestConvertSingleQuietOnInvalidInput(t *testing.T) {
	cv := New(Options{})
	ctx := NewContext(4326)
	feat := &feature.Feature{Geometry: squarePolygon()}

	assert.Nil(t, cv.ConvertSingle(testLayer(), feature.View{Resolution: 0, SRID: 4326}, feat, ctx))
	assert.Nil(t, cv.ConvertSingle(testLayer(), feature.View{Resolution: 1, SRID: 0}, feat, ctx))
	assert.Nil(t, cv.ConvertSingle(testLayer(), feature.View{Resolution: 1, SRID: 4326}, nil, ctx))
	assert.Nil(t, cv.ConvertSingle(testLayer(), feature.View{Resolution: 1, SRID: 4326}, &feature.Feature{}, ctx))
}

func TestConvertSingle(t *testing.T) {
	cv := New(Options{})
	ctx := NewContext(4326)
	feat := &feature.Feature{
		ID:       "u",
		Geometry: squarePolygon(),
		Style:    constStyle(fillStroke("#33cc33", "", 0)),
	}

	p := cv.ConvertSingle(testLayer(), feature.View{Resolution: 1, SRID: 4326}, feat, ctx)
	require.NotNil(t, p)
	assert.Same(t, p, ctx.FeatureMap[feat])
}
