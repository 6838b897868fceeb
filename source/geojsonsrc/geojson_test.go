package geojsonsrc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wegman-software/vec2globe-go/geom"
)

func TestReadFeatureCollection(t *testing.T) {
	doc := `{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"id": "lake-1",
				"properties": {"name": "Lake", "altitudeMode": "clampToGround"},
				"geometry": {
					"type": "Polygon",
					"coordinates": [
						[[0,0],[10,0],[10,10],[0,10],[0,0]],
						[[2,2],[4,2],[4,4],[2,4],[2,2]]
					]
				}
			},
			{
				"type": "Feature",
				"id": 42,
				"properties": {},
				"geometry": {"type": "Point", "coordinates": [13.4, 52.5, 120.0]}
			}
		]
	}`

	src, err := Read(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, 2, src.Len())

	lake := src.Features()[0]
	assert.Equal(t, "lake-1", lake.ID)
	assert.Equal(t, "clampToGround", lake.StringAttr("altitudeMode"))
	poly, ok := lake.Geometry.(*geom.Polygon)
	require.True(t, ok)
	assert.Len(t, poly.Rings, 2)

	peak := src.Features()[1]
	assert.Equal(t, "42", peak.ID)
	point, ok := peak.Geometry.(*geom.Point)
	require.True(t, ok)
	assert.True(t, point.HasZ)
	assert.Equal(t, 120.0, point.Coordinate.Z)
}

func TestReadSingleFeature(t *testing.T) {
	doc := `{
		"type": "Feature",
		"properties": {"kind": "route"},
		"geometry": {"type": "LineString", "coordinates": [[0,0],[1,1],[2,0]]}
	}`

	src, err := Read(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, 1, src.Len())

	feat := src.Features()[0]
	assert.Equal(t, "0", feat.ID)
	line, ok := feat.Geometry.(*geom.LineString)
	require.True(t, ok)
	assert.Len(t, line.Coords, 3)
	assert.False(t, line.HasZ)
}

func TestReadBareGeometry(t *testing.T) {
	doc := `{"type": "MultiPolygon", "coordinates": [
		[[[0,0],[1,0],[1,1],[0,0]]],
		[[[5,5],[6,5],[6,6],[5,5]]]
	]}`

	src, err := Read(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, 1, src.Len())

	mp, ok := src.Features()[0].Geometry.(*geom.MultiPolygon)
	require.True(t, ok)
	assert.Len(t, mp.Polygons, 2)
}

func TestReadGeometryCollection(t *testing.T) {
	doc := `{
		"type": "Feature",
		"geometry": {
			"type": "GeometryCollection",
			"geometries": [
				{"type": "Point", "coordinates": [1, 2]},
				{"type": "LineString", "coordinates": [[0,0],[3,4]]}
			]
		}
	}`

	src, err := Read(strings.NewReader(doc))
	require.NoError(t, err)

	col, ok := src.Features()[0].Geometry.(*geom.Collection)
	require.True(t, ok)
	require.Len(t, col.Geometries, 2)
	assert.Equal(t, geom.KindPoint, col.Geometries[0].Kind())
	assert.Equal(t, geom.KindLineString, col.Geometries[1].Kind())
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not JSON", "nope"},
		{"no type", `{"features": []}`},
		{"unsupported geometry", `{"type": "Feature", "geometry": {"type": "CircularString", "coordinates": []}}`},
		{"short position", `{"type": "Point", "coordinates": [1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}
