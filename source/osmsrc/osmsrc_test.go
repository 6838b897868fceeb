package osmsrc

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wegman-software/vec2globe-go/geom"
)

func squareCoords() map[osm.NodeID]geom.Coordinate {
	return map[osm.NodeID]geom.Coordinate{
		1: {X: 13.0, Y: 52.0},
		2: {X: 13.1, Y: 52.0},
		3: {X: 13.1, Y: 52.1},
		4: {X: 13.0, Y: 52.1},
	}
}

func wayOf(id osm.WayID, tags osm.Tags, nodeIDs ...osm.NodeID) *osm.Way {
	way := &osm.Way{ID: id, Tags: tags}
	for _, nid := range nodeIDs {
		way.Nodes = append(way.Nodes, osm.WayNode{ID: nid})
	}
	return way
}

func TestWayFeatureClosedBuilding(t *testing.T) {
	way := wayOf(7, osm.Tags{{Key: "building", Value: "yes"}}, 1, 2, 3, 4, 1)

	feat, ok := wayFeature(way, squareCoords())
	require.True(t, ok)
	require.NotNil(t, feat)

	assert.Equal(t, "way/7", feat.ID)
	poly, isPoly := feat.Geometry.(*geom.Polygon)
	require.True(t, isPoly)
	require.Len(t, poly.Rings, 1)
	assert.Len(t, poly.Rings[0].Coords, 5)
}

func TestWayFeatureClosedHighwayStaysLine(t *testing.T) {
	// roundabouts are closed but render as lines
	way := wayOf(8, osm.Tags{{Key: "highway", Value: "primary"}}, 1, 2, 3, 4, 1)

	feat, ok := wayFeature(way, squareCoords())
	require.True(t, ok)
	require.NotNil(t, feat)
	assert.Equal(t, geom.KindLineString, feat.Geometry.Kind())
}

func TestWayFeatureOpenWay(t *testing.T) {
	way := wayOf(9, osm.Tags{{Key: "highway", Value: "residential"}}, 1, 2, 3)

	feat, ok := wayFeature(way, squareCoords())
	require.True(t, ok)
	require.NotNil(t, feat)

	line, isLine := feat.Geometry.(*geom.LineString)
	require.True(t, isLine)
	assert.Len(t, line.Coords, 3)
	assert.Equal(t, geom.Coordinate{X: 13.0, Y: 52.0}, line.Coords[0])
}

func TestWayFeatureMissingNode(t *testing.T) {
	way := wayOf(10, osm.Tags{{Key: "highway", Value: "residential"}}, 1, 99)

	feat, ok := wayFeature(way, squareCoords())
	assert.False(t, ok)
	assert.Nil(t, feat)
}

func TestWayFeatureUntagged(t *testing.T) {
	way := wayOf(11, osm.Tags{{Key: "created_by", Value: "editor"}}, 1, 2)

	feat, ok := wayFeature(way, squareCoords())
	assert.True(t, ok)
	assert.Nil(t, feat)
}

func TestIsArea(t *testing.T) {
	tests := []struct {
		name string
		tags osm.Tags
		want bool
	}{
		{"explicit area yes", osm.Tags{{Key: "highway", Value: "pedestrian"}, {Key: "area", Value: "yes"}}, true},
		{"explicit area no", osm.Tags{{Key: "building", Value: "yes"}, {Key: "area", Value: "no"}}, false},
		{"building", osm.Tags{{Key: "building", Value: "yes"}}, true},
		{"closed river", osm.Tags{{Key: "waterway", Value: "river"}}, false},
		{"unknown key", osm.Tags{{Key: "name", Value: "thing"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isArea(tt.tags))
		})
	}
}

func TestTagAttributes(t *testing.T) {
	attrs := tagAttributes(osm.Tags{{Key: "name", Value: "Main St"}, {Key: "highway", Value: "residential"}})
	assert.Equal(t, "Main St", attrs["name"])
	assert.Equal(t, "residential", attrs["highway"])
}
