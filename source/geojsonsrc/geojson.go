// Package geojsonsrc reads GeoJSON documents into feature sources. It
// accepts FeatureCollection, Feature and bare geometry documents; positions
// with a third element become 3D coordinates.
package geojsonsrc

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/wegman-software/vec2globe-go/feature"
	"github.com/wegman-software/vec2globe-go/geom"
)

type document struct {
	Type        string            `json:"type"`
	Features    []featureDoc      `json:"features"`
	Geometry    *geometryDoc      `json:"geometry"`
	Properties  map[string]any    `json:"properties"`
	ID          json.RawMessage   `json:"id"`
	Coordinates json.RawMessage   `json:"coordinates"`
	Geometries  []json.RawMessage `json:"geometries"`
}

type featureDoc struct {
	Type       string          `json:"type"`
	ID         json.RawMessage `json:"id"`
	Geometry   *geometryDoc    `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

type geometryDoc struct {
	Type        string            `json:"type"`
	Coordinates json.RawMessage   `json:"coordinates"`
	Geometries  []json.RawMessage `json:"geometries"`
}

// LoadFile reads a GeoJSON file into a source.
func LoadFile(path string) (*feature.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open GeoJSON file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a GeoJSON document into a source.
func Read(r io.Reader) (*feature.Source, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}

	src := feature.NewSource()
	switch doc.Type {
	case "FeatureCollection":
		for i, fd := range doc.Features {
			feat, err := parseFeature(&fd, i)
			if err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			src.Add(feat)
		}
	case "Feature":
		feat, err := parseFeature(&featureDoc{ID: doc.ID, Geometry: doc.Geometry, Properties: doc.Properties}, 0)
		if err != nil {
			return nil, err
		}
		src.Add(feat)
	case "":
		return nil, fmt.Errorf("GeoJSON document has no type")
	default:
		// a bare geometry document
		g, err := parseGeometry(&geometryDoc{Type: doc.Type, Coordinates: doc.Coordinates, Geometries: doc.Geometries})
		if err != nil {
			return nil, err
		}
		src.Add(&feature.Feature{ID: "0", Geometry: g})
	}
	return src, nil
}

func parseFeature(fd *featureDoc, index int) (*feature.Feature, error) {
	feat := &feature.Feature{
		ID:         parseID(fd.ID, index),
		Attributes: fd.Properties,
	}
	if fd.Geometry != nil {
		g, err := parseGeometry(fd.Geometry)
		if err != nil {
			return nil, err
		}
		feat.Geometry = g
	}
	return feat, nil
}

// parseID accepts both string and numeric feature ids; features without an
// id get their collection index.
func parseID(raw json.RawMessage, index int) string {
	if len(raw) == 0 {
		return strconv.Itoa(index)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.Itoa(index)
}

func parseGeometry(gd *geometryDoc) (geom.Geometry, error) {
	switch gd.Type {
	case "Point":
		var pos []float64
		if err := json.Unmarshal(gd.Coordinates, &pos); err != nil {
			return nil, fmt.Errorf("Point coordinates: %w", err)
		}
		c, hasZ, err := position(pos)
		if err != nil {
			return nil, err
		}
		return &geom.Point{Coordinate: c, HasZ: hasZ}, nil

	case "LineString":
		coords, hasZ, err := positions(gd.Coordinates)
		if err != nil {
			return nil, fmt.Errorf("LineString coordinates: %w", err)
		}
		return &geom.LineString{Coords: coords, HasZ: hasZ}, nil

	case "Polygon":
		rings, hasZ, err := ringSet(gd.Coordinates)
		if err != nil {
			return nil, fmt.Errorf("Polygon coordinates: %w", err)
		}
		return &geom.Polygon{Rings: rings, HasZ: hasZ}, nil

	case "MultiPoint":
		coords, hasZ, err := positions(gd.Coordinates)
		if err != nil {
			return nil, fmt.Errorf("MultiPoint coordinates: %w", err)
		}
		mp := &geom.MultiPoint{Points: make([]geom.Point, 0, len(coords))}
		for _, c := range coords {
			mp.Points = append(mp.Points, geom.Point{Coordinate: c, HasZ: hasZ})
		}
		return mp, nil

	case "MultiLineString":
		var raw []json.RawMessage
		if err := json.Unmarshal(gd.Coordinates, &raw); err != nil {
			return nil, fmt.Errorf("MultiLineString coordinates: %w", err)
		}
		ml := &geom.MultiLineString{Lines: make([]geom.LineString, 0, len(raw))}
		for _, member := range raw {
			coords, hasZ, err := positions(member)
			if err != nil {
				return nil, fmt.Errorf("MultiLineString member: %w", err)
			}
			ml.Lines = append(ml.Lines, geom.LineString{Coords: coords, HasZ: hasZ})
		}
		return ml, nil

	case "MultiPolygon":
		var raw []json.RawMessage
		if err := json.Unmarshal(gd.Coordinates, &raw); err != nil {
			return nil, fmt.Errorf("MultiPolygon coordinates: %w", err)
		}
		mp := &geom.MultiPolygon{Polygons: make([]geom.Polygon, 0, len(raw))}
		for _, member := range raw {
			rings, hasZ, err := ringSet(member)
			if err != nil {
				return nil, fmt.Errorf("MultiPolygon member: %w", err)
			}
			mp.Polygons = append(mp.Polygons, geom.Polygon{Rings: rings, HasZ: hasZ})
		}
		return mp, nil

	case "GeometryCollection":
		col := &geom.Collection{Geometries: make([]geom.Geometry, 0, len(gd.Geometries))}
		for i, raw := range gd.Geometries {
			var member geometryDoc
			if err := json.Unmarshal(raw, &member); err != nil {
				return nil, fmt.Errorf("GeometryCollection member %d: %w", i, err)
			}
			g, err := parseGeometry(&member)
			if err != nil {
				return nil, fmt.Errorf("GeometryCollection member %d: %w", i, err)
			}
			col.Geometries = append(col.Geometries, g)
		}
		return col, nil

	default:
		return nil, fmt.Errorf("unsupported geometry type %q", gd.Type)
	}
}

func ringSet(raw json.RawMessage) ([]geom.Ring, bool, error) {
	var members []json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, false, err
	}
	rings := make([]geom.Ring, 0, len(members))
	hasZ := false
	for _, member := range members {
		coords, z, err := positions(member)
		if err != nil {
			return nil, false, err
		}
		hasZ = hasZ || z
		rings = append(rings, geom.Ring{Coords: coords})
	}
	return rings, hasZ, nil
}

func positions(raw json.RawMessage) ([]geom.Coordinate, bool, error) {
	var members [][]float64
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, false, err
	}
	coords := make([]geom.Coordinate, 0, len(members))
	hasZ := false
	for _, pos := range members {
		c, z, err := position(pos)
		if err != nil {
			return nil, false, err
		}
		hasZ = hasZ || z
		coords = append(coords, c)
	}
	return coords, hasZ, nil
}

func position(pos []float64) (geom.Coordinate, bool, error) {
	switch len(pos) {
	case 2:
		return geom.Coordinate{X: pos[0], Y: pos[1]}, false, nil
	case 3:
		return geom.Coordinate{X: pos[0], Y: pos[1], Z: pos[2]}, true, nil
	default:
		return geom.Coordinate{}, false, fmt.Errorf("position has %d elements, want 2 or 3", len(pos))
	}
}
