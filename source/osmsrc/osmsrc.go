// Package osmsrc reads OpenStreetMap PBF extracts into feature sources.
// Tagged nodes become points, closed area ways become polygons and other
// ways become line strings. Relations are not assembled.
package osmsrc

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"

	"github.com/wegman-software/vec2globe-go/feature"
	"github.com/wegman-software/vec2globe-go/geom"
)

// Options tunes PBF extraction.
type Options struct {
	// Procs is the decoder parallelism; 0 means NumCPU.
	Procs int
	// Logger receives progress and skip diagnostics; nil means silent.
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Procs <= 0 {
		o.Procs = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// LoadFile reads an OSM PBF extract into a source. Coordinates are
// geographic (SRID 4326).
func LoadFile(ctx context.Context, path string, opts Options) (*feature.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PBF file: %w", err)
	}
	defer f.Close()
	return Read(ctx, f, opts)
}

// Read scans a PBF stream into a source. Nodes are indexed as they stream
// by; ways referencing nodes missing from the extract are skipped.
func Read(ctx context.Context, r io.Reader, opts Options) (*feature.Source, error) {
	opts = opts.withDefaults()
	log := opts.Logger

	scanner := osmpbf.New(ctx, r, opts.Procs)
	defer scanner.Close()

	src := feature.NewSource()
	coords := make(map[osm.NodeID]geom.Coordinate)
	var skipped int

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			coords[o.ID] = geom.Coordinate{X: o.Lon, Y: o.Lat}
			if hasMeaningfulTags(o.Tags) {
				src.Add(&feature.Feature{
					ID:         "node/" + strconv.FormatInt(int64(o.ID), 10),
					Geometry:   &geom.Point{Coordinate: geom.Coordinate{X: o.Lon, Y: o.Lat}},
					Attributes: tagAttributes(o.Tags),
				})
			}
		case *osm.Way:
			feat, ok := wayFeature(o, coords)
			if !ok {
				skipped++
				continue
			}
			if feat != nil {
				src.Add(feat)
			}
		}
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to scan PBF: %w", err)
	}

	if skipped > 0 {
		log.Debug("Skipped ways with unresolved nodes", zap.Int("ways", skipped))
	}
	log.Debug("PBF extract loaded", zap.Int("features", src.Len()), zap.Int("nodes_indexed", len(coords)))
	return src, nil
}

// wayFeature builds a line or polygon feature from a way. The second return
// is false when a referenced node is missing from the extract; untagged or
// degenerate ways return (nil, true).
func wayFeature(way *osm.Way, coords map[osm.NodeID]geom.Coordinate) (*feature.Feature, bool) {
	if !hasMeaningfulTags(way.Tags) || len(way.Nodes) < 2 {
		return nil, true
	}

	line := make([]geom.Coordinate, 0, len(way.Nodes))
	for _, ref := range way.Nodes {
		c, ok := coords[ref.ID]
		if !ok {
			return nil, false
		}
		line = append(line, c)
	}

	feat := &feature.Feature{
		ID:         "way/" + strconv.FormatInt(int64(way.ID), 10),
		Attributes: tagAttributes(way.Tags),
	}

	closed := len(way.Nodes) >= 4 && way.Nodes[0].ID == way.Nodes[len(way.Nodes)-1].ID
	if closed && isArea(way.Tags) {
		feat.Geometry = &geom.Polygon{Rings: []geom.Ring{{Coords: line}}}
	} else {
		feat.Geometry = &geom.LineString{Coords: line}
	}
	return feat, true
}

func tagAttributes(tags osm.Tags) map[string]any {
	m := make(map[string]any, len(tags))
	for _, tag := range tags {
		m[tag.Key] = tag.Value
	}
	return m
}

// hasMeaningfulTags reports whether tags carry more than editing metadata.
func hasMeaningfulTags(tags osm.Tags) bool {
	metadata := map[string]bool{
		"created_by": true,
		"source":     true,
		"note":       true,
		"fixme":      true,
		"FIXME":      true,
	}
	for _, tag := range tags {
		if !metadata[tag.Key] {
			return true
		}
	}
	return false
}

// isArea reports whether a closed way should be treated as a polygon.
func isArea(tags osm.Tags) bool {
	for _, tag := range tags {
		if tag.Key == "area" {
			return tag.Value == "yes"
		}
	}

	areaKeys := map[string]bool{
		"building": true,
		"landuse":  true,
		"natural":  true,
		"leisure":  true,
		"amenity":  true,
		"shop":     true,
		"tourism":  true,
		"man_made": true,
		"waterway": false, // rivers are lines even if closed
		"highway":  false, // roundabouts are lines
		"barrier":  false,
		"railway":  false,
	}
	for _, tag := range tags {
		if area, exists := areaKeys[tag.Key]; exists {
			return area
		}
	}
	return false
}
