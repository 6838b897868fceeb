// Package proj reprojects source geometries into the global geographic
// frame and converts geographic coordinates into the renderer's 3D
// Cartesian frame.
package proj

import (
	"fmt"
	"math"
)

// SRID constants for the supported projections
const (
	SRID4326 = 4326 // WGS84 (lon/lat)
	SRID3857 = 3857 // Web Mercator
)

// Transformer converts planar coordinates between a source projection and
// the geographic frame.
type Transformer struct {
	SourceSRID int
	TargetSRID int
}

// NewTransformer creates a transformer from source to target SRID.
func NewTransformer(sourceSRID, targetSRID int) (*Transformer, error) {
	if sourceSRID != SRID4326 && sourceSRID != SRID3857 {
		return nil, fmt.Errorf("unsupported source SRID: %d (only 4326 and 3857 supported)", sourceSRID)
	}
	if targetSRID != SRID4326 && targetSRID != SRID3857 {
		return nil, fmt.Errorf("unsupported target SRID: %d (only 4326 and 3857 supported)", targetSRID)
	}

	return &Transformer{
		SourceSRID: sourceSRID,
		TargetSRID: targetSRID,
	}, nil
}

// NeedsTransform returns true if transformation is required.
func (t *Transformer) NeedsTransform() bool {
	return t.SourceSRID != t.TargetSRID
}

// Transform converts a single coordinate pair from source to target
// projection.
func (t *Transformer) Transform(x, y float64) (float64, float64) {
	switch {
	case t.SourceSRID == t.TargetSRID:
		return x, y
	case t.SourceSRID == SRID4326 && t.TargetSRID == SRID3857:
		return lonLatToWebMercator(x, y)
	case t.SourceSRID == SRID3857 && t.TargetSRID == SRID4326:
		return webMercatorToLonLat(x, y)
	default:
		return x, y
	}
}

// Web Mercator constants
const (
	// Semi-major axis of the WGS84 ellipsoid in meters
	earthRadius = 6378137.0
	// Maximum extent of Web Mercator
	maxExtent = 20037508.342789244
	// Latitude clamp to avoid infinity at the poles
	maxMercatorLat = 85.06
)

// lonLatToWebMercator converts WGS84 (lon, lat) to Web Mercator (x, y).
func lonLatToWebMercator(lon, lat float64) (x, y float64) {
	if lat > maxMercatorLat {
		lat = maxMercatorLat
	} else if lat < -maxMercatorLat {
		lat = -maxMercatorLat
	}

	x = lon * maxExtent / 180.0

	// y = R * ln(tan(π/4 + φ/2))
	latRad := lat * math.Pi / 180.0
	y = math.Log(math.Tan(math.Pi/4.0+latRad/2.0)) * earthRadius

	return x, y
}

// webMercatorToLonLat converts Web Mercator (x, y) back to WGS84 (lon, lat).
func webMercatorToLonLat(x, y float64) (lon, lat float64) {
	lon = x / maxExtent * 180.0

	// φ = 2 * atan(exp(y / R)) - π/2
	latRad := 2.0*math.Atan(math.Exp(y/earthRadius)) - math.Pi/2.0
	lat = latRad * 180.0 / math.Pi

	return lon, lat
}

// ParseSRID parses a projection string to SRID.
// Accepts: "4326", "3857", "EPSG:4326", "EPSG:3857".
func ParseSRID(s string) (int, error) {
	switch s {
	case "4326", "EPSG:4326":
		return SRID4326, nil
	case "3857", "EPSG:3857":
		return SRID3857, nil
	default:
		return 0, fmt.Errorf("unsupported projection: %s (supported: 4326, 3857)", s)
	}
}
