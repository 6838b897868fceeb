package proj

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/wegman-software/vec2globe-go/geom"
)

// WGS84 ellipsoid parameters
const (
	wgs84SemiMajor  = 6378137.0
	wgs84Flattening = 1.0 / 298.257223563
)

var wgs84E2 = wgs84Flattening * (2 - wgs84Flattening)

// ToCartesian converts a geographic coordinate (lon/lat in degrees, Z in
// meters above the ellipsoid) into the renderer's Earth-centered Cartesian
// frame. A missing elevation is treated as 0.
func ToCartesian(c geom.Coordinate) r3.Vector {
	lon := c.X * math.Pi / 180.0
	lat := c.Y * math.Pi / 180.0
	h := c.Z

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)

	// prime vertical radius of curvature
	n := wgs84SemiMajor / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	return r3.Vector{
		X: (n + h) * cosLat * math.Cos(lon),
		Y: (n + h) * cosLat * math.Sin(lon),
		Z: (n*(1-wgs84E2) + h) * sinLat,
	}
}

// ToCartesianBatch converts a coordinate sequence in order. When hasZ is
// false the elevation component is ignored and treated as 0.
func ToCartesianBatch(coords []geom.Coordinate, hasZ bool) []r3.Vector {
	out := make([]r3.Vector, len(coords))
	for i, c := range coords {
		if !hasZ {
			c.Z = 0
		}
		out[i] = ToCartesian(c)
	}
	return out
}

// Distance returns the straight-line distance between two Cartesian
// positions. Radii and extents must be measured in this frame, not in
// source projection units.
func Distance(p, q r3.Vector) float64 {
	return p.Sub(q).Norm()
}
