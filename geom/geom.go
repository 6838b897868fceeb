// Package geom defines the vector geometry model consumed by the scene
// converter. It is a closed set of geometry kinds; converters dispatch
// exhaustively on Kind and treat anything else as a caller error.
package geom

import "fmt"

// Kind identifies a geometry variant
type Kind int

const (
	KindPoint Kind = iota
	KindLineString
	KindLinearRing
	KindPolygon
	KindCircle
	KindMultiPoint
	KindMultiLineString
	KindMultiPolygon
	KindCollection
)

// String returns the conventional geometry type name
func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "Point"
	case KindLineString:
		return "LineString"
	case KindLinearRing:
		return "LinearRing"
	case KindPolygon:
		return "Polygon"
	case KindCircle:
		return "Circle"
	case KindMultiPoint:
		return "MultiPoint"
	case KindMultiLineString:
		return "MultiLineString"
	case KindMultiPolygon:
		return "MultiPolygon"
	case KindCollection:
		return "GeometryCollection"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Coordinate is a single position in the geometry's source reference system.
// Z is an elevation component; whether it is meaningful is tracked per
// geometry via HasZ.
type Coordinate struct {
	X float64
	Y float64
	Z float64
}

// Geometry is the closed variant over all supported geometry kinds.
type Geometry interface {
	Kind() Kind
	// Clone returns a deep copy sharing no coordinate storage with the
	// receiver.
	Clone() Geometry
	// Bound returns the 2D bounding extent of the geometry.
	Bound() BBox
	// Is3D reports whether coordinates carry an elevation component.
	Is3D() bool
}

// Point is a single position. AltitudeMode optionally carries a
// geometry-level height reference hint ("clampToGround", "relativeToGround").
type Point struct {
	Coordinate   Coordinate
	HasZ         bool
	AltitudeMode string
}

// LineString is an ordered sequence of two or more positions.
type LineString struct {
	Coords []Coordinate
	HasZ   bool
}

// Ring is a closed linear ring. Rings are only valid nested inside a
// Polygon; handing one to the converter directly is a programming error.
type Ring struct {
	Coords []Coordinate
	HasZ   bool
}

// Polygon is an area with zero or more holes. Rings[0] is the outer
// boundary, every following ring is a hole.
type Polygon struct {
	Rings []Ring
	HasZ  bool
}

// Circle is a center position plus a radius expressed in source projection
// units. The renderable radius must be derived after reprojection, never
// from the raw source value.
type Circle struct {
	Center Coordinate
	Radius float64
	HasZ   bool
}

// MultiPoint is an ordered collection of points.
type MultiPoint struct {
	Points []Point
}

// MultiLineString is an ordered collection of linestrings.
type MultiLineString struct {
	Lines []LineString
}

// MultiPolygon is an ordered collection of polygons.
type MultiPolygon struct {
	Polygons []Polygon
}

// Collection is an ordered, possibly heterogeneous collection of geometries.
// Members may be nil; consumers skip absent members.
type Collection struct {
	Geometries []Geometry
}

func (p *Point) Kind() Kind           { return KindPoint }
func (l *LineString) Kind() Kind      { return KindLineString }
func (r *Ring) Kind() Kind            { return KindLinearRing }
func (p *Polygon) Kind() Kind         { return KindPolygon }
func (c *Circle) Kind() Kind          { return KindCircle }
func (m *MultiPoint) Kind() Kind      { return KindMultiPoint }
func (m *MultiLineString) Kind() Kind { return KindMultiLineString }
func (m *MultiPolygon) Kind() Kind    { return KindMultiPolygon }
func (c *Collection) Kind() Kind      { return KindCollection }

func (p *Point) Is3D() bool           { return p.HasZ }
func (l *LineString) Is3D() bool      { return l.HasZ }
func (r *Ring) Is3D() bool            { return r.HasZ }
func (p *Polygon) Is3D() bool         { return p.HasZ }
func (c *Circle) Is3D() bool          { return c.HasZ }
func (m *MultiPoint) Is3D() bool {
	for i := range m.Points {
		if m.Points[i].HasZ {
			return true
		}
	}
	return false
}

func (m *MultiLineString) Is3D() bool {
	for i := range m.Lines {
		if m.Lines[i].HasZ {
			return true
		}
	}
	return false
}

func (m *MultiPolygon) Is3D() bool {
	for i := range m.Polygons {
		if m.Polygons[i].HasZ {
			return true
		}
	}
	return false
}

func (c *Collection) Is3D() bool {
	for _, g := range c.Geometries {
		if g != nil && g.Is3D() {
			return true
		}
	}
	return false
}

// Clone implementations. Coordinate slices are copied, never shared.

func (p *Point) Clone() Geometry {
	cp := *p
	return &cp
}

func (l *LineString) Clone() Geometry {
	return &LineString{Coords: cloneCoords(l.Coords), HasZ: l.HasZ}
}

func (r *Ring) Clone() Geometry {
	return &Ring{Coords: cloneCoords(r.Coords), HasZ: r.HasZ}
}

func (p *Polygon) Clone() Geometry {
	rings := make([]Ring, len(p.Rings))
	for i, r := range p.Rings {
		rings[i] = Ring{Coords: cloneCoords(r.Coords), HasZ: r.HasZ}
	}
	return &Polygon{Rings: rings, HasZ: p.HasZ}
}

func (c *Circle) Clone() Geometry {
	cp := *c
	return &cp
}

func (m *MultiPoint) Clone() Geometry {
	pts := make([]Point, len(m.Points))
	copy(pts, m.Points)
	return &MultiPoint{Points: pts}
}

func (m *MultiLineString) Clone() Geometry {
	lines := make([]LineString, len(m.Lines))
	for i, l := range m.Lines {
		lines[i] = LineString{Coords: cloneCoords(l.Coords), HasZ: l.HasZ}
	}
	return &MultiLineString{Lines: lines}
}

func (m *MultiPolygon) Clone() Geometry {
	polys := make([]Polygon, len(m.Polygons))
	for i, p := range m.Polygons {
		cp := p.Clone().(*Polygon)
		polys[i] = *cp
	}
	return &MultiPolygon{Polygons: polys}
}

func (c *Collection) Clone() Geometry {
	geoms := make([]Geometry, len(c.Geometries))
	for i, g := range c.Geometries {
		if g != nil {
			geoms[i] = g.Clone()
		}
	}
	return &Collection{Geometries: geoms}
}

func cloneCoords(coords []Coordinate) []Coordinate {
	out := make([]Coordinate, len(coords))
	copy(out, coords)
	return out
}

// FirstCoordinate returns the leading coordinate of a geometry, in source
// order. The second return is false for empty geometries.
func FirstCoordinate(g Geometry) (Coordinate, bool) {
	switch g := g.(type) {
	case *Point:
		return g.Coordinate, true
	case *LineString:
		if len(g.Coords) > 0 {
			return g.Coords[0], true
		}
	case *Ring:
		if len(g.Coords) > 0 {
			return g.Coords[0], true
		}
	case *Polygon:
		if len(g.Rings) > 0 && len(g.Rings[0].Coords) > 0 {
			return g.Rings[0].Coords[0], true
		}
	case *Circle:
		return g.Center, true
	case *MultiPoint:
		if len(g.Points) > 0 {
			return g.Points[0].Coordinate, true
		}
	case *MultiLineString:
		if len(g.Lines) > 0 {
			return FirstCoordinate(&g.Lines[0])
		}
	case *MultiPolygon:
		if len(g.Polygons) > 0 {
			return FirstCoordinate(&g.Polygons[0])
		}
	case *Collection:
		for _, member := range g.Geometries {
			if member == nil {
				continue
			}
			if c, ok := FirstCoordinate(member); ok {
				return c, true
			}
		}
	}
	return Coordinate{}, false
}
