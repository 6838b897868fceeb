package geom

import "math"

// BBox is a 2D bounding extent in the geometry's reference system.
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// InitialBBox returns an inverted box meant to be expanded.
func InitialBBox() BBox {
	return BBox{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}
}

// IsEmpty reports whether the box never saw a coordinate.
func (b BBox) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Center returns the midpoint of the box.
func (b BBox) Center() Coordinate {
	return Coordinate{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Expand grows the box to include the coordinate.
func (b BBox) Expand(c Coordinate) BBox {
	if c.X < b.MinX {
		b.MinX = c.X
	}
	if c.X > b.MaxX {
		b.MaxX = c.X
	}
	if c.Y < b.MinY {
		b.MinY = c.Y
	}
	if c.Y > b.MaxY {
		b.MaxY = c.Y
	}
	return b
}

// Union merges two boxes.
func (b BBox) Union(o BBox) BBox {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	b = b.Expand(Coordinate{X: o.MinX, Y: o.MinY})
	b = b.Expand(Coordinate{X: o.MaxX, Y: o.MaxY})
	return b
}

func boundCoords(coords []Coordinate) BBox {
	b := InitialBBox()
	for _, c := range coords {
		b = b.Expand(c)
	}
	return b
}

func (p *Point) Bound() BBox {
	return BBox{MinX: p.Coordinate.X, MinY: p.Coordinate.Y, MaxX: p.Coordinate.X, MaxY: p.Coordinate.Y}
}

func (l *LineString) Bound() BBox { return boundCoords(l.Coords) }

func (r *Ring) Bound() BBox { return boundCoords(r.Coords) }

func (p *Polygon) Bound() BBox {
	// holes are inside the outer ring, the first ring suffices
	if len(p.Rings) == 0 {
		return InitialBBox()
	}
	return boundCoords(p.Rings[0].Coords)
}

func (c *Circle) Bound() BBox {
	return BBox{
		MinX: c.Center.X - c.Radius,
		MinY: c.Center.Y - c.Radius,
		MaxX: c.Center.X + c.Radius,
		MaxY: c.Center.Y + c.Radius,
	}
}

func (m *MultiPoint) Bound() BBox {
	b := InitialBBox()
	for _, p := range m.Points {
		b = b.Expand(p.Coordinate)
	}
	return b
}

func (m *MultiLineString) Bound() BBox {
	b := InitialBBox()
	for i := range m.Lines {
		b = b.Union(m.Lines[i].Bound())
	}
	return b
}

func (m *MultiPolygon) Bound() BBox {
	b := InitialBBox()
	for i := range m.Polygons {
		b = b.Union(m.Polygons[i].Bound())
	}
	return b
}

func (c *Collection) Bound() BBox {
	b := InitialBBox()
	for _, g := range c.Geometries {
		if g != nil {
			b = b.Union(g.Bound())
		}
	}
	return b
}
