package wkb

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/wegman-software/vec2globe-go/geom"
)

// Decode parses an (E)WKB payload into a geometry and the SRID it was
// stamped with. A payload without an SRID flag decodes with srid 0.
func Decode(data []byte) (geom.Geometry, int, error) {
	d := &decoder{data: data}
	g, err := d.geometry(true)
	if err != nil {
		return nil, 0, err
	}
	if d.pos != len(d.data) {
		return nil, 0, fmt.Errorf("wkb: %d trailing bytes", len(d.data)-d.pos)
	}
	return g, d.srid, nil
}

type decoder struct {
	data  []byte
	pos   int
	srid  int
	order binary.ByteOrder
}

func (d *decoder) geometry(top bool) (geom.Geometry, error) {
	marker, err := d.byte()
	if err != nil {
		return nil, err
	}
	switch marker {
	case 0x00:
		d.order = binary.BigEndian
	case 0x01:
		d.order = binary.LittleEndian
	default:
		return nil, fmt.Errorf("wkb: invalid byte order marker 0x%02x", marker)
	}

	raw, err := d.uint32()
	if err != nil {
		return nil, err
	}
	hasZ := raw&wkbZFlag != 0
	if raw&wkbSRIDFlag != 0 {
		srid, err := d.uint32()
		if err != nil {
			return nil, err
		}
		if top {
			d.srid = int(srid)
		}
	}

	switch raw & wkbTypeMask {
	case wkbPoint:
		c, err := d.coord(hasZ)
		if err != nil {
			return nil, err
		}
		return &geom.Point{Coordinate: c, HasZ: hasZ}, nil
	case wkbLineString:
		coords, err := d.coords(hasZ)
		if err != nil {
			return nil, err
		}
		return &geom.LineString{Coords: coords, HasZ: hasZ}, nil
	case wkbPolygon:
		return d.polygon(hasZ)
	case wkbMultiPoint:
		n, err := d.uint32()
		if err != nil {
			return nil, err
		}
		mp := &geom.MultiPoint{Points: make([]geom.Point, 0, n)}
		for i := uint32(0); i < n; i++ {
			g, err := d.geometry(false)
			if err != nil {
				return nil, err
			}
			p, ok := g.(*geom.Point)
			if !ok {
				return nil, fmt.Errorf("wkb: multipoint member is %s", g.Kind())
			}
			mp.Points = append(mp.Points, *p)
		}
		return mp, nil
	case wkbMultiLineString:
		n, err := d.uint32()
		if err != nil {
			return nil, err
		}
		ml := &geom.MultiLineString{Lines: make([]geom.LineString, 0, n)}
		for i := uint32(0); i < n; i++ {
			g, err := d.geometry(false)
			if err != nil {
				return nil, err
			}
			l, ok := g.(*geom.LineString)
			if !ok {
				return nil, fmt.Errorf("wkb: multilinestring member is %s", g.Kind())
			}
			ml.Lines = append(ml.Lines, *l)
		}
		return ml, nil
	case wkbMultiPolygon:
		n, err := d.uint32()
		if err != nil {
			return nil, err
		}
		mp := &geom.MultiPolygon{Polygons: make([]geom.Polygon, 0, n)}
		for i := uint32(0); i < n; i++ {
			g, err := d.geometry(false)
			if err != nil {
				return nil, err
			}
			p, ok := g.(*geom.Polygon)
			if !ok {
				return nil, fmt.Errorf("wkb: multipolygon member is %s", g.Kind())
			}
			mp.Polygons = append(mp.Polygons, *p)
		}
		return mp, nil
	case wkbCollection:
		n, err := d.uint32()
		if err != nil {
			return nil, err
		}
		col := &geom.Collection{Geometries: make([]geom.Geometry, 0, n)}
		for i := uint32(0); i < n; i++ {
			g, err := d.geometry(false)
			if err != nil {
				return nil, err
			}
			col.Geometries = append(col.Geometries, g)
		}
		return col, nil
	default:
		return nil, fmt.Errorf("wkb: unknown geometry type %d", raw&wkbTypeMask)
	}
}

func (d *decoder) polygon(hasZ bool) (*geom.Polygon, error) {
	n, err := d.uint32()
	if err != nil {
		return nil, err
	}
	poly := &geom.Polygon{Rings: make([]geom.Ring, 0, n), HasZ: hasZ}
	for i := uint32(0); i < n; i++ {
		coords, err := d.coords(hasZ)
		if err != nil {
			return nil, err
		}
		poly.Rings = append(poly.Rings, geom.Ring{Coords: coords, HasZ: hasZ})
	}
	return poly, nil
}

func (d *decoder) coords(hasZ bool) ([]geom.Coordinate, error) {
	n, err := d.uint32()
	if err != nil {
		return nil, err
	}
	coords := make([]geom.Coordinate, 0, n)
	for i := uint32(0); i < n; i++ {
		c, err := d.coord(hasZ)
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}
	return coords, nil
}

func (d *decoder) coord(hasZ bool) (geom.Coordinate, error) {
	var c geom.Coordinate
	var err error
	if c.X, err = d.float64(); err != nil {
		return c, err
	}
	if c.Y, err = d.float64(); err != nil {
		return c, err
	}
	if hasZ {
		if c.Z, err = d.float64(); err != nil {
			return c, err
		}
	}
	return c, nil
}

func (d *decoder) byte() (byte, error) {
	if d.pos >= len(d.data) {
		return 0, fmt.Errorf("wkb: truncated payload at byte %d", d.pos)
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) uint32() (uint32, error) {
	if d.pos+4 > len(d.data) {
		return 0, fmt.Errorf("wkb: truncated payload at byte %d", d.pos)
	}
	v := d.order.Uint32(d.data[d.pos:])
	d.pos += 4
	return v, nil
}

func (d *decoder) float64() (float64, error) {
	if d.pos+8 > len(d.data) {
		return 0, fmt.Errorf("wkb: truncated payload at byte %d", d.pos)
	}
	v := math.Float64frombits(d.order.Uint64(d.data[d.pos:]))
	d.pos += 8
	return v, nil
}
