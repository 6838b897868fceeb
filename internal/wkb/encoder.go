// Package wkb encodes and decodes geometries in the PostGIS extended
// well-known-binary format (little-endian, SRID flag, optional Z flag).
package wkb

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/wegman-software/vec2globe-go/geom"
)

// WKB type constants (ISO SQL/MM specification)
const (
	wkbPoint           = 1
	wkbLineString      = 2
	wkbPolygon         = 3
	wkbMultiPoint      = 4
	wkbMultiLineString = 5
	wkbMultiPolygon    = 6
	wkbCollection      = 7

	// EWKB flags (PostGIS extended WKB)
	wkbZFlag    = 0x80000000
	wkbSRIDFlag = 0x20000000

	wkbTypeMask = 0xff
)

// Encoder encodes geometries to EWKB with an SRID stamp. The buffer is
// reused across calls.
type Encoder struct {
	buf  []byte
	srid uint32
}

// NewEncoder creates an encoder stamping geometries with the given SRID.
func NewEncoder(initialSize int, srid int) *Encoder {
	return &Encoder{
		buf:  make([]byte, 0, initialSize),
		srid: uint32(srid),
	}
}

// SRID returns the encoder's SRID stamp.
func (e *Encoder) SRID() int {
	return int(e.srid)
}

// Encode serializes a geometry. Circles have no WKB representation and are
// rejected; rings encode only inside polygons.
func (e *Encoder) Encode(g geom.Geometry) ([]byte, error) {
	e.buf = e.buf[:0]
	if err := e.encode(g, true); err != nil {
		return nil, err
	}
	return e.buf, nil
}

func (e *Encoder) encode(g geom.Geometry, withSRID bool) error {
	switch g := g.(type) {
	case *geom.Point:
		e.header(wkbPoint, g.HasZ, withSRID)
		e.coord(g.Coordinate, g.HasZ)
	case *geom.LineString:
		e.header(wkbLineString, g.HasZ, withSRID)
		e.coords(g.Coords, g.HasZ)
	case *geom.Polygon:
		e.header(wkbPolygon, g.HasZ, withSRID)
		e.appendUint32(uint32(len(g.Rings)))
		for _, ring := range g.Rings {
			e.coords(ring.Coords, g.HasZ)
		}
	case *geom.MultiPoint:
		e.header(wkbMultiPoint, g.Is3D(), withSRID)
		e.appendUint32(uint32(len(g.Points)))
		for i := range g.Points {
			if err := e.encode(&g.Points[i], false); err != nil {
				return err
			}
		}
	case *geom.MultiLineString:
		e.header(wkbMultiLineString, g.Is3D(), withSRID)
		e.appendUint32(uint32(len(g.Lines)))
		for i := range g.Lines {
			if err := e.encode(&g.Lines[i], false); err != nil {
				return err
			}
		}
	case *geom.MultiPolygon:
		e.header(wkbMultiPolygon, g.Is3D(), withSRID)
		e.appendUint32(uint32(len(g.Polygons)))
		for i := range g.Polygons {
			if err := e.encode(&g.Polygons[i], false); err != nil {
				return err
			}
		}
	case *geom.Collection:
		e.header(wkbCollection, g.Is3D(), withSRID)
		e.appendUint32(uint32(len(g.Geometries)))
		for _, member := range g.Geometries {
			if member == nil {
				return fmt.Errorf("wkb: nil collection member")
			}
			if err := e.encode(member, false); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("wkb: cannot encode %s", g.Kind())
	}
	return nil
}

func (e *Encoder) header(wkbType uint32, hasZ, withSRID bool) {
	// little-endian byte order marker
	e.buf = append(e.buf, 0x01)

	if hasZ {
		wkbType |= wkbZFlag
	}
	if withSRID {
		wkbType |= wkbSRIDFlag
	}
	e.appendUint32(wkbType)
	if withSRID {
		e.appendUint32(e.srid)
	}
}

func (e *Encoder) coord(c geom.Coordinate, hasZ bool) {
	e.appendFloat64(c.X)
	e.appendFloat64(c.Y)
	if hasZ {
		e.appendFloat64(c.Z)
	}
}

func (e *Encoder) coords(coords []geom.Coordinate, hasZ bool) {
	e.appendUint32(uint32(len(coords)))
	for _, c := range coords {
		e.coord(c, hasZ)
	}
}

func (e *Encoder) appendUint32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *Encoder) appendFloat64(v float64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, math.Float64bits(v))
}
