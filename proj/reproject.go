package proj

import "github.com/wegman-software/vec2globe-go/geom"

// ReprojectGeometry returns a deep copy of g with every coordinate
// transformed from the source SRID into the geographic frame. The source
// geometry is never mutated; with an identity transform the result is a
// coordinate-for-coordinate copy.
func ReprojectGeometry(g geom.Geometry, sourceSRID int) (geom.Geometry, error) {
	t, err := NewTransformer(sourceSRID, SRID4326)
	if err != nil {
		return nil, err
	}
	return reproject(g, t), nil
}

func reproject(g geom.Geometry, t *Transformer) geom.Geometry {
	out := g.Clone()
	if !t.NeedsTransform() {
		return out
	}

	switch out := out.(type) {
	case *geom.Point:
		out.Coordinate = transformCoord(out.Coordinate, t)
	case *geom.LineString:
		transformCoords(out.Coords, t)
	case *geom.Ring:
		transformCoords(out.Coords, t)
	case *geom.Polygon:
		for i := range out.Rings {
			transformCoords(out.Rings[i].Coords, t)
		}
	case *geom.Circle:
		// the radius stays in source units; renderable radii are derived
		// from projected positions by the converter
		out.Center = transformCoord(out.Center, t)
	case *geom.MultiPoint:
		for i := range out.Points {
			out.Points[i].Coordinate = transformCoord(out.Points[i].Coordinate, t)
		}
	case *geom.MultiLineString:
		for i := range out.Lines {
			transformCoords(out.Lines[i].Coords, t)
		}
	case *geom.MultiPolygon:
		for i := range out.Polygons {
			for j := range out.Polygons[i].Rings {
				transformCoords(out.Polygons[i].Rings[j].Coords, t)
			}
		}
	case *geom.Collection:
		for i, member := range out.Geometries {
			if member != nil {
				out.Geometries[i] = reproject(member, t)
			}
		}
	}

	return out
}

func transformCoord(c geom.Coordinate, t *Transformer) geom.Coordinate {
	c.X, c.Y = t.Transform(c.X, c.Y)
	return c
}

func transformCoords(coords []geom.Coordinate, t *Transformer) {
	for i := range coords {
		coords[i] = transformCoord(coords[i], t)
	}
}
