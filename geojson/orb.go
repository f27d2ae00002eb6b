package geojson

import (
	"fmt"

	"github.com/paulmach/orb"
)

// ToOrb converts coordinates to an orb geometry. orb is two-dimensional,
// so altitudes are dropped.
func ToOrb(c Coordinates) (orb.Geometry, error) {
	switch v := c.(type) {
	case *Point:
		return orbPoint(v.Position), nil
	case *MultiPoint:
		mp := make(orb.MultiPoint, len(v.Points))
		for i, p := range v.Points {
			mp[i] = orbPoint(p.Position)
		}
		return mp, nil
	case *LineString:
		return orb.LineString(orbPoints(v.Positions)), nil
	case *MultiLineString:
		ml := make(orb.MultiLineString, len(v.LineStrings))
		for i, ls := range v.LineStrings {
			ml[i] = orbPoints(ls.Positions)
		}
		return ml, nil
	case *Polygon:
		return orbPolygon(v), nil
	case *MultiPolygon:
		mp := make(orb.MultiPolygon, len(v.Polygons))
		for i := range v.Polygons {
			mp[i] = orbPolygon(&v.Polygons[i])
		}
		return mp, nil
	case *GeometryCollection:
		col := make(orb.Collection, 0, len(v.Geometries))
		for _, g := range v.Geometries {
			og, err := ToOrb(g)
			if err != nil {
				return nil, err
			}
			col = append(col, og)
		}
		return col, nil
	}
	return nil, fmt.Errorf("%w: no orb geometry for coordinates %T", ErrNotImplemented, c)
}

// FromOrb converts an orb geometry. A Ring becomes a single-ring Polygon and
// a Bound becomes its rectangle Polygon.
func FromOrb(g orb.Geometry) (Coordinates, error) {
	switch v := g.(type) {
	case orb.Point:
		return &Point{Position: fromOrbPoint(v)}, nil
	case orb.MultiPoint:
		mp := &MultiPoint{Points: make([]Point, len(v))}
		for i, p := range v {
			mp.Points[i] = Point{Position: fromOrbPoint(p)}
		}
		return mp, nil
	case orb.LineString:
		return &LineString{Positions: fromOrbPoints(v)}, nil
	case orb.MultiLineString:
		ml := &MultiLineString{LineStrings: make([]LineString, len(v))}
		for i, ls := range v {
			ml.LineStrings[i] = LineString{Positions: fromOrbPoints(ls)}
		}
		return ml, nil
	case orb.Ring:
		return &Polygon{Rings: []LineString{{Positions: fromOrbPoints(v)}}}, nil
	case orb.Polygon:
		return fromOrbPolygon(v), nil
	case orb.MultiPolygon:
		mp := &MultiPolygon{Polygons: make([]Polygon, len(v))}
		for i, p := range v {
			mp.Polygons[i] = *fromOrbPolygon(p)
		}
		return mp, nil
	case orb.Bound:
		return fromOrbPolygon(v.ToPolygon()), nil
	case orb.Collection:
		gc := &GeometryCollection{Geometries: make([]Coordinates, 0, len(v))}
		for _, og := range v {
			c, err := FromOrb(og)
			if err != nil {
				return nil, err
			}
			gc.Add(c)
		}
		return gc, nil
	}
	return nil, fmt.Errorf("%w: orb geometry %T", ErrNotSupported, g)
}

// Bounds computes the 2D bounding box [west, south, east, north] of c.
// It returns nil for geometries without positions.
func Bounds(c Coordinates) (BoundingBox, error) {
	g, err := ToOrb(c)
	if err != nil {
		return nil, err
	}
	b := g.Bound()
	if b.IsEmpty() {
		return nil, nil
	}
	return BoundingBox{b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat()}, nil
}

// Bounds returns the collection bbox member when present, otherwise the 2D
// box around every feature geometry. It returns nil for a document without
// positions.
func (d *Document) Bounds() (BoundingBox, error) {
	fc, err := d.FeatureCollection()
	if err != nil {
		return nil, err
	}
	if bbox, ok := fc.BoundingBox(); ok && len(bbox) >= 4 {
		return bbox, nil
	}

	features, err := fc.Features()
	if err != nil {
		return nil, err
	}
	var col orb.Collection
	for _, f := range features {
		c, err := f.Coordinates()
		if err != nil {
			return nil, err
		}
		if c == nil {
			continue
		}
		g, err := ToOrb(c)
		if err != nil {
			return nil, err
		}
		col = append(col, g)
	}

	b := col.Bound()
	if b.IsEmpty() {
		return nil, nil
	}
	return BoundingBox{b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat()}, nil
}

func orbPoint(p Position) orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

func orbPoints(ps []Position) []orb.Point {
	out := make([]orb.Point, len(ps))
	for i, p := range ps {
		out[i] = orbPoint(p)
	}
	return out
}

func orbPolygon(pg *Polygon) orb.Polygon {
	out := make(orb.Polygon, len(pg.Rings))
	for i, ring := range pg.Rings {
		out[i] = orbPoints(ring.Positions)
	}
	return out
}

func fromOrbPoint(p orb.Point) Position {
	return Position{Longitude: p.Lon(), Latitude: p.Lat()}
}

func fromOrbPoints(ps []orb.Point) []Position {
	out := make([]Position, len(ps))
	for i, p := range ps {
		out[i] = fromOrbPoint(p)
	}
	return out
}

func fromOrbPolygon(pg orb.Polygon) *Polygon {
	out := &Polygon{Rings: make([]LineString, len(pg))}
	for i, ring := range pg {
		out.Rings[i] = LineString{Positions: fromOrbPoints(ring)}
	}
	return out
}
