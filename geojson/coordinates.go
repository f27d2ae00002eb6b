package geojson

import "fmt"

const msgLineStringTooShort = "A GeoJSON LineString must have at least two positions."

// Coordinates is the spatial payload of one geometry kind.
// The set of implementations is closed: Point, MultiPoint, LineString,
// MultiLineString, Polygon, MultiPolygon and GeometryCollection.
type Coordinates interface {
	// writeCoordinates emits the value of the "coordinates" member
	// ("geometries" for a collection).
	writeCoordinates(w *tokenWriter)
}

var (
	_ Coordinates = (*Point)(nil)
	_ Coordinates = (*MultiPoint)(nil)
	_ Coordinates = (*LineString)(nil)
	_ Coordinates = (*MultiLineString)(nil)
	_ Coordinates = (*Polygon)(nil)
	_ Coordinates = (*MultiPolygon)(nil)
	_ Coordinates = (*GeometryCollection)(nil)
)

// TypeOf maps a Coordinates value to its geometry type.
// Every new Coordinates implementation must be added here; values without a
// mapping fail with ErrNotImplemented.
func TypeOf(c Coordinates) (GeometryType, error) {
	switch c.(type) {
	case *Point:
		return PointType, nil
	case *MultiPoint:
		return MultiPointType, nil
	case *LineString:
		return LineStringType, nil
	case *MultiLineString:
		return MultiLineStringType, nil
	case *Polygon:
		return PolygonType, nil
	case *MultiPolygon:
		return MultiPolygonType, nil
	case *GeometryCollection:
		return GeometryCollectionType, nil
	}
	return 0, fmt.Errorf("%w: no geometry type for coordinates %T", ErrNotImplemented, c)
}

// Point holds a single position.
type Point struct {
	Position Position
}

// NewPoint wraps a position.
func NewPoint(p Position) *Point {
	return &Point{Position: p}
}

// PointFromValues builds a point from wire-order values, see PositionFromValues.
func PointFromValues(values []float64) (*Point, error) {
	p, err := PositionFromValues(values)
	if err != nil {
		return nil, err
	}
	return &Point{Position: p}, nil
}

func (p *Point) writeCoordinates(w *tokenWriter) {
	w.position(p.Position)
}

// MultiPoint is an ordered list of points.
type MultiPoint struct {
	Points []Point
}

// NewMultiPoint builds a MultiPoint from positions.
func NewMultiPoint(positions ...Position) *MultiPoint {
	mp := &MultiPoint{Points: make([]Point, 0, len(positions))}
	for _, p := range positions {
		mp.Points = append(mp.Points, Point{Position: p})
	}
	return mp
}

func (mp *MultiPoint) writeCoordinates(w *tokenWriter) {
	w.beginArray()
	for _, p := range mp.Points {
		w.position(p.Position)
	}
	w.endArray()
}

// LineString is an ordered list of positions. Values built with
// NewLineString carry at least two positions; direct field assignment is not checked.
type LineString struct {
	Positions []Position
}

// NewLineString builds a line from at least two positions.
func NewLineString(positions ...Position) (*LineString, error) {
	if len(positions) < 2 {
		return nil, newArgumentError("positions", msgLineStringTooShort)
	}
	return &LineString{Positions: append([]Position(nil), positions...)}, nil
}

// LineStringFromPoints builds a line through the positions of points.
func LineStringFromPoints(points ...Point) (*LineString, error) {
	positions := make([]Position, 0, len(points))
	for _, p := range points {
		positions = append(positions, p.Position)
	}
	return NewLineString(positions...)
}

func (ls *LineString) writeCoordinates(w *tokenWriter) {
	w.positions(ls.Positions)
}

// MultiLineString is an ordered list of lines.
type MultiLineString struct {
	LineStrings []LineString
}

func (ml *MultiLineString) writeCoordinates(w *tokenWriter) {
	w.beginArray()
	for _, ls := range ml.LineStrings {
		w.positions(ls.Positions)
	}
	w.endArray()
}

// Polygon is an ordered list of rings. Ring closure is left to the caller.
type Polygon struct {
	Rings []LineString
}

func (pg *Polygon) writeCoordinates(w *tokenWriter) {
	w.beginArray()
	for _, ring := range pg.Rings {
		w.positions(ring.Positions)
	}
	w.endArray()
}

// MultiPolygon is an ordered list of polygons.
type MultiPolygon struct {
	Polygons []Polygon
}

func (mp *MultiPolygon) writeCoordinates(w *tokenWriter) {
	w.beginArray()
	for i := range mp.Polygons {
		mp.Polygons[i].writeCoordinates(w)
	}
	w.endArray()
}

// GeometryCollection is an ordered list of heterogeneous geometries.
type GeometryCollection struct {
	Geometries []Coordinates
}

// Add appends a geometry and returns the collection for chaining.
func (gc *GeometryCollection) Add(c Coordinates) *GeometryCollection {
	gc.Geometries = append(gc.Geometries, c)
	return gc
}

// writeCoordinates emits the "geometries" array of geometry objects.
func (gc *GeometryCollection) writeCoordinates(w *tokenWriter) {
	w.beginArray()
	for _, c := range gc.Geometries {
		w.geometry(c)
	}
	w.endArray()
}
