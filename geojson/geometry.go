package geojson

import (
	"fmt"

	"github.com/tidwall/gjson"
)

const msgNotGeometry = "The provided JSON element is not a known Geometry."

// Geometry is a geometry object read from a parsed document.
// Its coordinates are materialized on first access and cached.
type Geometry struct {
	node         gjson.Result
	geometryType GeometryType

	coordinates lazy[Coordinates]
}

// NewGeometry wraps a geometry node. The "type" member must name one of the
// seven geometry types exactly.
func NewGeometry(node gjson.Result) (*Geometry, error) {
	tag := node.Get(typeProperty)
	if tag.Type != gjson.String {
		return nil, newArgumentError("Type", msgNotGeometry)
	}
	t, ok := ParseGeometryType(tag.Str)
	if !ok {
		return nil, newArgumentError("Type", msgNotGeometry)
	}
	return &Geometry{node: node, geometryType: t}, nil
}

// ParseGeometry wraps a geometry given as JSON text.
func ParseGeometry(json string) (*Geometry, error) {
	return NewGeometry(gjson.Parse(json))
}

// Type returns the wire-format type tag.
func (g *Geometry) Type() string { return g.geometryType.String() }

// GeometryType returns the parsed type tag.
func (g *Geometry) GeometryType() GeometryType { return g.geometryType }

// Node returns the underlying JSON node.
func (g *Geometry) Node() gjson.Result { return g.node }

// Coordinates parses the coordinates on first call and returns the cached
// result afterwards. Safe for concurrent use.
func (g *Geometry) Coordinates() (Coordinates, error) {
	return g.coordinates.get(g.parseCoordinates)
}

func (g *Geometry) parseCoordinates() (Coordinates, error) {
	member := coordinatesProperty
	if g.geometryType == GeometryCollectionType {
		member = geometriesProperty
	}
	raw := g.node.Get(member)
	if !raw.Exists() {
		return nil, fmt.Errorf("%w: %s has no %q member", ErrMalformed, g.geometryType, member)
	}

	switch g.geometryType {
	case PointType:
		p, err := positionFromNode(raw)
		if err != nil {
			return nil, err
		}
		return &Point{Position: p}, nil

	case MultiPointType:
		ps, err := positionsFromNode(raw)
		if err != nil {
			return nil, err
		}
		mp := &MultiPoint{Points: make([]Point, len(ps))}
		for i, p := range ps {
			mp.Points[i] = Point{Position: p}
		}
		return mp, nil

	case LineStringType:
		ps, err := positionsFromNode(raw)
		if err != nil {
			return nil, err
		}
		return &LineString{Positions: ps}, nil

	case MultiLineStringType:
		lines, err := lineStringsFromNode(raw)
		if err != nil {
			return nil, err
		}
		return &MultiLineString{LineStrings: lines}, nil

	case PolygonType:
		rings, err := lineStringsFromNode(raw)
		if err != nil {
			return nil, err
		}
		return &Polygon{Rings: rings}, nil

	case MultiPolygonType:
		mp := &MultiPolygon{}
		err := eachElement(raw, func(polygon gjson.Result) error {
			rings, err := lineStringsFromNode(polygon)
			if err != nil {
				return err
			}
			mp.Polygons = append(mp.Polygons, Polygon{Rings: rings})
			return nil
		})
		if err != nil {
			return nil, err
		}
		return mp, nil

	case GeometryCollectionType:
		gc := &GeometryCollection{}
		err := eachElement(raw, func(node gjson.Result) error {
			child, err := NewGeometry(node)
			if err != nil {
				return err
			}
			c, err := child.Coordinates()
			if err != nil {
				return err
			}
			gc.Geometries = append(gc.Geometries, c)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return gc, nil
	}

	return nil, fmt.Errorf("%w: geometry type '%d' is not supported", ErrNotSupported, int(g.geometryType))
}

// eachElement calls fn for every element of an array node and stops at the first error.
func eachElement(node gjson.Result, fn func(gjson.Result) error) error {
	if !node.IsArray() {
		return fmt.Errorf("%w: expected an array, got %s", ErrMalformed, node.Type)
	}
	var err error
	node.ForEach(func(_, value gjson.Result) bool {
		err = fn(value)
		return err == nil
	})
	return err
}

// positionFromNode reads [lon, lat] or [lon, lat, alt]. Any other length is
// an ErrIndexOutOfRange.
func positionFromNode(node gjson.Result) (Position, error) {
	if !node.IsArray() {
		return Position{}, fmt.Errorf("%w: position must be an array, got %s", ErrMalformed, node.Type)
	}
	values := node.Array()
	if len(values) != 2 && len(values) != 3 {
		return Position{}, fmt.Errorf("%w: invalid number of elements in Point coordinates array (%d)", ErrIndexOutOfRange, len(values))
	}
	for i, v := range values {
		if v.Type != gjson.Number {
			return Position{}, fmt.Errorf("%w: position element %d is %s, not a number", ErrMalformed, i, v.Type)
		}
	}

	p := Position{Longitude: values[0].Num, Latitude: values[1].Num}
	if len(values) == 3 {
		p = p.WithAltitude(values[2].Num)
	}
	return p, nil
}

func positionsFromNode(node gjson.Result) ([]Position, error) {
	var ps []Position
	err := eachElement(node, func(v gjson.Result) error {
		p, err := positionFromNode(v)
		if err != nil {
			return err
		}
		ps = append(ps, p)
		return nil
	})
	return ps, err
}

func lineStringsFromNode(node gjson.Result) ([]LineString, error) {
	var lines []LineString
	err := eachElement(node, func(v gjson.Result) error {
		ps, err := positionsFromNode(v)
		if err != nil {
			return err
		}
		lines = append(lines, LineString{Positions: ps})
		return nil
	})
	return lines, err
}
