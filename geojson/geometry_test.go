package geojson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGeometry(t *testing.T, json string) *Geometry {
	t.Helper()
	g, err := ParseGeometry(json)
	require.NoError(t, err)
	return g
}

func TestParseGeometryRejectsUnknownType(t *testing.T) {
	for _, json := range []string{
		`{"type":"Unknown"}`,
		`{"type":"point","coordinates":[1,2]}`,
		`{"coordinates":[1,2]}`,
		`{"type":7}`,
	} {
		_, err := ParseGeometry(json)
		require.Error(t, err, json)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Contains(t, err.Error(), "'Type'")
	}
}

func TestGeometryPoint(t *testing.T) {
	g := mustGeometry(t, `{"type":"Point","coordinates":[1.0,2.0]}`)
	assert.Equal(t, "Point", g.Type())

	c, err := g.Coordinates()
	require.NoError(t, err)
	p, ok := c.(*Point)
	require.True(t, ok)
	assert.Equal(t, 1.0, p.Position.Longitude)
	assert.Equal(t, 2.0, p.Position.Latitude)
	_, hasAlt := p.Position.Altitude()
	assert.False(t, hasAlt)

	g = mustGeometry(t, `{"type":"Point","coordinates":[2.0,1.0,3.0]}`)
	c, err = g.Coordinates()
	require.NoError(t, err)
	assert.Equal(t, NewPosition3D(1, 2, 3), c.(*Point).Position)
}

func TestGeometryPointWrongArity(t *testing.T) {
	for _, json := range []string{
		`{"type":"Point","coordinates":[1.0]}`,
		`{"type":"Point","coordinates":[1.0,2.0,3.0,4.0]}`,
	} {
		g := mustGeometry(t, json)
		_, err := g.Coordinates()
		require.Error(t, err, json)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
		assert.NotErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestGeometryCoordinatesAreMemoized(t *testing.T) {
	g := mustGeometry(t, `{"type":"LineString","coordinates":[[1,2],[3,4]]}`)
	first, err := g.Coordinates()
	require.NoError(t, err)
	second, err := g.Coordinates()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestGeometryMultiPoint(t *testing.T) {
	g := mustGeometry(t, `{"type":"MultiPoint","coordinates":[[1.0,2.0],[3.0,4.0,5.0]]}`)
	c, err := g.Coordinates()
	require.NoError(t, err)
	assert.Equal(t, &MultiPoint{Points: []Point{
		{Position: NewPosition(2, 1)},
		{Position: NewPosition3D(4, 3, 5)},
	}}, c)
}

func TestGeometryLineString(t *testing.T) {
	g := mustGeometry(t, `{"type":"LineString","coordinates":[[1.0,2.0],[3.0,4.0,5.0],[6.0,7.0]]}`)
	c, err := g.Coordinates()
	require.NoError(t, err)
	assert.Equal(t, &LineString{Positions: []Position{
		NewPosition(2, 1), NewPosition3D(4, 3, 5), NewPosition(7, 6),
	}}, c)
}

func TestGeometryMultiLineString(t *testing.T) {
	g := mustGeometry(t, `{"type":"MultiLineString","coordinates":[
		[[1.0,2.0],[3.0,4.0,5.0]],
		[[3.0,4.0,5.0],[6.0,7.0]]
	]}`)
	c, err := g.Coordinates()
	require.NoError(t, err)
	ml := c.(*MultiLineString)
	require.Len(t, ml.LineStrings, 2)
	assert.Equal(t, []Position{NewPosition3D(4, 3, 5), NewPosition(7, 6)}, ml.LineStrings[1].Positions)
}

func TestGeometryPolygon(t *testing.T) {
	g := mustGeometry(t, `{"type":"Polygon","coordinates":[[[1.0,2.0],[3.0,4.0,5.0],[6.0,7.0],[1.0,2.0]]]}`)
	c, err := g.Coordinates()
	require.NoError(t, err)
	pg := c.(*Polygon)
	require.Len(t, pg.Rings, 1)
	assert.Equal(t, []Position{
		NewPosition(2, 1), NewPosition3D(4, 3, 5), NewPosition(7, 6), NewPosition(2, 1),
	}, pg.Rings[0].Positions)
}

func TestGeometryMultiPolygon(t *testing.T) {
	g := mustGeometry(t, `{"type":"MultiPolygon","coordinates":[
		[[[1.0,2.0],[3.0,4.0],[6.0,7.0],[1.0,2.0]]],
		[[[1.0,2.0],[2.5,3.5],[3.5,4.5],[1.0,2.0]]]
	]}`)
	c, err := g.Coordinates()
	require.NoError(t, err)
	mp := c.(*MultiPolygon)
	require.Len(t, mp.Polygons, 2)
	assert.Equal(t, NewPosition(3.5, 2.5), mp.Polygons[1].Rings[0].Positions[1])
}

func TestGeometryCollection(t *testing.T) {
	g := mustGeometry(t, `{"type":"GeometryCollection","geometries":[
		{"type":"Point","coordinates":[1,2]},
		{"type":"GeometryCollection","geometries":[{"type":"LineString","coordinates":[[0,0],[1,1]]}]}
	]}`)
	c, err := g.Coordinates()
	require.NoError(t, err)
	gc := c.(*GeometryCollection)
	require.Len(t, gc.Geometries, 2)
	assert.Equal(t, NewPoint(NewPosition(2, 1)), gc.Geometries[0])
	inner := gc.Geometries[1].(*GeometryCollection)
	assert.IsType(t, &LineString{}, inner.Geometries[0])
}

func TestGeometryCollectionChildErrors(t *testing.T) {
	g := mustGeometry(t, `{"type":"GeometryCollection","geometries":[{"type":"Circle"}]}`)
	_, err := g.Coordinates()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGeometryMalformed(t *testing.T) {
	for _, json := range []string{
		`{"type":"Point"}`,
		`{"type":"LineString","coordinates":{"a":1}}`,
		`{"type":"Point","coordinates":[1,"2"]}`,
		`{"type":"GeometryCollection","coordinates":[]}`,
	} {
		_, err := mustGeometry(t, json).Coordinates()
		assert.ErrorIs(t, err, ErrMalformed, json)
	}
}

func TestGeometryUnsupportedTag(t *testing.T) {
	g := mustGeometry(t, `{"type":"Point","coordinates":[1,2]}`)
	g.geometryType = GeometryType(42)

	_, err := g.Coordinates()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotSupported)
	assert.Contains(t, err.Error(), "42")
}
