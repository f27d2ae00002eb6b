package geojson

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeGeometry renders c compactly, the way it appears inside a document.
func encodeGeometry(t *testing.T, c Coordinates) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	w := &tokenWriter{enc: NewEncoder(&buf, false)}
	w.geometry(c)
	return strings.TrimSpace(buf.String()), w.err
}

func encodeCoordinates(t *testing.T, c Coordinates) string {
	t.Helper()
	var buf bytes.Buffer
	w := &tokenWriter{enc: NewEncoder(&buf, false)}
	c.writeCoordinates(w)
	require.NoError(t, w.err)
	return strings.TrimSpace(buf.String())
}

func TestNewLineString(t *testing.T) {
	ls, err := NewLineString(NewPosition(10, 20), NewPosition(30, 40))
	require.NoError(t, err)
	assert.Equal(t, []Position{NewPosition(10, 20), NewPosition(30, 40)}, ls.Positions)
	assert.Equal(t, "[[20,10],[40,30]]", encodeCoordinates(t, ls))

	for _, positions := range [][]Position{nil, {NewPosition(1, 1)}} {
		_, err := NewLineString(positions...)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Contains(t, err.Error(), "A GeoJSON LineString must have at least two positions.")
	}
}

func TestLineStringFromPoints(t *testing.T) {
	ls, err := LineStringFromPoints(Point{NewPosition(1, 2)}, Point{NewPosition3D(3, 4, 5)})
	require.NoError(t, err)
	assert.Equal(t, "[[2,1],[4,3,5]]", encodeCoordinates(t, ls))

	_, err = LineStringFromPoints(Point{NewPosition(1, 2)})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestLineStringFieldAssignmentIsNotValidated(t *testing.T) {
	ls := &LineString{Positions: []Position{NewPosition(1, 2)}}
	assert.Equal(t, "[[2,1]]", encodeCoordinates(t, ls))
}

func TestWriteCoordinates(t *testing.T) {
	ring := LineString{Positions: []Position{
		NewPosition(0, 0), NewPosition(0, 10), NewPosition(10, 10), NewPosition(0, 0),
	}}

	tests := []struct {
		name string
		c    Coordinates
		want string
	}{
		{
			name: "point",
			c:    NewPoint(NewPosition(2, 1)),
			want: `{"type":"Point","coordinates":[1,2]}`,
		},
		{
			name: "point with altitude",
			c:    NewPoint(NewPosition3D(2, 1, 0.5)),
			want: `{"type":"Point","coordinates":[1,2,0.5]}`,
		},
		{
			name: "multipoint",
			c:    NewMultiPoint(NewPosition(2, 1), NewPosition(4, 3)),
			want: `{"type":"MultiPoint","coordinates":[[1,2],[3,4]]}`,
		},
		{
			name: "multilinestring",
			c: &MultiLineString{LineStrings: []LineString{
				{Positions: []Position{NewPosition(10, 20), NewPosition(30, 40)}},
				{Positions: []Position{NewPosition(50, 60), NewPosition(70, 80)}},
			}},
			want: `{"type":"MultiLineString","coordinates":[[[20,10],[40,30]],[[60,50],[80,70]]]}`,
		},
		{
			name: "polygon",
			c:    &Polygon{Rings: []LineString{ring}},
			want: `{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,0]]]}`,
		},
		{
			name: "multipolygon",
			c:    &MultiPolygon{Polygons: []Polygon{{Rings: []LineString{ring}}}},
			want: `{"type":"MultiPolygon","coordinates":[[[[0,0],[10,0],[10,10],[0,0]]]]}`,
		},
		{
			name: "geometry collection",
			c: (&GeometryCollection{}).
				Add(NewPoint(NewPosition(2, 1))).
				Add(&LineString{Positions: []Position{NewPosition(0, 0), NewPosition(1, 1)}}),
			want: `{"type":"GeometryCollection","geometries":[` +
				`{"type":"Point","coordinates":[1,2]},` +
				`{"type":"LineString","coordinates":[[0,0],[1,1]]}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeGeometry(t, tt.c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// unmappedCoordinates is a Coordinates value TypeOf does not know about.
type unmappedCoordinates struct{}

func (unmappedCoordinates) writeCoordinates(w *tokenWriter) {
	panic("coordinates of an unmapped type must never be written")
}

func TestTypeOfUnmapped(t *testing.T) {
	_, err := TypeOf(unmappedCoordinates{})
	assert.ErrorIs(t, err, ErrNotImplemented)

	_, err = TypeOf(nil)
	assert.ErrorIs(t, err, ErrNotImplemented)

	out, err := encodeGeometry(t, unmappedCoordinates{})
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.Empty(t, out)
}
