package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/json"
	"github.com/woozymasta/geojson/geojson"
)

func newMinifier() *minify.M {
	m := minify.New()
	m.Add(geoJSONType, &json.Minifier{})
	return m
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "a.min.geojson"), outputPath(filepath.Join("data", "a.geojson"), Options{}))
	assert.Equal(t, filepath.Join("out", "a.min.geojson"), outputPath(filepath.Join("data", "a.geojson"), Options{OutDir: "out"}))
	assert.Equal(t, filepath.Join("data", "a.geojson"), outputPath(filepath.Join("data", "a.geojson"), Options{InPlace: true}))
}

func TestMinifyFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a.geojson")
	require.NoError(t, os.WriteFile(in, []byte(`{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [1, 2]}, "properties": {"name": "A"}}
  ]
}`), 0o644))

	out := filepath.Join(dir, "out", "a.min.geojson")
	require.NoError(t, minifyFile(context.Background(), newMinifier(), in, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"name":"A"}}]}`, string(data))
}

func TestMinifyFileRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]error{
		`{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[1]}}]}`: geojson.ErrIndexOutOfRange,
		`{"type":"Feature"}`: geojson.ErrInvalidArgument,
		`{"type":`:           geojson.ErrMalformed,
	}
	for content, want := range tests {
		in := filepath.Join(dir, "in.geojson")
		out := filepath.Join(dir, "out.geojson")
		require.NoError(t, os.WriteFile(in, []byte(content), 0o644))

		err := minifyFile(context.Background(), newMinifier(), in, out)
		assert.ErrorIs(t, err, want, content)
		assert.NoFileExists(t, out)
	}
}
