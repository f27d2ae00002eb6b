package server

import (
	"bytes"
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/geojson/geojson"
	"github.com/woozymasta/geojson/internal/config"
	"github.com/woozymasta/geojson/internal/geo"
	"github.com/woozymasta/geojson/internal/processor"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestServer(t *testing.T) (*ServerContext, http.Handler, string) {
	t.Helper()
	root := t.TempDir()

	doc := geojson.Create().
		AddObject("name", "stations").
		AddFeature(func(f *geojson.FeatureBuilder) *geojson.FeatureBuilder {
			return f.SetGeometry(geojson.NewPoint(geojson.NewPosition(10, 20))).AddProperty("name", "A")
		}).
		AddFeature(func(f *geojson.FeatureBuilder) *geojson.FeatureBuilder {
			return f.SetGeometry(geojson.NewPoint(geojson.NewPosition(-10, -20)))
		}).
		Build()
	path := processor.DocumentPath(root, "stations")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, doc.SaveToFile(context.Background(), path))

	tile := processor.TilePath(root, "stations", geo.Tile{Z: 0})
	require.NoError(t, os.MkdirAll(filepath.Dir(tile), 0o755))
	require.NoError(t, os.WriteFile(tile, []byte("RIFF-tile"), 0o644))

	one := 1
	cfg := &config.Config{
		Attribution: "test data",
		ZoomLimit:   4,
		Documents: []config.Document{
			{Name: "missing", Path: "missing.geojson", Index: &one},
			{Name: "stations", Path: "stations.geojson", Aliases: []string{"st"}, Color: "#3cb44b"},
		},
	}

	s, err := NewServerContext(context.Background(), cfg, root)
	require.NoError(t, err)
	return s, s.Routes(), root
}

func get(h http.Handler, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewServerContext(t *testing.T) {
	s, _, _ := newTestServer(t)

	require.Len(t, s.Documents, 1, "documents without a stored file are skipped")
	d := s.Documents[0]
	assert.Equal(t, "stations", d.Name)
	assert.Equal(t, 2, d.Features)
	assert.Equal(t, geojson.BoundingBox{-20, -10, 20, 10}, d.BBox)
	assert.Equal(t, "test data", d.Attribution)
	assert.Equal(t, 4, d.ZoomLimit)
	assert.Positive(t, d.Size)

	assert.Equal(t, map[string]string{"stations": "stations", "st": "stations"}, s.NameResolver)

	img, err := webp.Decode(bytes.NewReader(s.TransparentTile))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 256, 256), img.Bounds())
}

func TestHandleDocumentsList(t *testing.T) {
	_, h, _ := newTestServer(t)

	rec := get(h, "/api/documents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	list := gjson.Parse(rec.Body.String())
	require.True(t, list.IsArray())
	assert.Len(t, list.Array(), 1)
	assert.Equal(t, "stations", list.Get("0.name").String())
	assert.Equal(t, `["st"]`, list.Get("0.aliases").Raw)
	assert.Equal(t, int64(2), list.Get("0.features").Int())
	assert.Equal(t, `[-20,-10,20,10]`, list.Get("0.bbox").Raw)
	assert.Equal(t, "#3cb44b", list.Get("0.color").String())
}

func TestHandleDocument(t *testing.T) {
	_, h, root := newTestServer(t)

	rec := get(h, "/documents/st.geojson", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, geoJSONType, rec.Header().Get("Content-Type"))

	stored, err := os.ReadFile(processor.DocumentPath(root, "stations"))
	require.NoError(t, err)
	assert.Equal(t, string(stored), rec.Body.String())

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	rec = get(h, "/documents/stations.geojson", http.Header{"If-None-Match": {etag}})
	assert.Equal(t, http.StatusNotModified, rec.Code)

	rec = get(h, "/documents/unknown.geojson", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = get(h, "/documents/missing.geojson", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleDocumentMinified(t *testing.T) {
	_, h, _ := newTestServer(t)

	rec := get(h, "/documents/stations.geojson?minify=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "\n")
	assert.True(t, gjson.Valid(rec.Body.String()))
	assert.Equal(t, "stations", gjson.Get(rec.Body.String(), "name").String())

	plain := get(h, "/documents/stations.geojson", nil)
	assert.NotEqual(t, plain.Header().Get("ETag"), rec.Header().Get("ETag"))
	assert.JSONEq(t, plain.Body.String(), rec.Body.String())
}

func TestHandleTile(t *testing.T) {
	s, h, _ := newTestServer(t)

	rec := get(h, "/documents/stations/0/0/0.webp", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/webp", rec.Header().Get("Content-Type"))
	assert.Equal(t, "RIFF-tile", rec.Body.String())

	rec = get(h, "/documents/st/1/1/1.webp", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, s.TransparentTile, rec.Body.Bytes())
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))

	for _, target := range []string{
		"/documents/unknown/0/0/0.webp",
		"/documents/stations/0/1/0.webp",
		"/documents/stations/a/0/0.webp",
		"/documents/stations/0/0/0.png",
		"/documents/stations",
	} {
		rec = get(h, target, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
	}
}

func TestParseTile(t *testing.T) {
	tile, ok := parseTile("3", "7", "0")
	assert.True(t, ok)
	assert.Equal(t, geo.Tile{Z: 3, X: 7, Y: 0}, tile)

	_, ok = parseTile("3", "8", "0")
	assert.False(t, ok)
	_, ok = parseTile("-1", "0", "0")
	assert.False(t, ok)
	_, ok = parseTile("31", "0", "0")
	assert.False(t, ok)
}
