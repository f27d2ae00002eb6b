// Package server handles HTTP requests and middleware.
package server

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/woozymasta/geojson/internal/geo"
	"github.com/woozymasta/geojson/internal/processor"

	"github.com/go-json-experiment/json"
	"github.com/rs/zerolog/log"
)

const (
	etagCap     = 64
	geoJSONType = "application/geo+json"
)

// HandleDocumentsList serves the summaries of available documents.
func (s *ServerContext) HandleDocumentsList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.MarshalWrite(w, s.Documents)
}

// HandleDocument serves stored documents and their preview tiles:
//
//	/documents/{name}.geojson[?minify=1]
//	/documents/{name}/{z}/{x}/{y}.webp
func (s *ServerContext) HandleDocument(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	// GeoJSON
	if len(parts) == 2 && strings.HasSuffix(parts[1], ".geojson") {
		name, ok := s.NameResolver[strings.TrimSuffix(parts[1], ".geojson")]
		if !ok {
			http.NotFound(w, r)
			return
		}

		path := processor.DocumentPath(s.Root, name)
		if r.URL.Query().Get("minify") != "" {
			s.serveMinified(w, r, path)
			return
		}
		if !s.serveFile(w, r, path, geoJSONType) {
			http.NotFound(w, r)
		}
		return
	}

	// WebP Tile
	if len(parts) == 5 && strings.HasSuffix(parts[4], ".webp") {
		name, ok := s.NameResolver[parts[1]]
		if !ok {
			http.NotFound(w, r)
			return
		}

		// numeric coordinates only, to prevent path probing
		tile, ok := parseTile(parts[2], parts[3], strings.TrimSuffix(parts[4], ".webp"))
		if !ok {
			http.NotFound(w, r)
			return
		}

		if s.serveFile(w, r, processor.TilePath(s.Root, name, tile), "image/webp") {
			return
		}

		// cache transparent tile
		w.Header().Set("Content-Type", "image/webp")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(s.TransparentTile)
		return
	}

	http.NotFound(w, r)
}

func parseTile(zs, xs, ys string) (geo.Tile, bool) {
	z, errZ := strconv.Atoi(zs)
	x, errX := strconv.Atoi(xs)
	y, errY := strconv.Atoi(ys)
	if errZ != nil || errX != nil || errY != nil || z < 0 || z > 30 {
		return geo.Tile{}, false
	}
	if n := 1 << z; x < 0 || y < 0 || x >= n || y >= n {
		return geo.Tile{}, false
	}
	return geo.Tile{Z: z, X: x, Y: y}, true
}

// fileETag derives an ETag from size and modification time.
func fileETag(info os.FileInfo, suffix string) string {
	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, suffix...)
	buf = append(buf, '"')
	return string(buf)
}

// serveFile tries to serve a file from disk with ETag generation.
// It returns true if the file was found and served (or 304).
func (s *ServerContext) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	etag := fileETag(info, "")

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	http.ServeFile(w, r, path)
	return true
}

// serveMinified serves the document with insignificant whitespace removed.
func (s *ServerContext) serveMinified(w http.ResponseWriter, r *http.Request, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	etag := fileETag(info, "-min")
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer func() { _ = f.Close() }()

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	w.Header().Set("Content-Type", geoJSONType)

	if err := s.Minifier.Minify(geoJSONType, w, f); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to minify document")
	}
}

// Routes returns the API mux wrapped in the request logger.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/documents", s.HandleDocumentsList)
	mux.HandleFunc("/documents/", s.HandleDocument)
	return RequestLogger(mux)
}
