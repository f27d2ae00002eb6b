// Package processor acquires configured documents and renders their preview tiles.
package processor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/woozymasta/geojson/geojson"
	"github.com/woozymasta/geojson/internal/config"
	"github.com/woozymasta/geojson/internal/geo"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
)

// DocumentFile is the name of the stored document inside a document directory.
const DocumentFile = "document.geojson"

// DocumentPath returns where the named document is stored under root.
func DocumentPath(root, name string) string {
	return filepath.Join(root, name, DocumentFile)
}

// TilePath returns where a preview tile of the named document is stored under root.
func TilePath(root, name string, t geo.Tile) string {
	return filepath.Join(root, name, "tiles",
		strconv.Itoa(t.Z),
		strconv.Itoa(t.X),
		strconv.Itoa(t.Y)+".webp")
}

// ProcessDocument acquires a configured document and saves it, indented,
// to DocumentPath. An existing file is read back instead unless force is set.
func ProcessDocument(ctx context.Context, client *http.Client, root string, d config.Document, force bool) (*geojson.Document, error) {
	file := geojson.NewFile(DocumentPath(root, d.Name))

	if file.Exists() && !force {
		log.Debug().Str("document", d.Name).Msg("Document file exists, skipping download")
		return file.Read(ctx)
	}

	doc, err := Acquire(ctx, client, d)
	if err != nil {
		return nil, err
	}

	// structure check before anything is written
	features, err := doc.Features()
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", d.Name, err)
	}

	if err := os.MkdirAll(filepath.Dir(file.Path()), 0755); err != nil {
		return nil, err
	}
	if err := file.Write(ctx, doc); err != nil {
		return nil, err
	}

	log.Info().
		Str("document", d.Name).
		Int("features", len(features)).
		Str("size", humanize.Bytes(uint64(file.Size()))).
		Msg("Document saved")

	return doc, nil
}

// Acquire reads the document from its configured source.
func Acquire(ctx context.Context, client *http.Client, d config.Document) (*geojson.Document, error) {
	source := d.Source()
	log.Info().
		Str("document", d.Name).
		Str("source", source).
		Msg("Acquiring document")

	switch source {
	case "layer":
		return d.Layer.Document()
	case "path":
		return geojson.LoadFromFile(ctx, d.Path)
	case "url":
		body, err := fetch(ctx, client, d.URL)
		if err != nil {
			return nil, err
		}
		return geojson.ParseBytes(body)
	case "points":
		return fetchPoints(ctx, client, d.Points)
	case "markers":
		return fetchMarkers(ctx, client, d.Markers, d.Size)
	}

	return nil, fmt.Errorf("document %q has no source", d.Name)
}

// fetch downloads url and returns the body of a 200 response.
func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	// read-only body, close error carries nothing
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("url", url).
		Str("size", humanize.Bytes(uint64(len(body)))).
		Msg("Downloaded")

	return body, nil
}
