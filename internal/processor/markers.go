package processor

import (
	"context"
	"net/http"
	"strings"

	"github.com/woozymasta/geojson/geojson"
	"github.com/woozymasta/geojson/internal/geo"

	"github.com/go-json-experiment/json"
)

// markerGrid is the extent of the marker export grid.
const markerGrid = 256.0

// markerRoot is a planar marker export. Positions are [y, x] on a
// markerGrid wide grid with y growing downwards from 0 to -markerGrid.
type markerRoot struct {
	Markers struct {
		Locations []struct {
			Type  string    `json:"w"`
			Pos   []float64 `json:"p"`
			Names []string  `json:"s"`
		} `json:"locations"`
	} `json:"markers"`
}

// fetchMarkers downloads a marker export for a plane of the given size.
func fetchMarkers(ctx context.Context, client *http.Client, url string, size int) (*geojson.Document, error) {
	body, err := fetch(ctx, client, url)
	if err != nil {
		return nil, err
	}
	return markersDocument(body, float64(size))
}

func markersDocument(data []byte, size float64) (*geojson.Document, error) {
	var root markerRoot
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	b := geojson.Create()
	for _, loc := range root.Markers.Locations {
		loc := loc
		if len(loc.Pos) < 2 {
			continue
		}
		name := "Unknown"
		if len(loc.Names) > 0 {
			name = loc.Names[0]
		}

		gridY, gridX := loc.Pos[0], loc.Pos[1]
		x := gridX * size / markerGrid
		z := (markerGrid + gridY) * size / markerGrid
		lon, lat := geo.PlaneToLonLat(x, z, size)

		b.AddFeature(func(f *geojson.FeatureBuilder) *geojson.FeatureBuilder {
			return f.
				SetGeometry(geojson.NewPoint(geojson.NewPosition(lat, lon))).
				AddProperty("name", name).
				AddProperty("type", strings.ToLower(loc.Type))
		})
	}
	return b.Build(), nil
}
