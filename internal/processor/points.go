package processor

import (
	"context"
	"net/http"
	"strings"

	"github.com/woozymasta/geojson/geojson"

	"github.com/go-json-experiment/json"
)

// pointLocation is one entry of a point list export.
type pointLocation struct {
	NameEN string  `json:"nameEN"`
	Type   string  `json:"type"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

// fetchPoints downloads a [{nameEN,type,lat,lng}] list and turns every
// entry into a Point feature with name and type properties.
func fetchPoints(ctx context.Context, client *http.Client, url string) (*geojson.Document, error) {
	body, err := fetch(ctx, client, url)
	if err != nil {
		return nil, err
	}
	return pointsDocument(body)
}

func pointsDocument(data []byte) (*geojson.Document, error) {
	var locs []pointLocation
	if err := json.Unmarshal(data, &locs); err != nil {
		return nil, err
	}

	b := geojson.Create()
	for _, l := range locs {
		l := l
		b.AddFeature(func(f *geojson.FeatureBuilder) *geojson.FeatureBuilder {
			return f.
				SetGeometry(geojson.NewPoint(geojson.NewPosition(l.Lat, l.Lng))).
				AddProperty("name", l.NameEN).
				AddProperty("type", strings.ToLower(l.Type))
		})
	}
	return b.Build(), nil
}
