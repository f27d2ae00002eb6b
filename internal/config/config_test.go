package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
attribution: OpenStreetMap contributors
zoom: 5
documents:
  - name: stations
    aliases: [st]
    path: data/stations.geojson
    color: "#3cb44b"
  - name: remote
    url: https://example.com/remote.geojson
    zoom: 3
  - name: towns
    markers: https://example.com/markers.json
    size: 15360
  - name: inline
    layer:
      name: inline
      features:
        - id: 1
          geometry:
            type: Point
            coordinates: [30.5, 50.45]
          properties:
            name: Kyiv
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "OpenStreetMap contributors", cfg.Attribution)
	assert.Equal(t, 5, cfg.ZoomLimit)
	require.Len(t, cfg.Documents, 4)

	assert.Equal(t, "path", cfg.Documents[0].Source())
	assert.Equal(t, []string{"st"}, cfg.Documents[0].Aliases)
	assert.Equal(t, "#3cb44b", cfg.Documents[0].Color)
	assert.Equal(t, "url", cfg.Documents[1].Source())
	assert.Equal(t, 3, cfg.Documents[1].ZoomLimit)
	assert.Equal(t, "markers", cfg.Documents[2].Source())
	assert.Equal(t, "layer", cfg.Documents[3].Source())

	layer := cfg.Documents[3].Layer
	require.NotNil(t, layer)
	require.Len(t, layer.Features, 1)
	assert.Equal(t, "name", layer.Objects[0].Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  Config{Documents: []Document{{Name: "a", Path: "a.geojson"}, {Name: "b", URL: "http://x"}}},
		},
		{
			name:    "no name",
			cfg:     Config{Documents: []Document{{Path: "a.geojson"}}},
			wantErr: "document without name",
		},
		{
			name:    "path in name",
			cfg:     Config{Documents: []Document{{Name: "../a", Path: "a.geojson"}}},
			wantErr: "path separators",
		},
		{
			name:    "no source",
			cfg:     Config{Documents: []Document{{Name: "a"}}},
			wantErr: "no source",
		},
		{
			name:    "markers without size",
			cfg:     Config{Documents: []Document{{Name: "a", Markers: "http://x"}}},
			wantErr: "positive size",
		},
		{
			name: "alias clash",
			cfg: Config{Documents: []Document{
				{Name: "a", Path: "a.geojson", Aliases: []string{"x"}},
				{Name: "b", Path: "b.geojson", Aliases: []string{"x"}},
			}},
			wantErr: `name "x" already used by "a"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
