// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Attribution string     `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Documents   []Document `yaml:"documents" json:"documents"`
	ZoomLimit   int        `yaml:"zoom,omitempty" json:"-"`
}

// Document describes one served GeoJSON document and where it comes from.
// Exactly one of Path, URL, Layer, Points or Markers is expected.
type Document struct {
	Index *int `yaml:"index,omitempty" json:"index,omitempty"`

	// features defined directly in config.yaml
	Layer *Layer `yaml:"layer,omitempty" json:"-"`

	Name        string   `yaml:"name" json:"name"`
	Path        string   `yaml:"path,omitempty" json:"-"`
	URL         string   `yaml:"url,omitempty" json:"-"`
	Points      string   `yaml:"points,omitempty" json:"-"`  // URL of a [{nameEN,type,lat,lng}] list
	Markers     string   `yaml:"markers,omitempty" json:"-"` // URL of a planar marker export, needs Size
	Attribution string   `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Color       string   `yaml:"color,omitempty" json:"color,omitempty"`
	Aliases     []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	ZoomLimit   int      `yaml:"zoom,omitempty" json:"zoom"`
	Size        int      `yaml:"size,omitempty" json:"-"` // planar extent for Markers
	TileSize    int      `yaml:"tile_size,omitempty" json:"-"`
}

// Source returns the kind of source configured for the document.
func (d Document) Source() string {
	switch {
	case d.Layer != nil:
		return "layer"
	case d.Path != "":
		return "path"
	case d.URL != "":
		return "url"
	case d.Points != "":
		return "points"
	case d.Markers != "":
		return "markers"
	}
	return ""
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks document names are unique, aliases included, and that
// every document has a source.
func (c *Config) Validate() error {
	seen := make(map[string]string)
	for _, d := range c.Documents {
		if d.Name == "" {
			return fmt.Errorf("document without name")
		}
		if strings.ContainsAny(d.Name, `/\.`) {
			return fmt.Errorf("document %q: name must not contain path separators or dots", d.Name)
		}
		if d.Source() == "" {
			return fmt.Errorf("document %q: no source (path, url, layer, points or markers)", d.Name)
		}
		if d.Markers != "" && d.Size <= 0 {
			return fmt.Errorf("document %q: markers need a positive size", d.Name)
		}

		for _, name := range append([]string{d.Name}, d.Aliases...) {
			if owner, ok := seen[name]; ok {
				return fmt.Errorf("document %q: name %q already used by %q", d.Name, name, owner)
			}
			seen[name] = d.Name
		}
	}
	return nil
}
