package main

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/woozymasta/geojson/internal/config"
	"github.com/woozymasta/geojson/internal/geo"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Regex Pattern captures: 1=Name, 2=X, 3=Z, 4=Type
var cfgRegex = regexp.MustCompile(
	`class\s+\w+\s*\{` + // Start of class block (e.g. "class City {")
		`[\s\S]*?` + // Non-greedy skip (matches across newlines)
		`name\s*=\s*"([^"]+)";` + // Group 1: Name
		`[\s\S]*?` + // Skip content
		`position\[\]\s*=\s*\{` + // Start of position array
		`([\d\.]+),\s*([\d\.]+)` + // Group 2 & 3: X and Z coordinates
		`\};` + // End of position array
		`[\s\S]*?` + // Skip content
		`type\s*=\s*"([^"]+)";` + // Group 4: Type
		`[\s\S]*?\};`, // End of class block
)

// cfgLayer turns class blocks with planar positions into a layer of
// named Point features.
func cfgLayer(content string, size float64) (*config.Layer, error) {
	matches := cfgRegex.FindAllStringSubmatch(content, -1)
	layer := &config.Layer{Features: make([]config.LayerFeature, 0, len(matches))}

	for _, match := range matches {
		name, xStr, zStr, typeStr := match[1], match[2], match[3], match[4]

		x, err1 := strconv.ParseFloat(xStr, 64)
		z, err2 := strconv.ParseFloat(zStr, 64)
		if err1 != nil || err2 != nil {
			log.Warn().Str("name", name).Str("x", xStr).Str("z", zStr).Msg("Skipping location with invalid coordinates")
			continue
		}

		lon, lat := geo.PlaneToLonLat(x, z, size)

		geometry, err := valueNode(map[string]any{"type": "Point", "coordinates": []float64{lon, lat}})
		if err != nil {
			return nil, err
		}
		nameNode, err := valueNode(name)
		if err != nil {
			return nil, err
		}
		typeNode, err := valueNode(strings.ToLower(typeStr))
		if err != nil {
			return nil, err
		}

		layer.Features = append(layer.Features, config.LayerFeature{
			Geometry: geometry,
			Properties: []config.Member{
				{Name: "name", Value: nameNode},
				{Name: "type", Value: typeNode},
			},
		})
	}

	return layer, nil
}

func valueNode(v any) (*yaml.Node, error) {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return &n, nil
}
