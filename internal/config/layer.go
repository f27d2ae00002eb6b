package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/woozymasta/geojson/geojson"
	"gopkg.in/yaml.v3"
)

// Layer is a FeatureCollection written as YAML. Members other than type,
// features, properties and bbox are kept as custom objects, in file order.
type Layer struct {
	Objects    []Member
	Properties []Member
	BBox       []float64
	Features   []LayerFeature
}

// LayerFeature is one feature of a Layer. Geometries, when given, are
// written as a GeometryCollection.
type LayerFeature struct {
	Objects    []Member
	Properties []Member
	BBox       []float64
	Geometry   *yaml.Node
	Geometries []*yaml.Node
}

// Member is a named YAML value.
type Member struct {
	Name  string
	Value *yaml.Node
}

// LoadLayer reads a standalone layer file.
func LoadLayer(path string) (*Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLayer(data)
}

// ParseLayer parses layer YAML. JSON is accepted as well.
func ParseLayer(data []byte) (*Layer, error) {
	var l Layer
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Layer) UnmarshalYAML(value *yaml.Node) error {
	return eachMember(value, func(name string, v *yaml.Node) error {
		switch name {
		case "type":
			if v.Value != "FeatureCollection" {
				return fmt.Errorf("line %d: layer type must be FeatureCollection, got %q", v.Line, v.Value)
			}
		case "features":
			return v.Decode(&l.Features)
		case "properties":
			return eachMember(v, func(name string, v *yaml.Node) error {
				l.Properties = append(l.Properties, Member{Name: name, Value: v})
				return nil
			})
		case "bbox":
			return v.Decode(&l.BBox)
		default:
			l.Objects = append(l.Objects, Member{Name: name, Value: v})
		}
		return nil
	})
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *LayerFeature) UnmarshalYAML(value *yaml.Node) error {
	return eachMember(value, func(name string, v *yaml.Node) error {
		switch name {
		case "type":
			if v.Value != "Feature" {
				return fmt.Errorf("line %d: feature type must be Feature, got %q", v.Line, v.Value)
			}
		case "geometry":
			if v.Tag != "!!null" {
				f.Geometry = v
			}
		case "geometries":
			if v.Kind != yaml.SequenceNode {
				return fmt.Errorf("line %d: geometries must be a list", v.Line)
			}
			f.Geometries = v.Content
		case "properties":
			return eachMember(v, func(name string, v *yaml.Node) error {
				f.Properties = append(f.Properties, Member{Name: name, Value: v})
				return nil
			})
		case "bbox":
			return v.Decode(&f.BBox)
		default:
			f.Objects = append(f.Objects, Member{Name: name, Value: v})
		}
		return nil
	})
}

// Document builds the GeoJSON document described by the layer.
func (l *Layer) Document() (*geojson.Document, error) {
	b := geojson.Create()

	for _, m := range l.Objects {
		v, err := NodeJSON(m.Value)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", m.Name, err)
		}
		b.AddObject(m.Name, v)
	}
	for _, m := range l.Properties {
		v, err := NodeJSON(m.Value)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", m.Name, err)
		}
		b.AddProperty(m.Name, v)
	}
	if len(l.BBox) > 0 {
		b.SetBoundingBox(l.BBox...)
	}

	for i := range l.Features {
		fb, err := l.Features[i].builder()
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		b.AddFeature(func(*geojson.FeatureBuilder) *geojson.FeatureBuilder { return fb })
	}

	return b.Build(), nil
}

func (f *LayerFeature) builder() (*geojson.FeatureBuilder, error) {
	fb := geojson.NewFeatureBuilder()

	for _, m := range f.Objects {
		v, err := NodeJSON(m.Value)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", m.Name, err)
		}
		fb.AddObject(m.Name, v)
	}
	if len(f.BBox) > 0 {
		fb.SetBoundingBox(f.BBox...)
	}

	if f.Geometry != nil {
		c, err := nodeCoordinates(f.Geometry)
		if err != nil {
			return nil, err
		}
		fb.SetGeometry(c)
	}
	if len(f.Geometries) > 0 {
		cs := make([]geojson.Coordinates, 0, len(f.Geometries))
		for _, n := range f.Geometries {
			c, err := nodeCoordinates(n)
			if err != nil {
				return nil, err
			}
			cs = append(cs, c)
		}
		fb.SetGeometries(cs...)
	}

	for _, m := range f.Properties {
		v, err := NodeJSON(m.Value)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", m.Name, err)
		}
		fb.AddProperty(m.Name, v)
	}
	return fb, nil
}

func nodeCoordinates(n *yaml.Node) (geojson.Coordinates, error) {
	raw, err := NodeJSON(n)
	if err != nil {
		return nil, err
	}
	g, err := geojson.ParseGeometry(string(raw))
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	c, err := g.Coordinates()
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	return c, nil
}

// RawJSON is JSON text marshaled as is.
type RawJSON []byte

// MarshalJSON implements json.Marshaler.
func (r RawJSON) MarshalJSON() ([]byte, error) { return r, nil }

// NodeJSON converts a YAML node to compact JSON, keeping mapping order.
func NodeJSON(n *yaml.Node) (RawJSON, error) {
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf)
	if err := writeNode(enc, n); err != nil {
		return nil, err
	}
	return RawJSON(bytes.TrimSpace(buf.Bytes())), nil
}

func writeNode(enc *jsontext.Encoder, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return enc.WriteToken(jsontext.Null)
		}
		return writeNode(enc, n.Content[0])
	case yaml.AliasNode:
		return writeNode(enc, n.Alias)
	case yaml.MappingNode:
		if err := enc.WriteToken(jsontext.ObjectStart); err != nil {
			return err
		}
		err := eachMember(n, func(name string, v *yaml.Node) error {
			if err := enc.WriteToken(jsontext.String(name)); err != nil {
				return err
			}
			return writeNode(enc, v)
		})
		if err != nil {
			return err
		}
		return enc.WriteToken(jsontext.ObjectEnd)
	case yaml.SequenceNode:
		if err := enc.WriteToken(jsontext.ArrayStart); err != nil {
			return err
		}
		for _, item := range n.Content {
			if err := writeNode(enc, item); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.ArrayEnd)
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return err
		}
		return json.MarshalEncode(enc, v)
	}
	return fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

func eachMember(n *yaml.Node, fn func(name string, v *yaml.Node) error) error {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := fn(n.Content[i].Value, n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// EncodeYAML renders a document as block-style YAML with the member order
// of its JSON form.
func EncodeYAML(doc *geojson.Document) ([]byte, error) {
	data, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	blockStyle(&root)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// blockStyle drops the flow and quoting styles the JSON parse left behind.
// Positions stay on one line.
func blockStyle(n *yaml.Node) {
	switch {
	case n.Kind == yaml.SequenceNode && isPosition(n):
		n.Style = yaml.FlowStyle
		return
	case n.Kind == yaml.ScalarNode:
		n.Style &^= yaml.DoubleQuotedStyle
	default:
		n.Style &^= yaml.FlowStyle
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func isPosition(n *yaml.Node) bool {
	if len(n.Content) == 0 {
		return false
	}
	for _, c := range n.Content {
		if c.Kind != yaml.ScalarNode || (c.Tag != "!!int" && c.Tag != "!!float") {
			return false
		}
	}
	return true
}
