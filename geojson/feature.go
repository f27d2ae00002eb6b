package geojson

import (
	"fmt"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/tidwall/gjson"
)

const msgNotFeature = "The provided JSON element is not a Feature."

// Feature pairs a geometry with a property map. A feature is either read
// from a parsed document or produced by a FeatureBuilder, never both.
type Feature struct {
	src featureSource
}

// featureSource is implemented by parsedFeature and builtFeature.
type featureSource interface {
	boundingBox() (BoundingBox, bool)
	coordinates() (Coordinates, error)
	properties() (map[string]gjson.Result, error)
	objects() (map[string]gjson.Result, error)
	encode(w *tokenWriter)
}

// NewFeature wraps a feature node; its "type" member must be "Feature".
func NewFeature(node gjson.Result) (*Feature, error) {
	if node.Get(typeProperty).String() != featureType {
		return nil, newArgumentError("", msgNotFeature)
	}
	return &Feature{src: &parsedFeature{node: node}}, nil
}

// BoundingBox returns the "bbox" member of a parsed feature, or the box set
// on the builder.
func (f *Feature) BoundingBox() (BoundingBox, bool) { return f.src.boundingBox() }

// Coordinates returns the feature geometry, nil when the feature has none.
// A built feature with several geometries yields a GeometryCollection.
func (f *Feature) Coordinates() (Coordinates, error) { return f.src.coordinates() }

// Properties returns the "properties" members by name.
func (f *Feature) Properties() (map[string]gjson.Result, error) { return f.src.properties() }

// Objects returns the custom members: everything except type, geometry, bbox and properties.
func (f *Feature) Objects() (map[string]gjson.Result, error) { return f.src.objects() }

// GeometryNode returns the raw "geometry" member of a parsed feature.
// It does not exist for built features.
func (f *Feature) GeometryNode() gjson.Result {
	if p, ok := f.src.(*parsedFeature); ok {
		return p.node.Get(geometryProperty)
	}
	return gjson.Result{}
}

// Geometry wraps the "geometry" member of a parsed feature. It returns nil
// when the member is missing or null.
func (f *Feature) Geometry() (*Geometry, error) {
	p, ok := f.src.(*parsedFeature)
	if !ok {
		return nil, fmt.Errorf("%w: built features carry coordinates, not geometry nodes", ErrNotSupported)
	}
	return p.geometry()
}

// IsBuilt reports whether the feature came from a FeatureBuilder.
func (f *Feature) IsBuilt() bool {
	_, ok := f.src.(*builtFeature)
	return ok
}

type parsedFeature struct {
	node gjson.Result

	geom  lazy[*Geometry]
	props lazy[map[string]gjson.Result]
	objs  lazy[map[string]gjson.Result]
}

func (p *parsedFeature) boundingBox() (BoundingBox, bool) {
	return lookupBoundingBox(p.node, nil)
}

func (p *parsedFeature) geometry() (*Geometry, error) {
	return p.geom.get(func() (*Geometry, error) {
		node := p.node.Get(geometryProperty)
		if !node.Exists() || node.Type == gjson.Null {
			return nil, nil
		}
		return NewGeometry(node)
	})
}

func (p *parsedFeature) coordinates() (Coordinates, error) {
	g, err := p.geometry()
	if err != nil || g == nil {
		return nil, err
	}
	return g.Coordinates()
}

func (p *parsedFeature) properties() (map[string]gjson.Result, error) {
	return p.props.get(func() (map[string]gjson.Result, error) {
		return objectMembers(p.node.Get(propertiesProperty))
	})
}

func (p *parsedFeature) objects() (map[string]gjson.Result, error) {
	return p.objs.get(func() (map[string]gjson.Result, error) {
		return objectMembers(p.node, typeProperty, geometryProperty, bboxProperty, propertiesProperty)
	})
}

func (p *parsedFeature) encode(w *tokenWriter) {
	w.raw(jsontext.Value(p.node.Raw))
}

// builtFeature is the state captured by FeatureBuilder.Build.
type builtFeature struct {
	geometry     Coordinates
	geometries   []Coordinates
	objectList   []member
	propertyList []member
	bbox         BoundingBox

	props lazy[map[string]gjson.Result]
	objs  lazy[map[string]gjson.Result]
}

func (b *builtFeature) boundingBox() (BoundingBox, bool) {
	return b.bbox, b.bbox != nil
}

func (b *builtFeature) coordinates() (Coordinates, error) {
	switch {
	case b.geometry != nil:
		return b.geometry, nil
	case b.geometries != nil:
		return &GeometryCollection{Geometries: b.geometries}, nil
	}
	return nil, nil
}

func (b *builtFeature) properties() (map[string]gjson.Result, error) {
	return b.props.get(func() (map[string]gjson.Result, error) {
		return encodeMembers(b.propertyList)
	})
}

func (b *builtFeature) objects() (map[string]gjson.Result, error) {
	return b.objs.get(func() (map[string]gjson.Result, error) {
		return encodeMembers(b.objectList)
	})
}

// encode writes type, custom objects, bbox, geometry, properties.
// Several geometries are wrapped in a GeometryCollection.
func (b *builtFeature) encode(w *tokenWriter) {
	w.beginObject()
	w.stringMember(typeProperty, featureType)
	w.members(b.objectList)
	w.bbox(b.bbox)

	if c, _ := b.coordinates(); c != nil {
		w.name(geometryProperty)
		w.geometry(c)
	}

	if len(b.propertyList) > 0 {
		w.objectMember(propertiesProperty, b.propertyList)
	}
	w.endObject()
}
