package geojson

import "slices"

// DocumentBuilder accumulates document content until Build.
// It is not safe for concurrent use.
type DocumentBuilder struct {
	objects    []member
	properties []member
	features   []func(*FeatureBuilder) *FeatureBuilder
	bbox       BoundingBox
}

// Create starts a new document.
//
//	doc := geojson.Create().
//		AddProperty("name", "stations").
//		AddFeature(func(f *geojson.FeatureBuilder) *geojson.FeatureBuilder {
//			return f.SetGeometry(geojson.NewPoint(geojson.NewPosition(48.85, 2.35)))
//		}).
//		Build()
func Create() *DocumentBuilder {
	return &DocumentBuilder{}
}

// AddFeature queues a feature. configure runs during Build against a fresh
// FeatureBuilder; a nil return uses that builder as is.
func (b *DocumentBuilder) AddFeature(configure func(*FeatureBuilder) *FeatureBuilder) *DocumentBuilder {
	b.features = append(b.features, configure)
	return b
}

// AddObject adds a custom top-level member. Values are marshaled as JSON on write.
func (b *DocumentBuilder) AddObject(name string, value any) *DocumentBuilder {
	b.objects = append(b.objects, member{name: name, value: value})
	return b
}

// AddProperty adds a member to the document "properties" object.
func (b *DocumentBuilder) AddProperty(name string, value any) *DocumentBuilder {
	b.properties = append(b.properties, member{name: name, value: value})
	return b
}

// SetBoundingBox sets the collection bbox (4 or 6 values). It is written
// after the custom objects and before "features".
func (b *DocumentBuilder) SetBoundingBox(values ...float64) *DocumentBuilder {
	b.bbox = BoundingBox(slices.Clone(values))
	return b
}

// Build resolves every queued feature and returns the document.
// The builder may be reused; later changes do not affect built documents.
func (b *DocumentBuilder) Build() *Document {
	fc := &FeatureCollection{features: []*Feature{}, bbox: slices.Clone(b.bbox)}
	for _, configure := range b.features {
		fb := NewFeatureBuilder()
		if configured := configure(fb); configured != nil {
			fb = configured
		}
		fc.add(fb.Build())
	}

	return &Document{src: &builtDocument{
		objectList:   slices.Clone(b.objects),
		propertyList: slices.Clone(b.properties),
		collection:   fc,
	}}
}

// FeatureBuilder accumulates one feature.
type FeatureBuilder struct {
	geometry   Coordinates
	geometries []Coordinates
	objects    []member
	properties []member
	bbox       BoundingBox
}

// NewFeatureBuilder returns an empty feature builder.
func NewFeatureBuilder() *FeatureBuilder {
	return &FeatureBuilder{}
}

// SetGeometry sets a single geometry, replacing any geometry set before.
func (b *FeatureBuilder) SetGeometry(c Coordinates) *FeatureBuilder {
	b.geometry, b.geometries = c, nil
	return b
}

// SetGeometries sets several geometries, written as a GeometryCollection.
// It replaces any geometry set before.
func (b *FeatureBuilder) SetGeometries(cs ...Coordinates) *FeatureBuilder {
	b.geometry = nil
	b.geometries = append(make([]Coordinates, 0, len(cs)), cs...)
	return b
}

// AddObject adds a custom feature member such as "id".
func (b *FeatureBuilder) AddObject(name string, value any) *FeatureBuilder {
	b.objects = append(b.objects, member{name: name, value: value})
	return b
}

// AddProperty adds a member to the feature "properties" object.
func (b *FeatureBuilder) AddProperty(name string, value any) *FeatureBuilder {
	b.properties = append(b.properties, member{name: name, value: value})
	return b
}

// SetBoundingBox sets the feature bbox (4 or 6 values). It is written
// after the custom objects and before "geometry".
func (b *FeatureBuilder) SetBoundingBox(values ...float64) *FeatureBuilder {
	b.bbox = BoundingBox(slices.Clone(values))
	return b
}

// Build returns the feature.
func (b *FeatureBuilder) Build() *Feature {
	return &Feature{src: &builtFeature{
		geometry:     b.geometry,
		geometries:   slices.Clone(b.geometries),
		objectList:   slices.Clone(b.objects),
		propertyList: slices.Clone(b.properties),
		bbox:         slices.Clone(b.bbox),
	}}
}
