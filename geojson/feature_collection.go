package geojson

import "github.com/tidwall/gjson"

const msgNotFeatureCollection = "The provided JSON element is not a FeatureCollection."

// FeatureCollection is an ordered list of features plus an optional bounding box.
type FeatureCollection struct {
	node   gjson.Result
	parsed bool
	list   lazy[[]*Feature]

	// built mode
	features []*Feature
	bbox     BoundingBox
}

// NewFeatureCollection wraps a node whose "type" member is "FeatureCollection".
// Features are read on first access.
func NewFeatureCollection(node gjson.Result) (*FeatureCollection, error) {
	if node.Get(typeProperty).String() != featureCollectionType {
		return nil, newArgumentError("", msgNotFeatureCollection)
	}
	return &FeatureCollection{node: node, parsed: true}, nil
}

// Features returns the features in document order. A parsed collection
// without a "features" member has no features.
func (fc *FeatureCollection) Features() ([]*Feature, error) {
	if !fc.parsed {
		return fc.features, nil
	}
	return fc.list.get(func() ([]*Feature, error) {
		node := fc.node.Get(featuresProperty)
		if !node.Exists() {
			return []*Feature{}, nil
		}
		features := []*Feature{}
		err := eachElement(node, func(v gjson.Result) error {
			f, err := NewFeature(v)
			if err != nil {
				return err
			}
			features = append(features, f)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return features, nil
	})
}

// BoundingBox returns the "bbox" member of a parsed collection, or the box
// given to the document builder.
func (fc *FeatureCollection) BoundingBox() (BoundingBox, bool) {
	return lookupBoundingBox(fc.node, fc.bbox)
}

func (fc *FeatureCollection) add(f *Feature) {
	fc.features = append(fc.features, f)
}
