package geojson

import "github.com/tidwall/gjson"

// BoundingBox is a flat list of 4 (2D) or 6 (3D) numbers:
// all minimums first, then all maximums.
type BoundingBox []float64

// ParseBoundingBox reads a bbox node. Non-array nodes yield false; non-numeric
// array elements are dropped, so an array without numbers yields an empty box.
func ParseBoundingBox(node gjson.Result) (BoundingBox, bool) {
	if !node.IsArray() {
		return nil, false
	}
	bbox := BoundingBox{}
	node.ForEach(func(_, v gjson.Result) bool {
		if v.Type == gjson.Number {
			bbox = append(bbox, v.Num)
		}
		return true
	})
	return bbox, true
}

// ParseBoundingBoxString is ParseBoundingBox over JSON text.
func ParseBoundingBoxString(json string) (BoundingBox, bool) {
	return ParseBoundingBox(gjson.Parse(json))
}

// Is3D reports whether the box carries altitude bounds.
func (b BoundingBox) Is3D() bool { return len(b) == 6 }

// Edges returns the horizontal extent of a 2D or 3D box.
// It reports false for any other length.
func (b BoundingBox) Edges() (west, south, east, north float64, ok bool) {
	switch len(b) {
	case 4:
		return b[0], b[1], b[2], b[3], true
	case 6:
		return b[0], b[1], b[3], b[4], true
	}
	return 0, 0, 0, 0, false
}

func lookupBoundingBox(node gjson.Result, fallback BoundingBox) (BoundingBox, bool) {
	if node.Exists() {
		if bbox := node.Get(bboxProperty); bbox.Exists() {
			return ParseBoundingBox(bbox)
		}
	}
	return fallback, fallback != nil
}
