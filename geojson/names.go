package geojson

import "strconv"

// Member and type names of the wire format.
const (
	typeProperty        = "type"
	featuresProperty    = "features"
	geometryProperty    = "geometry"
	geometriesProperty  = "geometries"
	coordinatesProperty = "coordinates"
	propertiesProperty  = "properties"
	bboxProperty        = "bbox"

	featureCollectionType = "FeatureCollection"
	featureType           = "Feature"
)

// GeometryType is the closed set of geometry kinds.
type GeometryType int

// Known geometry types.
const (
	PointType GeometryType = iota
	MultiPointType
	LineStringType
	MultiLineStringType
	PolygonType
	MultiPolygonType
	GeometryCollectionType
)

var geometryTypeNames = [...]string{
	PointType:              "Point",
	MultiPointType:         "MultiPoint",
	LineStringType:         "LineString",
	MultiLineStringType:    "MultiLineString",
	PolygonType:            "Polygon",
	MultiPolygonType:       "MultiPolygon",
	GeometryCollectionType: "GeometryCollection",
}

// String returns the wire-format tag, e.g. "MultiPolygon".
func (t GeometryType) String() string {
	if t < 0 || int(t) >= len(geometryTypeNames) {
		return "GeometryType(" + strconv.Itoa(int(t)) + ")"
	}
	return geometryTypeNames[t]
}

// ParseGeometryType matches s against the known tags. The match is exact and case-sensitive.
func ParseGeometryType(s string) (GeometryType, bool) {
	for i, name := range geometryTypeNames {
		if name == s {
			return GeometryType(i), true
		}
	}
	return 0, false
}
