package geojson

const (
	msgPositionTooFew  = "A GeoJSON position must have at least two values: longitude and latitude."
	msgPositionTooMany = "A GeoJSON position can have at most three values: longitude, latitude, and altitude."
)

// Position is the atomic coordinate unit. On the wire it is encoded as
// [longitude, latitude] or [longitude, latitude, altitude].
type Position struct {
	Longitude float64
	Latitude  float64

	altitude    float64
	hasAltitude bool
}

// NewPosition returns a two-dimensional position.
// Note the argument order: latitude comes first.
func NewPosition(latitude, longitude float64) Position {
	return Position{Longitude: longitude, Latitude: latitude}
}

// NewPosition3D returns a position carrying an altitude.
func NewPosition3D(latitude, longitude, altitude float64) Position {
	return Position{Longitude: longitude, Latitude: latitude, altitude: altitude, hasAltitude: true}
}

// PositionFromValues builds a position from values in wire order
// (longitude, latitude[, altitude]). Exactly two or three values are accepted.
func PositionFromValues(values []float64) (Position, error) {
	switch {
	case len(values) < 2:
		return Position{}, newArgumentError("values", msgPositionTooFew)
	case len(values) > 3:
		return Position{}, newArgumentError("values", msgPositionTooMany)
	case len(values) == 3:
		return NewPosition3D(values[1], values[0], values[2]), nil
	}
	return NewPosition(values[1], values[0]), nil
}

// Altitude returns the altitude and whether one is set.
func (p Position) Altitude() (float64, bool) {
	return p.altitude, p.hasAltitude
}

// WithAltitude returns a copy of p carrying alt.
func (p Position) WithAltitude(alt float64) Position {
	p.altitude, p.hasAltitude = alt, true
	return p
}

// WithoutAltitude returns a two-dimensional copy of p.
func (p Position) WithoutAltitude() Position {
	p.altitude, p.hasAltitude = 0, false
	return p
}

// Values returns the position in wire order.
func (p Position) Values() []float64 {
	if p.hasAltitude {
		return []float64{p.Longitude, p.Latitude, p.altitude}
	}
	return []float64{p.Longitude, p.Latitude}
}
