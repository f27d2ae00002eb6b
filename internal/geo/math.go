// Package geo converts between planar map coordinates, WGS84 and Web Mercator tiles.
package geo

import "math"

// MaxLatitude is the Web Mercator latitude limit.
const MaxLatitude = 85.05112878

// Tile addresses one Web Mercator tile.
type Tile struct {
	Z, X, Y int
}

// PlaneToLonLat converts planar coordinates (0..size on both axes, origin
// at the bottom left) to WGS84 using an inverse Mercator projection.
//
// x maps linearly to the longitude range [-180, 180]; z maps to the
// Mercator range [-PI, PI] before projection.
func PlaneToLonLat(x, z, size float64) (lon, lat float64) {
	lon = x*(360.0/size) - 180.0

	mercatorY := z*((2.0*math.Pi)/size) - math.Pi
	latRad := (2.0 * math.Atan(math.Exp(mercatorY))) - (math.Pi * 0.5)

	return lon, clampLatitude(latRad * (180.0 / math.Pi))
}

// LonLatToPixel projects WGS84 to world pixel coordinates at zoom for
// square tiles of tileSize pixels. The origin is the top left corner.
func LonLatToPixel(lon, lat float64, zoom, tileSize int) (x, y float64) {
	world := float64(tileSize) * math.Exp2(float64(zoom))
	latRad := clampLatitude(lat) * math.Pi / 180.0

	x = (lon + 180.0) / 360.0 * world
	y = (1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * world
	return x, y
}

// TileAt returns the tile containing a WGS84 position.
func TileAt(lon, lat float64, zoom int) Tile {
	x, y := LonLatToPixel(lon, lat, zoom, 1)
	return Tile{Z: zoom, X: clampTile(x, zoom), Y: clampTile(y, zoom)}
}

// TilesInBounds lists the tiles at zoom intersecting the box, row by row.
// A box with west > east crosses the antimeridian and covers both edges of
// the world; a box with south > north is empty.
func TilesInBounds(west, south, east, north float64, zoom int) []Tile {
	if south > north {
		return nil
	}

	n := 1 << zoom
	nw := TileAt(west, north, zoom)
	se := TileAt(east, south, zoom)

	var columns []int
	switch {
	case west <= east:
		columns = tileRange(nw.X, se.X)
	case se.X >= nw.X-1:
		// both halves meet
		columns = tileRange(0, n-1)
	default:
		columns = append(tileRange(nw.X, n-1), tileRange(0, se.X)...)
	}

	var tiles []Tile
	for y := nw.Y; y <= se.Y; y++ {
		for _, x := range columns {
			tiles = append(tiles, Tile{Z: zoom, X: x, Y: y})
		}
	}
	return tiles
}

func tileRange(from, to int) []int {
	var out []int
	for v := from; v <= to; v++ {
		out = append(out, v)
	}
	return out
}

func clampLatitude(lat float64) float64 {
	return math.Max(-MaxLatitude, math.Min(MaxLatitude, lat))
}

func clampTile(v float64, zoom int) int {
	n := 1 << zoom
	t := int(math.Floor(v))
	if t < 0 {
		return 0
	}
	if t >= n {
		return n - 1
	}
	return t
}
