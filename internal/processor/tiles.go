package processor

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/woozymasta/geojson/geojson"
	"github.com/woozymasta/geojson/internal/geo"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

const (
	// supersample is the canvas scale used before downscaling a tile.
	supersample = 2
	// pointRadius and lineWidth are in output pixels.
	pointRadius = 3.0
	lineWidth   = 1.5

	discSegments = 16
)

// DefaultColor is used for features of documents without a configured color.
var DefaultColor = color.RGBA{R: 0xe6, G: 0x19, B: 0x4b, A: 0xff}

// TileOptions controls preview tile rendering.
type TileOptions struct {
	Root        string
	ZoomLimit   int
	TileSize    int
	Concurrency int
	Color       color.RGBA
	Force       bool
}

type job struct {
	Tile geo.Tile
	Path string
}

type result struct {
	Tile    geo.Tile
	Written bool
	Err     error
}

// shapes holds every position of a document in drawing order.
type shapes struct {
	points []geojson.Position
	paths  [][]geojson.Position
}

// RenderTiles draws the features of doc onto WebP preview tiles for zoom
// levels 0 to ZoomLimit. Only tiles inside the document bounds are
// considered, and tiles with nothing drawn are not written. It returns the
// number of tiles written.
func RenderTiles(ctx context.Context, name string, doc *geojson.Document, opts TileOptions) (int, error) {
	if opts.TileSize <= 0 {
		opts.TileSize = 256
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Color.A == 0 {
		opts.Color = DefaultColor
	}

	bbox, err := doc.Bounds()
	if err != nil {
		return 0, err
	}
	west, south, east, north, ok := bbox.Edges()
	if !ok {
		log.Warn().Str("document", name).Msg("Document has no positions, no tiles rendered")
		return 0, nil
	}

	s, err := collectShapes(doc)
	if err != nil {
		return 0, err
	}

	log.Info().
		Str("document", name).
		Int("zoom_limit", opts.ZoomLimit).
		Int("points", len(s.points)).
		Int("paths", len(s.paths)).
		Msg("Starting tile rendering")

	total := 0
	for z := 0; z <= opts.ZoomLimit; z++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		tiles := geo.TilesInBounds(west, south, east, north, z)
		log.Debug().Int("zoom", z).Int("count", len(tiles)).Msg("Processing zoom level")

		written, err := processBatch(ctx, s, tiles, name, opts)
		total += written
		if err != nil {
			return total, err
		}
	}

	log.Info().Str("document", name).Int("tiles", total).Msg("Tiles rendered")
	return total, nil
}

func processBatch(ctx context.Context, s *shapes, tiles []geo.Tile, name string, opts TileOptions) (int, error) {
	jobs := make(chan job, len(tiles))
	results := make(chan result, len(tiles))

	go func() {
		for _, t := range tiles {
			jobs <- job{Tile: t, Path: TilePath(opts.Root, name, t)}
		}
		close(jobs)
	}()

	var wg sync.WaitGroup
	for i := 0; i < opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if ctx.Err() != nil {
					results <- result{Tile: j.Tile, Err: ctx.Err()}
					continue
				}
				written, err := renderAndSave(s, j, opts)
				results <- result{Tile: j.Tile, Written: written, Err: err}
			}
		}()
	}
	wg.Wait()
	close(results)

	written := 0
	var firstErr error
	for res := range results {
		if res.Err != nil {
			log.Trace().Err(res.Err).Int("z", res.Tile.Z).Int("x", res.Tile.X).Int("y", res.Tile.Y).Msg("Failed to render tile")
			if firstErr == nil {
				firstErr = res.Err
			}
			continue
		}
		if res.Written {
			written++
		}
	}
	return written, firstErr
}

func renderAndSave(s *shapes, j job, opts TileOptions) (bool, error) {
	if !opts.Force {
		if info, err := os.Stat(j.Path); err == nil && info.Size() > 0 {
			return false, nil
		}
	}

	img, drawn := renderTile(s, j.Tile, opts.TileSize, opts.Color)
	if !drawn {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(j.Path), 0755); err != nil {
		return false, err
	}

	f, err := os.Create(j.Path)
	if err != nil {
		return false, err
	}
	if err := webp.Encode(f, img, &webp.Options{Lossless: false, Quality: 85}); err != nil {
		_ = f.Close()
		return false, err
	}
	return true, f.Close()
}

// renderTile draws onto a supersampled canvas and scales it down to size.
// It reports whether anything was drawn.
func renderTile(s *shapes, t geo.Tile, size int, c color.RGBA) (*image.RGBA, bool) {
	cv := newCanvas(size * supersample)
	ox := float64(t.X * cv.size)
	oy := float64(t.Y * cv.size)

	project := func(p geojson.Position) (float64, float64) {
		x, y := geo.LonLatToPixel(p.Longitude, p.Latitude, t.Z, cv.size)
		return x - ox, y - oy
	}

	for _, path := range s.paths {
		for i := 1; i < len(path); i++ {
			x0, y0 := project(path[i-1])
			x1, y1 := project(path[i])
			cv.line(x0, y0, x1, y1, lineWidth*supersample)
		}
	}
	for _, p := range s.points {
		x, y := project(p)
		cv.disc(x, y, pointRadius*supersample)
	}

	if !cv.drawn {
		return nil, false
	}

	out := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(out, out.Bounds(), cv.paint(c), image.Rect(0, 0, cv.size, cv.size), draw.Over, nil)
	return out, true
}

// canvas collects filled shapes in one rasterizer. Every shape is wound
// clockwise so overlapping shapes never cancel out.
type canvas struct {
	z     *vector.Rasterizer
	size  int
	drawn bool
}

func newCanvas(size int) *canvas {
	return &canvas{z: vector.NewRasterizer(size, size), size: size}
}

// disc adds a circle approximated by discSegments edges.
func (cv *canvas) disc(cx, cy, r float64) {
	s := float64(cv.size)
	if cx+r < 0 || cy+r < 0 || cx-r > s || cy-r > s {
		return
	}
	cv.drawn = true

	cv.z.MoveTo(float32(cx+r), float32(cy))
	for i := 1; i < discSegments; i++ {
		a := -2 * math.Pi * float64(i) / discSegments
		cv.z.LineTo(float32(cx+r*math.Cos(a)), float32(cy+r*math.Sin(a)))
	}
	cv.z.ClosePath()
}

// line adds a segment of width w as a quad, clipped near the canvas.
func (cv *canvas) line(x0, y0, x1, y1, w float64) {
	s := float64(cv.size)
	if _, _, _, _, ok := clipLine(x0, y0, x1, y1, 0, s); !ok {
		return
	}
	x0, y0, x1, y1, _ = clipLine(x0, y0, x1, y1, -w, s+w)

	length := math.Hypot(x1-x0, y1-y0)
	if length == 0 {
		cv.disc(x0, y0, w/2)
		return
	}
	cv.drawn = true

	nx := -(y1 - y0) / length * w / 2
	ny := (x1 - x0) / length * w / 2
	cv.z.MoveTo(float32(x0+nx), float32(y0+ny))
	cv.z.LineTo(float32(x1+nx), float32(y1+ny))
	cv.z.LineTo(float32(x1-nx), float32(y1-ny))
	cv.z.LineTo(float32(x0-nx), float32(y0-ny))
	cv.z.ClosePath()
}

// paint fills the collected shapes with c.
func (cv *canvas) paint(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cv.size, cv.size))
	cv.z.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{})
	return img
}

// clipLine clips a segment to the square [lo, hi] on both axes
// (Liang-Barsky). It reports false when nothing is left.
func clipLine(x0, y0, x1, y1, lo, hi float64) (float64, float64, float64, float64, bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0

	edges := [4][2]float64{
		{-dx, x0 - lo},
		{dx, hi - x0},
		{-dy, y0 - lo},
		{dy, hi - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, r)
		}
	}

	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// collectShapes flattens every feature geometry. Polygons contribute
// their ring outlines.
func collectShapes(doc *geojson.Document) (*shapes, error) {
	features, err := doc.Features()
	if err != nil {
		return nil, err
	}

	s := &shapes{}
	var walk func(c geojson.Coordinates)
	walk = func(c geojson.Coordinates) {
		switch v := c.(type) {
		case *geojson.Point:
			s.points = append(s.points, v.Position)
		case *geojson.MultiPoint:
			for _, p := range v.Points {
				s.points = append(s.points, p.Position)
			}
		case *geojson.LineString:
			s.paths = append(s.paths, v.Positions)
		case *geojson.MultiLineString:
			for _, ls := range v.LineStrings {
				s.paths = append(s.paths, ls.Positions)
			}
		case *geojson.Polygon:
			for _, ring := range v.Rings {
				s.paths = append(s.paths, ring.Positions)
			}
		case *geojson.MultiPolygon:
			for _, pg := range v.Polygons {
				for _, ring := range pg.Rings {
					s.paths = append(s.paths, ring.Positions)
				}
			}
		case *geojson.GeometryCollection:
			for _, g := range v.Geometries {
				walk(g)
			}
		}
	}

	for _, f := range features {
		c, err := f.Coordinates()
		if err != nil {
			return nil, err
		}
		if c != nil {
			walk(c)
		}
	}
	return s, nil
}

// ParseColor reads "#rrggbb" or "#rrggbbaa" into a premultiplied color.
// An empty string yields DefaultColor.
func ParseColor(s string) (color.RGBA, error) {
	if s == "" {
		return DefaultColor, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	nc := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return color.RGBAModel.Convert(nc).(color.RGBA), nil
}
