package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/geojson/geojson"
	"github.com/woozymasta/geojson/internal/logger"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/json"
)

const geoJSONType = "application/geo+json"

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	OutDir    string `short:"o" long:"out-dir"   description:"Directory for minified files. Writes <name>.min.geojson next to the input if empty"`
	Precision int    `long:"precision"           description:"Significant digits kept for numbers (0 keeps all)"`
	InPlace   bool   `long:"in-place"            description:"Overwrite the input files"`

	Args struct {
		Files []string `positional-arg-name:"FILE" required:"1"`
	} `positional-args:"yes"`
}

func main() {
	_ = godotenv.Load()

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	m := minify.New()
	m.Add(geoJSONType, &json.Minifier{Precision: opts.Precision})

	failed := 0
	for _, path := range opts.Args.Files {
		if err := minifyFile(context.Background(), m, path, outputPath(path, opts)); err != nil {
			log.Error().Err(err).Str("path", path).Msg("Failed to minify document")
			failed++
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func outputPath(path string, opts Options) string {
	if opts.InPlace {
		return path
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".min.geojson"
	if opts.OutDir != "" {
		return filepath.Join(opts.OutDir, base)
	}
	return filepath.Join(filepath.Dir(path), base)
}

// minifyFile checks that path holds a FeatureCollection with readable
// features and writes its minified form to out.
func minifyFile(ctx context.Context, m *minify.M, path, out string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	doc, err := geojson.Parse(ctx, bytes.NewReader(data))
	if err != nil {
		return err
	}
	features, err := doc.Features()
	if err != nil {
		return err
	}
	for _, f := range features {
		if _, err := f.Coordinates(); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := m.Minify(geoJSONType, &buf, bytes.NewReader(data)); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return err
	}

	log.Info().
		Str("path", out).
		Int("features", len(features)).
		Str("before", humanize.Bytes(uint64(len(data)))).
		Str("after", humanize.Bytes(uint64(buf.Len()))).
		Msg("Document minified")
	return nil
}
