package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"

	"github.com/woozymasta/geojson/geojson"
	"github.com/woozymasta/geojson/internal/config"
	"github.com/woozymasta/geojson/internal/logger"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/json"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input     string  `short:"i" long:"in"        description:"Input file path. Reads from stdin if empty"`
	Output    string  `short:"o" long:"out"       description:"Output file path. Writes to stdout if empty"`
	From      string  `long:"from"                description:"Input format: YAML/JSON layer or class config with planar positions" choice:"layer" choice:"cfg" default:"layer"`
	Format    string  `short:"f" long:"format"    description:"Output format" choice:"json" choice:"compact" choice:"yaml" default:"json"`
	Size      float64 `short:"s" long:"size"      env:"PLANE_SIZE" description:"Planar extent in meters for --from cfg (e.g. 15360)"`
	Precision int     `long:"precision"           description:"Significant digits kept by compact output (0 keeps all)"`
	IDs       bool    `long:"ids"                 description:"Assign a random UUID id to features without one"`
	BBox      bool    `long:"bbox"                description:"Compute and write the collection bbox"`
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

	input, err := readInput(opts.Input)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}

	doc, err := compose(input, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to compose document")
	}

	output, err := render(doc, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to render document")
	}

	if opts.Output == "" {
		_, _ = os.Stdout.Write(output)
		return
	}
	if err := os.WriteFile(opts.Output, output, 0644); err != nil {
		log.Fatal().Err(err).Msg("Failed to write output file")
	}

	features, _ := doc.Features()
	log.Info().
		Int("features", len(features)).
		Str("path", opts.Output).
		Str("format", opts.Format).
		Msg("Document composed")
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// compose builds the document from input according to opts.
func compose(input []byte, opts Options) (*geojson.Document, error) {
	var layer *config.Layer
	var err error

	switch opts.From {
	case "cfg":
		if opts.Size <= 0 {
			return nil, errors.New("--size must be > 0 for --from cfg")
		}
		layer, err = cfgLayer(string(input), opts.Size)
	default:
		layer, err = config.ParseLayer(input)
	}
	if err != nil {
		return nil, err
	}

	if opts.IDs {
		assignIDs(layer)
	}

	if opts.BBox {
		layer.BBox = nil
	}
	doc, err := layer.Document()
	if err != nil || !opts.BBox {
		return doc, err
	}

	bbox, err := doc.Bounds()
	if err != nil {
		return nil, err
	}
	layer.BBox = bbox
	return layer.Document()
}

// assignIDs gives every feature without an "id" member a random UUID.
func assignIDs(layer *config.Layer) {
	for i := range layer.Features {
		f := &layer.Features[i]
		hasID := false
		for _, m := range f.Objects {
			if m.Name == "id" {
				hasID = true
				break
			}
		}
		if hasID {
			continue
		}
		f.Objects = append([]config.Member{{
			Name:  "id",
			Value: &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: uuid.NewString()},
		}}, f.Objects...)
	}
}

func render(doc *geojson.Document, opts Options) ([]byte, error) {
	switch opts.Format {
	case "yaml":
		return config.EncodeYAML(doc)
	case "compact":
		data, err := doc.MarshalJSON()
		if err != nil {
			return nil, err
		}
		m := minify.New()
		m.Add("application/geo+json", &json.Minifier{Precision: opts.Precision})
		var buf bytes.Buffer
		if err := m.Minify("application/geo+json", &buf, bytes.NewReader(data)); err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	}

	var buf bytes.Buffer
	if err := doc.Save(context.Background(), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
