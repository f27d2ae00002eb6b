package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/woozymasta/geojson/internal/config"
	"github.com/woozymasta/geojson/internal/logger"
	"github.com/woozymasta/geojson/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string   `short:"c" long:"config"       env:"CONFIG_FILE"  description:"Path to configuration file" default:"config.yaml"`
	Root        string   `short:"r" long:"root"         env:"DATA_ROOT"    description:"Directory for stored documents and tiles" default:"maps"`
	Limit       []string `short:"l" long:"limit"        env:"LIMIT_NAMES"  description:"Limit processing to specific document names"`
	Concurrency int      `short:"p" long:"concurrency"  env:"CONCURRENCY"  description:"Tile rendering concurrency" default:"8"`
	ZoomLimit   int      `short:"z" long:"zoom-limit"   env:"ZOOM_LIMIT"   description:"Tiles zoom limit" default:"6"`
	TilesOnly   bool     `short:"t" long:"tiles-only"   description:"Render tiles only, from stored documents"`
	GeoJSONOnly bool     `short:"g" long:"geojson-only" description:"Store GeoJSON only"`
	Force       bool     `short:"f" long:"force"        description:"Force overwrite of existing files"`
	FastCheck   bool     `short:"F" long:"fast-check"   description:"Skip tile rendering if the tiles directory exists"`
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

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	processTiles := true
	forceDocuments := opts.Force
	if opts.TilesOnly && !opts.GeoJSONOnly {
		// stored documents are reused as they are
		forceDocuments = false
	} else if opts.GeoJSONOnly && !opts.TilesOnly {
		processTiles = false
	}

	client := &http.Client{
		Transport: &http.Transport{
			TLSNextProto:        make(map[string]func(string, *tls.Conn) http.RoundTripper),
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
		Timeout: 30 * time.Second,
	}

	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}

	if cfg.ZoomLimit <= 0 {
		if opts.ZoomLimit <= 0 {
			cfg.ZoomLimit = 6
		} else {
			cfg.ZoomLimit = opts.ZoomLimit
		}
	}

	// Filter documents if limit is set
	documents := cfg.Documents
	if len(opts.Limit) > 0 {
		documents = make([]config.Document, 0)
		available := make(map[string]config.Document)
		for _, d := range cfg.Documents {
			available[d.Name] = d
		}

		seen := make(map[string]bool)

		for _, name := range opts.Limit {
			if seen[name] {
				continue
			}
			seen[name] = true

			if d, ok := available[name]; ok {
				documents = append(documents, d)
			} else {
				log.Error().
					Str("name", name).
					Msg("Document specified in --limit not found in configuration")
			}
		}
	}

	log.Info().
		Int("documents_total", len(cfg.Documents)).
		Int("documents_queued", len(documents)).
		Bool("fast_check", opts.FastCheck).
		Msg("Starting loader")

	for _, d := range documents {
		if ctx.Err() != nil {
			break
		}

		doc, err := processor.ProcessDocument(ctx, client, opts.Root, d, forceDocuments)
		if err != nil {
			log.Error().Err(err).Str("document", d.Name).Msg("Failed to process document")
			continue
		}

		if !processTiles {
			continue
		}

		if opts.FastCheck {
			tilesDir := filepath.Join(opts.Root, d.Name, "tiles")
			if _, err := os.Stat(tilesDir); err == nil {
				log.Info().
					Str("document", d.Name).
					Msg("Tiles directory exists, skipping (fast-check)")
				continue
			}
		}

		color, err := processor.ParseColor(d.Color)
		if err != nil {
			log.Error().Err(err).Str("document", d.Name).Msg("Invalid color, using default")
			color = processor.DefaultColor
		}

		zoomLimit := d.ZoomLimit
		if zoomLimit <= 0 {
			zoomLimit = cfg.ZoomLimit
		}

		_, err = processor.RenderTiles(ctx, d.Name, doc, processor.TileOptions{
			Root:        opts.Root,
			ZoomLimit:   zoomLimit,
			TileSize:    d.TileSize,
			Concurrency: opts.Concurrency,
			Color:       color,
			Force:       opts.Force,
		})
		if err != nil {
			log.Error().Err(err).Str("document", d.Name).Msg("Failed to render tiles")
		}
	}

	if ctx.Err() != nil {
		log.Warn().Msg("Loader interrupted")
		return
	}
	log.Info().Msg("Loader finished successfully")
}
