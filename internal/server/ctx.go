package server

import (
	"bytes"
	"context"
	"image"
	"sort"
	"time"

	"github.com/woozymasta/geojson/geojson"
	"github.com/woozymasta/geojson/internal/config"
	"github.com/woozymasta/geojson/internal/processor"

	"github.com/chai2010/webp"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/json"
)

// DocumentSummary is the public description of a served document.
type DocumentSummary struct {
	Name        string              `json:"name"`
	Aliases     []string            `json:"aliases,omitempty"`
	Attribution string              `json:"attribution,omitempty"`
	Color       string              `json:"color,omitempty"`
	ZoomLimit   int                 `json:"zoom"`
	Features    int                 `json:"features"`
	BBox        geojson.BoundingBox `json:"bbox,omitempty"`
	Size        int64               `json:"size"`
	SizeHuman   string              `json:"size_human"`
	Modified    time.Time           `json:"modified"`
}

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Root            string
	Documents       []DocumentSummary
	NameResolver    map[string]string
	TransparentTile []byte
	Minifier        *minify.M
}

// NewServerContext reads every stored document under root and builds the
// name resolver. Documents that were never loaded are skipped.
func NewServerContext(ctx context.Context, cfg *config.Config, root string) (*ServerContext, error) {
	log.Info().Int("config_documents_count", len(cfg.Documents)).Msg("Initializing server context")

	tile, err := transparentTile(256)
	if err != nil {
		return nil, err
	}

	docs := make([]config.Document, len(cfg.Documents))
	copy(docs, cfg.Documents)
	sort.SliceStable(docs, func(i, j int) bool {
		idxI, idxJ := 999999, 999999
		if docs[i].Index != nil {
			idxI = *docs[i].Index
		}
		if docs[j].Index != nil {
			idxJ = *docs[j].Index
		}
		if idxI != idxJ {
			return idxI < idxJ
		}
		return docs[i].Name < docs[j].Name
	})

	resolver := make(map[string]string)
	summaries := make([]DocumentSummary, 0, len(docs))

	for _, d := range docs {
		summary, err := summarize(ctx, cfg, root, d)
		if err != nil {
			log.Warn().
				Err(err).
				Str("document", d.Name).
				Msg("Skipping document: stored file is missing or invalid")
			continue
		}

		resolver[d.Name] = d.Name
		for _, alias := range d.Aliases {
			resolver[alias] = d.Name
		}

		log.Debug().
			Str("document", d.Name).
			Int("features", summary.Features).
			Str("size", summary.SizeHuman).
			Msg("Document validated and added to context")

		summaries = append(summaries, summary)
	}

	m := minify.New()
	m.AddFunc(geoJSONType, json.Minify)

	log.Info().
		Int("valid_documents_count", len(summaries)).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Root:            root,
		Documents:       summaries,
		NameResolver:    resolver,
		TransparentTile: tile,
		Minifier:        m,
	}, nil
}

func summarize(ctx context.Context, cfg *config.Config, root string, d config.Document) (DocumentSummary, error) {
	file := geojson.NewFile(processor.DocumentPath(root, d.Name))
	doc, err := file.Read(ctx)
	if err != nil {
		return DocumentSummary{}, err
	}
	features, err := doc.Features()
	if err != nil {
		return DocumentSummary{}, err
	}
	bbox, err := doc.Bounds()
	if err != nil {
		return DocumentSummary{}, err
	}

	s := DocumentSummary{
		Name:        d.Name,
		Aliases:     d.Aliases,
		Attribution: d.Attribution,
		Color:       d.Color,
		ZoomLimit:   d.ZoomLimit,
		Features:    len(features),
		BBox:        bbox,
		Size:        file.Size(),
		Modified:    file.LastModified().UTC(),
	}
	s.SizeHuman = humanize.Bytes(uint64(s.Size))
	if s.Attribution == "" {
		s.Attribution = cfg.Attribution
	}
	if s.ZoomLimit <= 0 {
		s.ZoomLimit = cfg.ZoomLimit
	}
	return s, nil
}

// transparentTile encodes an empty tile served where no preview was rendered.
func transparentTile(size int) ([]byte, error) {
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: true}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
