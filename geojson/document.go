// Package geojson reads, builds and writes GeoJSON documents (RFC 7946).
//
// A Document is either parsed from bytes, in which case every accessor
// lazily derives its result from the parsed tree, or produced by the
// builder returned from Create. A parsed document is written back as it was
// read. A built document is written in the order type, custom objects,
// bbox, features, properties; bbox appears only when the builder set one,
// and built features follow the same rule before their geometry.
//
// Only Parse, ParseBytes, LoadFromFile and DocumentBuilder.Build produce
// usable documents. The zero Document reports ErrMalformed.
package geojson

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// Document is the top-level FeatureCollection container.
// It is never mutated after Parse or Build returns.
type Document struct {
	src documentSource
}

func (d *Document) source() documentSource {
	if d.src == nil {
		return emptyDocument{}
	}
	return d.src
}

// documentSource is implemented by parsedDocument and builtDocument.
type documentSource interface {
	featureCollection() (*FeatureCollection, error)
	properties() (map[string]gjson.Result, error)
	objects() (map[string]gjson.Result, error)
	encode(w *tokenWriter)
}

// Parse reads a whole document from r. Cancellation is observed between reads.
func Parse(ctx context.Context, r io.Reader) (*Document, error) {
	data, err := io.ReadAll(&ctxReader{ctx: ctx, r: r})
	if err != nil {
		return nil, err
	}
	return ParseBytes(data)
}

// ParseBytes wraps JSON text as a document. Only the syntax is checked here;
// structure is checked by the accessors.
func ParseBytes(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: document is not valid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(data)
	return &Document{src: &parsedDocument{root: root}}, nil
}

// LoadFromFile parses the document stored at path.
func LoadFromFile(ctx context.Context, path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	doc, err := Parse(ctx, f)
	if err != nil {
		return nil, err
	}

	if info, err := f.Stat(); err == nil {
		log.Debug().
			Str("path", path).
			Str("size", humanize.Bytes(uint64(info.Size()))).
			Msg("GeoJSON document loaded")
	}
	return doc, nil
}

// FeatureCollection returns the root collection.
func (d *Document) FeatureCollection() (*FeatureCollection, error) {
	return d.source().featureCollection()
}

// Features is a shortcut for FeatureCollection().Features().
func (d *Document) Features() ([]*Feature, error) {
	fc, err := d.FeatureCollection()
	if err != nil {
		return nil, err
	}
	return fc.Features()
}

// Properties returns the document-level "properties" members.
func (d *Document) Properties() (map[string]gjson.Result, error) {
	return d.source().properties()
}

// Objects returns the custom top-level members: everything except type,
// features and properties.
func (d *Document) Objects() (map[string]gjson.Result, error) {
	return d.source().objects()
}

// IsBuilt reports whether the document came from a DocumentBuilder.
func (d *Document) IsBuilt() bool {
	_, ok := d.src.(*builtDocument)
	return ok
}

// Encode writes the document to an existing encoder. A parsed document is
// written back as it was read.
func (d *Document) Encode(enc *jsontext.Encoder) error {
	w := &tokenWriter{enc: enc}
	d.source().encode(w)
	return w.err
}

// Save writes the indented document to out. Cancellation is observed
// when buffered output is flushed to out, not between tokens.
func (d *Document) Save(ctx context.Context, out io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.Encode(NewEncoder(&ctxWriter{ctx: ctx, w: out}, true))
}

// SaveToFile writes the indented document to path, replacing any existing file.
func (d *Document) SaveToFile(ctx context.Context, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.Save(ctx, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.Debug().Str("path", path).Msg("GeoJSON document saved")
	return nil
}

// MarshalJSON returns the compact document.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Encode(NewEncoder(&buf, false)); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}

type parsedDocument struct {
	root gjson.Result

	fc    lazy[*FeatureCollection]
	props lazy[map[string]gjson.Result]
	objs  lazy[map[string]gjson.Result]
}

func (p *parsedDocument) featureCollection() (*FeatureCollection, error) {
	return p.fc.get(func() (*FeatureCollection, error) {
		return NewFeatureCollection(p.root)
	})
}

func (p *parsedDocument) properties() (map[string]gjson.Result, error) {
	return p.props.get(func() (map[string]gjson.Result, error) {
		return objectMembers(p.root.Get(propertiesProperty))
	})
}

func (p *parsedDocument) objects() (map[string]gjson.Result, error) {
	return p.objs.get(func() (map[string]gjson.Result, error) {
		return objectMembers(p.root, typeProperty, featuresProperty, propertiesProperty)
	})
}

func (p *parsedDocument) encode(w *tokenWriter) {
	w.raw(jsontext.Value(p.root.Raw))
}

type builtDocument struct {
	objectList   []member
	propertyList []member
	collection   *FeatureCollection

	props lazy[map[string]gjson.Result]
	objs  lazy[map[string]gjson.Result]
}

func (b *builtDocument) featureCollection() (*FeatureCollection, error) {
	return b.collection, nil
}

func (b *builtDocument) properties() (map[string]gjson.Result, error) {
	return b.props.get(func() (map[string]gjson.Result, error) {
		return encodeMembers(b.propertyList)
	})
}

func (b *builtDocument) objects() (map[string]gjson.Result, error) {
	return b.objs.get(func() (map[string]gjson.Result, error) {
		return encodeMembers(b.objectList)
	})
}

// encode writes type, custom objects, bbox, features, properties.
func (b *builtDocument) encode(w *tokenWriter) {
	w.beginObject()
	w.stringMember(typeProperty, featureCollectionType)
	w.members(b.objectList)
	w.bbox(b.collection.bbox)

	w.name(featuresProperty)
	w.beginArray()
	for _, f := range b.collection.features {
		f.src.encode(w)
	}
	w.endArray()

	if len(b.propertyList) > 0 {
		w.objectMember(propertiesProperty, b.propertyList)
	}
	w.endObject()
}

// emptyDocument backs the zero Document.
type emptyDocument struct{}

var errEmptyDocument = fmt.Errorf("%w: document was not parsed or built", ErrMalformed)

func (emptyDocument) featureCollection() (*FeatureCollection, error) { return nil, errEmptyDocument }
func (emptyDocument) properties() (map[string]gjson.Result, error)  { return nil, errEmptyDocument }
func (emptyDocument) objects() (map[string]gjson.Result, error)     { return nil, errEmptyDocument }
func (emptyDocument) encode(w *tokenWriter) {
	if w.err == nil {
		w.err = errEmptyDocument
	}
}

// ctxReader fails reads once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// ctxWriter fails writes once ctx is done.
type ctxWriter struct {
	ctx context.Context
	w   io.Writer
}

func (w *ctxWriter) Write(p []byte) (int, error) {
	if err := w.ctx.Err(); err != nil {
		return 0, err
	}
	return w.w.Write(p)
}
