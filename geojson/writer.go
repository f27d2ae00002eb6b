package geojson

import (
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

const indent = "  "

// NewEncoder returns a JSON token encoder configured the way documents are saved.
func NewEncoder(out io.Writer, pretty bool) *jsontext.Encoder {
	opts := []jsontext.Options{jsontext.AllowDuplicateNames(true)}
	if pretty {
		opts = append(opts, jsontext.WithIndent(indent))
	}
	return jsontext.NewEncoder(out, opts...)
}

// tokenWriter wraps an encoder and keeps the first error; once set, every
// later write is a no-op.
type tokenWriter struct {
	enc *jsontext.Encoder
	err error
}

func (w *tokenWriter) token(t jsontext.Token) {
	if w.err == nil {
		w.err = w.enc.WriteToken(t)
	}
}

func (w *tokenWriter) beginObject() { w.token(jsontext.ObjectStart) }
func (w *tokenWriter) endObject()   { w.token(jsontext.ObjectEnd) }
func (w *tokenWriter) beginArray()  { w.token(jsontext.ArrayStart) }
func (w *tokenWriter) endArray()    { w.token(jsontext.ArrayEnd) }
func (w *tokenWriter) name(s string) { w.token(jsontext.String(s)) }

func (w *tokenWriter) stringMember(name, value string) {
	w.name(name)
	w.token(jsontext.String(value))
}

// value marshals an arbitrary Go value in place.
func (w *tokenWriter) value(v any) {
	if w.err == nil {
		w.err = json.MarshalEncode(w.enc, v)
	}
}

func (w *tokenWriter) raw(v jsontext.Value) {
	if w.err == nil {
		w.err = w.enc.WriteValue(v)
	}
}

func (w *tokenWriter) members(ms []member) {
	for _, m := range ms {
		w.name(m.name)
		w.value(m.value)
	}
}

func (w *tokenWriter) objectMember(name string, ms []member) {
	w.name(name)
	w.beginObject()
	w.members(ms)
	w.endObject()
}

func (w *tokenWriter) bbox(b BoundingBox) {
	if b == nil {
		return
	}
	w.name(bboxProperty)
	w.numbers(b)
}

func (w *tokenWriter) numbers(values []float64) {
	w.beginArray()
	for _, v := range values {
		w.token(jsontext.Float(v))
	}
	w.endArray()
}

// position writes [lon, lat] or [lon, lat, alt]; a missing altitude is omitted, never null.
func (w *tokenWriter) position(p Position) {
	w.beginArray()
	w.token(jsontext.Float(p.Longitude))
	w.token(jsontext.Float(p.Latitude))
	if alt, ok := p.Altitude(); ok {
		w.token(jsontext.Float(alt))
	}
	w.endArray()
}

func (w *tokenWriter) positions(ps []Position) {
	w.beginArray()
	for _, p := range ps {
		w.position(p)
	}
	w.endArray()
}

// geometry writes a {type, coordinates} object, or {type, geometries} for a collection.
// The type tag is resolved before anything is written.
func (w *tokenWriter) geometry(c Coordinates) {
	if w.err != nil {
		return
	}
	t, err := TypeOf(c)
	if err != nil {
		w.err = err
		return
	}

	w.beginObject()
	w.stringMember(typeProperty, t.String())
	if t == GeometryCollectionType {
		w.name(geometriesProperty)
	} else {
		w.name(coordinatesProperty)
	}
	c.writeCoordinates(w)
	w.endObject()
}
