package geojson

import (
	"fmt"
	"slices"
	"sync"

	"github.com/go-json-experiment/json"
	"github.com/tidwall/gjson"
)

// lazy is a memoization cell: the value is computed once, on first access,
// and shared by every later caller.
type lazy[T any] struct {
	once sync.Once
	v    T
	err  error
}

func (l *lazy[T]) get(compute func() (T, error)) (T, error) {
	l.once.Do(func() {
		l.v, l.err = compute()
	})
	return l.v, l.err
}

// member is a named value added through a builder, kept in insertion order.
type member struct {
	name  string
	value any
}

// objectMembers collects the members of an object node, leaving out skip.
// A missing or null node yields an empty map.
func objectMembers(node gjson.Result, skip ...string) (map[string]gjson.Result, error) {
	out := make(map[string]gjson.Result)
	if !node.Exists() || node.Type == gjson.Null {
		return out, nil
	}
	if !node.IsObject() {
		return nil, fmt.Errorf("%w: expected an object, got %s", ErrMalformed, node.Type)
	}
	node.ForEach(func(key, value gjson.Result) bool {
		if !slices.Contains(skip, key.Str) {
			out[key.Str] = value
		}
		return true
	})
	return out, nil
}

// encodeMembers folds builder members into nodes, the same shape parsed
// documents expose. Later members win on duplicate names.
func encodeMembers(ms []member) (map[string]gjson.Result, error) {
	out := make(map[string]gjson.Result, len(ms))
	for _, m := range ms {
		data, err := json.Marshal(m.value)
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", m.name, err)
		}
		out[m.name] = gjson.ParseBytes(data)
	}
	return out, nil
}
