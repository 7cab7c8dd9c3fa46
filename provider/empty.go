package provider

import (
	"reflect"

	"github.com/drewnoakes/msgpack-strict/schema"
	"github.com/drewnoakes/msgpack-strict/wire"
)

// EmptyMarker is implemented by the designated empty-record type; Empty
// writes it as a zero-entry map and reads any map back into its single
// value, ignoring contents (§4.2).
type EmptyMarker interface {
	IsEmptySchema()
}

var emptyMarkerType = reflect.TypeOf((*EmptyMarker)(nil)).Elem()

// Empty is the type provider for the singleton Empty schema variant.
type Empty struct{}

func (Empty) CanProvide(t reflect.Type) bool { return t.Implements(emptyMarkerType) }

func (Empty) Build(c *schema.Collection, t reflect.Type, write bool) (schema.Schema, error) {
	return c.Put(t, write, &schema.Empty{}), nil
}

func (Empty) WriteValue(reg *Registry, w *wire.Writer, rv reflect.Value) error {
	return w.WriteMapHeader(0)
}

func (Empty) ReadValue(rc *ReadContext, r *wire.Reader, t reflect.Type) (reflect.Value, error) {
	n, err := r.ReadMapHeader()
	if err != nil {
		return reflect.Value{}, err
	}
	for i := 0; i < n; i++ {
		if err := r.SkipValue(); err != nil { // key
			return reflect.Value{}, err
		}
		if err := r.SkipValue(); err != nil { // value
			return reflect.Value{}, err
		}
	}
	return reflect.New(t).Elem(), nil
}
