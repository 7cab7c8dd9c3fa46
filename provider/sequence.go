package provider

import (
	"reflect"

	"github.com/drewnoakes/msgpack-strict/schema"
	"github.com/drewnoakes/msgpack-strict/wire"
)

// Sequence is the type provider for Go slices, other than []byte (which
// Primitive owns as the Bytes kind). It writes an array header followed by
// each element's encoding (§4.2, §6.1).
type Sequence struct{}

var byteSliceType = reflect.TypeOf([]byte(nil))

func (Sequence) CanProvide(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t != byteSliceType
}

func (Sequence) Build(c *schema.Collection, t reflect.Type, write bool) (schema.Schema, error) {
	elem, err := c.Resolve(t.Elem(), write)
	if err != nil {
		return nil, err
	}
	return c.Put(t, write, &schema.Sequence{Elem: elem}), nil
}

func (Sequence) WriteValue(reg *Registry, w *wire.Writer, rv reflect.Value) error {
	n := rv.Len()
	if err := w.WriteArrayHeader(n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := reg.Write(w, rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func (Sequence) ReadValue(rc *ReadContext, r *wire.Reader, t reflect.Type) (reflect.Value, error) {
	n, err := r.ReadArrayHeader()
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.MakeSlice(t, n, n)
	for i := 0; i < n; i++ {
		ev, err := rc.Registry.Read(rc, r, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(ev)
	}
	return out, nil
}
