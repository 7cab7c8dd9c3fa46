package provider

import (
	"reflect"

	"github.com/drewnoakes/msgpack-strict/schema"
	"github.com/drewnoakes/msgpack-strict/wire"
)

// Nullable is the type provider for Go pointer types: it writes either the
// nil marker or the pointee's encoding, and reads nil back to a nil pointer
// (§4.2). It owns every pointer type outright, so it must be registered
// ahead of any provider that would otherwise treat *T as opaque.
type Nullable struct{}

func (Nullable) CanProvide(t reflect.Type) bool { return t.Kind() == reflect.Ptr }

func (Nullable) Build(c *schema.Collection, t reflect.Type, write bool) (schema.Schema, error) {
	inner, err := c.Resolve(t.Elem(), write)
	if err != nil {
		return nil, err
	}
	return c.Put(t, write, &schema.Nullable{Elem: inner}), nil
}

func (Nullable) WriteValue(reg *Registry, w *wire.Writer, rv reflect.Value) error {
	if rv.IsNil() {
		return w.WriteNil()
	}
	return reg.Write(w, rv.Elem())
}

func (Nullable) ReadValue(rc *ReadContext, r *wire.Reader, t reflect.Type) (reflect.Value, error) {
	isNil, err := r.PeekNil()
	if err != nil {
		return reflect.Value{}, err
	}
	if isNil {
		return reflect.Zero(t), nil
	}
	elem, err := rc.Registry.Read(rc, r, t.Elem())
	if err != nil {
		return reflect.Value{}, err
	}
	ptr := reflect.New(t.Elem())
	ptr.Elem().Set(elem)
	return ptr, nil
}
