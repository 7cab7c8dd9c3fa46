package provider

import (
	"reflect"

	"github.com/drewnoakes/msgpack-strict/schema"
	"github.com/drewnoakes/msgpack-strict/wire"
)

// Mapping is the type provider for Go maps: a homogeneous key/value
// collection written as a map header followed by alternating key/value
// encodings (§4.2, §6.1). Unlike Complex, entry order carries no meaning,
// so writes iterate Go's (unordered) map range order directly.
type Mapping struct{}

func (Mapping) CanProvide(t reflect.Type) bool { return t.Kind() == reflect.Map }

func (Mapping) Build(c *schema.Collection, t reflect.Type, write bool) (schema.Schema, error) {
	key, err := c.Resolve(t.Key(), write)
	if err != nil {
		return nil, err
	}
	val, err := c.Resolve(t.Elem(), write)
	if err != nil {
		return nil, err
	}
	return c.Put(t, write, &schema.Mapping{Key: key, Value: val}), nil
}

func (Mapping) WriteValue(reg *Registry, w *wire.Writer, rv reflect.Value) error {
	if err := w.WriteMapHeader(rv.Len()); err != nil {
		return err
	}
	iter := rv.MapRange()
	for iter.Next() {
		if err := reg.Write(w, iter.Key()); err != nil {
			return err
		}
		if err := reg.Write(w, iter.Value()); err != nil {
			return err
		}
	}
	return nil
}

func (Mapping) ReadValue(rc *ReadContext, r *wire.Reader, t reflect.Type) (reflect.Value, error) {
	n, err := r.ReadMapHeader()
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.MakeMapWithSize(t, n)
	for i := 0; i < n; i++ {
		k, err := rc.Registry.Read(rc, r, t.Key())
		if err != nil {
			return reflect.Value{}, err
		}
		v, err := rc.Registry.Read(rc, r, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(k, v)
	}
	return out, nil
}
