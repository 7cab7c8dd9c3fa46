package provider

import (
	"reflect"
	"strings"

	"github.com/drewnoakes/msgpack-strict/errs"
	"github.com/drewnoakes/msgpack-strict/schema"
	"github.com/drewnoakes/msgpack-strict/wire"
)

const tuplePkgPath = "github.com/drewnoakes/msgpack-strict/tuple"

// Tuple is the type provider for the fixed-arity tuple.Of2/Of3/Of4 family
// (§4.2): a fixed-length array of heterogeneous element encodings, written
// and read in field-declaration order.
type Tuple struct{}

func (Tuple) CanProvide(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.PkgPath() == tuplePkgPath && strings.HasPrefix(t.Name(), "Of")
}

func (Tuple) Build(c *schema.Collection, t reflect.Type, write bool) (schema.Schema, error) {
	elems := make([]schema.Schema, t.NumField())
	for i := range elems {
		s, err := c.Resolve(t.Field(i).Type, write)
		if err != nil {
			return nil, err
		}
		elems[i] = s
	}
	return c.Put(t, write, &schema.Tuple{Elems: elems}), nil
}

func (Tuple) WriteValue(reg *Registry, w *wire.Writer, rv reflect.Value) error {
	n := rv.NumField()
	if err := w.WriteArrayHeader(n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := reg.Write(w, rv.Field(i)); err != nil {
			return err
		}
	}
	return nil
}

func (Tuple) ReadValue(rc *ReadContext, r *wire.Reader, t reflect.Type) (reflect.Value, error) {
	n, err := r.ReadArrayHeader()
	if err != nil {
		return reflect.Value{}, err
	}
	if n != t.NumField() {
		return reflect.Value{}, errs.New(errs.DeserialisationFault, t.String(), "expected tuple of arity %d, got %d", t.NumField(), n)
	}
	out := reflect.New(t).Elem()
	for i := 0; i < n; i++ {
		fv, err := rc.Registry.Read(rc, r, t.Field(i).Type)
		if err != nil {
			return reflect.Value{}, err
		}
		out.Field(i).Set(fv)
	}
	return out, nil
}
