package provider

import (
	"reflect"
	"strconv"
	"time"

	"github.com/drewnoakes/msgpack-strict/errs"
	"github.com/drewnoakes/msgpack-strict/schema"
	"github.com/drewnoakes/msgpack-strict/wire"
)

// Primitive is the type provider for every atomic wire kind (§4.2): bool,
// signed/unsigned integers, floats, string, bytes, Decimal and Timestamp.
// Decimal round-trips through its invariant-culture string form; a value
// that fails to parse on read is a DeserialisationFault, not a panic.
type Primitive struct{}

func (Primitive) CanProvide(t reflect.Type) bool {
	_, ok := wire.KindOf(t)
	return ok
}

func (Primitive) Build(c *schema.Collection, t reflect.Type, write bool) (schema.Schema, error) {
	k, ok := wire.KindOf(t)
	if !ok {
		return nil, errs.New(errs.UnsupportedType, t.String(), "not a primitive type")
	}
	return c.Put(t, write, &schema.Primitive{Kind: k}), nil
}

func (Primitive) WriteValue(reg *Registry, w *wire.Writer, rv reflect.Value) error {
	if rv.Type() == reflect.TypeOf(wire.Decimal("")) {
		return w.WriteString(rv.String())
	}
	if rv.Type() == reflect.TypeOf(time.Time{}) {
		return w.WriteScalar(rv.Interface())
	}
	switch rv.Kind() {
	case reflect.String:
		return w.WriteString(rv.String())
	case reflect.Slice: // []byte
		return w.WriteScalar(rv.Interface())
	default:
		return w.WriteScalar(rv.Interface())
	}
}

func (Primitive) ReadValue(rc *ReadContext, r *wire.Reader, t reflect.Type) (reflect.Value, error) {
	switch {
	case t == reflect.TypeOf(wire.Decimal("")):
		s, err := r.ReadString()
		if err != nil {
			return reflect.Value{}, err
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return reflect.Value{}, errs.Wrap(errs.DeserialisationFault, t.String(), err, "parse decimal literal %q", s)
		}
		return reflect.ValueOf(wire.Decimal(s)), nil
	case t == reflect.TypeOf(time.Time{}):
		var ts time.Time
		if err := r.ReadScalar(&ts); err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(ts), nil
	case t.Kind() == reflect.String:
		s, err := r.ReadString()
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(s).Convert(t), nil
	default:
		v := reflect.New(t)
		if err := r.ReadScalar(v.Interface()); err != nil {
			return reflect.Value{}, err
		}
		return v.Elem(), nil
	}
}
