package provider

import (
	"reflect"

	"github.com/drewnoakes/msgpack-strict/errs"
	"github.com/drewnoakes/msgpack-strict/schema"
	"github.com/drewnoakes/msgpack-strict/wire"
)

// Enumerator is implemented by a named integer type to mark it as an Enum
// schema (§4.2): EnumMembers returns the declared member names in ordinal
// order, so index i is the wire name for the constant whose value is i.
type Enumerator interface {
	EnumMembers() []string
}

var enumeratorType = reflect.TypeOf((*Enumerator)(nil)).Elem()

// Enum is the type provider for Enumerator-implementing integer types: it
// writes the member name as a string and reads it back by case-insensitive
// match, faulting on an unrecognised member (§4.2).
type Enum struct{}

func (Enum) CanProvide(t reflect.Type) bool {
	return isIntegerKind(t.Kind()) && t.Implements(enumeratorType)
}

func isIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func (Enum) Build(c *schema.Collection, t reflect.Type, write bool) (schema.Schema, error) {
	existing, done := c.Begin(t, write, func() schema.Schema {
		return schema.NewEnum(c.NewID(), t.Name())
	})
	if done {
		return existing, nil
	}
	e := existing.(*schema.Enum)
	members := reflect.Zero(t).Interface().(Enumerator).EnumMembers()
	e.Members = append([]string(nil), members...)
	return c.Finish(t.String(), e)
}

func (Enum) WriteValue(reg *Registry, w *wire.Writer, rv reflect.Value) error {
	members := rv.Interface().(Enumerator).EnumMembers()
	idx := ordinal(rv)
	if idx < 0 || idx >= len(members) {
		return errs.New(errs.SerialisationFault, rv.Type().String(), "enum value %d out of declared range", idx)
	}
	return w.WriteString(members[idx])
}

func (Enum) ReadValue(rc *ReadContext, r *wire.Reader, t reflect.Type) (reflect.Value, error) {
	name, err := r.ReadString()
	if err != nil {
		return reflect.Value{}, err
	}
	members := reflect.Zero(t).Interface().(Enumerator).EnumMembers()
	for i, m := range members {
		if foldEqual(m, name) {
			out := reflect.New(t).Elem()
			setOrdinal(out, i)
			return out, nil
		}
	}
	return reflect.Value{}, errs.New(errs.DeserialisationFault, t.String(), "unknown enum member %q", name)
}

func ordinal(rv reflect.Value) int {
	if rv.CanInt() {
		return int(rv.Int())
	}
	return int(rv.Uint())
}

func setOrdinal(rv reflect.Value, i int) {
	if rv.CanInt() {
		rv.SetInt(int64(i))
		return
	}
	rv.SetUint(uint64(i))
}
