// Package serde implements the serialiser/deserialiser drivers (SD): the
// top-level entry points that take a root user type and a byte stream,
// dispatch through the type provider registry, and manage the reader's
// unexpected-field policy (§2, §6.4).
package serde

import (
	"io"
	"reflect"

	"github.com/drewnoakes/msgpack-strict/provider"
	"github.com/drewnoakes/msgpack-strict/schema"
	"github.com/drewnoakes/msgpack-strict/wire"
)

// DefaultProviders returns the built-in type providers in the priority
// order §4.2 requires: Nullable must run first so pointer types are never
// dereferenced before Nullable sees them; Enum must run before Primitive,
// since an enum's underlying type is itself a plain integer kind that
// Primitive would otherwise claim first; Complex is last, as the catch-all
// for any remaining exported struct type.
func DefaultProviders() *provider.Registry {
	return provider.NewRegistry(
		provider.Nullable{},
		provider.Enum{},
		provider.Primitive{},
		provider.Union{},
		provider.Tuple{},
		provider.Sequence{},
		provider.Mapping{},
		provider.Empty{},
		provider.Complex{},
	)
}

// Serialiser writes values of type T to a byte stream using T's write
// schema (§6.4 `Serialiser<T>`).
type Serialiser[T any] struct {
	reg *provider.Registry
	typ reflect.Type
}

// NewSerialiser returns a Serialiser for T. When collection is non-nil, T's
// write schema is derived in it first; when it is nil, no schema is derived.
func NewSerialiser[T any](collection *schema.Collection, reg *provider.Registry) (*Serialiser[T], error) {
	if reg == nil {
		reg = DefaultProviders()
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	if collection != nil {
		if _, err := collection.GetOrAddWriteSchema(t); err != nil {
			return nil, err
		}
	}
	return &Serialiser[T]{reg: reg, typ: t}, nil
}

// Serialise writes value to w.
func (s *Serialiser[T]) Serialise(w io.Writer, value T) error {
	return s.reg.Write(wire.NewWriter(w), reflect.ValueOf(value))
}

// Deserialiser reads values of type T from a byte stream, using T's read
// schema and the configured unexpected-field policy (§6.4
// `Deserialiser<T>`).
type Deserialiser[T any] struct {
	reg    *provider.Registry
	policy provider.UnexpectedFieldPolicy
	typ    reflect.Type
}

// NewDeserialiser returns a Deserialiser for T.
func NewDeserialiser[T any](policy provider.UnexpectedFieldPolicy, collection *schema.Collection, reg *provider.Registry) (*Deserialiser[T], error) {
	if reg == nil {
		reg = DefaultProviders()
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	if collection != nil {
		if _, err := collection.GetOrAddReadSchema(t); err != nil {
			return nil, err
		}
	}
	return &Deserialiser[T]{reg: reg, policy: policy, typ: t}, nil
}

// Deserialise reads and returns one value of type T from r.
func (d *Deserialiser[T]) Deserialise(r io.Reader) (T, error) {
	var zero T
	rc := &provider.ReadContext{Registry: d.reg, Policy: d.policy}
	v, err := d.reg.Read(rc, wire.NewReader(r), d.typ)
	if err != nil {
		return zero, err
	}
	return v.Interface().(T), nil
}
