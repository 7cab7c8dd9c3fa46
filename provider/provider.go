// Package provider implements the type providers (TP): the pluggable
// resolvers that map a user Go type to a schema variant and to the wire
// dispatch that serialises and deserialises values of that type (§4.2).
package provider

import (
	"reflect"

	"github.com/drewnoakes/msgpack-strict/errs"
	"github.com/drewnoakes/msgpack-strict/schema"
	"github.com/drewnoakes/msgpack-strict/wire"
)

// UnexpectedFieldPolicy governs what a Complex read does with a wire field
// its read schema does not declare (§4.4).
type UnexpectedFieldPolicy int

const (
	// Ignore discards the unrecognised field's value.
	Ignore UnexpectedFieldPolicy = iota
	// Throw raises a DeserialisationFault.
	Throw
)

// ReadContext carries the per-call configuration and the Registry a
// provider needs to recurse into nested field/element/member types.
type ReadContext struct {
	Registry *Registry
	Policy   UnexpectedFieldPolicy
}

// Provider is the dispatch surface each built-in type resolver implements.
// It extends schema.Provider (used during schema derivation) with the wire
// read/write dispatch used at message time.
type Provider interface {
	schema.Provider

	// WriteValue serialises rv, whose type this provider claimed via
	// CanProvide, to w.
	WriteValue(reg *Registry, w *wire.Writer, rv reflect.Value) error

	// ReadValue deserialises one value of type t from r.
	ReadValue(rc *ReadContext, r *wire.Reader, t reflect.Type) (reflect.Value, error)
}

// Registry is an ordered list of Providers, used both as a schema.Provider
// list (passed to schema.NewCollection) and as the write/read dispatch
// table (§2 "Data flow").
type Registry struct {
	providers []Provider
}

// NewRegistry returns a Registry that tries providers in order, mirroring
// the "first provider that accepts owns T" rule (§4.2).
func NewRegistry(providers ...Provider) *Registry {
	return &Registry{providers: providers}
}

// SchemaProviders exposes the registry's providers as schema.Providers, for
// building a schema.Collection over the same priority order.
func (r *Registry) SchemaProviders() []schema.Provider {
	out := make([]schema.Provider, len(r.providers))
	for i, p := range r.providers {
		out[i] = p
	}
	return out
}

// find looks up the provider for t exactly as given first — this lets
// Nullable claim pointer types outright — and only falls back to t's
// element type when nothing claims the pointer itself, mirroring
// schema.Collection.resolve so schema derivation and dispatch agree on
// which provider owns a given type.
func (r *Registry) find(t reflect.Type) (Provider, reflect.Type, error) {
	for _, p := range r.providers {
		if p.CanProvide(t) {
			return p, t, nil
		}
	}
	if t.Kind() == reflect.Ptr {
		return r.find(t.Elem())
	}
	return nil, nil, errs.New(errs.UnsupportedType, t.String(), "no type provider claims type %s", t)
}

// Write dispatches rv to whichever provider claims its type.
func (r *Registry) Write(w *wire.Writer, rv reflect.Value) error {
	p, _, err := r.find(rv.Type())
	if err != nil {
		return err
	}
	if p == nil {
		return errs.New(errs.UnsupportedType, rv.Type().String(), "no type provider claims type %s", rv.Type())
	}
	return p.WriteValue(r, w, rv)
}

// Read dispatches to whichever provider claims t.
func (r *Registry) Read(rc *ReadContext, reader *wire.Reader, t reflect.Type) (reflect.Value, error) {
	p, owned, err := r.find(t)
	if err != nil {
		return reflect.Value{}, err
	}
	v, err := p.ReadValue(rc, reader, owned)
	if err != nil {
		return reflect.Value{}, err
	}
	if owned != t && t.Kind() == reflect.Ptr {
		ptr := reflect.New(owned)
		ptr.Elem().Set(v)
		return ptr, nil
	}
	return v, nil
}
