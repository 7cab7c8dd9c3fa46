package schema

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/drewnoakes/msgpack-strict/errs"
)

// Provider is implemented by each pluggable type resolver (TP). The first
// registered provider whose CanProvide reports true owns a given type
// (§4.2); Collection never asks a later provider once one has claimed it.
type Provider interface {
	CanProvide(t reflect.Type) bool
	// Build derives the write or read schema for t. Implementations that
	// produce a by-reference schema (Complex, Union, Enum) must use
	// Begin/Finish to participate in two-phase construction; implementations
	// that produce a by-value schema should call Put once the schema is
	// complete.
	Build(c *Collection, t reflect.Type, write bool) (Schema, error)
}

type entryKey struct {
	t     reflect.Type
	write bool
}

// Collection is the memoizing factory and graph builder (SC): given a user
// type it lazily builds, deduplicates and caches its WriteSchema/ReadSchema,
// resolving recursive types via two-phase construction. A Collection is
// mutable during derivation and read-only, and safe for concurrent readers,
// once fully populated (§5).
type Collection struct {
	mu        sync.Mutex
	providers []Provider
	entries   map[entryKey]Schema
	byText    map[string]Schema
	nextID    int
}

// NewCollection returns a Collection that resolves types using providers in
// priority order.
func NewCollection(providers ...Provider) *Collection {
	return &Collection{
		providers: providers,
		entries:   map[entryKey]Schema{},
		byText:    map[string]Schema{},
	}
}

// GetWriteSchema returns T's write schema, building it if necessary. It is
// the generic-typed convenience form of GetOrAddWriteSchema (§6.4).
func GetWriteSchema[T any](c *Collection) (Schema, error) {
	return c.GetOrAddWriteSchema(reflect.TypeOf((*T)(nil)).Elem())
}

// GetReadSchema returns T's read schema, building it if necessary.
func GetReadSchema[T any](c *Collection) (Schema, error) {
	return c.GetOrAddReadSchema(reflect.TypeOf((*T)(nil)).Elem())
}

// GetOrAddWriteSchema returns t's write schema, building it if necessary.
func (c *Collection) GetOrAddWriteSchema(t reflect.Type) (Schema, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolve(t, true)
}

// GetOrAddReadSchema returns t's read schema, building it if necessary.
func (c *Collection) GetOrAddReadSchema(t reflect.Type) (Schema, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolve(t, false)
}

// Resolve is the recursive entry point a Provider uses to derive schemas
// for nested types (record fields, slice elements, map keys/values, union
// members) while an enclosing derivation is already in progress. Calling it
// outside of a Provider.Build call is unsafe: the collection's mutex is
// held by the top-level GetOrAddWriteSchema/GetOrAddReadSchema call for the
// duration of the whole recursive build (§5).
func (c *Collection) Resolve(t reflect.Type, write bool) (Schema, error) {
	return c.resolve(t, write)
}

// resolve deliberately does not strip pointer indirection itself: a *T
// field type is the Nullable provider's signal to wrap T's schema, so
// providers are consulted on t exactly as given. Only when no provider
// claims a pointer type at all does resolve fall back to treating it as
// transparent indirection over its element type.
func (c *Collection) resolve(t reflect.Type, write bool) (Schema, error) {
	key := entryKey{t, write}
	if s, ok := c.entries[key]; ok {
		return s, nil
	}
	for _, p := range c.providers {
		if p.CanProvide(t) {
			return p.Build(c, t, write)
		}
	}
	if t.Kind() == reflect.Ptr {
		return c.resolve(t.Elem(), write)
	}
	return nil, errs.New(errs.UnsupportedType, t.String(), "no type provider claims type %s", t)
}

// NewID allocates a fresh, collection-scoped opaque identifier for a
// by-reference schema. Providers call this while allocating a Complex,
// Union or Enum placeholder, before recursing into its constituents, so
// that any cyclic reference back to the placeholder already has a stable
// id to write in its canonical form (§4.1, §6.3).
func (c *Collection) NewID() ID {
	c.nextID++
	return ID(fmt.Sprintf("t%d", c.nextID))
}

// Begin registers a fresh by-reference placeholder for (t, write) so that
// recursive references encountered while filling it resolve to the same
// instance instead of recursing forever. If an entry already exists for
// (t, write) — because this is a cyclic reference back to a node already
// under construction, or a previously finished node — Begin returns it and
// ok is true; the caller must not rebuild it.
func (c *Collection) Begin(t reflect.Type, write bool, alloc func() Schema) (existing Schema, ok bool) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	key := entryKey{t, write}
	if s, ok := c.entries[key]; ok {
		return s, true
	}
	s := alloc()
	c.entries[key] = s
	return s, false
}

// Finish validates a freshly filled by-reference schema's invariants, sorts
// its fields/members into canonical order, and interns it by canonical text
// so a later GetOrCreate can recognize an equivalent shape. It
// returns s unchanged (same pointer) on success.
func (c *Collection) Finish(target string, s Schema) (Schema, error) {
	switch v := s.(type) {
	case *Complex:
		sortFields(v.Fields)
		for i := 1; i < len(v.Fields); i++ {
			if foldEqual(v.Fields[i-1].Name, v.Fields[i].Name) {
				return nil, errs.New(errs.SchemaInvariantViolation, target,
					"duplicate field name %q", v.Fields[i].Name)
			}
		}
	case *Union:
		sortMembers(v.Members)
		for i := 1; i < len(v.Members); i++ {
			if foldEqual(v.Members[i-1].Name, v.Members[i].Name) {
				return nil, errs.New(errs.SchemaInvariantViolation, target,
					"duplicate union member name %q", v.Members[i].Name)
			}
		}
	case *Enum:
		sortEnumMembers(v.Members)
		for i := 1; i < len(v.Members); i++ {
			if foldEqual(v.Members[i-1], v.Members[i]) {
				return nil, errs.New(errs.SchemaInvariantViolation, target,
					"duplicate enum member name %q", v.Members[i])
			}
		}
	}
	c.byText[Text(s)] = s
	return s, nil
}

// Put caches a fully built by-value schema for (t, write) and returns it.
func (c *Collection) Put(t reflect.Type, write bool, s Schema) Schema {
	c.entries[entryKey{t, write}] = s
	return s
}

// GetOrCreate returns the schema already interned under archetype's
// canonical text, or calls factory to build one and interns it. CopyTo does
// not go through GetOrCreate: it keeps shared by-reference nodes shared with
// its own per-call table and records each copied node in the destination's
// canonical-text table, without reusing an equivalent node already there.
func (c *Collection) GetOrCreate(archetype string, factory func() Schema) Schema {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.byText[archetype]; ok {
		return s
	}
	s := factory()
	c.byText[archetype] = s
	return s
}

// CopyTo returns a schema equivalent to s but rooted in dst, so that dst
// owns the returned graph's by-reference identities independently of c
// (§3.5). Shared by-reference nodes reachable from s remain shared in the
// result; cycles are preserved.
func CopyTo(dst *Collection, s Schema) Schema {
	cp := &copier{dst: dst, done: map[Schema]Schema{}}
	return cp.copy(s)
}

type copier struct {
	dst  *Collection
	done map[Schema]Schema
}

func (cp *copier) copy(s Schema) Schema {
	switch v := s.(type) {
	case *Primitive:
		return &Primitive{Kind: v.Kind}
	case *Nullable:
		return &Nullable{Elem: cp.copy(v.Elem)}
	case *Tuple:
		elems := make([]Schema, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = cp.copy(e)
		}
		return &Tuple{Elems: elems}
	case *Sequence:
		return &Sequence{Elem: cp.copy(v.Elem)}
	case *Mapping:
		return &Mapping{Key: cp.copy(v.Key), Value: cp.copy(v.Value)}
	case *Empty:
		return &Empty{}
	case *Complex:
		if out, ok := cp.done[s]; ok {
			return out
		}
		out := &Complex{id: cp.dst.NewID(), Name: v.Name}
		cp.done[s] = out
		fields := make([]Field, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = Field{Name: f.Name, HasDefault: f.HasDefault, Schema: cp.copy(f.Schema)}
		}
		out.Fields = fields
		cp.dst.byText[Text(out)] = out
		return out
	case *Union:
		if out, ok := cp.done[s]; ok {
			return out
		}
		out := &Union{id: cp.dst.NewID(), Name: v.Name}
		cp.done[s] = out
		members := make([]Member, len(v.Members))
		for i, m := range v.Members {
			members[i] = Member{Name: m.Name, Schema: cp.copy(m.Schema)}
		}
		out.Members = members
		cp.dst.byText[Text(out)] = out
		return out
	case *Enum:
		if out, ok := cp.done[s]; ok {
			return out
		}
		out := &Enum{id: cp.dst.NewID(), Name: v.Name, Members: append([]string(nil), v.Members...)}
		cp.done[s] = out
		cp.dst.byText[Text(out)] = out
		return out
	default:
		panic(fmt.Sprintf("schema: unknown variant %T", s))
	}
}
