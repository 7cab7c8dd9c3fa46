package provider

import (
	"reflect"

	"github.com/drewnoakes/msgpack-strict/errs"
	"github.com/drewnoakes/msgpack-strict/schema"
	"github.com/drewnoakes/msgpack-strict/union"
	"github.com/drewnoakes/msgpack-strict/wire"
)

// Discriminated is implemented by a Go type standing in for a discriminated
// union (§4.2, §4.5): UnionMembers declares the closed set of possible
// payload types, and Get returns the value currently boxed (nil if none has
// been set).
type Discriminated interface {
	UnionMembers() []reflect.Type
	Get() interface{}
}

// discriminatedSetter is implemented by *T where T is Discriminated, used
// on the read path to install the decoded payload.
type discriminatedSetter interface {
	Set(interface{}) error
}

var discriminatedType = reflect.TypeOf((*Discriminated)(nil)).Elem()

// Union is the type provider for Discriminated types: it writes the
// 2-element `[memberName, payload]` array and reads it back by dispatching
// on memberName, case-insensitively, to the matching member type (§4.5).
type Union struct{}

func (Union) CanProvide(t reflect.Type) bool { return t.Implements(discriminatedType) }

func (Union) Build(c *schema.Collection, t reflect.Type, write bool) (schema.Schema, error) {
	existing, done := c.Begin(t, write, func() schema.Schema {
		return schema.NewUnion(c.NewID(), t.Name())
	})
	if done {
		return existing, nil
	}
	u := existing.(*schema.Union)
	memberTypes := reflect.Zero(t).Interface().(Discriminated).UnionMembers()
	members := make([]schema.Member, len(memberTypes))
	for i, mt := range memberTypes {
		s, err := c.Resolve(mt, write)
		if err != nil {
			return nil, err
		}
		members[i] = schema.Member{Name: union.GetTypeName(mt), Schema: s}
	}
	u.Members = members
	return c.Finish(t.String(), u)
}

func (Union) WriteValue(reg *Registry, w *wire.Writer, rv reflect.Value) error {
	d := rv.Interface().(Discriminated)
	payload := d.Get()
	if payload == nil {
		return errs.New(errs.SerialisationFault, rv.Type().String(), "union has no value set")
	}
	name := union.GetTypeName(reflect.TypeOf(payload))
	if err := w.WriteArrayHeader(2); err != nil {
		return err
	}
	if err := w.WriteString(name); err != nil {
		return err
	}
	return reg.Write(w, reflect.ValueOf(payload))
}

func (Union) ReadValue(rc *ReadContext, r *wire.Reader, t reflect.Type) (reflect.Value, error) {
	n, err := r.ReadArrayHeader()
	if err != nil {
		return reflect.Value{}, err
	}
	if n != 2 {
		return reflect.Value{}, errs.New(errs.DeserialisationFault, t.String(), "expected 2-element union array, got %d elements", n)
	}
	name, err := r.ReadString()
	if err != nil {
		return reflect.Value{}, err
	}
	memberTypes := reflect.Zero(t).Interface().(Discriminated).UnionMembers()
	var memberType reflect.Type
	for _, mt := range memberTypes {
		if foldEqual(union.GetTypeName(mt), name) {
			memberType = mt
			break
		}
	}
	if memberType == nil {
		return reflect.Value{}, errs.New(errs.DeserialisationFault, t.String(), "unknown union member %q", name)
	}
	payload, err := rc.Registry.Read(rc, r, memberType)
	if err != nil {
		return reflect.Value{}, err
	}
	ptr := reflect.New(t)
	setter, ok := ptr.Interface().(discriminatedSetter)
	if !ok {
		return reflect.Value{}, errs.New(errs.SchemaInvariantViolation, t.String(), "*%s does not implement Set(interface{}) error", t)
	}
	if err := setter.Set(payload.Interface()); err != nil {
		return reflect.Value{}, errs.Wrap(errs.DeserialisationFault, t.String(), err, "set union payload")
	}
	return ptr.Elem(), nil
}
