package provider

import (
	"bytes"
	"reflect"
	"sort"
	"strings"

	"github.com/drewnoakes/msgpack-strict/errs"
	"github.com/drewnoakes/msgpack-strict/schema"
	"github.com/drewnoakes/msgpack-strict/wire"
)

// fieldInfo is one exported struct field's wire identity, shared by schema
// derivation and by the write/read dispatch below so both agree on names,
// order and default-ness.
type fieldInfo struct {
	name       string
	index      int
	hasDefault bool
}

// wireTag names a field's wire tag. A tag of the form `wire:"name,default"`
// overrides the field name and/or marks it as having a default; Go has no
// constructor-parameter defaults, so "has a default" is declared explicitly
// and the field's Go zero value stands in for it.
const wireTag = "wire"

func fieldsOf(t reflect.Type) []fieldInfo {
	var out []fieldInfo
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" { // unexported
			continue
		}
		name := f.Name
		hasDefault := false
		if tag, ok := f.Tag.Lookup(wireTag); ok {
			parts := strings.Split(tag, ",")
			if parts[0] != "" && parts[0] != "-" {
				name = parts[0]
			}
			for _, p := range parts[1:] {
				if p == "default" {
					hasDefault = true
				}
			}
		}
		out = append(out, fieldInfo{name: name, index: i, hasDefault: hasDefault})
	}
	sort.SliceStable(out, func(i, j int) bool { return foldLess(out[i].name, out[j].name) })
	return out
}

// Complex is the type provider for exported Go struct types not otherwise
// claimed (Tuple, Union, Enum, time.Time): a record written as a map whose
// entries are emitted in case-insensitive lexicographic field-name order
// (§4.2, §4.3) and read by the merge-walk in §4.4.
type Complex struct{}

func (Complex) CanProvide(t reflect.Type) bool { return t.Kind() == reflect.Struct }

func (Complex) Build(c *schema.Collection, t reflect.Type, write bool) (schema.Schema, error) {
	existing, done := c.Begin(t, write, func() schema.Schema {
		return schema.NewComplex(c.NewID(), t.Name())
	})
	if done {
		return existing, nil
	}
	cx := existing.(*schema.Complex)
	infos := fieldsOf(t)
	fields := make([]schema.Field, len(infos))
	for i, fi := range infos {
		s, err := c.Resolve(t.Field(fi.index).Type, write)
		if err != nil {
			return nil, err
		}
		fields[i] = schema.Field{Name: fi.name, Schema: s, HasDefault: fi.hasDefault}
	}
	cx.Fields = fields
	return c.Finish(t.String(), cx)
}

func (Complex) WriteValue(reg *Registry, w *wire.Writer, rv reflect.Value) error {
	infos := fieldsOf(rv.Type())
	if err := w.WriteMapHeader(len(infos)); err != nil {
		return err
	}
	for _, fi := range infos {
		if err := w.WriteString(fi.name); err != nil {
			return err
		}
		if err := reg.Write(w, rv.Field(fi.index)); err != nil {
			return err
		}
	}
	return nil
}

// entry is one buffered (key, raw value) pair read off the wire before the
// merge-walk decides what to do with it (§4.4).
type entry struct {
	key string
	raw []byte
}

func (Complex) ReadValue(rc *ReadContext, r *wire.Reader, t reflect.Type) (reflect.Value, error) {
	n, err := r.ReadMapHeader()
	if err != nil {
		return reflect.Value{}, err
	}
	entries := make([]entry, n)
	for i := 0; i < n; i++ {
		key, err := r.ReadString()
		if err != nil {
			return reflect.Value{}, err
		}
		raw, err := r.ReadRawValue()
		if err != nil {
			return reflect.Value{}, err
		}
		entries[i] = entry{key: key, raw: raw}
	}
	sort.SliceStable(entries, func(i, j int) bool { return foldLess(entries[i].key, entries[j].key) })

	out := reflect.New(t).Elem()
	infos := fieldsOf(t)

	ri, wi := 0, 0
	for ri < len(infos) && wi < len(entries) {
		fi, e := infos[ri], entries[wi]
		switch {
		case foldEqual(fi.name, e.key):
			fv, err := rc.Registry.Read(rc, wire.NewReader(bytes.NewReader(e.raw)), t.Field(fi.index).Type)
			if err != nil {
				return reflect.Value{}, err
			}
			out.Field(fi.index).Set(fv)
			ri++
			wi++
		case foldLess(e.key, fi.name):
			// incoming field the reader doesn't declare
			if rc.Policy == Throw {
				return reflect.Value{}, errs.New(errs.DeserialisationFault, t.String(), "unexpected field %q", e.key)
			}
			wi++
		default:
			// expected field missing so far; incoming key sorts after it
			if !fi.hasDefault {
				return reflect.Value{}, errs.New(errs.DeserialisationFault, t.String(), "missing required field %q", fi.name)
			}
			ri++
		}
	}
	for ; wi < len(entries); wi++ {
		if rc.Policy == Throw {
			return reflect.Value{}, errs.New(errs.DeserialisationFault, t.String(), "unexpected field %q", entries[wi].key)
		}
	}
	for ; ri < len(infos); ri++ {
		if !infos[ri].hasDefault {
			return reflect.Value{}, errs.New(errs.DeserialisationFault, t.String(), "missing required field %q", infos[ri].name)
		}
	}
	return out, nil
}
