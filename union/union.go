// Package union implements the canonical union member naming scheme (UE):
// deriving a stable, human-readable member name from a Go type so a union
// wire value's two-element discriminator frame [memberName, payload] can be
// dispatched without carrying full type information on the wire.
package union

import (
	"reflect"
	"strings"
)

// primitiveNames maps a primitive reflect.Kind to its canonical lowercase
// wire name. Kinds absent from this table are not primitives for naming
// purposes and fall through to the unqualified type name rule.
var primitiveNames = map[reflect.Kind]string{
	reflect.Bool:    "bool",
	reflect.Int8:    "int8",
	reflect.Int16:   "int16",
	reflect.Int32:   "int32",
	reflect.Int64:   "int64",
	reflect.Int:     "int64",
	reflect.Uint8:   "uint8",
	reflect.Uint16:  "uint16",
	reflect.Uint32:  "uint32",
	reflect.Uint64:  "uint64",
	reflect.Uint:    "uint64",
	reflect.Float32: "float32",
	reflect.Float64: "float64",
	reflect.String:  "string",
}

// GetTypeName produces the canonical union member name for t.
//
// Primitives map to their canonical lowercase names. Slices and arrays of a
// non-byte element render as "T[]". Generic instantiations registered with
// RegisterGeneric render as "Outer(Inner1,Inner2,...)"; an unregistered
// instantiation renders as its base name only, without its type arguments,
// so two instantiations of one generic type get the same name. Everything
// else uses the type's unqualified name. Names are stable across processes
// because they depend
// only on the type's own shape, never on memory addresses or package paths.
func GetTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if name, ok := primitiveNames[t.Kind()]; ok {
		return name
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return "bytes"
		}
		return GetTypeName(t.Elem()) + "[]"
	}
	if args := genericArgs(t); len(args) > 0 {
		names := make([]string, len(args))
		for i, a := range args {
			names[i] = GetTypeName(a)
		}
		return baseName(t) + "(" + strings.Join(names, ",") + ")"
	}
	return baseName(t)
}

// baseName returns t's unqualified name, stripping any generic
// instantiation suffix that reflect leaves attached (e.g. "Box[int]").
func baseName(t reflect.Type) string {
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}

// genericArgs extracts the type arguments from a reflect.Type name of the
// generated form "Outer[Inner1,Inner2]", which is how the reflect package
// renders instantiated generic types. It returns nil for non-generic types.
func genericArgs(t reflect.Type) []reflect.Type {
	name := t.Name()
	start := strings.IndexByte(name, '[')
	if start < 0 || !strings.HasSuffix(name, "]") {
		return nil
	}
	// reflect does not expose the argument reflect.Types directly from the
	// name string; callers that need generic union members must register
	// them explicitly via RegisterGeneric. Absent a registration we treat
	// the type as opaque and fall back to its base name only.
	return registeredArgs[t]
}

var registeredArgs = map[reflect.Type][]reflect.Type{}

// RegisterGeneric records the type arguments used to instantiate a generic
// union member type, so GetTypeName can render it as "Outer(Inner1,Inner2)"
// instead of falling back to its bare instantiated name. Call this once per
// generic union member during package initialization, alongside the
// provider registration that declares the member to its union.
func RegisterGeneric(instantiated reflect.Type, args ...reflect.Type) {
	registeredArgs[instantiated] = args
}
