// Package schema implements the schema model (SM) and schema collection
// (SC): the algebra of write/read schema shapes derived from user types, and
// the memoizing, cycle-safe factory that builds them.
//
// Every schema is one of nine variants (Primitive, Nullable, Enum, Tuple,
// Sequence, Mapping, Complex, Union, Empty). Complex, Union and Enum are
// by-reference: they carry a stable identifier and may participate in
// cycles. The rest are by-value and always inlined.
package schema

import (
	"sort"
	"strings"

	"github.com/mb0/xelf/bfr"
)

// ID is the opaque, collection-scoped identifier assigned to a by-reference
// schema. It has no meaning outside the collection that assigned it and is
// used only for the "Contract=#id" cross-reference form in the canonical
// XML encoding (§6.3) and in diagnostic output.
type ID string

// Schema is implemented by every schema variant. Values are immutable once
// returned by a Collection.
type Schema interface {
	bfr.Writer
	isSchema()
}

// Primitive is a by-value schema for one atomic wire kind.
type Primitive struct{ Kind Kind }

func (*Primitive) isSchema() {}

func (p *Primitive) WriteBfr(b *bfr.Ctx) error {
	return b.Fmt(p.Kind.String())
}

// Nullable is a by-value schema wrapping an inner schema; the wire value is
// either the nil marker or the inner encoding.
type Nullable struct{ Elem Schema }

func (*Nullable) isSchema() {}

func (n *Nullable) WriteBfr(b *bfr.Ctx) error {
	b.WriteString("nullable(")
	if err := writeRef(b, n.Elem); err != nil {
		return err
	}
	return b.WriteByte(')')
}

// Tuple is a by-value schema for a fixed-length, heterogeneously typed
// array, written and read in declaration order.
type Tuple struct{ Elems []Schema }

func (*Tuple) isSchema() {}

func (t *Tuple) WriteBfr(b *bfr.Ctx) error {
	b.WriteString("tuple(")
	for i, e := range t.Elems {
		if i > 0 {
			b.WriteByte(',')
		}
		if err := writeRef(b, e); err != nil {
			return err
		}
	}
	return b.WriteByte(')')
}

// Sequence is a by-value schema for a homogeneous, variable-length array.
type Sequence struct{ Elem Schema }

func (*Sequence) isSchema() {}

func (s *Sequence) WriteBfr(b *bfr.Ctx) error {
	b.WriteString("seq(")
	if err := writeRef(b, s.Elem); err != nil {
		return err
	}
	return b.WriteByte(')')
}

// Mapping is a by-value schema for a homogeneous key/value map.
type Mapping struct{ Key, Value Schema }

func (*Mapping) isSchema() {}

func (m *Mapping) WriteBfr(b *bfr.Ctx) error {
	b.WriteString("map(")
	if err := writeRef(b, m.Key); err != nil {
		return err
	}
	b.WriteByte(',')
	if err := writeRef(b, m.Value); err != nil {
		return err
	}
	return b.WriteByte(')')
}

// Empty is the singleton by-value schema for a record with no fields.
type Empty struct{}

func (*Empty) isSchema() {}

func (*Empty) WriteBfr(b *bfr.Ctx) error {
	b.WriteString("empty")
	return nil
}

// Field is one named, typed slot of a Complex schema. HasDefault is
// meaningful only in read schemas: it records that the field's constructor
// parameter supplies a value when the field is absent on the wire.
type Field struct {
	Name       string
	Schema     Schema
	HasDefault bool
}

// Complex is the by-reference schema for a record. Fields are stored in
// case-insensitive lexicographic order of Name; that ordering is both the
// wire order (§4.3, §4.4) and what the compatibility engine merge-walks
// (§4.6).
type Complex struct {
	id     ID
	Name   string // unqualified user type name, for diagnostics only
	Fields []Field
}

func (*Complex) isSchema() {}

// NewComplex allocates an empty Complex placeholder with an already-assigned
// id, for use inside a Collection.Begin alloc closure (§4.1): the id must
// exist before any field is filled in, so a cyclic field referencing this
// node back can write "ref(#id)" instead of recursing forever.
func NewComplex(id ID, name string) *Complex { return &Complex{id: id, Name: name} }

// ID returns the identifier the owning Collection assigned this schema.
func (c *Complex) ID() ID { return c.id }

func (c *Complex) WriteBfr(b *bfr.Ctx) error {
	b.WriteString("complex ")
	if err := b.Quote(c.Name); err != nil {
		return err
	}
	b.WriteString(" {")
	for i, f := range c.Fields {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("name:")
		if err := b.Quote(f.Name); err != nil {
			return err
		}
		b.WriteString(" typ:")
		if err := writeRef(b, f.Schema); err != nil {
			return err
		}
		if f.HasDefault {
			b.WriteString(" default:true")
		}
	}
	return b.WriteByte('}')
}

// Member is one named, typed variant of a Union schema.
type Member struct {
	Name   string
	Schema Schema
}

// Union is the by-reference schema for a discriminated union. Members are
// stored sorted by Name, case-insensitively, and their names are unique.
type Union struct {
	id      ID
	Name    string
	Members []Member
}

func (*Union) isSchema() {}

// NewUnion allocates an empty Union placeholder with an already-assigned id.
// See NewComplex for why the id must precede member construction.
func NewUnion(id ID, name string) *Union { return &Union{id: id, Name: name} }

func (u *Union) ID() ID { return u.id }

func (u *Union) WriteBfr(b *bfr.Ctx) error {
	b.WriteString("union ")
	if err := b.Quote(u.Name); err != nil {
		return err
	}
	b.WriteString(" {")
	for i, m := range u.Members {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("name:")
		if err := b.Quote(m.Name); err != nil {
			return err
		}
		b.WriteString(" typ:")
		if err := writeRef(b, m.Schema); err != nil {
			return err
		}
	}
	return b.WriteByte('}')
}

// Enum is the by-reference schema for a closed set of named members. Its
// ordered, unique (case-insensitively) member names are its entire content.
type Enum struct {
	id      ID
	Name    string
	Members []string
}

func (*Enum) isSchema() {}

// NewEnum allocates an empty Enum placeholder with an already-assigned id.
func NewEnum(id ID, name string) *Enum { return &Enum{id: id, Name: name} }

func (e *Enum) ID() ID { return e.id }

func (e *Enum) WriteBfr(b *bfr.Ctx) error {
	b.WriteString("enum ")
	if err := b.Quote(e.Name); err != nil {
		return err
	}
	b.WriteString(" [")
	for i, m := range e.Members {
		if i > 0 {
			b.WriteByte(',')
		}
		if err := b.Quote(m); err != nil {
			return err
		}
	}
	return b.WriteByte(']')
}

// writeRef writes s's canonical form, but for a by-reference schema that has
// already been assigned an id it writes only "ref(#id)" instead of
// recursing into the body. This keeps canonical text finite for cyclic
// schema graphs, mirroring the "Contract=#id" shorthand used by the XML
// form (§6.3).
func writeRef(b *bfr.Ctx, s Schema) error {
	switch v := s.(type) {
	case *Complex:
		if v.id != "" {
			return b.Fmt("ref(#%s)", string(v.id))
		}
	case *Union:
		if v.id != "" {
			return b.Fmt("ref(#%s)", string(v.id))
		}
	case *Enum:
		if v.id != "" {
			return b.Fmt("ref(#%s)", string(v.id))
		}
	}
	return s.WriteBfr(b)
}

// Text returns s's canonical textual form.
func Text(s Schema) string { return bfr.String(s) }

// foldLess is the ordinal, locale-independent, ASCII-only case-insensitive
// comparator required by §9: an ASCII lowercase fold, never Unicode
// casefolding, to match the case-insensitive lexicographic ordering that
// makes the Complex read path and the compatibility engine's merge-walk
// linear time.
func foldLess(a, b string) bool { return foldKey(a) < foldKey(b) }

func foldEqual(a, b string) bool { return foldKey(a) == foldKey(b) }

func foldKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// sortFields orders fields case-insensitively by name, as required for
// every Complex schema (§3.2, §8 "Field ordering").
func sortFields(fields []Field) {
	sort.SliceStable(fields, func(i, j int) bool {
		return foldLess(fields[i].Name, fields[j].Name)
	})
}

// sortMembers orders union members case-insensitively by name (§3.3).
func sortMembers(members []Member) {
	sort.SliceStable(members, func(i, j int) bool {
		return foldLess(members[i].Name, members[j].Name)
	})
}

// sortEnumMembers orders enum members case-insensitively.
func sortEnumMembers(members []string) {
	sort.SliceStable(members, func(i, j int) bool {
		return foldLess(members[i], members[j])
	})
}
