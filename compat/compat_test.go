package compat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drewnoakes/msgpack-strict/compat"
	. "github.com/drewnoakes/msgpack-strict/schema"
)

func p(k Kind) *Primitive { return &Primitive{Kind: k} }

func TestPrimitiveExactMatch(t *testing.T) {
	require.True(t, compat.CanReadFrom(p(KindInt32), p(KindInt32), true))
	require.True(t, compat.CanReadFrom(p(KindInt32), p(KindInt32), false))
}

func TestPrimitiveWideningOnlyRelaxed(t *testing.T) {
	require.False(t, compat.CanReadFrom(p(KindInt64), p(KindInt32), true))
	require.True(t, compat.CanReadFrom(p(KindInt64), p(KindInt32), false))
	// narrowing is never permitted, in either mode
	require.False(t, compat.CanReadFrom(p(KindInt32), p(KindInt64), false))
}

func TestPrimitiveKindMismatchAlwaysFails(t *testing.T) {
	require.False(t, compat.CanReadFrom(p(KindString), p(KindInt32), false))
}

func TestNullableAsymmetry(t *testing.T) {
	nInt := &Nullable{Elem: p(KindInt32)}
	// a non-nullable writer can always feed a nullable reader
	require.True(t, compat.CanReadFrom(nInt, p(KindInt32), true))
	// but a nullable writer cannot feed a non-nullable reader: it might send null
	require.False(t, compat.CanReadFrom(p(KindInt32), nInt, true))
	// nullable to nullable recurses on the element
	require.True(t, compat.CanReadFrom(nInt, &Nullable{Elem: p(KindInt32)}, true))
}

func TestSequenceAndMapping(t *testing.T) {
	seqInt := &Sequence{Elem: p(KindInt32)}
	require.True(t, compat.CanReadFrom(seqInt, seqInt, true))
	require.False(t, compat.CanReadFrom(seqInt, &Sequence{Elem: p(KindString)}, true))

	mapping := &Mapping{Key: p(KindString), Value: p(KindInt32)}
	require.True(t, compat.CanReadFrom(mapping, mapping, true))
	require.False(t, compat.CanReadFrom(mapping, &Mapping{Key: p(KindString), Value: p(KindString)}, true))
}

func TestTupleArityAndElementwise(t *testing.T) {
	a := &Tuple{Elems: []Schema{p(KindInt32), p(KindString)}}
	b := &Tuple{Elems: []Schema{p(KindInt32), p(KindString)}}
	require.True(t, compat.CanReadFrom(a, b, true))

	short := &Tuple{Elems: []Schema{p(KindInt32)}}
	require.False(t, compat.CanReadFrom(a, short, true))
}

func TestEnumStrictRequiresExactSet(t *testing.T) {
	// members listed in the case-insensitive order Collection.Finish stores
	full := NewEnum("t1", "Color")
	full.Members = []string{"Blue", "Green", "Red"}
	sub := NewEnum("t2", "Color")
	sub.Members = []string{"Green", "Red"}

	// relaxed: reader superset of writer is fine
	require.True(t, compat.CanReadFrom(full, sub, false))
	// strict: member sets must match exactly
	require.False(t, compat.CanReadFrom(full, sub, true))
	// writer with a member the reader lacks always fails
	require.False(t, compat.CanReadFrom(sub, full, false))
}

func TestEnumMemberComparisonIsFold(t *testing.T) {
	a := NewEnum("t1", "Color")
	a.Members = []string{"red", "green"}
	b := NewEnum("t2", "Color")
	b.Members = []string{"RED", "GREEN"}
	require.True(t, compat.CanReadFrom(a, b, true))
}

func TestComplexWriterExtraFieldToleratedOnlyRelaxed(t *testing.T) {
	reader := NewComplex("t1", "Point")
	reader.Fields = []Field{{Name: "x", Schema: p(KindInt32)}}

	writer := NewComplex("t2", "Point")
	writer.Fields = []Field{
		{Name: "x", Schema: p(KindInt32)},
		{Name: "y", Schema: p(KindInt32)},
	}

	require.True(t, compat.CanReadFrom(reader, writer, false))
	require.False(t, compat.CanReadFrom(reader, writer, true))
}

func TestComplexReaderExtraFieldRequiresDefault(t *testing.T) {
	writer := NewComplex("t1", "Point")
	writer.Fields = []Field{{Name: "x", Schema: p(KindInt32)}}

	readerWithDefault := NewComplex("t2", "Point")
	readerWithDefault.Fields = []Field{
		{Name: "x", Schema: p(KindInt32)},
		{Name: "y", Schema: p(KindInt32), HasDefault: true},
	}
	// a default only papers over the gap in relaxed mode; strict forbids
	// using defaults to excuse a field the writer never supplied
	require.True(t, compat.CanReadFrom(readerWithDefault, writer, false))
	require.False(t, compat.CanReadFrom(readerWithDefault, writer, true))

	readerNoDefault := NewComplex("t3", "Point")
	readerNoDefault.Fields = []Field{
		{Name: "x", Schema: p(KindInt32)},
		{Name: "y", Schema: p(KindInt32)},
	}
	require.False(t, compat.CanReadFrom(readerNoDefault, writer, false))
	require.False(t, compat.CanReadFrom(readerNoDefault, writer, true))
}

func TestComplexFieldNameComparisonIsFold(t *testing.T) {
	reader := NewComplex("t1", "Point")
	reader.Fields = []Field{{Name: "X", Schema: p(KindInt32)}}
	writer := NewComplex("t2", "Point")
	writer.Fields = []Field{{Name: "x", Schema: p(KindInt32)}}
	require.True(t, compat.CanReadFrom(reader, writer, true))
}

func TestUnionWriterMemberMissingFromReaderAlwaysFails(t *testing.T) {
	reader := NewUnion("t1", "Shape")
	reader.Members = []Member{{Name: "Circle", Schema: p(KindFloat64)}}

	writer := NewUnion("t2", "Shape")
	writer.Members = []Member{
		{Name: "Circle", Schema: p(KindFloat64)},
		{Name: "Square", Schema: p(KindFloat64)},
	}

	require.False(t, compat.CanReadFrom(reader, writer, false))
	require.False(t, compat.CanReadFrom(reader, writer, true))
}

func TestUnionExtraReaderMembersToleratedOnlyRelaxed(t *testing.T) {
	writer := NewUnion("t1", "Shape")
	writer.Members = []Member{{Name: "Circle", Schema: p(KindFloat64)}}

	reader := NewUnion("t2", "Shape")
	reader.Members = []Member{
		{Name: "Circle", Schema: p(KindFloat64)},
		{Name: "Square", Schema: p(KindFloat64)},
	}

	require.True(t, compat.CanReadFrom(reader, writer, false))
	require.False(t, compat.CanReadFrom(reader, writer, true))
}

func TestEmptyReaderAcceptsEmptyWriterInBothModes(t *testing.T) {
	require.True(t, compat.CanReadFrom(&Empty{}, &Empty{}, false))
	require.True(t, compat.CanReadFrom(&Empty{}, &Empty{}, true))
}

func TestEmptyReaderAcceptsAnyWriterOnlyRelaxed(t *testing.T) {
	c := NewComplex("t1", "Point")

	require.True(t, compat.CanReadFrom(&Empty{}, p(KindInt32), false))
	require.False(t, compat.CanReadFrom(&Empty{}, p(KindInt32), true))

	require.True(t, compat.CanReadFrom(&Empty{}, c, false))
	require.False(t, compat.CanReadFrom(&Empty{}, c, true))
}

func TestNonEmptyReaderRejectsEmptyWriter(t *testing.T) {
	// A non-Empty reader never matches an Empty writer (no exported fields
	// to read the absence of anything into).
	c := NewComplex("t1", "Point")
	c.Fields = []Field{{Name: "x", Schema: p(KindInt32)}}
	require.False(t, compat.CanReadFrom(c, &Empty{}, false))
}

func TestCyclicComplexTerminatesAndMatchesSelf(t *testing.T) {
	node := NewComplex("t1", "Node")
	node.Fields = []Field{{Name: "next", Schema: &Nullable{Elem: node}}}

	require.True(t, compat.CanReadFrom(node, node, true))
}

func TestCyclicComplexDivergingShapesRejected(t *testing.T) {
	reader := NewComplex("t1", "Node")
	reader.Fields = []Field{
		{Name: "next", Schema: &Nullable{Elem: reader}},
		{Name: "value", Schema: p(KindInt32)},
	}

	writer := NewComplex("t2", "Node")
	writer.Fields = []Field{{Name: "next", Schema: &Nullable{Elem: writer}}}

	// reader's extra "value" field has no default: incompatible in both modes
	require.False(t, compat.CanReadFrom(reader, writer, false))
	require.False(t, compat.CanReadFrom(reader, writer, true))
}
