package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/drewnoakes/msgpack-strict/schema"
)

func TestTextPrimitive(t *testing.T) {
	require.Equal(t, "int32", Text(&Primitive{Kind: KindInt32}))
}

func TestTextNullableAndSequence(t *testing.T) {
	s := &Nullable{Elem: &Sequence{Elem: &Primitive{Kind: KindString}}}
	require.Equal(t, "nullable(seq(string))", Text(s))
}

func TestTextTupleAndMapping(t *testing.T) {
	tp := &Tuple{Elems: []Schema{&Primitive{Kind: KindInt64}, &Primitive{Kind: KindString}}}
	require.Equal(t, "tuple(int64,string)", Text(tp))

	m := &Mapping{Key: &Primitive{Kind: KindString}, Value: &Primitive{Kind: KindBool}}
	require.Equal(t, "map(string,bool)", Text(m))
}

func TestTextEmpty(t *testing.T) {
	require.Equal(t, "empty", Text(&Empty{}))
}

func TestComplexCanonicalTextIsFieldOrderIndependent(t *testing.T) {
	c := NewComplex("t1", "Point")
	c.Fields = []Field{
		{Name: "y", Schema: &Primitive{Kind: KindInt32}},
		{Name: "x", Schema: &Primitive{Kind: KindInt32}},
	}
	got := Text(c)
	require.Contains(t, got, `name:'x'`)
	require.Contains(t, got, `name:'y'`)
	// Text writes fields in their stored order; Finish sorts them, so the
	// same fields declared in either order finish to the same canonical text.
	other := NewComplex("t1", "Point")
	other.Fields = []Field{
		{Name: "x", Schema: &Primitive{Kind: KindInt32}},
		{Name: "y", Schema: &Primitive{Kind: KindInt32}},
	}
	a, err := NewCollection().Finish("Point", c)
	require.NoError(t, err)
	b, err := NewCollection().Finish("Point", other)
	require.NoError(t, err)
	require.Equal(t, Text(a), Text(b))
}

func TestCyclicComplexTextIsFinite(t *testing.T) {
	// A self-referential Complex: Node { next: Node }.
	c := NewComplex("t1", "Node")
	c.Fields = []Field{{Name: "next", Schema: &Nullable{Elem: c}}}
	got := Text(c)
	require.Contains(t, got, "ref(#t1)")
}

func TestFinishSortsFieldsAndRejectsDuplicates(t *testing.T) {
	c := NewComplex("t1", "Point")
	c.Fields = []Field{
		{Name: "y", Schema: &Primitive{Kind: KindInt32}},
		{Name: "x", Schema: &Primitive{Kind: KindInt32}},
	}
	col := NewCollection()
	out, err := col.Finish("Point", c)
	require.NoError(t, err)
	got := out.(*Complex)
	require.Equal(t, "x", got.Fields[0].Name)
	require.Equal(t, "y", got.Fields[1].Name)

	dup := NewComplex("t2", "Dup")
	dup.Fields = []Field{
		{Name: "X", Schema: &Primitive{Kind: KindInt32}},
		{Name: "x", Schema: &Primitive{Kind: KindInt32}},
	}
	_, err = col.Finish("Dup", dup)
	require.Error(t, err)
}

func TestCopyToPreservesSharingAndCycles(t *testing.T) {
	src := NewCollection()
	node := NewComplex("t1", "Node")
	node.Fields = []Field{{Name: "next", Schema: &Nullable{Elem: node}}}
	if _, err := src.Finish("Node", node); err != nil {
		t.Fatal(err)
	}

	dst := NewCollection()
	copied := CopyTo(dst, node)
	require.True(t, Equal(node, copied))

	cx := copied.(*Complex)
	inner := cx.Fields[0].Schema.(*Nullable).Elem
	require.Same(t, cx, inner, "self-reference must remain shared after copy")
}
