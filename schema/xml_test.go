package schema_test

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drewnoakes/msgpack-strict/provider"
	. "github.com/drewnoakes/msgpack-strict/schema"
)

func roundTripXML(t *testing.T, s Schema) Schema {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, EncodeXML(&buf, s))
	got, err := DecodeXML(&buf)
	require.NoError(t, err)
	return got
}

func TestXMLRoundTripPrimitive(t *testing.T) {
	got := roundTripXML(t, &Primitive{Kind: KindFloat64})
	require.True(t, Equal(&Primitive{Kind: KindFloat64}, got))
}

func TestXMLRoundTripNestedShapes(t *testing.T) {
	s := &Nullable{Elem: &Mapping{
		Key:   &Primitive{Kind: KindString},
		Value: &Sequence{Elem: &Primitive{Kind: KindInt32}},
	}}
	got := roundTripXML(t, s)
	require.True(t, Equal(s, got))
}

func TestXMLRoundTripComplexWithDefault(t *testing.T) {
	c := NewComplex("t1", "Person")
	c.Fields = []Field{
		{Name: "age", Schema: &Primitive{Kind: KindInt32}, HasDefault: true},
		{Name: "name", Schema: &Primitive{Kind: KindString}},
	}
	got := roundTripXML(t, c)
	require.True(t, Equal(c, got))
	gc := got.(*Complex)
	require.Len(t, gc.Fields, 2)
	for _, f := range gc.Fields {
		if f.Name == "age" {
			require.True(t, f.HasDefault)
		}
	}
}

func TestXMLRoundTripCyclicComplex(t *testing.T) {
	node := NewComplex("t1", "Node")
	node.Fields = []Field{{Name: "next", Schema: &Nullable{Elem: node}}}

	got := roundTripXML(t, node)
	require.True(t, Equal(node, got))

	gc := got.(*Complex)
	inner := gc.Fields[0].Schema.(*Nullable).Elem
	require.Same(t, gc, inner)
}

func TestXMLRoundTripUnionAndEnum(t *testing.T) {
	u := NewUnion("t1", "Shape")
	u.Members = []Member{
		{Name: "Circle", Schema: &Primitive{Kind: KindFloat64}},
		{Name: "Square", Schema: &Primitive{Kind: KindFloat64}},
	}
	got := roundTripXML(t, u)
	require.True(t, Equal(u, got))

	e := NewEnum("t2", "Color")
	e.Members = []string{"Blue", "Green", "Red"}
	gotEnum := roundTripXML(t, e)
	require.True(t, Equal(e, gotEnum))
}

type xmlFixture struct {
	Name string
	Next *xmlFixture
}

func TestCollectionToXMLAndFromXMLRoots(t *testing.T) {
	reg := provider.NewRegistry(
		provider.Nullable{}, provider.Primitive{}, provider.Complex{},
	)
	col := NewCollection(reg.SchemaProviders()...)
	_, err := col.GetOrAddWriteSchema(reflect.TypeOf(xmlFixture{}))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, col.ToXML(&buf))

	// The collection also caches an entry for the *xmlFixture pointer type
	// (Nullable wrapping the same Complex), so more than one <Root> can
	// appear; find the one that is the Complex itself.
	roots, err := FromXMLRoots(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.NotEmpty(t, roots)

	var found *Complex
	for _, r := range roots {
		require.True(t, r.Write)
		if cx, ok := r.Schema.(*Complex); ok {
			found = cx
		}
	}
	require.NotNil(t, found)
	require.Len(t, found.Fields, 2)
}
