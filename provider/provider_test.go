package provider_test

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drewnoakes/msgpack-strict/provider"
	"github.com/drewnoakes/msgpack-strict/wire"
)

func defaultRegistry() *provider.Registry {
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

func TestRegistryWriteReadPrimitive(t *testing.T) {
	reg := defaultRegistry()
	var buf bytes.Buffer
	require.NoError(t, reg.Write(wire.NewWriter(&buf), reflect.ValueOf(int32(42))))

	rc := &provider.ReadContext{Registry: reg}
	v, err := reg.Read(rc, wire.NewReader(&buf), reflect.TypeOf(int32(0)))
	require.NoError(t, err)
	require.Equal(t, int32(42), v.Interface())
}

func TestRegistryUnsupportedTypeErrors(t *testing.T) {
	reg := defaultRegistry()
	var buf bytes.Buffer
	err := reg.Write(wire.NewWriter(&buf), reflect.ValueOf(make(chan int)))
	require.Error(t, err)
}

func TestRegistryPointerRoundTripsThroughNullable(t *testing.T) {
	reg := defaultRegistry()
	var buf bytes.Buffer
	n := int32(7)
	require.NoError(t, reg.Write(wire.NewWriter(&buf), reflect.ValueOf(&n)))

	rc := &provider.ReadContext{Registry: reg}
	v, err := reg.Read(rc, wire.NewReader(&buf), reflect.TypeOf(&n))
	require.NoError(t, err)
	require.Equal(t, int32(7), v.Elem().Interface())
}

type triStateColor int

func (triStateColor) EnumMembers() []string { return []string{"On", "Off", "Unknown"} }

func TestEnumProviderTakesPriorityOverPrimitiveForIntegerUnderlyingType(t *testing.T) {
	reg := defaultRegistry()
	var buf bytes.Buffer
	require.NoError(t, reg.Write(wire.NewWriter(&buf), reflect.ValueOf(triStateColor(1))))

	// Enum writes the member name as a text string; a plain Primitive would
	// have written the raw integer instead.
	r := wire.NewReader(&buf)
	s, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "Off", s)
}

func TestNullableClaimsPointerTypesBeforeDereferenceFallback(t *testing.T) {
	require.True(t, provider.Nullable{}.CanProvide(reflect.TypeOf((*int32)(nil))))
}

type emptyThing struct{}

func (emptyThing) IsEmptySchema() {}

func TestEmptyIgnoresMapContents(t *testing.T) {
	reg := defaultRegistry()
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	// hand-write a non-empty map where an Empty value is expected
	require.NoError(t, w.WriteMapHeader(1))
	require.NoError(t, w.WriteString("ignored"))
	require.NoError(t, w.WriteScalar(int64(1)))

	rc := &provider.ReadContext{Registry: reg}
	v, err := reg.Read(rc, wire.NewReader(&buf), reflect.TypeOf(emptyThing{}))
	require.NoError(t, err)
	require.Equal(t, emptyThing{}, v.Interface())
}
