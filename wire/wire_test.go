package wire_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drewnoakes/msgpack-strict/wire"
)

func TestWriteReadArrayHeader(t *testing.T) {
	for _, n := range []int{0, 1, 23, 24, 255, 256, 65535, 65536} {
		var buf bytes.Buffer
		w := wire.NewWriter(&buf)
		require.NoError(t, w.WriteArrayHeader(n))
		got, err := wire.NewReader(&buf).ReadArrayHeader()
		require.NoError(t, err)
		require.Equal(t, n, got)
	}
}

func TestWriteReadMapHeader(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	require.NoError(t, w.WriteMapHeader(3))
	got, err := wire.NewReader(&buf).ReadMapHeader()
	require.NoError(t, err)
	require.Equal(t, 3, got)
}

func TestReadArrayHeaderRejectsWrongMajorType(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, wire.NewWriter(&buf).WriteMapHeader(1))
	_, err := wire.NewReader(&buf).ReadArrayHeader()
	require.Error(t, err)
}

func TestWriteReadString(t *testing.T) {
	for _, s := range []string{"", "x", "a field name", "unicode: éè"} {
		var buf bytes.Buffer
		require.NoError(t, wire.NewWriter(&buf).WriteString(s))
		got, err := wire.NewReader(&buf).ReadString()
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
}

func TestWriteReadScalarRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	require.NoError(t, w.WriteScalar(int64(-42)))
	require.NoError(t, w.WriteScalar(true))
	require.NoError(t, w.WriteScalar(float64(3.5)))

	r := wire.NewReader(&buf)
	var i int64
	require.NoError(t, r.ReadScalar(&i))
	require.Equal(t, int64(-42), i)

	var b bool
	require.NoError(t, r.ReadScalar(&b))
	require.True(t, b)

	var f float64
	require.NoError(t, r.ReadScalar(&f))
	require.Equal(t, 3.5, f)
}

func TestNilMarkerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, wire.NewWriter(&buf).WriteNil())
	isNil, err := wire.NewReader(&buf).PeekNil()
	require.NoError(t, err)
	require.True(t, isNil)
}

func TestPeekNilDoesNotConsumeNonNil(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, wire.NewWriter(&buf).WriteScalar(int64(7)))
	r := wire.NewReader(&buf)
	isNil, err := r.PeekNil()
	require.NoError(t, err)
	require.False(t, isNil)

	var v int64
	require.NoError(t, r.ReadScalar(&v))
	require.Equal(t, int64(7), v)
}

func TestReadRawValueAndSkipValueOnNestedContainers(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	require.NoError(t, w.WriteMapHeader(2))
	require.NoError(t, w.WriteString("a"))
	require.NoError(t, w.WriteArrayHeader(2))
	require.NoError(t, w.WriteScalar(int64(1)))
	require.NoError(t, w.WriteScalar(int64(2)))
	require.NoError(t, w.WriteString("b"))
	require.NoError(t, w.WriteScalar(int64(99)))
	// a trailing scalar item follows the map, to prove skip/raw consumed
	// exactly the map and nothing more.
	require.NoError(t, w.WriteScalar(int64(123)))

	r := wire.NewReader(&buf)
	n, err := r.ReadMapHeader()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	key1, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "a", key1)

	raw, err := r.ReadRawValue()
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	key2, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "b", key2)

	require.NoError(t, r.SkipValue())

	var trailing int64
	require.NoError(t, r.ReadScalar(&trailing))
	require.Equal(t, int64(123), trailing)
}
