package errs_test

import (
	"io"
	"testing"

	stderrors "errors"

	"github.com/stretchr/testify/require"

	"github.com/drewnoakes/msgpack-strict/errs"
)

func TestNewFormatsMessageWithTarget(t *testing.T) {
	err := errs.New(errs.UnsupportedType, "MyType", "no provider for %s", "MyType")
	require.Equal(t, "UnsupportedType: MyType: no provider for MyType", err.Error())
}

func TestNewFormatsMessageWithoutTarget(t *testing.T) {
	err := errs.New(errs.SchemaInvariantViolation, "", "duplicate field %q", "x")
	require.Equal(t, `SchemaInvariantViolation: duplicate field "x"`, err.Error())
}

func TestWrapPreservesCauseForUnwrap(t *testing.T) {
	err := errs.Wrap(errs.SerialisationFault, "t1", io.ErrUnexpectedEOF, "encode failed")
	require.True(t, stderrors.Is(err, io.ErrUnexpectedEOF))
}

func TestIsMatchesKind(t *testing.T) {
	err := errs.New(errs.DeserialisationFault, "", "bad frame")
	require.True(t, errs.Is(err, errs.DeserialisationFault))
	require.False(t, errs.Is(err, errs.SerialisationFault))
}

func TestIsFalseForForeignError(t *testing.T) {
	require.False(t, errs.Is(io.EOF, errs.DeserialisationFault))
}

func TestKindString(t *testing.T) {
	require.Equal(t, "UnsupportedType", errs.UnsupportedType.String())
	require.Equal(t, "SchemaInvariantViolation", errs.SchemaInvariantViolation.String())
	require.Equal(t, "DeserialisationFault", errs.DeserialisationFault.String())
	require.Equal(t, "SerialisationFault", errs.SerialisationFault.String())
}
