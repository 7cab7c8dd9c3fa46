package log_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drewnoakes/msgpack-strict/log"
)

type fakeTB struct {
	logs []string
}

func (f *fakeTB) Errorf(format string, args ...interface{}) { f.logs = append(f.logs, format) }
func (f *fakeTB) Fatalf(format string, args ...interface{}) { f.logs = append(f.logs, format) }
func (f *fakeTB) Logf(format string, args ...interface{})   { f.logs = append(f.logs, format) }
func (f *fakeTB) Helper()                                   {}

func TestTestingLoggerRoutesDebugThroughLogf(t *testing.T) {
	fb := &fakeTB{}
	l := &log.Testing{TB: fb}
	l.Debug("deriving schema", "type", "Point")
	require.Len(t, fb.logs, 1)
	require.Contains(t, fb.logs[0], "deriving schema")
	require.Contains(t, fb.logs[0], "type=Point")
}

func TestTestingLoggerRoutesErrorThroughErrorf(t *testing.T) {
	fb := &fakeTB{}
	l := &log.Testing{TB: fb}
	l.Error("decode failed")
	require.Len(t, fb.logs, 1)
	require.True(t, strings.HasPrefix(fb.logs[0], "ERR "))
}

func TestTestingLoggerWithCarriesTags(t *testing.T) {
	fb := &fakeTB{}
	l := &log.Testing{TB: fb}
	tagged := l.With("component", "compat")
	tagged.Warn("relaxed compatibility used")
	require.Len(t, fb.logs, 1)
	require.Contains(t, fb.logs[0], "component=compat")
}
