package log

// TB is the subset of *testing.T/B that Testing needs, so tests can pass a
// package that doesn't import "testing" itself where that matters.
type TB interface {
	Errorf(string, ...interface{})
	Fatalf(string, ...interface{})
	Logf(string, ...interface{})
	Helper()
}

// Testing routes log output through a test's t.Logf/Errorf/Fatalf, so
// failures surface at the call site that triggered them and passing runs
// stay quiet under `go test`'s default (non -v) output.
type Testing struct {
	TB
	Default
}

func (l *Testing) Debug(m string, s ...interface{}) {
	l.Helper()
	l.Logf(tfmt("DEB ", m, s, l.Tags))
}
func (l *Testing) Warn(m string, s ...interface{}) {
	l.Helper()
	l.Logf(tfmt("WRN ", m, s, l.Tags))
}
func (l *Testing) Error(m string, s ...interface{}) {
	l.Helper()
	l.Errorf(tfmt("ERR ", m, s, l.Tags))
}
func (l *Testing) Crit(m string, s ...interface{}) {
	l.Helper()
	l.Fatalf(tfmt("CRI", m, s, l.Tags))
}
func (l *Testing) With(tags ...interface{}) Logger {
	return &Testing{l.TB, *l.Default.with(tags...)}
}
