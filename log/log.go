// Package log is the library's ambient logging surface, so callers can swap
// in structured sinks (Testing in tests, Default otherwise). Within this
// module only wirenet logs through it (connection failures); schema
// derivation, compatibility checks, CopyTo and the CLI do not use it.
package log

import (
	"fmt"
	"log"
	"strings"
)

var Root Logger = &Default{}

// Fields is a convenience alias for the variadic key/value pairs every
// Logger method accepts: Fields{"type", t.String(), "kind", k}.
type Fields = []interface{}

// Logger is the logger interface. The variadic arguments are key/value
// pairs; the key must be a string and the value should have a meaningful
// string representation.
type Logger interface {
	Debug(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Crit(string, ...interface{})
	With(...interface{}) Logger
}

type Default struct {
	Tags []interface{}
}

func (l *Default) Debug(m string, s ...interface{}) { log.Printf(tfmt("DEB ", m, s, l.Tags)) }
func (l *Default) Warn(m string, s ...interface{})  { log.Printf(tfmt("WRN ", m, s, l.Tags)) }
func (l *Default) Error(m string, s ...interface{}) { log.Printf(tfmt("ERR ", m, s, l.Tags)) }
func (l *Default) Crit(m string, s ...interface{})  { log.Printf(tfmt("CRI ", m, s, l.Tags)) }
func (l *Default) With(tags ...interface{}) Logger {
	return l.with(tags...)
}
func (l *Default) with(tags ...interface{}) *Default {
	t := make([]interface{}, 0, len(tags)+len(l.Tags))
	t = append(t, tags...)
	t = append(t, l.Tags...)
	return &Default{Tags: t}
}

func tfmt(lvl, msg string, all ...[]interface{}) string {
	var b strings.Builder
	b.WriteString(lvl)
	b.WriteString(msg)
	for _, tags := range all {
		for i, v := range tags {
			if i%2 == 0 {
				b.WriteByte(' ')
			} else {
				b.WriteByte('=')
			}
			b.WriteString(fmt.Sprint(v))
		}
	}
	return b.String()
}
