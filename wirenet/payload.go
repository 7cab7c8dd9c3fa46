package wirenet

import (
	"bytes"

	"github.com/drewnoakes/msgpack-strict/serde"
)

// Send serialises value with s and delivers it as subj on conn's channel,
// so callers exchange typed values without touching Msg.Raw directly.
func Send[T any](conn Conn, s *serde.Serialiser[T], subj string, tok []byte, value T) error {
	var buf bytes.Buffer
	if err := s.Serialise(&buf, value); err != nil {
		return err
	}
	conn.Chan() <- &Msg{From: conn, Subj: subj, Tok: tok, Raw: buf.Bytes()}
	return nil
}

// Payload decodes m.Raw with d, the receiving side of Send.
func Payload[T any](d *serde.Deserialiser[T], m *Msg) (T, error) {
	return d.Deserialise(bytes.NewReader(m.Raw))
}
