package wirenet

import (
	"bytes"
	"io"
	"time"

	"github.com/gorilla/websocket"

	"github.com/drewnoakes/msgpack-strict/errs"
	"github.com/drewnoakes/msgpack-strict/wire"
)

const writeTimeout = 10 * time.Second

// conn adapts a gorilla/websocket connection to Conn, framing each Msg as a
// three-element wire array [subj, tok, raw] rather than the source
// repository's "subj#tok\nbody" text header, since every payload here is
// already msgpack-strict wire bytes rather than JSON.
type conn struct {
	id    int64
	wc    *websocket.Conn
	route chan<- *Msg
	send  chan *Msg
}

func newConn(id int64, wc *websocket.Conn, send chan *Msg) *conn {
	return &conn{id: id, wc: wc, send: send}
}

func (c *conn) ID() int64         { return c.id }
func (c *conn) Chan() chan<- *Msg { return c.send }

func (c *conn) read() error {
	for {
		op, r, err := c.wc.NextReader()
		if err != nil {
			if cerr, ok := err.(*websocket.CloseError); ok &&
				(cerr.Code == websocket.CloseNormalClosure || cerr.Code == websocket.CloseGoingAway) {
				return nil
			}
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil
			}
			return errs.Wrap(errs.SerialisationFault, "", err, "wirenet next reader")
		}
		if op != websocket.BinaryMessage {
			continue
		}
		m, err := readMsg(r)
		if err != nil {
			return err
		}
		m.From = c
		c.route <- m
	}
}

func (c *conn) readAll(route chan<- *Msg) error {
	c.route = route
	return c.read()
}

func readMsg(r io.Reader) (*Msg, error) {
	wr := wire.NewReader(r)
	n, err := wr.ReadArrayHeader()
	if err != nil {
		return nil, errs.Wrap(errs.DeserialisationFault, "", err, "wirenet envelope header")
	}
	if n != 3 {
		return nil, errs.New(errs.DeserialisationFault, "", "wirenet envelope wants 3 elements, got %d", n)
	}
	subj, err := wr.ReadString()
	if err != nil {
		return nil, errs.Wrap(errs.DeserialisationFault, "", err, "wirenet envelope subject")
	}
	var tok, raw []byte
	if err := wr.ReadScalar(&tok); err != nil {
		return nil, errs.Wrap(errs.DeserialisationFault, "", err, "wirenet envelope token")
	}
	if err := wr.ReadScalar(&raw); err != nil {
		return nil, errs.Wrap(errs.DeserialisationFault, "", err, "wirenet envelope body")
	}
	if subj == "" {
		return nil, errs.New(errs.DeserialisationFault, "", "wirenet message without subject")
	}
	return &Msg{Subj: subj, Tok: tok, Raw: raw}, nil
}

func (c *conn) writeMsg(m *Msg) error {
	b, err := encodeMsg(m)
	if err != nil {
		return err
	}
	c.wc.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.wc.WriteMessage(websocket.BinaryMessage, b)
}

func encodeMsg(m *Msg) ([]byte, error) {
	var buf bytes.Buffer
	ww := wire.NewWriter(&buf)
	if err := ww.WriteArrayHeader(3); err != nil {
		return nil, err
	}
	if err := ww.WriteString(m.Subj); err != nil {
		return nil, err
	}
	tok := m.Tok
	if tok == nil {
		tok = []byte{}
	}
	if err := ww.WriteScalar(tok); err != nil {
		return nil, err
	}
	raw := m.Raw
	if raw == nil {
		raw = []byte{}
	}
	if err := ww.WriteScalar(raw); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
