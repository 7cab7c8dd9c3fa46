package wirenet

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/drewnoakes/msgpack-strict/log"
)

// TokenProvider supplies authentication headers for a Client's dial and
// clears cached credentials on a failed dial, mirroring the source
// repository's hub/wshub.TokenProvider.
type TokenProvider interface {
	Token(url string) (http.Header, error)
	ClearToken(url string) error
}

// Client dials a Serve endpoint and relays messages between it and a local
// route channel.
type Client struct {
	url  string
	id   int64
	send chan *Msg
	*websocket.Dialer
	TokenProvider
	Log log.Logger
}

// NewClient returns a Client that will dial url on Connect.
func NewClient(url string) *Client {
	return &Client{url: url, id: NextID(), send: make(chan *Msg, 32)}
}

func (c *Client) ID() int64         { return c.id }
func (c *Client) Chan() chan<- *Msg { return c.send }

// Connect dials the server, signs on with route, and relays messages until
// the connection drops or the server closes it, then signs off.
func (c *Client) Connect(route chan<- *Msg) error {
	c.init()
	hdr, err := c.Token(c.url)
	if err != nil {
		return err
	}
	wc, _, err := c.Dial(c.url, hdr)
	if err != nil {
		c.ClearToken(c.url)
		return err
	}
	cc := newConn(c.id, wc, c.send)
	route <- &Msg{From: c, Subj: SubjSignon}
	go writeLoopClient(cc, c.Log)
	err = cc.readAll(route)
	route <- &Msg{From: c, Subj: SubjSignoff}
	return err
}

func writeLoopClient(c *conn, logger log.Logger) {
	defer c.wc.Close()
	for m := range c.send {
		if m == nil {
			break
		}
		if err := c.writeMsg(m); err != nil {
			logger.Error("wirenet client write failed", "err", err)
			return
		}
	}
}

func (c *Client) init() {
	if c.Dialer == nil {
		c.Dialer = websocket.DefaultDialer
	}
	if c.Log == nil {
		c.Log = log.Root
	}
	if c.TokenProvider == nil {
		c.TokenProvider = (*nilProvider)(nil)
	}
}

type nilProvider struct{}

func (*nilProvider) Token(string) (http.Header, error) { return nil, nil }
func (*nilProvider) ClearToken(string) error           { return nil }
