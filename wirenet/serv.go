package wirenet

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/drewnoakes/msgpack-strict/log"
)

// Serve upgrades incoming HTTP requests to websocket connections and relays
// their framed messages through h, mirroring the source repository's
// hub/wshub.Serve.
func Serve(h *Hub, logger log.Logger) http.HandlerFunc {
	if logger == nil {
		logger = log.Root
	}
	upgr := &websocket.Upgrader{}
	return func(w http.ResponseWriter, r *http.Request) {
		wc, err := upgr.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("wirenet upgrade failed", "err", err)
			return
		}
		c := newConn(NextID(), wc, make(chan *Msg, 32))
		h.Signon(c)
		t := time.NewTicker(60 * time.Second)
		defer t.Stop()
		go writeLoop(c, t, logger)
		err = c.readAll(h.Chan())
		h.Signoff(c)
		if err != nil {
			logger.Error("wirenet read failed", "err", err)
		}
	}
}

func writeLoop(c *conn, t *time.Ticker, logger log.Logger) {
	defer c.wc.Close()
Outer:
	for {
		select {
		case m, ok := <-c.send:
			if !ok || m == nil {
				break Outer
			}
			if err := c.writeMsg(m); err != nil {
				logger.Error("wirenet write failed", "err", err)
				return
			}
		case <-t.C:
			c.wc.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.wc.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
	c.wc.SetWriteDeadline(time.Now().Add(writeTimeout))
	c.wc.WriteMessage(websocket.CloseMessage, nil)
}
