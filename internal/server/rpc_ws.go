package server

import (
	"context"
	"net/http"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
)

// wsChannel carries JSON-RPC messages over one WebSocket connection, one
// message per frame.
type wsChannel struct {
	conn *cws.Conn
	ctx  context.Context
}

func (c *wsChannel) Send(data []byte) error {
	return c.conn.Write(c.ctx, cws.MessageText, data)
}

func (c *wsChannel) Recv() ([]byte, error) {
	_, data, err := c.conn.Read(c.ctx)
	return data, err
}

func (c *wsChannel) Close() error {
	return c.conn.Close(cws.StatusNormalClosure, "")
}

// serveWS upgrades the request and serves the cookie methods on the
// connection until the peer goes away. Every connection gets its own jrpc2
// server; they all share the jar lock.
func (rs *RPCServer) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, nil)
	if err != nil {
		rs.log.Warning("rpc: websocket upgrade failed: %v", err)
		return
	}
	ch := &wsChannel{conn: conn, ctx: r.Context()}
	srv := jrpc2.NewServer(rs.methods, nil).Start(ch)
	rs.log.Debug("rpc: websocket client connected from %s", r.RemoteAddr)
	if err := srv.Wait(); err != nil {
		rs.log.Debug("rpc: websocket client %s disconnected: %v", r.RemoteAddr, err)
	}
}
