// Package websocket provides a network byte transport over a binary
// websocket stream. One Conn carries one codec pair; callers serialise
// access the same way they would for a file.
package websocket

import (
	"bufio"
	"context"
	"net"
	"net/http"

	"nhooyr.io/websocket"
)

// Conn is a Sink and a Source over a websocket connection. Writes are
// buffered until Flush; each Flush sends at least one binary message.
type Conn struct {
	nc net.Conn
	w  *bufio.Writer
	r  *bufio.Reader
}

func newConn(ctx context.Context, ws *websocket.Conn) *Conn {
	nc := websocket.NetConn(ctx, ws, websocket.MessageBinary)
	return &Conn{nc: nc, w: bufio.NewWriter(nc), r: bufio.NewReader(nc)}
}

// Dial connects to a websocket server. ctx bounds the lifetime of the
// connection, not only the handshake.
func Dial(ctx context.Context, url string) (*Conn, error) {
	ws, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return newConn(ctx, ws), nil
}

// Accept upgrades an HTTP request to a websocket transport.
func Accept(w http.ResponseWriter, r *http.Request) (*Conn, error) {
	ws, err := websocket.Accept(w, r, nil)
	if err != nil {
		return nil, err
	}
	return newConn(r.Context(), ws), nil
}

func (c *Conn) WriteByte(b byte) error { return c.w.WriteByte(b) }

func (c *Conn) ReadByte() (byte, error) { return c.r.ReadByte() }

// Flush sends buffered bytes to the peer.
func (c *Conn) Flush() error { return c.w.Flush() }

// Close flushes pending bytes and closes the connection normally.
func (c *Conn) Close() error {
	ferr := c.w.Flush()
	cerr := c.nc.Close()
	if ferr != nil {
		return ferr
	}
	return cerr
}
