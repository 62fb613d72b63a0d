// Released under an MIT license. See LICENSE.

// Package remote resolves hashes against a store on another host.
//
// Requests and replies are JSON text messages over a websocket:
//
//	{"hash": "<hex>"}
//	{"hash": "<hex>", "encoding": "<base64>"}
//	{"hash": "<hex>", "error": "<text>"}
package remote

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/type/ref"
	"github.com/michaelmacinnis/softmacs/internal/store"
)

//nolint:gochecknoglobals
var (
	// ErrClosed is returned by a Client that can no longer be used.
	ErrClosed = errors.New("connection closed")

	// ErrMismatch is returned when a reply is for a different hash.
	ErrMismatch = errors.New("reply for a different hash")

	// ErrNotFound is the error text for hashes the server does not hold.
	ErrNotFound = errors.New("not found")
)

type request struct {
	Hash string `json:"hash"`
}

type reply struct {
	Hash     string `json:"hash"`
	Encoding []byte `json:"encoding,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Client is a connection to a remote store. It is safe for concurrent use;
// requests are sent one at a time. A connection that fails, or is left
// in an unknown state by a cancelled request, is dropped and the next
// request dials again.
type Client struct {
	sync.Mutex
	closed bool
	conn   *websocket.Conn
	url    string
}

// Dial connects to the store served at url.
func Dial(ctx context.Context, url string) (*Client, error) {
	c := &Client{url: url}

	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	c.Lock()
	defer c.Unlock()

	c.closed = true

	if c.conn == nil {
		return nil
	}

	err := c.conn.Close()
	c.conn = nil

	return err
}

// Resolve asks the remote store for the term with hash h.
func (c *Client) Resolve(ctx context.Context, h ref.Hash) (cell.I, error) {
	c.Lock()
	defer c.Unlock()

	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	deadline, _ := ctx.Deadline()

	_ = c.conn.SetWriteDeadline(deadline)
	_ = c.conn.SetReadDeadline(deadline)

	conn := c.conn
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	err := c.conn.WriteJSON(request{Hash: h.String()})
	if err != nil {
		return nil, c.fail(ctx, err)
	}

	var r reply

	err = c.conn.ReadJSON(&r)
	if err != nil {
		return nil, c.fail(ctx, err)
	}

	if r.Hash != h.String() {
		return nil, c.fail(ctx, ErrMismatch)
	}

	switch r.Error {
	case "":
	case ErrNotFound.Error():
		return nil, ErrNotFound
	default:
		return nil, errors.New(r.Error) //nolint:goerr113
	}

	return store.Decode(r.Encoding)
}

func (c *Client) connect(ctx context.Context) error {
	if c.closed {
		return ErrClosed
	}

	if c.conn != nil {
		return nil
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}

	c.conn = conn

	return nil
}

// fail drops the connection. A websocket connection cannot be used after a
// failed read or write, and after a mismatch the replies are out of step.
func (c *Client) fail(ctx context.Context, err error) error {
	_ = c.conn.Close()
	c.conn = nil

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return err
}

// Handler returns a websocket handler that answers requests from the
// entries held locally by s.
func Handler(s *store.Store) http.Handler {
	upgrader := websocket.Upgrader{}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)

			return
		}
		defer conn.Close()

		slog.Debug("connected", "remote", r.RemoteAddr)

		for {
			var q request

			if err := conn.ReadJSON(&q); err != nil {
				slog.Debug("disconnected", "remote", r.RemoteAddr, "error", err)

				return
			}

			if err := conn.WriteJSON(answer(s, q)); err != nil {
				slog.Debug("write failed", "remote", r.RemoteAddr, "error", err)

				return
			}
		}
	})
}

func answer(s *store.Store, q request) reply {
	h, err := ref.Parse(q.Hash)
	if err != nil {
		return reply{Hash: q.Hash, Error: err.Error()}
	}

	e, ok := s.Lookup(h)
	if !ok {
		return reply{Hash: q.Hash, Error: ErrNotFound.Error()}
	}

	return reply{Hash: q.Hash, Encoding: e.Encoding}
}

// A compiler-checked list of interfaces this type satisfies. Never called.
func implements() { //nolint:deadcode,unused
	var t Client

	// The Client type is a resolver.
	_ = store.Resolver(&t)
}
