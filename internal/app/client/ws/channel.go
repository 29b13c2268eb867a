// Package ws keeps the notification WebSocket of one client instance.
//
// A Channel owns at most one live connection and fans incoming messages out
// to any number of listeners. It never reconnects on its own: after the
// connection drops the caller decides whether to Connect again.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"

	"cattus/internal/domain/shelter"
)

const (
	NotificationsPath = "/ws/notifications"
	handshakeTimeout  = 10 * time.Second
	closeWait         = time.Second
)

// Message is one frame pushed by the server.
type Message struct {
	Type int
	Data []byte
}

// Notification decodes the frame as a notification, accepting both a bare
// object and {"type": ..., "data": {...}}.
func (m Message) Notification() (shelter.Notification, error) {
	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	payload := m.Data
	if err := json.Unmarshal(m.Data, &wrapped); err == nil && len(wrapped.Data) > 0 && wrapped.Data[0] == '{' {
		payload = wrapped.Data
	}

	var n shelter.Notification
	if err := json.Unmarshal(payload, &n); err != nil {
		return shelter.Notification{}, fmt.Errorf("decode notification: %w", err)
	}
	return n, nil
}

type Listener func(Message)

// ErrClosed is returned by a Connect whose dial was overtaken by Close.
var ErrClosed = errors.New("notifications channel closed")

type dialAttempt struct {
	done chan struct{}
	err  error
}

type Channel struct {
	baseURL string
	dialer  *websocket.Dialer
	log     *slog.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	closed    chan struct{}
	dial      *dialAttempt
	epoch     uint64
	listeners map[uint64]Listener
	nextID    uint64
}

// New prepares a channel against the ws(s) base URL of the API.
func New(baseURL string, log *slog.Logger) *Channel {
	return &Channel{
		baseURL: baseURL,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		},
		log:       log.With(slog.String("component", "ws_channel")),
		listeners: make(map[uint64]Listener),
	}
}

// URL is the notifications endpoint for token.
func (c *Channel) URL(token string) string {
	return c.baseURL + NotificationsPath + "?token=" + url.QueryEscape(token)
}

// Connect opens the connection. While a connection is live or being dialed
// it returns without opening another one.
func (c *Channel) Connect(ctx context.Context, token string) error {
	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return nil
	}
	if d := c.dial; d != nil {
		c.mu.Unlock()
		select {
		case <-d.done:
			return d.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	d := &dialAttempt{done: make(chan struct{})}
	c.dial = d
	epoch := c.epoch
	c.mu.Unlock()

	conn, resp, err := c.dialer.DialContext(ctx, c.URL(token), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	c.mu.Lock()
	c.dial = nil
	if err != nil {
		c.mu.Unlock()
		d.err = fmt.Errorf("dial notifications: %w", err)
		close(d.done)
		c.log.Error("[WS] Erro", slog.String("error", err.Error()))
		return d.err
	}
	if c.epoch != epoch {
		c.mu.Unlock()
		d.err = ErrClosed
		close(d.done)
		_ = conn.Close()
		c.log.Debug("[WS] dial finished after close, dropping connection")
		return d.err
	}
	closed := make(chan struct{})
	c.conn = conn
	c.closed = closed
	c.mu.Unlock()
	close(d.done)

	c.log.Info("[WS] Conectado ao servidor")
	go c.readLoop(conn, closed)
	return nil
}

func (c *Channel) readLoop(conn *websocket.Conn, closed chan struct{}) {
	defer close(closed)
	defer func() {
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		c.mu.Unlock()
		_ = conn.Close()
		c.log.Info("[WS] Conexão encerrada")
	}()

	for {
		typ, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("[WS] Erro", slog.String("error", err.Error()))
			}
			return
		}
		c.dispatch(Message{Type: typ, Data: data})
	}
}

func (c *Channel) dispatch(m Message) {
	c.mu.Lock()
	ls := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		ls = append(ls, l)
	}
	c.mu.Unlock()

	for _, l := range ls {
		l(m)
	}
}

// AddListener registers l and returns the function that removes it.
func (c *Channel) AddListener(l Listener) (remove func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Done is closed when the current connection ends. Without a connection it
// is already closed.
func (c *Channel) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return c.closed
}

// Close drops the connection and every listener. A dial still in flight
// ends with ErrClosed and its connection is discarded.
func (c *Channel) Close() error {
	c.mu.Lock()
	conn, closed := c.conn, c.closed
	c.conn = nil
	c.epoch++
	c.listeners = make(map[uint64]Listener)
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWait))
	err := conn.Close()

	select {
	case <-closed:
	case <-time.After(closeWait):
	}
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("close notifications: %w", err)
	}
	return nil
}
