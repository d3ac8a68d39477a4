// Package ws serves interactive widget sessions over websockets. Each
// connection owns one session; frames are JSON {"type","data"} both ways.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 64
)

// Frame is one message in either direction.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Decode unmarshals the frame payload into v. An empty payload leaves v alone.
func (f Frame) Decode(v any) error {
	if len(f.Data) == 0 {
		return nil
	}
	return json.Unmarshal(f.Data, v)
}

// Session handles the inbound frames of one connection.
type Session interface {
	Handle(ctx context.Context, f Frame) error
	// Close stops timers and in-flight work. It is called once, after the
	// read loop ends.
	Close()
}

// Factory builds the session for a freshly upgraded connection. The
// request is the upgrade request, for query parameters and the auth session.
type Factory func(ctx context.Context, r *http.Request, c *Conn) (Session, error)

// Conn is the outbound side of a connection.
type Conn struct {
	ID   string
	conn *websocket.Conn
	send chan []byte
	logr *zap.Logger

	emitMu    sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

// Emit queues a frame without blocking. Frames carry whole snapshots, so when
// the client is not keeping up the oldest queued frame is dropped and the
// newest one always gets through.
func (c *Conn) Emit(typ string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		c.logr.Error("ws frame encode failed", zap.String("type", typ), zap.Error(err))
		return
	}
	b, err := json.Marshal(Frame{Type: typ, Data: raw})
	if err != nil {
		return
	}

	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	for {
		select {
		case <-c.done:
			return
		case c.send <- b:
			return
		default:
		}

		select {
		case <-c.send:
			c.logr.Warn("ws frame dropped", zap.String("queued_for", typ), zap.String("conn_id", c.ID))
		default:
		}
	}
}

// EmitError sends a user-visible error frame.
func (c *Conn) EmitError(message string) {
	c.Emit("error", map[string]string{"message": message})
}

func (c *Conn) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

type Server struct {
	upgrader websocket.Upgrader
	logr     *zap.Logger
}

// NewServer accepts upgrades from the allowed origins; "*" allows any.
func NewServer(allowedOrigins []string, logr *zap.Logger) *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logr: logr,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(allowed, "*") {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if strings.EqualFold(u.Host, r.Host) {
			return true
		}
		return slices.ContainsFunc(allowed, func(a string) bool {
			return strings.EqualFold(strings.TrimRight(strings.TrimSpace(a), "/"), origin)
		})
	}
}

// Handler upgrades the request and runs the session built by factory until
// the client goes away.
func (s *Server) Handler(name string, factory Factory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wsConn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logr.Warn("ws upgrade failed", zap.String("session", name), zap.Error(err))
			return
		}

		c := &Conn{
			ID:   uuid.NewString(),
			conn: wsConn,
			send: make(chan []byte, sendBuffer),
			logr: s.logr,
			done: make(chan struct{}),
		}
		logr := s.logr.With(zap.String("session", name), zap.String("conn_id", c.ID))

		// hijacked connections never see the request context cancelled
		ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
		defer cancel()

		go c.writePump()

		sess, err := factory(ctx, r, c)
		if err != nil {
			logr.Warn("ws session rejected", zap.Error(err))
			c.EmitError(err.Error())
			c.closeAfterFlush()
			return
		}

		logr.Info("ws session opened")
		c.readPump(ctx, sess, logr)
		sess.Close()
		c.close()
		logr.Info("ws session closed")
	}
}

// closeAfterFlush gives the write loop a moment to deliver queued frames.
func (c *Conn) closeAfterFlush() {
	deadline := time.Now().Add(writeWait)
	for len(c.send) > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, ""), time.Now().Add(writeWait))
	c.close()
}

func (c *Conn) readPump(ctx context.Context, sess Session, logr *zap.Logger) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var f Frame
		if err := c.conn.ReadJSON(&f); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				c.EmitError("malformed frame")
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logr.Debug("ws read ended", zap.Error(err))
			}
			return
		}
		if err := sess.Handle(ctx, f); err != nil {
			c.EmitError(err.Error())
		}
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}
