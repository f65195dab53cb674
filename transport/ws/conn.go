// Package ws carries channel frames over a websocket.
package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/mqy/minisync/auth"
	"github.com/mqy/minisync/rpc"
)

const (
	// Time allowed to write a frame to the peer.
	defaultWriteWait = 3 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	defaultPingPeriod = 20 * time.Second

	// Time allowed to read the next pong message from the peer.
	defaultPongWait = 25 * time.Second

	// Largest frame accepted from the peer.
	defaultReadLimit = 4 << 20
)

type Config struct {
	URL        string
	WriteWait  time.Duration
	PingPeriod time.Duration
	PongWait   time.Duration
	ReadLimit  int64
}

func (c Config) withDefaults() Config {
	if c.WriteWait <= 0 {
		c.WriteWait = defaultWriteWait
	}
	if c.PingPeriod <= 0 {
		c.PingPeriod = defaultPingPeriod
	}
	if c.PongWait <= c.PingPeriod {
		c.PongWait = c.PingPeriod + c.PingPeriod/4
	}
	if c.ReadLimit <= 0 {
		c.ReadLimit = defaultReadLimit
	}
	return c
}

// Conn implements rpc.IConn. A ping goroutine keeps the connection alive
// until Close.
type Conn struct {
	cfg  Config
	conn *websocket.Conn

	writeMu   sync.Mutex
	closeOnce sync.Once
	stopC     chan struct{}
}

var _ rpc.IConn = (*Conn)(nil)

// Dial connects to cfg.URL, sending the credentials of creds as headers.
func Dial(ctx context.Context, cfg Config, creds auth.Client) (*Conn, error) {
	header, err := auth.Header(ctx, creds)
	if err != nil {
		return nil, err
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, cfg.URL, header)
	if err != nil {
		if resp != nil {
			return nil, errors.Wrapf(err, "dial %s: status %d", cfg.URL, resp.StatusCode)
		}
		return nil, errors.Wrapf(err, "dial %s", cfg.URL)
	}
	glog.Infof("ws: connected to %s", cfg.URL)
	return newConn(conn, cfg), nil
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Accept upgrades an incoming request to a Conn. It is the server side of
// the channel, used by development servers and tests.
func Accept(w http.ResponseWriter, r *http.Request, cfg Config) (*Conn, error) {
	// If the upgrade fails, Upgrade replies to the client with an HTTP error.
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, errors.Wrap(err, "upgrade")
	}
	return newConn(conn, cfg), nil
}

func newConn(conn *websocket.Conn, cfg Config) *Conn {
	c := &Conn{cfg: cfg.withDefaults(), conn: conn, stopC: make(chan struct{})}
	conn.SetReadLimit(c.cfg.ReadLimit)
	conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})
	go c.pingLoop()
	return c
}

func (c *Conn) pingLoop() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopC:
			return
		case <-ticker.C:
			deadline := time.Now().Add(c.cfg.WriteWait)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				glog.Errorf("ws: ping: %v", err)
				c.Close()
				return
			}
		}
	}
}

// Read returns the next data frame. Cancelling ctx interrupts it.
func (c *Conn) Read(ctx context.Context) ([]byte, error) {
	stop := context.AfterFunc(ctx, func() {
		c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		typ, data, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, errors.Wrap(err, "ws read")
		}
		// Any frame proves the peer is alive.
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		if typ != websocket.TextMessage && typ != websocket.BinaryMessage {
			glog.Warningf("ws: skip message type %d", typ)
			continue
		}
		glog.V(5).Infof("ws: <- %d bytes", len(data))
		return data, nil
	}
}

func (c *Conn) Write(ctx context.Context, frame []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Now().Add(c.cfg.WriteWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return errors.Wrap(err, "ws write")
	}
	return nil
}

// Close sends a close frame and closes the socket. Calling it again is a
// no-op.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.stopC)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.cfg.WriteWait))
		err = c.conn.Close()
	})
	return err
}
