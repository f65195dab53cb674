package rpc

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/mqy/minisync/loop"
	"github.com/mqy/minisync/metrics"
	"github.com/mqy/minisync/tl"
)

const sendQueueSize = 1024

var (
	ErrClosed    = errors.New("rpc: client closed")
	errQueueFull = errors.New("rpc: send queue full")
)

type pending struct {
	method string
	done   DoneFunc
	fail   FailFunc
}

type outFrame struct {
	id   RequestID
	data []byte
}

// Client correlates requests with responses over an IConn and routes pushes
// to onUpdate. Send and Cancel must be called from the event loop; every
// callback runs there too.
type Client struct {
	conn     IConn
	sched    loop.Scheduler
	onUpdate func(tl.Update)

	lastID  uint64
	pending map[RequestID]*pending
	closed  bool

	sendC    chan outFrame
	stopOnce sync.Once
	stopC    chan struct{}
}

func NewClient(conn IConn, sched loop.Scheduler, onUpdate func(tl.Update)) *Client {
	return &Client{
		conn:     conn,
		sched:    sched,
		onUpdate: onUpdate,
		pending:  make(map[RequestID]*pending),
		sendC:    make(chan outFrame, sendQueueSize),
		stopC:    make(chan struct{}),
	}
}

func (c *Client) Send(fn tl.Function, done DoneFunc, fail FailFunc) RequestID {
	id := RequestID(atomic.AddUint64(&c.lastID, 1))
	method := fn.TypeName()

	if c.closed {
		c.failLater(id, method, fail, TransportError(ErrClosed))
		return id
	}

	data, err := tl.Marshal(fn, uint64(id))
	if err != nil {
		glog.Errorf("rpc: marshal %s: %v", method, err)
		c.failLater(id, method, fail, &tl.Error{Code: 400, Message: "MARSHAL_FAILED"})
		return id
	}

	c.pending[id] = &pending{method: method, done: done, fail: fail}
	metrics.PendingRequests.Inc()

	select {
	case c.sendC <- outFrame{id: id, data: data}:
		glog.V(5).Infof("rpc: -> #%d %s", id, method)
	default:
		glog.Warningf("rpc: send queue full, fail #%d %s", id, method)
		c.sched.Post(func() { c.resolveError(id, TransportError(errQueueFull)) })
	}
	return id
}

// Cancel drops the callbacks of id. The request itself may still reach the
// server.
func (c *Client) Cancel(id RequestID) {
	if p, ok := c.pending[id]; ok {
		delete(c.pending, id)
		metrics.PendingRequests.Dec()
		metrics.Requests.WithLabelValues(p.method, metrics.ResultCancelled).Inc()
	}
}

// Pending returns the number of requests waiting for a response.
func (c *Client) Pending() int { return len(c.pending) }

func (c *Client) failLater(id RequestID, method string, fail FailFunc, e *tl.Error) {
	metrics.Requests.WithLabelValues(method, metrics.ResultTransport).Inc()
	if fail == nil {
		return
	}
	c.sched.Post(func() { fail(e) })
}

// Run pumps frames until ctx is done or the connection fails. On return every
// pending request has failed with a transport error.
func (c *Client) Run(ctx context.Context) error {
	glog.Info("rpc client: enter")
	defer glog.Info("rpc client: exit")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errC := make(chan error, 2)
	go func() { errC <- c.sendLoop(ctx) }()
	go func() { errC <- c.recvLoop(ctx) }()

	err := <-errC
	cancel()
	_ = c.conn.Close()
	<-errC

	if err == nil {
		err = ctx.Err()
	}
	c.sched.Post(func() { c.failAll(err) })
	return err
}

// Stop closes the client without waiting for the loops.
func (c *Client) Stop() {
	c.stopOnce.Do(func() { close(c.stopC) })
}

func (c *Client) sendLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.stopC:
			return ErrClosed
		case f := <-c.sendC:
			if err := c.conn.Write(ctx, f.data); err != nil {
				glog.Errorf("rpc: write #%d: %v", f.id, err)
				id := f.id
				c.sched.Post(func() { c.resolveError(id, TransportError(err)) })
				return err
			}
		}
	}
}

func (c *Client) recvLoop(ctx context.Context) error {
	for {
		data, err := c.conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			glog.Errorf("rpc: read: %v", err)
			return err
		}
		c.dispatch(data)
	}
}

func (c *Client) dispatch(data []byte) {
	obj, extra, hasExtra, err := tl.Decode(data)
	if hasExtra {
		id := RequestID(extra)
		if err != nil {
			glog.Errorf("rpc: bad response #%d: %v", id, err)
			c.sched.Post(func() {
				c.resolveError(id, &tl.Error{Code: 500, Message: "BAD_RESPONSE"})
			})
			return
		}
		c.sched.Post(func() { c.resolve(id, obj) })
		return
	}

	if err != nil {
		reason := metrics.DropMalformed
		if errors.Is(err, tl.ErrUnknownType) {
			reason = metrics.DropUnknownType
		}
		metrics.UpdatesDropped.WithLabelValues(reason).Inc()
		glog.Warningf("rpc: drop push: %v", err)
		return
	}
	u, ok := obj.(tl.Update)
	if !ok {
		metrics.UpdatesDropped.WithLabelValues(metrics.DropUnexpected).Inc()
		glog.Warningf("rpc: drop push of non-update %s", obj.TypeName())
		return
	}
	c.sched.Post(func() { c.onUpdate(u) })
}

func (c *Client) resolve(id RequestID, obj tl.Object) {
	if e, ok := obj.(*tl.Error); ok {
		c.resolveError(id, e)
		return
	}
	p, ok := c.pending[id]
	if !ok {
		glog.V(5).Infof("rpc: <- #%d %s (no waiter)", id, obj.TypeName())
		return
	}
	delete(c.pending, id)
	metrics.PendingRequests.Dec()
	metrics.Requests.WithLabelValues(p.method, metrics.ResultOk).Inc()
	glog.V(5).Infof("rpc: <- #%d %s", id, obj.TypeName())
	if p.done != nil {
		p.done(obj)
	}
}

func (c *Client) resolveError(id RequestID, e *tl.Error) {
	p, ok := c.pending[id]
	if !ok {
		return
	}
	delete(c.pending, id)
	metrics.PendingRequests.Dec()
	result := metrics.ResultError
	if IsTransport(e) {
		result = metrics.ResultTransport
	}
	metrics.Requests.WithLabelValues(p.method, result).Inc()
	glog.V(5).Infof("rpc: <- #%d %s failed: %v", id, p.method, e)
	if p.fail != nil {
		p.fail(e)
	}
}

func (c *Client) failAll(err error) {
	c.closed = true
	if err == nil {
		err = ErrClosed
	}
	e := TransportError(err)
	for id := range c.pending {
		c.resolveError(id, e)
	}
}
