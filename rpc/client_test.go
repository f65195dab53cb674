package rpc_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqy/minisync/loop"
	"github.com/mqy/minisync/rpc"
	rpc_mock "github.com/mqy/minisync/rpc/mock"
	"github.com/mqy/minisync/tl"
)

type pipeConn struct {
	in     chan []byte
	out    chan []byte
	closed chan struct{}
	once   sync.Once
}

func newPipeConn() *pipeConn {
	return &pipeConn{
		in:     make(chan []byte, 16),
		out:    make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (p *pipeConn) Read(ctx context.Context) ([]byte, error) {
	select {
	case data := <-p.in:
		return data, nil
	case <-p.closed:
		return nil, errors.New("closed")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *pipeConn) Write(ctx context.Context, frame []byte) error {
	select {
	case p.out <- frame:
		return nil
	case <-p.closed:
		return errors.New("closed")
	}
}

func (p *pipeConn) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

func extraOf(t *testing.T, frame []byte) uint64 {
	var h struct {
		Extra uint64 `json:"@extra"`
	}
	require.NoError(t, json.Unmarshal(frame, &h))
	return h.Extra
}

func readFrame(t *testing.T, p *pipeConn) []byte {
	select {
	case f := <-p.out:
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("no frame written")
	}
	return nil
}

func TestClientCorrelation(t *testing.T) {
	l := loop.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	conn := newPipeConn()
	updates := make(chan tl.Update, 4)
	c := rpc.NewClient(conn, l, func(u tl.Update) { updates <- u })
	go c.Run(ctx)

	results := make(chan string, 4)
	require.NoError(t, loop.Call(ctx, l, func() {
		c.Send(&tl.GetPasswordState{}, func(obj tl.Object) {
			results <- "state:" + fmt.Sprint(obj.(*tl.PasswordState).HasPassword)
		}, func(e *tl.Error) { results <- "fail" })
		c.Send(&tl.GetBusinessChatLinks{}, func(tl.Object) { results <- "links" },
			func(e *tl.Error) { results <- "err:" + e.Message })
	}))

	first := extraOf(t, readFrame(t, conn))
	second := extraOf(t, readFrame(t, conn))

	// answer out of order, with a push in between
	conn.in <- []byte(fmt.Sprintf(`{"@type":"error","code":400,"message":"NOPE","@extra":%d}`, second))
	conn.in <- []byte(`{"@type":"updateChatTitle","chat_id":1,"title":"x"}`)
	conn.in <- []byte(`{"@type":"updateFromTheFuture"}`)
	conn.in <- []byte(fmt.Sprintf(`{"@type":"passwordState","has_password":true,"@extra":%d}`, first))

	assert.Equal(t, "err:NOPE", <-results)
	assert.Equal(t, "state:true", <-results)

	u := <-updates
	assert.Equal(t, &tl.UpdateChatTitle{ChatID: 1, Title: "x"}, u)

	var pending int
	require.NoError(t, loop.Call(ctx, l, func() { pending = c.Pending() }))
	assert.Equal(t, 0, pending)
}

func TestClientTransportFailure(t *testing.T) {
	l := loop.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	conn := newPipeConn()
	c := rpc.NewClient(conn, l, func(tl.Update) {})
	runDone := make(chan error, 1)
	go func() { runDone <- c.Run(ctx) }()

	fails := make(chan *tl.Error, 4)
	var cancelled rpc.RequestID
	require.NoError(t, loop.Call(ctx, l, func() {
		c.Send(&tl.GetPasswordState{}, nil, func(e *tl.Error) { fails <- e })
		cancelled = c.Send(&tl.GetPasswordState{}, nil, func(e *tl.Error) { fails <- e })
		c.Cancel(cancelled)
	}))
	readFrame(t, conn)
	readFrame(t, conn)

	_ = conn.Close()
	<-runDone

	e := <-fails
	assert.True(t, rpc.IsTransport(e))
	assert.Equal(t, rpc.KindTransport, rpc.Classify(e))
	select {
	case <-fails:
		t.Fatal("cancelled request called back")
	case <-time.After(50 * time.Millisecond):
	}

	// sending on a closed client still fails through the callback
	require.NoError(t, loop.Call(ctx, l, func() {
		c.Send(&tl.GetPasswordState{}, nil, func(e *tl.Error) { fails <- e })
	}))
	assert.True(t, rpc.IsTransport(<-fails))
}

func TestRetryAfter(t *testing.T) {
	d, ok := rpc.RetryAfter(&tl.Error{Code: 429, Message: "Too Many Requests: retry after 12"})
	assert.True(t, ok)
	assert.Equal(t, 12*time.Second, d)
	assert.Equal(t, rpc.KindFlood, rpc.Classify(&tl.Error{Code: 429}))

	_, ok = rpc.RetryAfter(&tl.Error{Code: 400, Message: "retry after 3"})
	assert.False(t, ok)
}

func TestExpect(t *testing.T) {
	var got *tl.PasswordState
	var failed *tl.Error
	done := rpc.Expect(func(s *tl.PasswordState) { got = s }, func(e *tl.Error) { failed = e })

	done(&tl.PasswordState{HasPassword: true})
	assert.True(t, got.HasPassword)

	done(&tl.Ok{})
	require.NotNil(t, failed)
	assert.Equal(t, "UNEXPECTED_RESPONSE_ok", failed.Message)
}

func TestScoped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	parent := rpc_mock.NewMockISender(ctrl)
	rec := rpc_mock.Record(parent)

	s := rpc.NewScoped(parent)
	var calls []string
	s.Send(&tl.GetPasswordState{}, func(tl.Object) { calls = append(calls, "a") }, nil)
	s.Send(&tl.GetBusinessChatLinks{}, func(tl.Object) { calls = append(calls, "b") }, nil)
	assert.Equal(t, 2, s.Inflight())

	rec.Calls[0].Reply(&tl.PasswordState{})
	assert.Equal(t, []string{"a"}, calls)
	assert.Equal(t, 1, s.Inflight())

	s.Destroy()
	assert.Equal(t, []rpc.RequestID{rec.Calls[1].ID}, rec.Cancelled)

	rec.Calls[1].Reply(&tl.BusinessChatLinks{})
	assert.Equal(t, []string{"a"}, calls)
	assert.Equal(t, rpc.RequestID(0), s.Send(&tl.GetPasswordState{}, nil, nil))
	assert.Len(t, rec.Calls, 2)
}

func TestClientQueueFullFailsLater(t *testing.T) {
	m := loop.NewManual(time.Unix(1700000000, 0))
	// not running, so nothing drains the send queue
	c := rpc.NewClient(newPipeConn(), m, func(tl.Update) {})

	for i := 0; i < 1024; i++ {
		c.Send(&tl.GetPasswordState{}, nil, nil)
	}
	var failed *tl.Error
	var inFlight bool
	c.Send(&tl.GetPasswordState{}, nil, func(e *tl.Error) {
		assert.True(t, inFlight, "fail ran before Send returned")
		failed = e
	})
	inFlight = true
	assert.Nil(t, failed)
	assert.Equal(t, 1025, c.Pending())

	m.RunPending()
	require.NotNil(t, failed)
	assert.True(t, rpc.IsTransport(failed))
	assert.Equal(t, 1024, c.Pending())
}
