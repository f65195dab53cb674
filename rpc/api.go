// Package rpc is the channel to the remote session: typed requests with
// correlated responses plus a push stream of updates.
package rpc

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"github.com/mqy/minisync/tl"
)

type RequestID uint64

type DoneFunc func(tl.Object)
type FailFunc func(*tl.Error)

// ISender issues requests. Exactly one of done or fail is called, on the
// event loop, unless the request was cancelled. Either may be nil. Neither
// runs before Send returned.
type ISender interface {
	Send(fn tl.Function, done DoneFunc, fail FailFunc) RequestID
	Cancel(id RequestID)
}

// IConn is a framed, bidirectional transport. Read and Write may be called
// concurrently with each other but not with themselves.
type IConn interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, frame []byte) error
	Close() error
}

// CodeTransport marks errors produced locally when the transport failed.
const CodeTransport = -1

func TransportError(err error) *tl.Error {
	return &tl.Error{Code: CodeTransport, Message: "transport: " + err.Error()}
}

func IsTransport(e *tl.Error) bool {
	return e != nil && e.Code == CodeTransport
}

type Kind int

const (
	KindDomain Kind = iota
	KindTransport
	KindFlood
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindFlood:
		return "flood"
	}
	return "domain"
}

func Classify(e *tl.Error) Kind {
	switch {
	case IsTransport(e):
		return KindTransport
	case e.Code == 429:
		return KindFlood
	}
	return KindDomain
}

var retryAfterRe = regexp.MustCompile(`retry after (\d+)`)

// RetryAfter extracts the wait from a flood error such as
// "Too Many Requests: retry after 12".
func RetryAfter(e *tl.Error) (time.Duration, bool) {
	if e == nil || e.Code != 429 {
		return 0, false
	}
	m := retryAfterRe.FindStringSubmatch(e.Message)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return time.Duration(n) * time.Second, true
}

// Expect adapts a typed callback to DoneFunc. A response of another type is
// reported through fail.
func Expect[T tl.Object](done func(T), fail FailFunc) DoneFunc {
	return func(obj tl.Object) {
		v, ok := obj.(T)
		if !ok {
			if fail != nil {
				fail(&tl.Error{Code: 500, Message: "UNEXPECTED_RESPONSE_" + obj.TypeName()})
			}
			return
		}
		if done != nil {
			done(v)
		}
	}
}
