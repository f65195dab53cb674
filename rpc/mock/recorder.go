package mock_rpc

import (
	gomock "github.com/golang/mock/gomock"

	"github.com/mqy/minisync/rpc"
	"github.com/mqy/minisync/tl"
)

// Call is one request captured by a Recorder.
type Call struct {
	ID   rpc.RequestID
	Fn   tl.Function
	done rpc.DoneFunc
	fail rpc.FailFunc
}

func (c *Call) Reply(obj tl.Object) {
	if c.done != nil {
		c.done(obj)
	}
}

func (c *Call) Fail(e *tl.Error) {
	if c.fail != nil {
		c.fail(e)
	}
}

// Recorder answers Send and Cancel on a MockISender and keeps the calls so
// tests can reply to them in any order.
type Recorder struct {
	Calls     []*Call
	Cancelled []rpc.RequestID
	lastID    rpc.RequestID
}

func Record(m *MockISender) *Recorder {
	r := &Recorder{}
	m.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(fn tl.Function, done rpc.DoneFunc, fail rpc.FailFunc) rpc.RequestID {
			r.lastID++
			r.Calls = append(r.Calls, &Call{ID: r.lastID, Fn: fn, done: done, fail: fail})
			return r.lastID
		}).AnyTimes()
	m.EXPECT().Cancel(gomock.Any()).DoAndReturn(func(id rpc.RequestID) {
		r.Cancelled = append(r.Cancelled, id)
	}).AnyTimes()
	return r
}

// Of returns the calls of one function type in send order.
func (r *Recorder) Of(typeName string) []*Call {
	var out []*Call
	for _, c := range r.Calls {
		if c.Fn.TypeName() == typeName {
			out = append(out, c)
		}
	}
	return out
}

func (r *Recorder) Last() *Call {
	if len(r.Calls) == 0 {
		return nil
	}
	return r.Calls[len(r.Calls)-1]
}

func (r *Recorder) Reset() {
	r.Calls = nil
	r.Cancelled = nil
}
