package api

import (
	"github.com/golang/glog"

	"github.com/mqy/minisync/event"
	"github.com/mqy/minisync/metrics"
	"github.com/mqy/minisync/tl"
)

// CallSignal is signaling data the server relayed for a one-to-one call.
type CallSignal struct {
	CallID int32
	Data   []byte
}

// Calls keeps the state of one-to-one calls by id. A call leaves the table
// once it reaches a final state.
type Calls struct {
	calls map[int32]tl.Call

	changes   event.Stream[tl.Call]
	signaling event.Stream[CallSignal]
}

func NewCalls() *Calls {
	return &Calls{calls: make(map[int32]tl.Call)}
}

func isFinalCallState(st tl.CallState) bool {
	return st.Type == tl.CallStateDiscarded || st.Type == tl.CallStateError
}

func (c *Calls) HandleCall(call *tl.Call) {
	old, ok := c.calls[call.ID]
	if ok && old == *call {
		return
	}
	if isFinalCallState(call.State) {
		if !ok {
			// a call we never saw ended, nobody watches it
			return
		}
		delete(c.calls, call.ID)
	} else {
		c.calls[call.ID] = *call
	}
	glog.V(3).Infof("calls: #%d with %d is %s", call.ID, call.UserID, call.State.Type)
	fired("calls")
	c.changes.Fire(*call)
}

// HandleSignalingData routes data to a known call. Data for other ids is
// dropped.
func (c *Calls) HandleSignalingData(callID int32, data []byte) {
	if _, ok := c.calls[callID]; !ok {
		glog.V(5).Infof("calls: drop signaling data of unknown call #%d", callID)
		metrics.UpdatesDropped.WithLabelValues(metrics.DropNoEntity).Inc()
		return
	}
	c.signaling.Fire(CallSignal{CallID: callID, Data: data})
}

func (c *Calls) Call(id int32) (tl.Call, bool) {
	call, ok := c.calls[id]
	return call, ok
}

func (c *Calls) Len() int { return len(c.calls) }

// Clear forgets every call, on logout.
func (c *Calls) Clear() {
	c.calls = make(map[int32]tl.Call)
}

func (c *Calls) Changes() *event.Stream[tl.Call] { return &c.changes }

func (c *Calls) Signaling() *event.Stream[CallSignal] { return &c.signaling }
