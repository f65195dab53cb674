package rpc

import "github.com/mqy/minisync/tl"

// Scoped forwards to a parent sender and remembers what it issued. Destroy
// cancels every outstanding request; callbacks arriving later are dropped.
type Scoped struct {
	parent   ISender
	inflight map[RequestID]struct{}
	dead     bool
}

func NewScoped(parent ISender) *Scoped {
	return &Scoped{parent: parent, inflight: make(map[RequestID]struct{})}
}

func (s *Scoped) Send(fn tl.Function, done DoneFunc, fail FailFunc) RequestID {
	if s.dead {
		return 0
	}
	var (
		id       RequestID
		finished bool
	)
	finish := func() bool {
		if s.dead {
			return false
		}
		finished = true
		delete(s.inflight, id)
		return true
	}
	id = s.parent.Send(fn, func(obj tl.Object) {
		if finish() && done != nil {
			done(obj)
		}
	}, func(e *tl.Error) {
		if finish() && fail != nil {
			fail(e)
		}
	})
	if !finished {
		s.inflight[id] = struct{}{}
	}
	return id
}

func (s *Scoped) Cancel(id RequestID) {
	if _, ok := s.inflight[id]; !ok {
		return
	}
	delete(s.inflight, id)
	s.parent.Cancel(id)
}

func (s *Scoped) Destroy() {
	if s.dead {
		return
	}
	s.dead = true
	for id := range s.inflight {
		s.parent.Cancel(id)
	}
	s.inflight = nil
}

func (s *Scoped) Inflight() int { return len(s.inflight) }
