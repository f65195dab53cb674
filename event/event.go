// Package event implements broadcast streams for the event loop. None of the
// types are safe for concurrent use; they live on the loop goroutine.
package event

import "sort"

// Unsubscribe detaches a subscriber. Calling it more than once is harmless.
type Unsubscribe func()

// Stream broadcasts values to its current subscribers.
type Stream[T any] struct {
	next uint64
	subs map[uint64]func(T)
}

func (s *Stream[T]) Subscribe(fn func(T)) Unsubscribe {
	if s.subs == nil {
		s.subs = make(map[uint64]func(T))
	}
	s.next++
	id := s.next
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

// Fire delivers v in subscription order. Subscribers added while firing do not
// receive v; subscribers removed while firing are skipped.
func (s *Stream[T]) Fire(v T) {
	if len(s.subs) == 0 {
		return
	}
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if fn, ok := s.subs[id]; ok {
			fn(v)
		}
	}
}

func (s *Stream[T]) Len() int { return len(s.subs) }

// Value is a Stream that remembers the last value. Subscribe replays it.
type Value[T any] struct {
	stream Stream[T]
	cur    T
	set    bool
}

func NewValue[T any](v T) *Value[T] {
	return &Value[T]{cur: v, set: true}
}

// Subscribe calls fn with the current value (if any) and then on every Set.
func (v *Value[T]) Subscribe(fn func(T)) Unsubscribe {
	if v.set {
		fn(v.cur)
	}
	return v.stream.Subscribe(fn)
}

// Changes subscribes to future values only.
func (v *Value[T]) Changes(fn func(T)) Unsubscribe {
	return v.stream.Subscribe(fn)
}

func (v *Value[T]) Set(x T) {
	v.cur, v.set = x, true
	v.stream.Fire(x)
}

// SetIfChanged stores x and fires only when eq reports a difference from the
// current value. Returns whether it fired.
func (v *Value[T]) SetIfChanged(x T, eq func(a, b T) bool) bool {
	if v.set && eq(v.cur, x) {
		return false
	}
	v.Set(x)
	return true
}

func (v *Value[T]) Current() T { return v.cur }

func (v *Value[T]) Has() bool { return v.set }

// Lifetime collects teardown callbacks for one owner.
type Lifetime struct {
	fns  []func()
	dead bool
}

// Add registers fn to run on Destroy. On a destroyed lifetime fn runs at once.
func (l *Lifetime) Add(fn func()) {
	if l.dead {
		fn()
		return
	}
	l.fns = append(l.fns, fn)
}

// Destroy runs the callbacks in reverse order of registration.
func (l *Lifetime) Destroy() {
	if l.dead {
		return
	}
	l.dead = true
	fns := l.fns
	l.fns = nil
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

func (l *Lifetime) Alive() bool { return !l.dead }
