package loop

import (
	"sort"
	"time"
)

// Manual is a deterministic Scheduler for tests. Nothing runs until
// RunPending or Advance is called.
type Manual struct {
	now    time.Time
	posted []func()
	timers []*manualTimer
	seq    uint64
}

func NewManual(now time.Time) *Manual {
	return &Manual{now: now}
}

type manualTimer struct {
	m    *Manual
	at   time.Time
	seq  uint64
	fn   func()
	done bool
}

func (t *manualTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	return true
}

func (m *Manual) Now() time.Time { return m.now }

func (m *Manual) Post(fn func()) { m.posted = append(m.posted, fn) }

func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.seq++
	t := &manualTimer{m: m, at: m.now.Add(d), seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// RunPending runs posted callbacks, including the ones they post, until the
// queue is empty.
func (m *Manual) RunPending() {
	for len(m.posted) > 0 {
		fn := m.posted[0]
		m.posted = m.posted[1:]
		fn()
	}
}

// Advance moves the clock forward by d, firing due timers in deadline order.
// The clock is set to each timer's deadline while it runs.
func (m *Manual) Advance(d time.Duration) {
	end := m.now.Add(d)
	m.RunPending()
	for {
		t := m.nextDue(end)
		if t == nil {
			break
		}
		m.now = t.at
		t.done = true
		t.fn()
		m.RunPending()
	}
	m.now = end
}

// Pending returns the number of live timers.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.timers {
		if !t.done {
			n++
		}
	}
	return n
}

func (m *Manual) nextDue(end time.Time) *manualTimer {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	m.timers = live
	sort.SliceStable(live, func(i, j int) bool {
		if live[i].at.Equal(live[j].at) {
			return live[i].seq < live[j].seq
		}
		return live[i].at.Before(live[j].at)
	})
	if len(live) == 0 || live[0].at.After(end) {
		return nil
	}
	return live[0]
}
