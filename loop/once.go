package loop

import "time"

// OnceTimer is a restartable single-shot timer: CallOnce replaces any
// pending schedule.
type OnceTimer struct {
	s     Scheduler
	fn    func()
	timer Timer
}

func NewOnceTimer(s Scheduler, fn func()) *OnceTimer {
	return &OnceTimer{s: s, fn: fn}
}

func (t *OnceTimer) CallOnce(d time.Duration) {
	t.Cancel()
	var self Timer
	self = t.s.AfterFunc(d, func() {
		if t.timer == self {
			t.timer = nil
		}
		t.fn()
	})
	t.timer = self
}

func (t *OnceTimer) Cancel() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *OnceTimer) Active() bool {
	return t.timer != nil
}
