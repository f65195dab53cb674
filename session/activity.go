package session

import (
	"time"

	"github.com/mqy/minisync/loop"
)

// Activity is the local activity source of a headless session: the window
// is active until SetActiveWindow(false) and the user was last seen at the
// latest Touch. Use it on the event loop only.
type Activity struct {
	sched  loop.Scheduler
	last   time.Time
	active bool
}

func NewActivity(sched loop.Scheduler) *Activity {
	return &Activity{sched: sched, last: sched.Now(), active: true}
}

func (a *Activity) Touch() { a.last = a.sched.Now() }

func (a *Activity) SetActiveWindow(active bool) { a.active = active }

func (a *Activity) LastNonIdle() time.Time { return a.last }

func (a *Activity) HasActiveWindow() bool { return a.active }
