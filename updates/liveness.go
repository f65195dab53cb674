package updates

import (
	"time"

	"github.com/golang/glog"

	"github.com/mqy/minisync/data"
	"github.com/mqy/minisync/event"
	"github.com/mqy/minisync/loop"
	"github.com/mqy/minisync/rpc"
	"github.com/mqy/minisync/tl"
)

const (
	OptionOnlineUpdatePeriod = "online_update_period_ms"
	OptionOfflineIdleTimeout = "offline_idle_timeout_ms"
)

// IActivity reports local user activity.
type IActivity interface {
	LastNonIdle() time.Time
	HasActiveWindow() bool
}

type LivenessConfig struct {
	OnlineUpdatePeriod time.Duration
	OfflineIdleTimeout time.Duration
	IdleCheckPeriod    time.Duration
}

func DefaultLivenessConfig() LivenessConfig {
	return LivenessConfig{
		OnlineUpdatePeriod: 120 * time.Second,
		OfflineIdleTimeout: 30 * time.Second,
		IdleCheckPeriod:    900 * time.Millisecond,
	}
}

// Liveness keeps the server-side online status of the session in line with
// local activity.
type Liveness struct {
	sched    loop.Scheduler
	sender   rpc.ISender
	store    *data.Store
	activity IActivity
	conf     LivenessConfig

	isIdle        *event.Value[bool]
	lastWasOnline bool
	lastSetOnline time.Time
	onlineTimer   *loop.OnceTimer
	idleTimer     *loop.OnceTimer

	quitting    bool
	quitDone    func()
	wentOffline event.Stream[struct{}]
}

func NewLiveness(sched loop.Scheduler, sender rpc.ISender, store *data.Store, activity IActivity, conf LivenessConfig) *Liveness {
	l := &Liveness{
		sched:    sched,
		sender:   sender,
		store:    store,
		activity: activity,
		conf:     conf,
		isIdle:   event.NewValue(false),
	}
	l.onlineTimer = loop.NewOnceTimer(sched, func() { l.UpdateOnline(time.Time{}) })
	l.idleTimer = loop.NewOnceTimer(sched, func() { l.CheckIdleFinish(time.Time{}) })
	return l
}

func (l *Liveness) IsIdle() *event.Value[bool] { return l.isIdle }

func (l *Liveness) LastWasOnline() bool { return l.lastWasOnline }

func (l *Liveness) LastSetOnline() time.Time { return l.lastSetOnline }

// OnWentOffline registers fn to run every time the session reports itself
// offline.
func (l *Liveness) OnWentOffline(fn func()) event.Unsubscribe {
	return l.wentOffline.Subscribe(func(struct{}) { fn() })
}

// UpdateOnline recomputes the online status. A zero lastNonIdle asks the
// activity source.
func (l *Liveness) UpdateOnline(lastNonIdle time.Time) {
	l.updateOnline(lastNonIdle, false)
}

func (l *Liveness) updateOnline(lastNonIdle time.Time, gotOtherOffline bool) {
	if lastNonIdle.IsZero() {
		lastNonIdle = l.activity.LastNonIdle()
	}
	now := l.sched.Now()
	period := l.conf.OnlineUpdatePeriod
	updateIn := period

	isOnline := !l.quitting && l.activity.HasActiveWindow()
	if isOnline {
		idle := now.Sub(lastNonIdle)
		if idle >= l.conf.OfflineIdleTimeout {
			isOnline = false
			if !l.isIdle.Current() {
				l.isIdle.Set(true)
				l.idleTimer.CallOnce(l.conf.IdleCheckPeriod)
			}
		} else if left := l.conf.OfflineIdleTimeout - idle; left < updateIn {
			updateIn = left
		}
	}

	if isOnline != l.lastWasOnline ||
		(isOnline && !l.lastSetOnline.Add(period).After(now)) ||
		(isOnline && gotOtherOffline) {
		l.lastWasOnline = isOnline
		l.lastSetOnline = now
		l.sendStatus(isOnline)
		l.setSelfStatus(isOnline, now)
		if !isOnline {
			if self := l.store.User(l.store.SelfID()); self != nil {
				l.store.MaybeStopWatchForOffline(self)
			}
			l.wentOffline.Fire(struct{}{})
		}
	} else if isOnline {
		if left := l.lastSetOnline.Add(period).Sub(now); left < updateIn {
			updateIn = left
		}
	}
	l.onlineTimer.CallOnce(updateIn)
}

func (l *Liveness) sendStatus(online bool) {
	glog.V(3).Infof("liveness: online=%v quitting=%v", online, l.quitting)
	fn := &tl.SetOption{Name: "online", Value: tl.BoolOption(online)}
	if !l.quitting {
		l.sender.Send(fn, nil, nil)
		return
	}
	finish := func() {
		if done := l.quitDone; done != nil {
			l.quitDone = nil
			done()
		}
	}
	l.sender.Send(fn, func(tl.Object) { finish() }, func(*tl.Error) { finish() })
}

func (l *Liveness) setSelfStatus(online bool, now time.Time) {
	self := l.store.User(l.store.SelfID())
	if self == nil {
		return
	}
	status := tl.UserStatus{Type: tl.UserStatusOffline, WasOnline: int32(now.Unix())}
	if online {
		status = tl.UserStatus{
			Type:    tl.UserStatusOnline,
			Expires: int32(now.Add(l.conf.OnlineUpdatePeriod).Unix()),
		}
	}
	if self.SetStatus(status) {
		l.store.Changes().PeerUpdated(self.ID, data.PeerOnlineStatus)
		l.store.Changes().Schedule()
		if online {
			l.store.WatchForOffline(self)
		}
	}
}

// CheckIdleFinish leaves the idle state once activity resumed, and polls
// again otherwise.
func (l *Liveness) CheckIdleFinish(lastNonIdle time.Time) {
	if lastNonIdle.IsZero() {
		lastNonIdle = l.activity.LastNonIdle()
	}
	if l.sched.Now().Sub(lastNonIdle) < l.conf.OfflineIdleTimeout {
		l.UpdateOnline(lastNonIdle)
		l.idleTimer.Cancel()
		l.isIdle.SetIfChanged(false, boolEq)
		return
	}
	l.idleTimer.CallOnce(l.conf.IdleCheckPeriod)
}

// OtherOffline handles another session of the same account reporting the
// self user offline while this one considers itself online.
func (l *Liveness) OtherOffline() {
	if l.lastWasOnline {
		l.updateOnline(time.Time{}, true)
	}
}

// IsQuitPrevent reports whether shutdown must wait: when the session is still
// online it sends the offline status and calls done once it round-tripped.
func (l *Liveness) IsQuitPrevent(done func()) bool {
	if !l.lastWasOnline {
		return false
	}
	glog.Infof("liveness: prevent quit, sending offline status")
	l.quitting = true
	l.quitDone = done
	l.UpdateOnline(l.sched.Now())
	l.Stop()
	return true
}

// ApplyOption takes the server-tuned liveness periods.
func (l *Liveness) ApplyOption(name string, v tl.OptionValue) bool {
	var d time.Duration
	switch name {
	case OptionOnlineUpdatePeriod, OptionOfflineIdleTimeout:
		d = time.Duration(v.Int()) * time.Millisecond
		if d <= 0 {
			return true
		}
	default:
		return false
	}
	if name == OptionOnlineUpdatePeriod {
		l.conf.OnlineUpdatePeriod = d
	} else {
		l.conf.OfflineIdleTimeout = d
	}
	return true
}

func (l *Liveness) Stop() {
	l.onlineTimer.Cancel()
	l.idleTimer.Cancel()
}

func boolEq(a, b bool) bool { return a == b }
