package data

import (
	"time"

	"github.com/golang/glog"

	"github.com/mqy/minisync/tl"
)

// A user reported online till some moment is flipped offline locally when
// that moment passes without a newer status from the server.

func isOnlineTill(st tl.UserStatus, now int32) bool {
	return st.Type == tl.UserStatusOnline && st.Expires > now
}

// WatchForOffline starts or moves the offline watch of u to its current
// online expiry. Users that are not online drop their watch.
func (s *Store) WatchForOffline(u *User) {
	if !isOnlineTill(u.Status, s.Now()) {
		s.MaybeStopWatchForOffline(u)
		return
	}
	if s.offlineWatch[u.ID] == u.Status.Expires {
		return
	}
	s.offlineWatch[u.ID] = u.Status.Expires
	s.scheduleOfflineCheck()
}

// MaybeStopWatchForOffline drops the watch of u unless u is still online.
func (s *Store) MaybeStopWatchForOffline(u *User) {
	if isOnlineTill(u.Status, s.Now()) {
		return
	}
	if _, ok := s.offlineWatch[u.ID]; !ok {
		return
	}
	delete(s.offlineWatch, u.ID)
	s.scheduleOfflineCheck()
}

func (s *Store) WatchingForOffline(userID int64) bool {
	_, ok := s.offlineWatch[userID]
	return ok
}

func (s *Store) scheduleOfflineCheck() {
	var next int32
	for _, till := range s.offlineWatch {
		if next == 0 || till < next {
			next = till
		}
	}
	if next == 0 {
		s.offlineTimer.Cancel()
		return
	}
	d := time.Unix(int64(next), 0).Sub(s.sched.Now())
	if d < 0 {
		d = 0
	}
	s.offlineTimer.CallOnce(d)
}

func (s *Store) checkWentOffline() {
	now := s.Now()
	n := 0
	for id, till := range s.offlineWatch {
		if till > now {
			continue
		}
		delete(s.offlineWatch, id)
		u := s.users[id]
		if u == nil || u.Status.Type != tl.UserStatusOnline || u.Status.Expires != till {
			continue
		}
		u.Status = tl.UserStatus{Type: tl.UserStatusOffline, WasOnline: till}
		s.changes.PeerUpdated(id, PeerOnlineStatus)
		n++
	}
	if n > 0 {
		glog.V(5).Infof("store: %d users went offline", n)
		s.changes.Schedule()
	}
	s.scheduleOfflineCheck()
}
