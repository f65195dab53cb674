package api

import (
	"github.com/golang/glog"

	"github.com/mqy/minisync/data"
	"github.com/mqy/minisync/event"
	"github.com/mqy/minisync/rpc"
	"github.com/mqy/minisync/tl"
)

type BoostStatus struct {
	Link                    string
	Mine                    bool
	Level                   int
	BoostCount              int
	CurrentLevelBoostCount  int
	NextLevelBoostCount     int
	PremiumMemberCount      int
	PremiumMemberPercentage float64
}

type BoostUpdate struct {
	ChatID int64
	Status BoostStatus
}

// ParseBoostStatus clamps the level at zero and never reports fewer boosts
// than the current level needs.
func ParseBoostStatus(s *tl.ChatBoostStatus) BoostStatus {
	out := BoostStatus{
		Link:                    s.BoostURL,
		Mine:                    len(s.AppliedSlotIDs) > 0,
		Level:                   int(s.Level),
		BoostCount:              int(s.BoostCount),
		CurrentLevelBoostCount:  int(s.CurrentLevelBoostCount),
		NextLevelBoostCount:     int(s.NextLevelBoostCount),
		PremiumMemberCount:      int(s.PremiumMemberCount),
		PremiumMemberPercentage: s.PremiumMemberPercentage,
	}
	if out.Level < 0 {
		out.Level = 0
	}
	if out.BoostCount < out.CurrentLevelBoostCount {
		out.BoostCount = out.CurrentLevelBoostCount
	}
	return out
}

// Boosts fetches the boost status of channels. Concurrent requests for one
// chat share a single server request.
type Boosts struct {
	sender rpc.ISender
	store  *data.Store

	waiters map[int64][]func(BoostStatus, error)
	cache   map[int64]BoostStatus
	changes event.Stream[BoostUpdate]
}

func NewBoosts(sender rpc.ISender, store *data.Store) *Boosts {
	return &Boosts{
		sender:  sender,
		store:   store,
		waiters: make(map[int64][]func(BoostStatus, error)),
		cache:   make(map[int64]BoostStatus),
	}
}

func (b *Boosts) Request(chatID int64, done func(BoostStatus, error)) {
	if !b.isChannel(chatID) {
		if done != nil {
			done(BoostStatus{}, ErrNotSupported)
		}
		return
	}
	if list, ok := b.waiters[chatID]; ok {
		b.waiters[chatID] = append(list, done)
		return
	}
	b.waiters[chatID] = []func(BoostStatus, error){done}

	finish := func(s BoostStatus, err error) {
		list := b.waiters[chatID]
		delete(b.waiters, chatID)
		for _, w := range list {
			if w != nil {
				w(s, err)
			}
		}
	}
	fail := func(e *tl.Error) {
		glog.Warningf("boosts: status of %d: %v", chatID, e)
		finish(BoostStatus{}, asError(e))
	}
	b.sender.Send(&tl.GetChatBoostStatus{ChatID: chatID}, rpc.Expect(func(r *tl.ChatBoostStatus) {
		s := ParseBoostStatus(r)
		if old, ok := b.cache[chatID]; !ok || old != s {
			b.cache[chatID] = s
			fired("boosts")
			b.changes.Fire(BoostUpdate{ChatID: chatID, Status: s})
		}
		finish(s, nil)
	}, fail), fail)
}

func (b *Boosts) isChannel(chatID int64) bool {
	c := b.store.Chat(chatID)
	if c == nil || !c.IsSupergroup() {
		return false
	}
	sg := b.store.Supergroup(c.Type.SupergroupID)
	return sg != nil && sg.IsChannel
}

// Changes fires when a fetched status differs from the cached one.
func (b *Boosts) Changes() *event.Stream[BoostUpdate] { return &b.changes }

// Status returns the last status fetched for chatID.
func (b *Boosts) Status(chatID int64) (BoostStatus, bool) {
	s, ok := b.cache[chatID]
	return s, ok
}
