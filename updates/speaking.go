package updates

import (
	"sort"
	"time"

	"github.com/golang/glog"

	"github.com/mqy/minisync/data"
	"github.com/mqy/minisync/event"
	"github.com/mqy/minisync/metrics"
	"github.com/mqy/minisync/rpc"
	"github.com/mqy/minisync/tl"
)

// Speaking routes "speaking in group call" signals to the call object of the
// chat. Signals that arrive before the call object exists are parked per chat
// and replayed when the chat full info loads.
type Speaking struct {
	store  *data.Store
	sender rpc.ISender

	pending   map[int64]map[int64]time.Time
	requested map[int64]bool
	// unknown participants with a getUser or getChat in flight
	peers map[int64]bool
	unsub     event.Unsubscribe
}

func NewSpeaking(store *data.Store, sender rpc.ISender) *Speaking {
	s := &Speaking{
		store:     store,
		sender:    sender,
		pending:   make(map[int64]map[int64]time.Time),
		requested: make(map[int64]bool),
		peers:     make(map[int64]bool),
	}
	s.unsub = store.Changes().SubscribePeers(s.onPeerUpdate)
	return s
}

func (s *Speaking) Handle(chatID, participantID int64, when time.Time) {
	c := s.store.Chat(chatID)
	if c == nil || (!c.IsBasicGroup() && !c.IsSupergroup()) {
		return
	}
	loaded := s.store.PeerLoaded(participantID)
	if call := s.store.GroupCallForChat(c); call != nil {
		call.ApplyActiveUpdate(participantID, data.LastSpokeTimes{Anything: when, Voice: when}, loaded)
		if !loaded {
			s.requestPeer(participantID)
		}
		return
	}
	if !c.CallActive() {
		glog.V(5).Infof("speaking: chat %d has no call, drop %d", chatID, participantID)
		metrics.UpdatesDropped.WithLabelValues(metrics.DropNoEntity).Inc()
		return
	}
	list := s.pending[chatID]
	if list == nil {
		list = make(map[int64]time.Time)
		s.pending[chatID] = list
	}
	if when.After(list[participantID]) {
		list[participantID] = when
	}
	s.requestFullInfo(c)
}

// Pending returns the parked participant ids of a chat, sorted.
func (s *Speaking) Pending(chatID int64) []int64 {
	list := s.pending[chatID]
	ids := make([]int64, 0, len(list))
	for id := range list {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Speaking) onPeerUpdate(u data.PeerUpdate) {
	if s.peers[u.PeerID] && s.store.PeerLoaded(u.PeerID) {
		delete(s.peers, u.PeerID)
	}
	if u.Flags&data.PeerFullInfo == 0 {
		return
	}
	list, ok := s.pending[u.PeerID]
	if !ok {
		return
	}
	delete(s.pending, u.PeerID)
	call := s.store.GroupCallForChat(s.store.Chat(u.PeerID))
	if call == nil {
		return
	}
	ids := make([]int64, 0, len(list))
	for id := range list {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		when := list[id]
		call.ApplyActiveUpdate(id, data.LastSpokeTimes{Anything: when, Voice: when}, s.store.PeerLoaded(id))
	}
	glog.V(3).Infof("speaking: replayed %d signals in chat %d", len(ids), u.PeerID)
}

func (s *Speaking) requestPeer(peerID int64) {
	if s.peers[peerID] {
		return
	}
	s.peers[peerID] = true
	finish := func(tl.Object) { delete(s.peers, peerID) }
	fail := func(e *tl.Error) {
		glog.Warningf("speaking: load participant %d: %v", peerID, e)
		delete(s.peers, peerID)
	}
	if peerID > 0 {
		s.sender.Send(&tl.GetUser{UserID: peerID}, finish, fail)
		return
	}
	s.sender.Send(&tl.GetChat{ChatID: peerID}, finish, fail)
}

func (s *Speaking) requestFullInfo(c *data.Chat) {
	if s.requested[c.ID] {
		return
	}
	s.requested[c.ID] = true
	chatID := c.ID
	finish := func() { delete(s.requested, chatID) }
	fail := func(e *tl.Error) {
		glog.Warningf("speaking: full info of chat %d: %v", chatID, e)
		finish()
	}
	switch {
	case c.IsSupergroup():
		id := c.Type.SupergroupID
		s.sender.Send(&tl.GetSupergroupFullInfo{SupergroupID: id},
			rpc.Expect(func(fi *tl.SupergroupFullInfo) {
				finish()
				s.store.ApplySupergroupFullInfo(id, *fi)
				s.store.Changes().Schedule()
			}, fail), fail)
	case c.IsBasicGroup():
		id := c.Type.BasicGroupID
		s.sender.Send(&tl.GetBasicGroupFullInfo{BasicGroupID: id},
			rpc.Expect(func(fi *tl.BasicGroupFullInfo) {
				finish()
				s.store.ApplyBasicGroupFullInfo(id, *fi)
				s.store.Changes().Schedule()
			}, fail), fail)
	}
}

// Clear drops every parked signal, on logout.
func (s *Speaking) Clear() {
	s.pending = make(map[int64]map[int64]time.Time)
	s.requested = make(map[int64]bool)
	s.peers = make(map[int64]bool)
}

func (s *Speaking) Destroy() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}
