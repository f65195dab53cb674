// Package data is the entity store: the canonical chats, users, groups,
// messages and group calls of one session, plus the change notifications
// observers read them through.
package data

import (
	"github.com/golang/glog"

	"github.com/mqy/minisync/loop"
	"github.com/mqy/minisync/notify"
	"github.com/mqy/minisync/tl"
)

// ChatHandle is a non-owning reference to a chat. It resolves to nil once
// the store dropped the chat it was taken from.
type ChatHandle struct {
	ID  int64
	Gen uint32
}

func (h ChatHandle) IsZero() bool { return h == ChatHandle{} }

type UnreadCounters struct {
	UnreadCount        int32
	UnreadUnmutedCount int32

	ChatsTotal            int32
	ChatsUnread           int32
	ChatsUnreadUnmuted    int32
	ChatsMarkedUnread     int32
	ChatsMarkedUnreadMute int32
}

type Store struct {
	sched     loop.Scheduler
	changes   *Changes
	reactions Reactions
	notify    notify.Defaults

	gen    uint32
	selfID int64

	chats        map[int64]*Chat
	users        map[int64]*User
	basicGroups  map[int64]*BasicGroup
	supergroups  map[int64]*Supergroup
	basicChat    map[int64]int64
	superChat    map[int64]int64
	messages     map[FullMsgID]*Message
	groupCalls   map[int32]*GroupCall
	unread       map[string]*UnreadCounters
	onlineCounts map[int64]int32

	offlineWatch map[int64]int32
	offlineTimer *loop.OnceTimer
}

func NewStore(sched loop.Scheduler) *Store {
	s := &Store{sched: sched, changes: NewChanges(sched), gen: 1}
	s.offlineTimer = loop.NewOnceTimer(sched, s.checkWentOffline)
	s.reset()
	return s
}

func (s *Store) reset() {
	s.chats = make(map[int64]*Chat)
	s.users = make(map[int64]*User)
	s.basicGroups = make(map[int64]*BasicGroup)
	s.supergroups = make(map[int64]*Supergroup)
	s.basicChat = make(map[int64]int64)
	s.superChat = make(map[int64]int64)
	s.messages = make(map[FullMsgID]*Message)
	s.groupCalls = make(map[int32]*GroupCall)
	s.unread = make(map[string]*UnreadCounters)
	s.onlineCounts = make(map[int64]int32)
	s.offlineWatch = make(map[int64]int32)
}

// Clear drops every entity. Handles taken before stop resolving.
func (s *Store) Clear() {
	glog.Infof("store: clear, generation %d", s.gen)
	s.gen++
	s.selfID = 0
	s.offlineTimer.Cancel()
	s.reset()
}

func (s *Store) Changes() *Changes { return s.changes }

func (s *Store) Reactions() *Reactions { return &s.reactions }

func (s *Store) NotifyDefaults() *notify.Defaults { return &s.notify }

func (s *Store) Now() int32 { return int32(s.sched.Now().Unix()) }

func (s *Store) SelfID() int64 { return s.selfID }

func (s *Store) SetSelfID(id int64) { s.selfID = id }

func (s *Store) IsSelf(userID int64) bool { return s.selfID != 0 && s.selfID == userID }

func (s *Store) Chat(id int64) *Chat { return s.chats[id] }

// ProcessChat creates the chat or replaces its state with src.
func (s *Store) ProcessChat(src *tl.Chat) *Chat {
	c, ok := s.chats[src.ID]
	var f ChatFlags
	if !ok {
		c = &Chat{ID: src.ID, gen: s.gen}
		s.chats[src.ID] = c
		f |= ChatNew
	}
	f |= c.apply(src, s.Now())
	switch src.Type.Type {
	case tl.ChatTypeBasicGroup:
		s.basicChat[src.Type.BasicGroupID] = src.ID
	case tl.ChatTypeSupergroup:
		s.superChat[src.Type.SupergroupID] = src.ID
	}
	if src.LastMessage != nil {
		s.ProcessMessage(src.LastMessage)
	}
	s.changes.ChatUpdated(c, f)
	return c
}

func (s *Store) Handle(c *Chat) ChatHandle {
	if c == nil {
		return ChatHandle{}
	}
	return ChatHandle{ID: c.ID, Gen: c.gen}
}

func (s *Store) Resolve(h ChatHandle) *Chat {
	if h.IsZero() {
		return nil
	}
	c := s.chats[h.ID]
	if c == nil || c.gen != h.Gen {
		return nil
	}
	return c
}

func (s *Store) ChatForBasicGroup(id int64) *Chat {
	if chatID, ok := s.basicChat[id]; ok {
		return s.chats[chatID]
	}
	return nil
}

func (s *Store) ChatForSupergroup(id int64) *Chat {
	if chatID, ok := s.superChat[id]; ok {
		return s.chats[chatID]
	}
	return nil
}

func (s *Store) User(id int64) *User { return s.users[id] }

func (s *Store) ProcessUser(src *tl.User) *User {
	u, ok := s.users[src.ID]
	if !ok {
		u = &User{ID: src.ID}
		s.users[src.ID] = u
	}
	f := u.apply(src)
	if f&PeerOnlineStatus != 0 {
		s.WatchForOffline(u)
	}
	if !ok {
		f |= PeerName
	}
	s.changes.PeerUpdated(src.ID, f)
	return u
}

// PeerLoaded reports whether the peer behind a chat id (users share ids with
// their private chats) is known.
func (s *Store) PeerLoaded(peerID int64) bool {
	return s.users[peerID] != nil || s.chats[peerID] != nil
}

func (s *Store) BasicGroup(id int64) *BasicGroup { return s.basicGroups[id] }

func (s *Store) ProcessBasicGroup(src *tl.BasicGroup) *BasicGroup {
	g, ok := s.basicGroups[src.ID]
	if !ok {
		g = &BasicGroup{ID: src.ID}
		s.basicGroups[src.ID] = g
	}
	if f := g.apply(src); f != 0 {
		if c := s.ChatForBasicGroup(src.ID); c != nil {
			s.changes.PeerUpdated(c.ID, f)
		}
	}
	return g
}

func (s *Store) Supergroup(id int64) *Supergroup { return s.supergroups[id] }

func (s *Store) ProcessSupergroup(src *tl.Supergroup) *Supergroup {
	g, ok := s.supergroups[src.ID]
	if !ok {
		g = &Supergroup{ID: src.ID}
		s.supergroups[src.ID] = g
	}
	if f := g.apply(src); f != 0 {
		if c := s.ChatForSupergroup(src.ID); c != nil {
			s.changes.PeerUpdated(c.ID, f)
		}
	}
	return g
}

// MarkFullInfoLoaded flags the chat and, when a video chat is running,
// creates its call object.
func (s *Store) MarkFullInfoLoaded(c *Chat) {
	c.FullInfoLoaded = true
	if c.CallActive() {
		s.EnsureGroupCall(c)
	}
	s.changes.PeerUpdated(c.ID, PeerFullInfo)
}

// ApplyUserFullInfo stores fi; a full info for an unknown user is dropped.
func (s *Store) ApplyUserFullInfo(userID int64, fi tl.UserFullInfo) bool {
	u := s.users[userID]
	if u == nil {
		return false
	}
	if u.SetFullInfo(fi) {
		s.changes.PeerUpdated(userID, PeerFullInfo)
	}
	return true
}

func (s *Store) ApplyBasicGroupFullInfo(id int64, fi tl.BasicGroupFullInfo) bool {
	g, c := s.basicGroups[id], s.ChatForBasicGroup(id)
	if g == nil || c == nil {
		return false
	}
	if g.SetFullInfo(fi) || !c.FullInfoLoaded {
		s.MarkFullInfoLoaded(c)
	}
	return true
}

func (s *Store) ApplySupergroupFullInfo(id int64, fi tl.SupergroupFullInfo) bool {
	g, c := s.supergroups[id], s.ChatForSupergroup(id)
	if g == nil || c == nil {
		return false
	}
	if g.SetFullInfo(fi) || !c.FullInfoLoaded {
		s.MarkFullInfoLoaded(c)
	}
	return true
}

func (s *Store) Message(chatID, id int64) *Message {
	return s.messages[FullMsgID{ChatID: chatID, ID: id}]
}

// ProcessMessage creates the message or replaces its state with src.
func (s *Store) ProcessMessage(src *tl.Message) (*Message, bool) {
	id := FullMsgID{ChatID: src.ChatID, ID: src.ID}
	m, ok := s.messages[id]
	var f MessageFlags
	if !ok {
		m = &Message{FullMsgID: id}
		s.messages[id] = m
		f |= MessageNew
	}
	f |= m.apply(src)
	if !ok {
		f = MessageNew
	}
	s.changes.MessageUpdated(id, f)
	return m, !ok
}

// ReplaceMessageID moves a locally sent message to the id the server gave it.
func (s *Store) ReplaceMessageID(chatID, oldID int64, src *tl.Message) *Message {
	old := FullMsgID{ChatID: chatID, ID: oldID}
	if m, ok := s.messages[old]; ok && oldID != src.ID {
		delete(s.messages, old)
		m.FullMsgID = FullMsgID{ChatID: chatID, ID: src.ID}
		s.messages[m.FullMsgID] = m
		s.changes.MessageUpdated(old, MessageNewID)
		if c := s.chats[chatID]; c != nil && c.LastMessageID == oldID {
			c.LastMessageID = src.ID
			s.changes.ChatUpdated(c, ChatLastMessage)
		}
	}
	m, _ := s.ProcessMessage(src)
	return m
}

func (s *Store) DeleteMessage(chatID, id int64) bool {
	key := FullMsgID{ChatID: chatID, ID: id}
	if _, ok := s.messages[key]; !ok {
		return false
	}
	delete(s.messages, key)
	s.changes.MessageUpdated(key, MessageDestroyed)
	return true
}

func (s *Store) MessageCount() int { return len(s.messages) }

func (s *Store) GroupCall(id int32) *GroupCall { return s.groupCalls[id] }

// GroupCallForChat returns the call object of the chat's running video
// chat. It exists only after the chat full info loaded.
func (s *Store) GroupCallForChat(c *Chat) *GroupCall {
	if c == nil || !c.CallActive() {
		return nil
	}
	call := s.groupCalls[c.VideoChat.GroupCallID]
	if call == nil || call.ChatID != c.ID {
		return nil
	}
	return call
}

func (s *Store) EnsureGroupCall(c *Chat) *GroupCall {
	id := c.VideoChat.GroupCallID
	if call := s.groupCalls[id]; call != nil {
		return call
	}
	call := newGroupCall(id, c.ID)
	s.groupCalls[id] = call
	return call
}

func (s *Store) ProcessGroupCall(src *tl.GroupCall) (*GroupCall, bool) {
	call := s.groupCalls[src.ID]
	if call == nil {
		return nil, false
	}
	return call, call.apply(src)
}

// ResolveUnknownSpoken replays parked speaking signals of peerID in every
// call. Returns the number of calls that had one.
func (s *Store) ResolveUnknownSpoken(peerID int64) int {
	n := 0
	for _, call := range s.groupCalls {
		if call.ResolveUnknown(peerID) {
			n++
		}
	}
	return n
}

func (s *Store) DropGroupCall(id int32) {
	delete(s.groupCalls, id)
}

func (s *Store) Unread(list tl.ChatList) *UnreadCounters {
	key := list.Key()
	u := s.unread[key]
	if u == nil {
		u = &UnreadCounters{}
		s.unread[key] = u
	}
	return u
}

func (s *Store) SetOnlineMemberCount(chatID int64, n int32) bool {
	if s.onlineCounts[chatID] == n {
		return false
	}
	s.onlineCounts[chatID] = n
	return true
}

func (s *Store) OnlineMemberCount(chatID int64) int32 { return s.onlineCounts[chatID] }
