package data

import (
	"github.com/mqy/minisync/event"
	"github.com/mqy/minisync/loop"
)

type ChatFlags uint32

const (
	ChatTitle ChatFlags = 1 << iota
	ChatPhoto
	ChatPermissions
	ChatLastMessage
	ChatPositions
	ChatUnread
	ChatReactions
	ChatNotifySettings
	ChatDraft
	ChatAutoDelete
	ChatTheme
	ChatVideoChat
	ChatBlocked
	ChatProtected
	ChatNew
)

type PeerFlags uint32

const (
	PeerName PeerFlags = 1 << iota
	PeerUsernames
	PeerOnlineStatus
	PeerFullInfo
	PeerMembers
	PeerRights
)

type MessageFlags uint32

const (
	MessageNew MessageFlags = 1 << iota
	MessageEdited
	MessageContent
	MessagePinned
	MessageReactions
	MessageFactCheck
	MessageSending
	MessageMention
	MessageDestroyed
	MessageNewID
)

type ChatUpdate struct {
	Chat  *Chat
	Flags ChatFlags
}

type PeerUpdate struct {
	PeerID int64
	Flags  PeerFlags
}

type MessageUpdate struct {
	ID    FullMsgID
	Flags MessageFlags
}

// Changes batches change flags per entity. All marks made before a flush are
// OR-ed into one notification per entity.
type Changes struct {
	sched     loop.Scheduler
	scheduled bool

	chatOrder []int64
	chats     map[int64]*ChatUpdate
	peerOrder []int64
	peers     map[int64]PeerFlags
	msgOrder  []FullMsgID
	msgs      map[FullMsgID]MessageFlags

	chatUpdates    event.Stream[ChatUpdate]
	peerUpdates    event.Stream[PeerUpdate]
	messageUpdates event.Stream[MessageUpdate]
}

func NewChanges(sched loop.Scheduler) *Changes {
	c := &Changes{sched: sched}
	c.reset()
	return c
}

func (c *Changes) reset() {
	c.chatOrder, c.chats = nil, make(map[int64]*ChatUpdate)
	c.peerOrder, c.peers = nil, make(map[int64]PeerFlags)
	c.msgOrder, c.msgs = nil, make(map[FullMsgID]MessageFlags)
}

func (c *Changes) ChatUpdated(chat *Chat, f ChatFlags) {
	if f == 0 {
		return
	}
	if u, ok := c.chats[chat.ID]; ok {
		u.Chat = chat
		u.Flags |= f
		return
	}
	c.chatOrder = append(c.chatOrder, chat.ID)
	c.chats[chat.ID] = &ChatUpdate{Chat: chat, Flags: f}
}

func (c *Changes) PeerUpdated(peerID int64, f PeerFlags) {
	if f == 0 {
		return
	}
	if _, ok := c.peers[peerID]; !ok {
		c.peerOrder = append(c.peerOrder, peerID)
	}
	c.peers[peerID] |= f
}

func (c *Changes) MessageUpdated(id FullMsgID, f MessageFlags) {
	if f == 0 {
		return
	}
	if _, ok := c.msgs[id]; !ok {
		c.msgOrder = append(c.msgOrder, id)
	}
	c.msgs[id] |= f
}

func (c *Changes) HasPending() bool {
	return len(c.chatOrder) > 0 || len(c.peerOrder) > 0 || len(c.msgOrder) > 0
}

// Schedule posts one Flush for everything marked so far. Later marks join the
// same flush until it runs.
func (c *Changes) Schedule() {
	if c.scheduled || !c.HasPending() {
		return
	}
	c.scheduled = true
	c.sched.Post(c.Flush)
}

// Flush notifies subscribers. Marks made by subscribers are flushed in the
// same call.
func (c *Changes) Flush() {
	c.scheduled = false
	for c.HasPending() {
		chatOrder, chats := c.chatOrder, c.chats
		peerOrder, peers := c.peerOrder, c.peers
		msgOrder, msgs := c.msgOrder, c.msgs
		c.reset()

		for _, id := range peerOrder {
			c.peerUpdates.Fire(PeerUpdate{PeerID: id, Flags: peers[id]})
		}
		for _, id := range chatOrder {
			c.chatUpdates.Fire(*chats[id])
		}
		for _, id := range msgOrder {
			c.messageUpdates.Fire(MessageUpdate{ID: id, Flags: msgs[id]})
		}
	}
}

func (c *Changes) SubscribeChats(fn func(ChatUpdate)) event.Unsubscribe {
	return c.chatUpdates.Subscribe(fn)
}

func (c *Changes) SubscribePeers(fn func(PeerUpdate)) event.Unsubscribe {
	return c.peerUpdates.Subscribe(fn)
}

func (c *Changes) SubscribeMessages(fn func(MessageUpdate)) event.Unsubscribe {
	return c.messageUpdates.Subscribe(fn)
}
