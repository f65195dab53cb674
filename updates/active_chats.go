package updates

import (
	"github.com/golang/glog"

	"github.com/mqy/minisync/data"
	"github.com/mqy/minisync/event"
	"github.com/mqy/minisync/metrics"
	"github.com/mqy/minisync/rpc"
	"github.com/mqy/minisync/tl"
)

// ActiveChats counts the surfaces showing each chat and tells the server to
// open a chat when the first one shows it and to close it when the last one
// goes away.
type ActiveChats struct {
	sender  rpc.ISender
	nextKey uint64
	slots   map[uint64]*ActiveChatSlot
}

func NewActiveChats(sender rpc.ISender) *ActiveChats {
	return &ActiveChats{sender: sender, slots: make(map[uint64]*ActiveChatSlot)}
}

// ActiveChatSlot is one surface's current chat.
type ActiveChatSlot struct {
	owner *ActiveChats
	key   uint64
	chat  data.ChatHandle
}

// Add opens an empty slot. Keys are never reused.
func (a *ActiveChats) Add() *ActiveChatSlot {
	a.nextKey++
	s := &ActiveChatSlot{owner: a, key: a.nextKey}
	a.slots[s.key] = s
	return s
}

// Follow ties a slot to v until lt is destroyed.
func (a *ActiveChats) Follow(v *event.Value[data.ChatHandle], lt *event.Lifetime) *ActiveChatSlot {
	s := a.Add()
	lt.Add(v.Subscribe(s.Set))
	lt.Add(s.Close)
	return s
}

func (a *ActiveChats) InActiveChats(h data.ChatHandle) bool {
	if h.IsZero() {
		return false
	}
	for _, s := range a.slots {
		if s.chat == h {
			return true
		}
	}
	return false
}

func (a *ActiveChats) Len() int { return len(a.slots) }

func (a *ActiveChats) open(h data.ChatHandle) {
	glog.V(5).Infof("active chats: open %d", h.ID)
	metrics.ActiveChats.Inc()
	a.sender.Send(&tl.OpenChat{ChatID: h.ID}, nil, nil)
}

func (a *ActiveChats) close(h data.ChatHandle) {
	glog.V(5).Infof("active chats: close %d", h.ID)
	metrics.ActiveChats.Dec()
	a.sender.Send(&tl.CloseChat{ChatID: h.ID}, nil, nil)
}

func (s *ActiveChatSlot) Chat() data.ChatHandle { return s.chat }

// Set changes the slot's chat; a zero handle clears it.
func (s *ActiveChatSlot) Set(h data.ChatHandle) {
	a := s.owner
	if a == nil || s.chat == h {
		return
	}
	was := s.chat
	already := a.InActiveChats(h)
	s.chat = h
	if !was.IsZero() && !a.InActiveChats(was) {
		a.close(was)
	}
	if !h.IsZero() && !already {
		a.open(h)
	}
}

// Close releases the slot. Closing twice is harmless.
func (s *ActiveChatSlot) Close() {
	a := s.owner
	if a == nil {
		return
	}
	s.owner = nil
	delete(a.slots, s.key)
	if !s.chat.IsZero() && !a.InActiveChats(s.chat) {
		a.close(s.chat)
	}
}
