package data

import (
	"sort"
	"time"

	"github.com/mqy/minisync/tl"
)

// LastSpokeTimes records when a participant last made any sound and when it
// last spoke with voice.
type LastSpokeTimes struct {
	Anything time.Time
	Voice    time.Time
}

func (t LastSpokeTimes) merge(o LastSpokeTimes) LastSpokeTimes {
	if o.Anything.After(t.Anything) {
		t.Anything = o.Anything
	}
	if o.Voice.After(t.Voice) {
		t.Voice = o.Voice
	}
	return t
}

type Participant struct {
	PeerID        int64
	AudioSourceID int32
	IsSpeaking    bool
	IsMuted       bool
	VolumeLevel   int32
	Spoke         LastSpokeTimes

	// Ephemeral participants were created from a speaking signal before the
	// participant list mentioned them.
	Ephemeral bool
}

type GroupCall struct {
	ID                    int32
	ChatID                int64
	Title                 string
	IsActive              bool
	ParticipantCount      int32
	LoadedAllParticipants bool

	participants  map[int64]*Participant
	unknownSpoken map[int64]LastSpokeTimes
}

func newGroupCall(id int32, chatID int64) *GroupCall {
	return &GroupCall{
		ID:            id,
		ChatID:        chatID,
		participants:  make(map[int64]*Participant),
		unknownSpoken: make(map[int64]LastSpokeTimes),
	}
}

func (c *GroupCall) apply(src *tl.GroupCall) bool {
	if c.Title == src.Title && c.IsActive == src.IsActive &&
		c.ParticipantCount == src.ParticipantCount &&
		c.LoadedAllParticipants == src.LoadedAllParticipants {
		return false
	}
	c.Title, c.IsActive = src.Title, src.IsActive
	c.ParticipantCount, c.LoadedAllParticipants = src.ParticipantCount, src.LoadedAllParticipants
	return true
}

// ApplyActiveUpdate records that peerID spoke. An unknown peer is parked
// until ResolveUnknown; a known peer missing from the list gets an ephemeral
// participant.
func (c *GroupCall) ApplyActiveUpdate(peerID int64, when LastSpokeTimes, peerLoaded bool) {
	if !peerLoaded {
		c.unknownSpoken[peerID] = c.unknownSpoken[peerID].merge(when)
		return
	}
	if p, ok := c.participants[peerID]; ok {
		p.Spoke = p.Spoke.merge(when)
		return
	}
	c.participants[peerID] = &Participant{PeerID: peerID, Spoke: when, Ephemeral: true}
}

// ResolveUnknown replays a parked signal once peerID got loaded.
func (c *GroupCall) ResolveUnknown(peerID int64) bool {
	when, ok := c.unknownSpoken[peerID]
	if !ok {
		return false
	}
	delete(c.unknownSpoken, peerID)
	c.ApplyActiveUpdate(peerID, when, true)
	return true
}

func (c *GroupCall) UnknownSpoken() []int64 {
	ids := make([]int64, 0, len(c.unknownSpoken))
	for id := range c.unknownSpoken {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ApplyParticipant merges a participant push. An empty order means the
// participant left.
func (c *GroupCall) ApplyParticipant(src tl.GroupCallParticipant) bool {
	id := src.ParticipantID.PeerID()
	p, ok := c.participants[id]
	if src.Order == "" {
		if !ok {
			return false
		}
		delete(c.participants, id)
		return true
	}
	next := Participant{
		PeerID:        id,
		AudioSourceID: src.AudioSourceID,
		IsSpeaking:    src.IsSpeaking,
		IsMuted:       src.IsMutedForAllUsers,
		VolumeLevel:   src.VolumeLevel,
	}
	if ok {
		next.Spoke = p.Spoke
		if *p == next {
			return false
		}
		*p = next
		return true
	}
	c.participants[id] = &next
	return true
}

func (c *GroupCall) Participant(peerID int64) *Participant {
	return c.participants[peerID]
}

// Participants returns a copy sorted by peer id.
func (c *GroupCall) Participants() []Participant {
	out := make([]Participant, 0, len(c.participants))
	for _, p := range c.participants {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeerID < out[j].PeerID })
	return out
}
