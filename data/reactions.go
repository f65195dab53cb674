package data

import (
	"github.com/mqy/minisync/event"
	"github.com/mqy/minisync/tl"
)

type ReactionsKind int

const (
	ReactionsActive ReactionsKind = iota
	ReactionsDefault
)

// Reactions caches the globally available emoji reactions and the default
// quick reaction.
type Reactions struct {
	active  []string
	def     tl.ReactionType
	updates event.Stream[ReactionsKind]
}

func (r *Reactions) RefreshActive(emojis []string) bool {
	if stringsEqual(r.active, emojis) {
		return false
	}
	r.active = append([]string(nil), emojis...)
	r.updates.Fire(ReactionsActive)
	return true
}

func (r *Reactions) RefreshDefault(t tl.ReactionType) bool {
	if r.def == t {
		return false
	}
	r.def = t
	r.updates.Fire(ReactionsDefault)
	return true
}

func (r *Reactions) Active() []string { return r.active }

func (r *Reactions) Default() tl.ReactionType { return r.def }

func (r *Reactions) Subscribe(fn func(ReactionsKind)) event.Unsubscribe {
	return r.updates.Subscribe(fn)
}
