package api

import (
	"sort"

	"github.com/golang/glog"
	"github.com/scylladb/go-set/i64set"

	"github.com/mqy/minisync/event"
	"github.com/mqy/minisync/rpc"
	"github.com/mqy/minisync/tl"
)

// Shortcut is a quick reply template. Remote shortcuts have positive ids;
// shortcuts created locally and not yet known to the server have negative
// ones.
type Shortcut struct {
	ID           int32
	Name         string
	Count        int
	TopMessageID int64
}

// ShortcutIDChange fires when a local shortcut got its server id. Everything
// filed under OldID is under NewID afterwards.
type ShortcutIDChange struct {
	OldID int32
	NewID int32
}

// ShortcutItem is one message of a shortcut. Local items are still being
// sent.
type ShortcutItem struct {
	ID      int64
	Local   bool
	Content tl.MessageContent
}

type shortcutSub struct {
	id int32
	fn func()
}

type Shortcuts struct {
	sender rpc.ISender

	list    map[int32]Shortcut
	order   []int32
	items   map[int32][]ShortcutItem
	localID int32
	loaded  bool

	listRequesting bool
	requests       map[int32]rpc.RequestID

	subs      map[*shortcutSub]struct{}
	updates   event.Stream[int32]
	changed   event.Stream[struct{}]
	idChanges event.Stream[ShortcutIDChange]
}

func NewShortcuts(sender rpc.ISender) *Shortcuts {
	return &Shortcuts{
		sender:   sender,
		list:     make(map[int32]Shortcut),
		items:    make(map[int32][]ShortcutItem),
		requests: make(map[int32]rpc.RequestID),
		subs:     make(map[*shortcutSub]struct{}),
	}
}

func shortcutFromTL(s *tl.QuickReplyShortcut) Shortcut {
	out := Shortcut{ID: s.ID, Name: s.Name, Count: int(s.MessageCount)}
	if s.FirstMessage != nil {
		out.TopMessageID = s.FirstMessage.ID
	}
	return out
}

func (s *Shortcuts) ApplyShortcut(u *tl.UpdateQuickReplyShortcut) {
	next := shortcutFromTL(&u.Shortcut)
	if next.ID <= 0 {
		glog.Warningf("shortcuts: bad remote id %d", next.ID)
		return
	}
	_, known := s.list[next.ID]
	if !known {
		if local := s.localByName(next.Name); local != 0 {
			s.migrate(local, next.ID)
		}
		s.order = append(s.order, next.ID)
	}
	if known && s.list[next.ID] == next {
		return
	}
	s.list[next.ID] = next
	s.fireChanged()
}

func (s *Shortcuts) ApplyShortcutDeleted(u *tl.UpdateQuickReplyShortcutDeleted) {
	s.drop(u.ShortcutID)
}

// ApplyShortcuts sets the order of the remote shortcuts. Remote ids missing
// from the list are dropped; local shortcuts are kept.
func (s *Shortcuts) ApplyShortcuts(u *tl.UpdateQuickReplyShortcuts) {
	keep := i64set.New()
	order := make([]int32, 0, len(u.ShortcutIDs))
	for _, id := range u.ShortcutIDs {
		if _, ok := s.list[id]; !ok || keep.Has(int64(id)) {
			continue
		}
		keep.Add(int64(id))
		order = append(order, id)
	}
	changed := !s.loaded || !int32sEqual(order, s.order)
	for id := range s.list {
		if id > 0 && !keep.Has(int64(id)) {
			s.forget(id)
			changed = true
		}
	}
	s.order = order
	s.loaded = true
	if changed {
		s.fireChanged()
	}
}

// ApplyShortcutMessages replaces the remote items of a shortcut. Local items
// still being sent stay after them.
func (s *Shortcuts) ApplyShortcutMessages(u *tl.UpdateQuickReplyShortcutMessages) {
	id := u.ShortcutID
	delete(s.requests, id)
	seen := i64set.New()
	next := make([]ShortcutItem, 0, len(u.Messages))
	for _, m := range u.Messages {
		if seen.Has(m.ID) {
			continue
		}
		seen.Add(m.ID)
		next = append(next, ShortcutItem{ID: m.ID, Content: m.Content})
	}
	sortItems(next)
	for _, it := range s.items[id] {
		if it.Local {
			next = append(next, it)
		}
	}
	s.items[id] = next
	if sc, ok := s.list[id]; ok {
		sc.Count = countRemote(next)
		if len(next) > 0 && !next[0].Local {
			sc.TopMessageID = next[0].ID
		}
		if sc != s.list[id] {
			s.list[id] = sc
			s.fireChanged()
		}
	}
	fired("shortcuts")
	s.updates.Fire(id)
}

// migrate moves every item and subscription from a local id to a remote one.
// Items already present under to are not duplicated.
func (s *Shortcuts) migrate(from, to int32) {
	glog.V(3).Infof("shortcuts: %d is now %d", from, to)
	have := i64set.New()
	merged := append([]ShortcutItem(nil), s.items[to]...)
	for _, it := range merged {
		have.Add(it.ID)
	}
	for _, it := range s.items[from] {
		if have.Has(it.ID) {
			continue
		}
		have.Add(it.ID)
		merged = append(merged, it)
	}
	sortItems(merged)
	delete(s.items, from)
	if len(merged) > 0 {
		s.items[to] = merged
	}
	delete(s.list, from)
	for sub := range s.subs {
		if sub.id == from {
			sub.id = to
		}
	}
	s.idChanges.Fire(ShortcutIDChange{OldID: from, NewID: to})
	s.updates.Fire(to)
}

func (s *Shortcuts) forget(id int32) {
	delete(s.list, id)
	delete(s.items, id)
	if rid, ok := s.requests[id]; ok {
		delete(s.requests, id)
		s.sender.Cancel(rid)
	}
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Shortcuts) drop(id int32) {
	if _, ok := s.list[id]; !ok {
		return
	}
	s.forget(id)
	s.fireChanged()
	s.updates.Fire(id)
}

func (s *Shortcuts) fireChanged() {
	fired("shortcuts")
	s.changed.Fire(struct{}{})
}

func (s *Shortcuts) localByName(name string) int32 {
	for id, sc := range s.list {
		if id < 0 && sc.Name == name {
			return id
		}
	}
	return 0
}

// Emplace returns the id of the shortcut named name, creating a local one
// when there is none.
func (s *Shortcuts) Emplace(name string) int32 {
	if id := s.LookupID(name); id != 0 {
		return id
	}
	s.localID--
	s.list[s.localID] = Shortcut{ID: s.localID, Name: name}
	s.fireChanged()
	return s.localID
}

// AppendLocal files a message being sent under shortcut id.
func (s *Shortcuts) AppendLocal(id int32, itemID int64, content tl.MessageContent) {
	for _, it := range s.items[id] {
		if it.ID == itemID {
			return
		}
	}
	s.items[id] = append(s.items[id], ShortcutItem{ID: itemID, Local: true, Content: content})
	s.updates.Fire(id)
}

// RemoveLocal drops a local item once it was sent or its sending failed.
func (s *Shortcuts) RemoveLocal(id int32, itemID int64) {
	list := s.items[id]
	for i, it := range list {
		if it.Local && it.ID == itemID {
			s.items[id] = append(list[:i], list[i+1:]...)
			s.updates.Fire(id)
			return
		}
	}
}

// Items returns a copy of the items under id: remote ones by id, then local.
func (s *Shortcuts) Items(id int32) []ShortcutItem {
	return append([]ShortcutItem(nil), s.items[id]...)
}

// Subscribe calls fn whenever the items of shortcut id change. The
// subscription follows the shortcut when its id changes.
func (s *Shortcuts) Subscribe(id int32, fn func()) event.Unsubscribe {
	sub := &shortcutSub{id: id, fn: fn}
	s.subs[sub] = struct{}{}
	off := s.updates.Subscribe(func(changed int32) {
		if changed == sub.id {
			sub.fn()
		}
	})
	return func() {
		off()
		delete(s.subs, sub)
	}
}

func (s *Shortcuts) IDChanges() *event.Stream[ShortcutIDChange] { return &s.idChanges }

func (s *Shortcuts) Changed() *event.Stream[struct{}] { return &s.changed }

func (s *Shortcuts) Loaded() bool { return s.loaded }

func (s *Shortcuts) Lookup(id int32) (Shortcut, bool) {
	sc, ok := s.list[id]
	return sc, ok
}

// LookupID returns 0 when no shortcut has that name.
func (s *Shortcuts) LookupID(name string) int32 {
	for _, id := range s.order {
		if s.list[id].Name == name {
			return id
		}
	}
	return s.localByName(name)
}

// List returns the remote shortcuts in server order, then the local ones
// newest last.
func (s *Shortcuts) List() []Shortcut {
	out := make([]Shortcut, 0, len(s.list))
	for _, id := range s.order {
		out = append(out, s.list[id])
	}
	var locals []Shortcut
	for id, sc := range s.list {
		if id < 0 {
			locals = append(locals, sc)
		}
	}
	sort.Slice(locals, func(i, j int) bool { return locals[i].ID > locals[j].ID })
	return append(out, locals...)
}

// Preload asks the server to push the shortcut list once.
func (s *Shortcuts) Preload() {
	if s.loaded || s.listRequesting {
		return
	}
	s.listRequesting = true
	end := func() { s.listRequesting = false }
	s.sender.Send(&tl.LoadQuickReplyShortcuts{}, func(tl.Object) { end() }, func(e *tl.Error) {
		glog.Warningf("shortcuts: load: %v", e)
		end()
	})
}

// Request asks the server to push the messages of a remote shortcut.
func (s *Shortcuts) Request(id int32) {
	if id <= 0 {
		return
	}
	if _, ok := s.requests[id]; ok {
		return
	}
	var rid rpc.RequestID
	end := func() {
		if cur, ok := s.requests[id]; ok && cur == rid {
			delete(s.requests, id)
		}
	}
	rid = s.sender.Send(&tl.LoadQuickReplyShortcutMessages{ShortcutID: id}, func(tl.Object) { end() }, func(e *tl.Error) {
		glog.Warningf("shortcuts: load messages of %d: %v", id, e)
		end()
	})
	s.requests[id] = rid
}

// Edit renames a shortcut. Local shortcuts are renamed at once.
func (s *Shortcuts) Edit(id int32, name string, done func(error)) {
	finish := func(err error) {
		if done != nil {
			done(err)
		}
	}
	rename := func() {
		sc, ok := s.list[id]
		if !ok || sc.Name == name {
			return
		}
		sc.Name = name
		s.list[id] = sc
		s.fireChanged()
	}
	if id < 0 {
		rename()
		finish(nil)
		return
	}
	s.sender.Send(&tl.SetQuickReplyShortcutName{ShortcutID: id, Name: name}, func(tl.Object) {
		rename()
		finish(nil)
	}, func(e *tl.Error) {
		finish(asError(e))
	})
}

// Remove deletes a shortcut. A remote one disappears after the server
// confirmed.
func (s *Shortcuts) Remove(id int32) {
	if id < 0 {
		s.drop(id)
		return
	}
	s.sender.Send(&tl.DeleteQuickReplyShortcut{ShortcutID: id}, func(tl.Object) {
		s.drop(id)
	}, func(e *tl.Error) {
		glog.Warningf("shortcuts: delete %d: %v", id, e)
	})
}

func sortItems(items []ShortcutItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Local != items[j].Local {
			return !items[i].Local
		}
		if items[i].Local {
			return false
		}
		return items[i].ID < items[j].ID
	})
}

func countRemote(items []ShortcutItem) int {
	n := 0
	for _, it := range items {
		if !it.Local {
			n++
		}
	}
	return n
}

func int32sEqual(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
