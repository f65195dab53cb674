package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqy/minisync/tl"
)

func remoteShortcut(id int32, name string, count int32) *tl.UpdateQuickReplyShortcut {
	return &tl.UpdateQuickReplyShortcut{Shortcut: tl.QuickReplyShortcut{ID: id, Name: name, MessageCount: count}}
}

func itemIDs(items []ShortcutItem) []int64 {
	var out []int64
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestShortcutsEmplace(t *testing.T) {
	f := newFixture(t)
	s := NewShortcuts(f.sender)
	a := s.Emplace("hello")
	b := s.Emplace("bye")
	assert.Equal(t, int32(-1), a)
	assert.Equal(t, int32(-2), b)
	assert.Equal(t, a, s.Emplace("hello"))
	assert.Equal(t, a, s.LookupID("hello"))
	assert.Zero(t, s.LookupID("none"))

	s.ApplyShortcut(remoteShortcut(7, "remote", 1))
	assert.Equal(t, int32(7), s.Emplace("remote"))
}

// Items and subscriptions filed under a local id move to the remote id the
// server assigned, with nothing lost or duplicated.
func TestShortcutsIDMigration(t *testing.T) {
	f := newFixture(t)
	s := NewShortcuts(f.sender)
	local := s.Emplace("greet")
	s.AppendLocal(local, 101, tl.MessageContent{Type: tl.MessageText})
	s.AppendLocal(local, 102, tl.MessageContent{Type: tl.MessageText})
	s.AppendLocal(local, 102, tl.MessageContent{Type: tl.MessageText})

	var changes []ShortcutIDChange
	s.IDChanges().Subscribe(func(c ShortcutIDChange) { changes = append(changes, c) })
	notified := 0
	off := s.Subscribe(local, func() { notified++ })

	s.ApplyShortcut(remoteShortcut(5, "greet", 0))
	require.Equal(t, []ShortcutIDChange{{OldID: local, NewID: 5}}, changes)
	assert.Empty(t, s.Items(local))
	assert.Equal(t, []int64{101, 102}, itemIDs(s.Items(5)))
	_, ok := s.Lookup(local)
	assert.False(t, ok)
	assert.Equal(t, 1, notified)

	s.ApplyShortcutMessages(&tl.UpdateQuickReplyShortcutMessages{
		ShortcutID: 5,
		Messages:   []tl.QuickReplyMessage{{ID: 9}, {ID: 8}, {ID: 9}},
	})
	assert.Equal(t, []int64{8, 9, 101, 102}, itemIDs(s.Items(5)))
	assert.Equal(t, 2, notified)
	sc, _ := s.Lookup(5)
	assert.Equal(t, 2, sc.Count)
	assert.Equal(t, int64(8), sc.TopMessageID)

	s.RemoveLocal(5, 101)
	assert.Equal(t, []int64{8, 9, 102}, itemIDs(s.Items(5)))
	assert.Equal(t, 3, notified)

	off()
	s.AppendLocal(5, 103, tl.MessageContent{})
	assert.Equal(t, 3, notified)
}

func TestShortcutsListOrder(t *testing.T) {
	f := newFixture(t)
	s := NewShortcuts(f.sender)
	changed := 0
	s.Changed().Subscribe(func(struct{}) { changed++ })

	s.ApplyShortcut(remoteShortcut(1, "one", 1))
	s.ApplyShortcut(remoteShortcut(2, "two", 1))
	s.ApplyShortcut(remoteShortcut(2, "two", 1))
	assert.Equal(t, 2, changed)
	assert.False(t, s.Loaded())

	s.ApplyShortcuts(&tl.UpdateQuickReplyShortcuts{ShortcutIDs: []int32{2, 1}})
	assert.True(t, s.Loaded())
	assert.Equal(t, 3, changed)
	local := s.Emplace("draft")
	names := func() []string {
		var out []string
		for _, sc := range s.List() {
			out = append(out, sc.Name)
		}
		return out
	}
	assert.Equal(t, []string{"two", "one", "draft"}, names())

	s.ApplyShortcuts(&tl.UpdateQuickReplyShortcuts{ShortcutIDs: []int32{2, 1}})
	assert.Equal(t, 4, changed)

	s.ApplyShortcuts(&tl.UpdateQuickReplyShortcuts{ShortcutIDs: []int32{1}})
	assert.Equal(t, []string{"one", "draft"}, names())
	_, ok := s.Lookup(local)
	assert.True(t, ok)

	s.ApplyShortcutDeleted(&tl.UpdateQuickReplyShortcutDeleted{ShortcutID: 1})
	assert.Equal(t, []string{"draft"}, names())
}

func TestShortcutsRequests(t *testing.T) {
	f := newFixture(t)
	s := NewShortcuts(f.sender)

	s.Preload()
	s.Preload()
	assert.Len(t, f.rec.Of("loadQuickReplyShortcuts"), 1)
	f.rec.Last().Reply(&tl.Ok{})

	s.ApplyShortcut(remoteShortcut(3, "x", 2))
	s.Request(3)
	s.Request(3)
	s.Request(-1)
	assert.Len(t, f.rec.Of("loadQuickReplyShortcutMessages"), 1)
	s.ApplyShortcutMessages(&tl.UpdateQuickReplyShortcutMessages{ShortcutID: 3})
	s.Request(3)
	assert.Len(t, f.rec.Of("loadQuickReplyShortcutMessages"), 2)

	var err error
	s.Edit(3, "y", func(e error) { err = e })
	f.rec.Last().Reply(&tl.Ok{})
	assert.NoError(t, err)
	assert.Equal(t, int32(3), s.LookupID("y"))

	local := s.Emplace("z")
	f.rec.Reset()
	s.Edit(local, "zz", nil)
	assert.Empty(t, f.rec.Calls)
	assert.Equal(t, local, s.LookupID("zz"))

	s.Remove(3)
	_, ok := s.Lookup(3)
	assert.True(t, ok)
	f.rec.Of("deleteQuickReplyShortcut")[0].Reply(&tl.Ok{})
	_, ok = s.Lookup(3)
	assert.False(t, ok)
	assert.Len(t, f.rec.Cancelled, 1)
}
