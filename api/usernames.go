package api

import (
	"github.com/golang/glog"
	"github.com/scylladb/go-set/strset"

	"github.com/mqy/minisync/data"
	"github.com/mqy/minisync/rpc"
	"github.com/mqy/minisync/tl"
)

const errUsernamesActiveTooMuch = "USERNAMES_ACTIVE_TOO_MUCH"

type Username struct {
	Username string
	Active   bool
	Editable bool
}

// UsernamesFromTL lists the active names first, then the disabled ones, both
// in server order.
func UsernamesFromTL(u *tl.Usernames) []Username {
	if u == nil {
		return nil
	}
	out := make([]Username, 0, len(u.ActiveUsernames)+len(u.DisabledUsernames))
	for _, name := range u.ActiveUsernames {
		out = append(out, Username{Username: name, Active: true, Editable: name == u.EditableUsername})
	}
	for _, name := range u.DisabledUsernames {
		out = append(out, Username{Username: name, Editable: name == u.EditableUsername})
	}
	return out
}

// SkipSingleNormal hides the list when it holds only the ordinary editable
// username, which the profile shows on its own.
func SkipSingleNormal(list []Username) []Username {
	if len(list) == 1 && list[0].Editable && list[0].Active {
		return nil
	}
	return list
}

type toggleEntry struct {
	names   *strset.Set
	waiters []func(error)
}

type reorderEntry struct {
	id   rpc.RequestID
	done func()
}

// Usernames toggles and reorders the collectible usernames of self, owned
// bots and supergroups.
type Usernames struct {
	sender rpc.ISender
	store  *data.Store

	toggles  map[int64]*toggleEntry
	reorders map[int64]reorderEntry
}

func NewUsernames(sender rpc.ISender, store *data.Store) *Usernames {
	return &Usernames{
		sender:   sender,
		store:    store,
		toggles:  make(map[int64]*toggleEntry),
		reorders: make(map[int64]reorderEntry),
	}
}

// Load fetches the current usernames of a user or supergroup chat.
func (u *Usernames) Load(peerID int64, done func([]Username)) {
	if done == nil {
		done = func([]Username) {}
	}
	fail := func(e *tl.Error) {
		glog.Warningf("usernames: load %d: %v", peerID, e)
		done(nil)
	}
	if peerID > 0 {
		u.sender.Send(&tl.GetUser{UserID: peerID}, rpc.Expect(func(r *tl.User) {
			done(SkipSingleNormal(UsernamesFromTL(r.Usernames)))
		}, fail), fail)
		return
	}
	c := u.store.Chat(peerID)
	if c == nil || !c.IsSupergroup() {
		done(nil)
		return
	}
	u.sender.Send(&tl.GetSupergroup{SupergroupID: c.Type.SupergroupID}, rpc.Expect(func(r *tl.Supergroup) {
		done(SkipSingleNormal(UsernamesFromTL(r.Usernames)))
	}, fail), fail)
}

func (u *Usernames) toggleFunction(peerID int64, username string, active bool) tl.Function {
	if u.store.IsSelf(peerID) {
		return &tl.ToggleUsernameIsActive{Username: username, IsActive: active}
	}
	if peerID < 0 {
		if c := u.store.Chat(peerID); c != nil && c.IsSupergroup() {
			return &tl.ToggleSupergroupUsernameIsActive{
				SupergroupID: c.Type.SupergroupID, Username: username, IsActive: active,
			}
		}
		return nil
	}
	if bot := u.store.User(peerID); bot != nil && bot.IsBot() && bot.Type.CanBeEdited {
		return &tl.ToggleBotUsernameIsActive{BotUserID: peerID, Username: username, IsActive: active}
	}
	return nil
}

// Toggle activates or disables username. Toggles of one peer are batched:
// done runs once every toggle of the peer sent so far has finished, with the
// result of the last one. Toggling a name that is already in flight only
// waits for it.
func (u *Usernames) Toggle(peerID int64, username string, active bool, done func(error)) {
	entry, found := u.toggles[peerID]
	if found && entry.names.Has(username) {
		entry.waiters = append(entry.waiters, done)
		return
	}
	fn := u.toggleFunction(peerID, username, active)
	if fn == nil {
		if done != nil {
			done(ErrNotSupported)
		}
		return
	}
	if !found {
		entry = &toggleEntry{names: strset.New()}
		u.toggles[peerID] = entry
	}
	entry.names.Add(username)
	entry.waiters = append(entry.waiters, done)

	pop := func(err error) {
		e := u.toggles[peerID]
		if e == nil {
			return
		}
		e.names.Remove(username)
		if !e.names.IsEmpty() {
			return
		}
		delete(u.toggles, peerID)
		for _, w := range e.waiters {
			if w != nil {
				w(err)
			}
		}
	}
	u.sender.Send(fn, func(tl.Object) {
		pop(nil)
	}, func(e *tl.Error) {
		kind := UsernameUnknown
		if e.HasType(errUsernamesActiveTooMuch) {
			kind = UsernameTooMuch
		}
		pop(&UsernameError{Kind: kind, Cause: e})
	})
}

// Reorder sets the order of the active usernames. A newer reorder of the
// same peer cancels the previous request; its done runs at once.
func (u *Usernames) Reorder(peerID int64, usernames []string, done func()) {
	if prev, ok := u.reorders[peerID]; ok {
		delete(u.reorders, peerID)
		u.sender.Cancel(prev.id)
		if prev.done != nil {
			prev.done()
		}
	}
	finish := func() {
		if done != nil {
			done()
		}
	}
	if len(usernames) == 0 {
		finish()
		return
	}
	var fn tl.Function
	switch {
	case u.store.IsSelf(peerID):
		fn = &tl.ReorderActiveUsernames{Usernames: usernames}
	case peerID < 0:
		if c := u.store.Chat(peerID); c != nil && c.IsSupergroup() {
			fn = &tl.ReorderSupergroupActiveUsernames{SupergroupID: c.Type.SupergroupID, Usernames: usernames}
		}
	default:
		if bot := u.store.User(peerID); bot != nil && bot.IsBot() && bot.Type.CanBeEdited {
			fn = &tl.ReorderBotActiveUsernames{BotUserID: peerID, Usernames: usernames}
		}
	}
	if fn == nil {
		finish()
		return
	}
	var id rpc.RequestID
	end := func() {
		if cur, ok := u.reorders[peerID]; ok && cur.id == id {
			delete(u.reorders, peerID)
		}
		finish()
	}
	id = u.sender.Send(fn, func(tl.Object) { end() }, func(e *tl.Error) {
		glog.Warningf("usernames: reorder %d: %v", peerID, e)
		end()
	})
	u.reorders[peerID] = reorderEntry{id: id, done: done}
}

// Pending reports whether a toggle of username is in flight.
func (u *Usernames) Pending(peerID int64, username string) bool {
	e := u.toggles[peerID]
	return e != nil && e.names.Has(username)
}
