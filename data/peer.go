package data

import (
	"reflect"

	"github.com/mqy/minisync/tl"
)

type User struct {
	ID          int64
	FirstName   string
	LastName    string
	PhoneNumber string
	Usernames   tl.Usernames
	Status      tl.UserStatus
	Type        tl.UserType
	IsContact   bool
	IsPremium   bool

	FullInfo *tl.UserFullInfo
}

func (u *User) IsBot() bool { return u.Type.Type == tl.UserTypeBot }

func (u *User) apply(src *tl.User) PeerFlags {
	var f PeerFlags
	if u.FirstName != src.FirstName || u.LastName != src.LastName {
		u.FirstName, u.LastName = src.FirstName, src.LastName
		f |= PeerName
	}
	var names tl.Usernames
	if src.Usernames != nil {
		names = *src.Usernames
	}
	if !usernamesEqual(u.Usernames, names) {
		u.Usernames = names
		f |= PeerUsernames
	}
	if u.SetStatus(src.Status) {
		f |= PeerOnlineStatus
	}
	if u.PhoneNumber != src.PhoneNumber || u.IsContact != src.IsContact ||
		u.IsPremium != src.IsPremium || u.Type != src.Type {
		u.PhoneNumber, u.IsContact, u.IsPremium, u.Type =
			src.PhoneNumber, src.IsContact, src.IsPremium, src.Type
		f |= PeerRights
	}
	return f
}

func (u *User) SetStatus(s tl.UserStatus) bool {
	if u.Status == s {
		return false
	}
	u.Status = s
	return true
}

func (u *User) SetFullInfo(fi tl.UserFullInfo) bool {
	if u.FullInfo != nil && reflect.DeepEqual(*u.FullInfo, fi) {
		return false
	}
	u.FullInfo = &fi
	return true
}

func usernamesEqual(a, b tl.Usernames) bool {
	return a.EditableUsername == b.EditableUsername &&
		stringsEqual(a.ActiveUsernames, b.ActiveUsernames) &&
		stringsEqual(a.DisabledUsernames, b.DisabledUsernames)
}

func stringsEqual(a, b []string) bool {
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

type BasicGroup struct {
	ID                     int64
	MemberCount            int32
	Status                 tl.ChatMemberStatus
	IsActive               bool
	UpgradedToSupergroupID int64

	FullInfo *tl.BasicGroupFullInfo
}

func (g *BasicGroup) apply(src *tl.BasicGroup) PeerFlags {
	var f PeerFlags
	if g.MemberCount != src.MemberCount {
		g.MemberCount = src.MemberCount
		f |= PeerMembers
	}
	if g.Status != src.Status || g.IsActive != src.IsActive ||
		g.UpgradedToSupergroupID != src.UpgradedToSupergroupID {
		g.Status, g.IsActive, g.UpgradedToSupergroupID =
			src.Status, src.IsActive, src.UpgradedToSupergroupID
		f |= PeerRights
	}
	return f
}

func (g *BasicGroup) SetFullInfo(fi tl.BasicGroupFullInfo) bool {
	if g.FullInfo != nil && reflect.DeepEqual(*g.FullInfo, fi) {
		return false
	}
	g.FullInfo = &fi
	return true
}

type Supergroup struct {
	ID          int64
	Usernames   tl.Usernames
	Date        int32
	Status      tl.ChatMemberStatus
	MemberCount int32
	IsChannel   bool
	IsForum     bool

	FullInfo *tl.SupergroupFullInfo
}

func (g *Supergroup) apply(src *tl.Supergroup) PeerFlags {
	var f PeerFlags
	var names tl.Usernames
	if src.Usernames != nil {
		names = *src.Usernames
	}
	if !usernamesEqual(g.Usernames, names) {
		g.Usernames = names
		f |= PeerUsernames
	}
	if g.MemberCount != src.MemberCount {
		g.MemberCount = src.MemberCount
		f |= PeerMembers
	}
	if g.Status != src.Status || g.IsChannel != src.IsChannel ||
		g.IsForum != src.IsForum || g.Date != src.Date {
		g.Status, g.IsChannel, g.IsForum, g.Date = src.Status, src.IsChannel, src.IsForum, src.Date
		f |= PeerRights
	}
	return f
}

func (g *Supergroup) SetFullInfo(fi tl.SupergroupFullInfo) bool {
	if g.FullInfo != nil && *g.FullInfo == fi {
		return false
	}
	g.FullInfo = &fi
	return true
}
