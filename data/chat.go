package data

import (
	"reflect"

	"github.com/mqy/minisync/notify"
	"github.com/mqy/minisync/tl"
)

// Chat is the canonical chat object. Only the dispatcher and session-owned
// mergers mutate it, from the event loop.
type Chat struct {
	ID   int64
	Type tl.ChatType
	gen  uint32

	Title               string
	Photo               *tl.ChatPhotoInfo
	Permissions         tl.ChatPermissions
	LastMessageID       int64
	Positions           map[string]tl.ChatPosition
	HasProtectedContent bool
	IsMarkedAsUnread    bool
	IsBlocked           bool
	UnreadCount         int32
	LastReadInbox       int64
	LastReadOutbox      int64
	UnreadMentionCount  int32
	UnreadReactionCount int32
	AvailableReactions  tl.ChatAvailableReactions
	AutoDeleteTime      int32
	ThemeName           string
	VideoChat           tl.VideoChat
	CloudDraft          *tl.DraftMessage
	NotifySettings      notify.PeerNotifySettings

	// FullInfoLoaded is set once the basic group or supergroup full info of
	// this chat arrived.
	FullInfoLoaded bool
}

func (c *Chat) IsPrivate() bool { return c.Type.Type == tl.ChatTypePrivate }

func (c *Chat) IsSupergroup() bool { return c.Type.Type == tl.ChatTypeSupergroup }

func (c *Chat) IsBasicGroup() bool { return c.Type.Type == tl.ChatTypeBasicGroup }

// CallActive reports whether the server flagged a video chat in this chat.
func (c *Chat) CallActive() bool { return c.VideoChat.GroupCallID != 0 }

func (c *Chat) apply(src *tl.Chat, now int32) ChatFlags {
	var f ChatFlags
	c.Type = src.Type
	if c.SetTitle(src.Title) {
		f |= ChatTitle
	}
	if c.SetPhoto(src.Photo) {
		f |= ChatPhoto
	}
	if c.SetPermissions(src.Permissions) {
		f |= ChatPermissions
	}
	lastID := int64(0)
	if src.LastMessage != nil {
		lastID = src.LastMessage.ID
	}
	if c.SetLastMessage(lastID) {
		f |= ChatLastMessage
	}
	if c.ReplacePositions(src.Positions) {
		f |= ChatPositions
	}
	if c.SetReadInbox(src.LastReadInboxMessageID, src.UnreadCount) {
		f |= ChatUnread
	}
	if c.SetReadOutbox(src.LastReadOutboxMessageID) {
		f |= ChatUnread
	}
	if c.SetUnreadMentionCount(src.UnreadMentionCount) {
		f |= ChatUnread
	}
	if c.SetUnreadReactionCount(src.UnreadReactionCount) {
		f |= ChatUnread
	}
	if c.SetMarkedAsUnread(src.IsMarkedAsUnread) {
		f |= ChatUnread
	}
	if c.SetBlocked(src.IsBlocked) {
		f |= ChatBlocked
	}
	if c.SetProtectedContent(src.HasProtectedContent) {
		f |= ChatProtected
	}
	if c.SetAvailableReactions(src.AvailableReactions) {
		f |= ChatReactions
	}
	if c.SetAutoDeleteTime(src.MessageAutoDeleteTime) {
		f |= ChatAutoDelete
	}
	if c.SetTheme(src.ThemeName) {
		f |= ChatTheme
	}
	if c.SetVideoChat(src.VideoChat) {
		f |= ChatVideoChat
	}
	if c.SetCloudDraft(src.DraftMessage) {
		f |= ChatDraft
	}
	if c.NotifySettings.Change(src.NotificationSettings, now) {
		f |= ChatNotifySettings
	}
	return f
}

func (c *Chat) SetTitle(v string) bool {
	if c.Title == v {
		return false
	}
	c.Title = v
	return true
}

func (c *Chat) SetPhoto(v *tl.ChatPhotoInfo) bool {
	if reflect.DeepEqual(c.Photo, v) {
		return false
	}
	c.Photo = v
	return true
}

func (c *Chat) SetPermissions(v tl.ChatPermissions) bool {
	if c.Permissions == v {
		return false
	}
	c.Permissions = v
	return true
}

func (c *Chat) SetLastMessage(id int64) bool {
	if c.LastMessageID == id {
		return false
	}
	c.LastMessageID = id
	return true
}

// SetPosition stores p; order 0 removes the chat from that list.
func (c *Chat) SetPosition(p tl.ChatPosition) bool {
	key := p.List.Key()
	old, ok := c.Positions[key]
	if p.Order == 0 {
		if !ok {
			return false
		}
		delete(c.Positions, key)
		return true
	}
	if ok && old == p {
		return false
	}
	if c.Positions == nil {
		c.Positions = make(map[string]tl.ChatPosition)
	}
	c.Positions[key] = p
	return true
}

// ReplacePositions is used by full chat pushes where the list is complete.
func (c *Chat) ReplacePositions(ps []tl.ChatPosition) bool {
	next := make(map[string]tl.ChatPosition, len(ps))
	for _, p := range ps {
		if p.Order != 0 {
			next[p.List.Key()] = p
		}
	}
	if len(next) == len(c.Positions) && (len(next) == 0 || reflect.DeepEqual(next, c.Positions)) {
		return false
	}
	c.Positions = next
	return true
}

func (c *Chat) SetReadInbox(lastRead int64, unread int32) bool {
	if c.LastReadInbox == lastRead && c.UnreadCount == unread {
		return false
	}
	c.LastReadInbox, c.UnreadCount = lastRead, unread
	return true
}

func (c *Chat) SetReadOutbox(lastRead int64) bool {
	if c.LastReadOutbox == lastRead {
		return false
	}
	c.LastReadOutbox = lastRead
	return true
}

func (c *Chat) SetUnreadMentionCount(v int32) bool {
	if c.UnreadMentionCount == v {
		return false
	}
	c.UnreadMentionCount = v
	return true
}

func (c *Chat) SetUnreadReactionCount(v int32) bool {
	if c.UnreadReactionCount == v {
		return false
	}
	c.UnreadReactionCount = v
	return true
}

func (c *Chat) SetMarkedAsUnread(v bool) bool {
	if c.IsMarkedAsUnread == v {
		return false
	}
	c.IsMarkedAsUnread = v
	return true
}

func (c *Chat) SetBlocked(v bool) bool {
	if c.IsBlocked == v {
		return false
	}
	c.IsBlocked = v
	return true
}

func (c *Chat) SetProtectedContent(v bool) bool {
	if c.HasProtectedContent == v {
		return false
	}
	c.HasProtectedContent = v
	return true
}

func (c *Chat) SetAvailableReactions(v tl.ChatAvailableReactions) bool {
	if reflect.DeepEqual(c.AvailableReactions, v) {
		return false
	}
	c.AvailableReactions = v
	return true
}

func (c *Chat) SetAutoDeleteTime(v int32) bool {
	if c.AutoDeleteTime == v {
		return false
	}
	c.AutoDeleteTime = v
	return true
}

func (c *Chat) SetTheme(v string) bool {
	if c.ThemeName == v {
		return false
	}
	c.ThemeName = v
	return true
}

func (c *Chat) SetVideoChat(v tl.VideoChat) bool {
	if reflect.DeepEqual(c.VideoChat, v) {
		return false
	}
	c.VideoChat = v
	return true
}

func (c *Chat) SetCloudDraft(v *tl.DraftMessage) bool {
	if reflect.DeepEqual(c.CloudDraft, v) {
		return false
	}
	c.CloudDraft = v
	return true
}
