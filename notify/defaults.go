package notify

import "github.com/mqy/minisync/tl"

type Scope int

const (
	ScopePrivate Scope = iota
	ScopeGroup
	ScopeChannel
	scopeCount
)

func ScopeFromTL(s tl.NotificationSettingsScope) (Scope, bool) {
	switch s.Type {
	case tl.NotificationSettingsScopePrivateChats:
		return ScopePrivate, true
	case tl.NotificationSettingsScopeGroupChats:
		return ScopeGroup, true
	case tl.NotificationSettingsScopeChannelChats:
		return ScopeChannel, true
	}
	return 0, false
}

// ScopeOf returns the default scope a chat of type t falls back to.
func ScopeOf(t tl.ChatType) Scope {
	switch t.Type {
	case tl.ChatTypePrivate, tl.ChatTypeSecret:
		return ScopePrivate
	case tl.ChatTypeSupergroup:
		if t.IsChannel {
			return ScopeChannel
		}
	}
	return ScopeGroup
}

// Defaults holds the per-scope default settings pushed by the server.
type Defaults struct {
	scopes [scopeCount]PeerNotifySettings
}

// Apply stores a scope default; scope values have no use_default flags so
// every dimension is explicit.
func (d *Defaults) Apply(scope Scope, s tl.ScopeNotificationSettings, now int32) bool {
	return d.scopes[scope].Change(tl.ChatNotificationSettings{
		MuteFor:     s.MuteFor,
		SoundID:     s.SoundID,
		ShowPreview: s.ShowPreview,
	}, now)
}

func (d *Defaults) Get(scope Scope) *PeerNotifySettings {
	return &d.scopes[scope]
}

// IsMuted resolves the effective mute state of a chat: its own override if
// set, else the scope default.
func (d *Defaults) IsMuted(chat *PeerNotifySettings, scope Scope, now int32) bool {
	if until := chat.MuteUntil(); until != nil {
		return *until > now
	}
	if until := d.scopes[scope].MuteUntil(); until != nil {
		return *until > now
	}
	return false
}

// EffectiveSound resolves the sound a chat plays with.
func (d *Defaults) EffectiveSound(chat *PeerNotifySettings, scope Scope) NotifySound {
	if s := chat.Sound(); s != nil {
		return *s
	}
	if s := d.scopes[scope].Sound(); s != nil {
		return *s
	}
	return NotifySound{}
}
