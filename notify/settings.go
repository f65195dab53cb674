// Package notify models per-chat notification overrides and the per-scope
// defaults they fall back to.
package notify

import (
	"math"

	"github.com/mqy/minisync/tl"
)

const maxTime = math.MaxInt32

// NotifySound is a notification sound override. None means explicitly
// silent; a zero ID with no title means the default sound.
type NotifySound struct {
	Title string
	Data  string
	ID    int64
	None  bool
}

func parseSound(id int64) NotifySound {
	switch id {
	case 0:
		return NotifySound{None: true}
	case -1:
		return NotifySound{}
	}
	return NotifySound{ID: id}
}

func serializeSound(s *NotifySound) int64 {
	switch {
	case s == nil:
		return -1
	case s.None:
		return 0
	case s.ID == 0:
		return -1
	}
	return s.ID
}

// MuteValue is a local mute request: unmute, mute forever, or mute for a
// period in seconds. The zero value requests nothing.
type MuteValue struct {
	Unmute  bool
	Forever bool
	Period  int32
}

func (m MuteValue) IsSet() bool {
	return m.Unmute || m.Forever || m.Period != 0
}

// Until returns the mute deadline: MaxInt32 for forever, 0 for unmute and -1
// when nothing was requested.
func (m MuteValue) Until(now int32) int32 {
	switch {
	case m.Forever:
		return maxTime
	case m.Period > 0:
		return int32(min64(int64(now)+int64(m.Period), maxTime))
	case m.Unmute:
		return 0
	}
	return -1
}

func MuteForToMuteTill(muteFor, now int32) int32 {
	if muteFor == 0 {
		return 0
	}
	return int32(min64(int64(now)+int64(muteFor), maxTime))
}

func MuteTillToMuteFor(muteTill, now int32) int32 {
	switch {
	case muteTill == maxTime:
		return maxTime
	case muteTill <= now:
		return 0
	}
	return muteTill - now
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// value holds the explicit dimensions of an override. nil pointers inherit.
type value struct {
	mute         *int32
	sound        *NotifySound
	showPreviews *bool
	silent       *bool
	storiesMuted *bool
}

func (v *value) equal(o *value) bool {
	return eqPtr(v.mute, o.mute) &&
		eqPtr(v.sound, o.sound) &&
		eqPtr(v.showPreviews, o.showPreviews) &&
		eqPtr(v.silent, o.silent) &&
		eqPtr(v.storiesMuted, o.storiesMuted)
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func ptr[T any](v T) *T { return &v }

func fromWire(s tl.ChatNotificationSettings, silent *bool, now int32) *value {
	v := &value{silent: silent}
	if !s.UseDefaultMuteFor {
		v.mute = ptr(MuteForToMuteTill(s.MuteFor, now))
	}
	if !s.UseDefaultSound {
		v.sound = ptr(parseSound(s.SoundID))
	}
	if !s.UseDefaultShowPreview {
		v.showPreviews = ptr(s.ShowPreview)
	}
	return v
}

// PeerNotifySettings is the override state of one chat. The zero value is
// "not known yet".
type PeerNotifySettings struct {
	known bool
	value *value
}

// Default is the wire form of "no override".
func Default() tl.ChatNotificationSettings {
	return tl.ChatNotificationSettings{
		UseDefaultMuteFor:     true,
		UseDefaultSound:       true,
		SoundID:               -1,
		UseDefaultShowPreview: true,
		ShowPreview:           true,
		UseDefaultMuteStories: true,
		UseDefaultStorySound:  true,
		StorySoundID:          -1,

		UseDefaultDisablePinnedMessageNotifications: true,
		UseDefaultDisableMentionNotifications:       true,
	}
}

func ScopeDefault() tl.ScopeNotificationSettings {
	return tl.ScopeNotificationSettings{
		SoundID:               -1,
		ShowPreview:           true,
		UseDefaultMuteStories: true,
		StorySoundID:          -1,
	}
}

func isEmpty(s tl.ChatNotificationSettings) bool {
	return s.UseDefaultMuteFor && s.UseDefaultShowPreview && s.UseDefaultSound
}

// FromWire builds settings from a standalone wire value. A value without any
// explicit dimension carries no information and stays unknown.
func FromWire(s tl.ChatNotificationSettings, now int32) PeerNotifySettings {
	if isEmpty(s) {
		return PeerNotifySettings{}
	}
	return PeerNotifySettings{known: true, value: fromWire(s, nil, now)}
}

// Change applies a pushed value. Returns whether anything changed.
func (p *PeerNotifySettings) Change(s tl.ChatNotificationSettings, now int32) bool {
	if isEmpty(s) {
		if !p.known || p.value != nil {
			p.known = true
			p.value = nil
			return true
		}
		return false
	}
	var silent *bool
	if p.value != nil {
		silent = p.value.silent
	}
	next := fromWire(s, silent, now)
	if p.value != nil && p.value.equal(next) {
		return false
	}
	p.known = true
	p.value = next
	return true
}

// ChangeLocal records a local edit. Unset arguments keep the current value.
func (p *PeerNotifySettings) ChangeLocal(mute MuteValue, silentPosts *bool, sound *NotifySound, storiesMuted *bool, now int32) bool {
	if !mute.IsSet() && silentPosts == nil && sound == nil && storiesMuted == nil {
		return false
	}
	next := &value{}
	if p.value != nil {
		cur := *p.value
		next = &cur
	}
	if mute.IsSet() {
		next.mute = ptr(mute.Until(now))
	}
	if silentPosts != nil {
		next.silent = ptr(*silentPosts)
	}
	if sound != nil {
		next.sound = ptr(*sound)
	}
	if storiesMuted != nil {
		next.storiesMuted = ptr(*storiesMuted)
	}
	if p.value != nil && p.value.equal(next) {
		return false
	}
	p.known = true
	p.value = next
	return true
}

func (p *PeerNotifySettings) ResetToDefault() bool {
	if p.known && p.value == nil {
		return false
	}
	p.known = true
	p.value = nil
	return true
}

func (p *PeerNotifySettings) SettingsUnknown() bool { return !p.known }

// NoOverride reports whether every dimension inherits the scope default.
func (p *PeerNotifySettings) NoOverride() bool { return p.value == nil }

func (p *PeerNotifySettings) MuteUntil() *int32 {
	if p.value == nil {
		return nil
	}
	return p.value.mute
}

func (p *PeerNotifySettings) SilentPosts() *bool {
	if p.value == nil {
		return nil
	}
	return p.value.silent
}

func (p *PeerNotifySettings) Sound() *NotifySound {
	if p.value == nil {
		return nil
	}
	return p.value.sound
}

func (p *PeerNotifySettings) ShowPreviews() *bool {
	if p.value == nil {
		return nil
	}
	return p.value.showPreviews
}

// Equal compares the observable state of two settings.
func (p *PeerNotifySettings) Equal(o *PeerNotifySettings) bool {
	if p.known != o.known || (p.value == nil) != (o.value == nil) {
		return false
	}
	return p.value == nil || p.value.equal(o.value)
}

func (p *PeerNotifySettings) Serialize(now int32) tl.ChatNotificationSettings {
	v := p.value
	if v == nil {
		return Default()
	}
	out := Default()
	if v.mute != nil {
		out.UseDefaultMuteFor = false
		out.MuteFor = MuteTillToMuteFor(*v.mute, now)
	}
	if v.sound != nil {
		out.UseDefaultSound = false
		out.SoundID = serializeSound(v.sound)
	}
	if v.showPreviews != nil {
		out.UseDefaultShowPreview = false
		out.ShowPreview = *v.showPreviews
	}
	return out
}

func (p *PeerNotifySettings) SerializeDefault(now int32) tl.ScopeNotificationSettings {
	v := p.value
	if v == nil {
		return ScopeDefault()
	}
	out := ScopeDefault()
	if v.mute != nil {
		out.MuteFor = MuteTillToMuteFor(*v.mute, now)
	}
	out.SoundID = serializeSound(v.sound)
	if v.showPreviews != nil {
		out.ShowPreview = *v.showPreviews
	}
	return out
}
