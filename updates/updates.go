// Package updates folds the push stream of a session into the entity store
// and keeps the session-level state (online status, opened chats, group call
// speakers) in sync with the server.
package updates

import (
	"errors"

	"github.com/golang/glog"

	"github.com/mqy/minisync/data"
	"github.com/mqy/minisync/event"
	"github.com/mqy/minisync/loop"
	"github.com/mqy/minisync/metrics"
	"github.com/mqy/minisync/notify"
	"github.com/mqy/minisync/rpc"
	"github.com/mqy/minisync/tl"
)

// IOptionSink consumes server options. ApplyOption reports whether the
// option was recognized.
type IOptionSink interface {
	ApplyOption(name string, v tl.OptionValue) bool
}

// IShortcuts receives the quick reply pushes.
type IShortcuts interface {
	ApplyShortcut(u *tl.UpdateQuickReplyShortcut)
	ApplyShortcutDeleted(u *tl.UpdateQuickReplyShortcutDeleted)
	ApplyShortcuts(u *tl.UpdateQuickReplyShortcuts)
	ApplyShortcutMessages(u *tl.UpdateQuickReplyShortcutMessages)
}

// IFactchecks is told about fact-check pushes after the message was updated.
type IFactchecks interface {
	Apply(u *tl.UpdateMessageFactCheck)
}

// ICalls owns one-to-one calls.
type ICalls interface {
	HandleCall(call *tl.Call)
	HandleSignalingData(callID int32, data []byte)
}

type Deps struct {
	Sched    loop.Scheduler
	Store    *data.Store
	Sender   rpc.ISender
	Activity IActivity
	Liveness LivenessConfig

	Options    []IOptionSink
	Shortcuts  IShortcuts
	Factchecks IFactchecks
	Calls      ICalls
}

// Updates is the dispatcher. Apply must be called on the event loop.
type Updates struct {
	sched  loop.Scheduler
	store  *data.Store
	sender rpc.ISender

	liveness *Liveness
	active   *ActiveChats
	speaking *Speaking

	options    []IOptionSink
	shortcuts  IShortcuts
	factchecks IFactchecks
	calls      ICalls

	authState *event.Value[string]
	connState *event.Value[string]
}

var _ tl.Handler = (*Updates)(nil)

func New(d Deps) *Updates {
	u := &Updates{
		sched:      d.Sched,
		store:      d.Store,
		sender:     d.Sender,
		active:     NewActiveChats(d.Sender),
		speaking:   NewSpeaking(d.Store, d.Sender),
		shortcuts:  d.Shortcuts,
		factchecks: d.Factchecks,
		calls:      d.Calls,
		authState:  &event.Value[string]{},
		connState:  &event.Value[string]{},
	}
	u.liveness = NewLiveness(d.Sched, d.Sender, d.Store, d.Activity, d.Liveness)
	u.options = append([]IOptionSink{u.liveness}, d.Options...)
	return u
}

func (u *Updates) Liveness() *Liveness { return u.liveness }

func (u *Updates) ActiveChats() *ActiveChats { return u.active }

func (u *Updates) Speaking() *Speaking { return u.speaking }

func (u *Updates) AuthorizationState() *event.Value[string] { return u.authState }

func (u *Updates) ConnectionState() *event.Value[string] { return u.connState }

// Apply dispatches one update and schedules the flush of the changes it made.
func (u *Updates) Apply(up tl.Update) {
	if up == nil {
		return
	}
	glog.V(5).Infof("updates: %s", up.TypeName())
	metrics.UpdatesApplied.WithLabelValues(up.TypeName()).Inc()
	up.Accept(u)
	u.store.Changes().Schedule()
}

// ApplyFrame decodes and applies a raw push. Frames that do not decode are
// logged and dropped.
func (u *Updates) ApplyFrame(frame []byte) {
	up, err := tl.DecodeUpdate(frame)
	if err != nil {
		reason := metrics.DropMalformed
		if errors.Is(err, tl.ErrUnknownType) {
			reason = metrics.DropUnknownType
		}
		metrics.UpdatesDropped.WithLabelValues(reason).Inc()
		glog.Warningf("updates: drop frame: %v", err)
		return
	}
	u.Apply(up)
}

func (u *Updates) Destroy() {
	u.liveness.Stop()
	u.speaking.Destroy()
}

func (u *Updates) missing(kind string, id int64) {
	metrics.UpdatesDropped.WithLabelValues(metrics.DropNoEntity).Inc()
	glog.V(5).Infof("updates: unknown %s %d", kind, id)
}

func (u *Updates) chat(id int64) *data.Chat {
	c := u.store.Chat(id)
	if c == nil {
		u.missing("chat", id)
	}
	return c
}

func (u *Updates) message(chatID, id int64) *data.Message {
	m := u.store.Message(chatID, id)
	if m == nil {
		u.missing("message", id)
	}
	return m
}

func (u *Updates) chatChanged(c *data.Chat, changed bool, f data.ChatFlags) {
	if changed {
		u.store.Changes().ChatUpdated(c, f)
	}
}

func (u *Updates) messageChanged(m *data.Message, changed bool, f data.MessageFlags) {
	if changed {
		u.store.Changes().MessageUpdated(m.FullMsgID, f)
	}
}

func (u *Updates) applyPositions(c *data.Chat, ps []tl.ChatPosition) {
	for _, p := range ps {
		u.chatChanged(c, c.SetPosition(p), data.ChatPositions)
	}
}

// session

func (u *Updates) OnAuthorizationState(up *tl.UpdateAuthorizationState) {
	state := up.AuthorizationState.Type
	glog.Infof("updates: authorization state %s", state)
	u.authState.SetIfChanged(state, stringEq)
	switch state {
	case tl.AuthorizationStateReady:
		u.liveness.UpdateOnline(u.sched.Now())
	case tl.AuthorizationStateLoggingOut, tl.AuthorizationStateClosed:
		u.liveness.Stop()
		u.speaking.Clear()
		u.store.Clear()
	}
}

func (u *Updates) OnConnectionState(up *tl.UpdateConnectionState) {
	glog.Infof("updates: connection state %s", up.State.Type)
	u.connState.SetIfChanged(up.State.Type, stringEq)
}

func (u *Updates) OnOption(up *tl.UpdateOption) {
	if up.Name == "my_id" {
		u.store.SetSelfID(up.Value.Int())
	}
	used := false
	for _, sink := range u.options {
		if sink.ApplyOption(up.Name, up.Value) {
			used = true
		}
	}
	if !used {
		glog.V(5).Infof("updates: option %s unused", up.Name)
	}
}

// messages

func (u *Updates) OnNewMessage(up *tl.UpdateNewMessage) {
	u.store.ProcessMessage(&up.Message)
}

// OnMessageSendAcknowledged is a no-op: an acknowledged message is shown as
// sending until it succeeds.
func (u *Updates) OnMessageSendAcknowledged(*tl.UpdateMessageSendAcknowledged) {}

func (u *Updates) OnMessageSendSucceeded(up *tl.UpdateMessageSendSucceeded) {
	u.store.ReplaceMessageID(up.Message.ChatID, up.OldMessageID, &up.Message)
}

func (u *Updates) OnMessageSendFailed(up *tl.UpdateMessageSendFailed) {
	glog.Warningf("updates: send of %d:%d failed: %v", up.Message.ChatID, up.OldMessageID, &up.Error)
	u.store.ReplaceMessageID(up.Message.ChatID, up.OldMessageID, &up.Message)
}

func (u *Updates) OnMessageContent(up *tl.UpdateMessageContent) {
	if m := u.message(up.ChatID, up.MessageID); m != nil {
		u.messageChanged(m, m.SetContent(up.NewContent), data.MessageContent)
	}
}

func (u *Updates) OnMessageEdited(up *tl.UpdateMessageEdited) {
	if m := u.message(up.ChatID, up.MessageID); m != nil {
		u.messageChanged(m, m.SetEditDate(up.EditDate), data.MessageEdited)
	}
}

func (u *Updates) OnMessageIsPinned(up *tl.UpdateMessageIsPinned) {
	if m := u.message(up.ChatID, up.MessageID); m != nil {
		u.messageChanged(m, m.SetPinned(up.IsPinned), data.MessagePinned)
	}
}

func (u *Updates) OnMessageInteractionInfo(up *tl.UpdateMessageInteractionInfo) {
	if m := u.message(up.ChatID, up.MessageID); m != nil {
		u.messageChanged(m, m.SetInteractionInfo(up.InteractionInfo), data.MessageReactions)
	}
}

func (u *Updates) OnMessageContentOpened(up *tl.UpdateMessageContentOpened) {
	if m := u.message(up.ChatID, up.MessageID); m != nil {
		opened := m.MarkContentOpened()
		read := m.MarkMentionRead()
		u.messageChanged(m, opened || read, data.MessageContent)
	}
}

func (u *Updates) OnMessageMentionRead(up *tl.UpdateMessageMentionRead) {
	c := u.chat(up.ChatID)
	if c == nil {
		return
	}
	u.chatChanged(c, c.SetUnreadMentionCount(up.UnreadMentionCount), data.ChatUnread)
	if m := u.store.Message(up.ChatID, up.MessageID); m != nil {
		u.messageChanged(m, m.MarkMentionRead(), data.MessageMention)
	}
}

func (u *Updates) OnMessageUnreadReactions(up *tl.UpdateMessageUnreadReactions) {
	m := u.message(up.ChatID, up.MessageID)
	if m == nil {
		return
	}
	u.messageChanged(m, m.SetUnreadReactions(up.UnreadReactions), data.MessageReactions)
	if c := u.store.Chat(up.ChatID); c != nil {
		u.chatChanged(c, c.SetUnreadReactionCount(up.UnreadReactionCount), data.ChatUnread)
	}
}

func (u *Updates) OnMessageFactCheck(up *tl.UpdateMessageFactCheck) {
	m := u.message(up.ChatID, up.MessageID)
	if m == nil {
		return
	}
	u.messageChanged(m, m.SetFactCheck(up.FactCheck), data.MessageFactCheck)
	if u.factchecks != nil {
		u.factchecks.Apply(up)
	}
}

func (u *Updates) OnDeleteMessages(up *tl.UpdateDeleteMessages) {
	if up.FromCache {
		return
	}
	for _, id := range up.MessageIDs {
		u.store.DeleteMessage(up.ChatID, id)
	}
}

// chats

func (u *Updates) OnNewChat(up *tl.UpdateNewChat) {
	u.store.ProcessChat(&up.Chat)
}

func (u *Updates) OnChatTitle(up *tl.UpdateChatTitle) {
	if c := u.chat(up.ChatID); c != nil {
		u.chatChanged(c, c.SetTitle(up.Title), data.ChatTitle)
	}
}

func (u *Updates) OnChatPhoto(up *tl.UpdateChatPhoto) {
	if c := u.chat(up.ChatID); c != nil {
		u.chatChanged(c, c.SetPhoto(up.Photo), data.ChatPhoto)
	}
}

func (u *Updates) OnChatPermissions(up *tl.UpdateChatPermissions) {
	if c := u.chat(up.ChatID); c != nil {
		u.chatChanged(c, c.SetPermissions(up.Permissions), data.ChatPermissions)
	}
}

func (u *Updates) OnChatLastMessage(up *tl.UpdateChatLastMessage) {
	c := u.chat(up.ChatID)
	if c == nil {
		return
	}
	var id int64
	if up.LastMessage != nil {
		u.store.ProcessMessage(up.LastMessage)
		id = up.LastMessage.ID
	}
	u.chatChanged(c, c.SetLastMessage(id), data.ChatLastMessage)
	u.applyPositions(c, up.Positions)
}

func (u *Updates) OnChatPosition(up *tl.UpdateChatPosition) {
	if c := u.chat(up.ChatID); c != nil {
		u.chatChanged(c, c.SetPosition(up.Position), data.ChatPositions)
	}
}

func (u *Updates) OnChatReadInbox(up *tl.UpdateChatReadInbox) {
	if c := u.chat(up.ChatID); c != nil {
		u.chatChanged(c, c.SetReadInbox(up.LastReadInboxMessageID, up.UnreadCount), data.ChatUnread)
	}
}

func (u *Updates) OnChatReadOutbox(up *tl.UpdateChatReadOutbox) {
	if c := u.chat(up.ChatID); c != nil {
		u.chatChanged(c, c.SetReadOutbox(up.LastReadOutboxMessageID), data.ChatUnread)
	}
}

func (u *Updates) OnChatUnreadMentionCount(up *tl.UpdateChatUnreadMentionCount) {
	if c := u.chat(up.ChatID); c != nil {
		u.chatChanged(c, c.SetUnreadMentionCount(up.UnreadMentionCount), data.ChatUnread)
	}
}

func (u *Updates) OnChatUnreadReactionCount(up *tl.UpdateChatUnreadReactionCount) {
	if c := u.chat(up.ChatID); c != nil {
		u.chatChanged(c, c.SetUnreadReactionCount(up.UnreadReactionCount), data.ChatUnread)
	}
}

// OnChatAvailableReactions ignores private chats, where every reaction is
// allowed.
func (u *Updates) OnChatAvailableReactions(up *tl.UpdateChatAvailableReactions) {
	c := u.chat(up.ChatID)
	if c == nil || c.IsPrivate() {
		return
	}
	u.chatChanged(c, c.SetAvailableReactions(up.AvailableReactions), data.ChatReactions)
}

func (u *Updates) OnChatNotificationSettings(up *tl.UpdateChatNotificationSettings) {
	if c := u.chat(up.ChatID); c != nil {
		u.chatChanged(c, c.NotifySettings.Change(up.NotificationSettings, u.store.Now()), data.ChatNotifySettings)
	}
}

func (u *Updates) OnChatDraftMessage(up *tl.UpdateChatDraftMessage) {
	c := u.chat(up.ChatID)
	if c == nil {
		return
	}
	u.chatChanged(c, c.SetCloudDraft(up.DraftMessage), data.ChatDraft)
	u.applyPositions(c, up.Positions)
}

func (u *Updates) OnChatMessageAutoDeleteTime(up *tl.UpdateChatMessageAutoDeleteTime) {
	if c := u.chat(up.ChatID); c != nil {
		u.chatChanged(c, c.SetAutoDeleteTime(up.MessageAutoDeleteTime), data.ChatAutoDelete)
	}
}

func (u *Updates) OnChatTheme(up *tl.UpdateChatTheme) {
	if c := u.chat(up.ChatID); c != nil {
		u.chatChanged(c, c.SetTheme(up.ThemeName), data.ChatTheme)
	}
}

// OnChatVideoChat keeps the call object in step with the chat: a replaced or
// ended call is dropped, a new one is created once full info is known.
func (u *Updates) OnChatVideoChat(up *tl.UpdateChatVideoChat) {
	c := u.chat(up.ChatID)
	if c == nil {
		return
	}
	old := c.VideoChat.GroupCallID
	if !c.SetVideoChat(up.VideoChat) {
		return
	}
	u.store.Changes().ChatUpdated(c, data.ChatVideoChat)
	if old != 0 && old != up.VideoChat.GroupCallID {
		u.store.DropGroupCall(old)
	}
	if c.CallActive() && c.FullInfoLoaded {
		u.store.EnsureGroupCall(c)
	}
}

func (u *Updates) OnChatIsBlocked(up *tl.UpdateChatIsBlocked) {
	if c := u.chat(up.ChatID); c != nil {
		u.chatChanged(c, c.SetBlocked(up.IsBlocked), data.ChatBlocked)
	}
}

func (u *Updates) OnChatIsMarkedAsUnread(up *tl.UpdateChatIsMarkedAsUnread) {
	if c := u.chat(up.ChatID); c != nil {
		u.chatChanged(c, c.SetMarkedAsUnread(up.IsMarkedAsUnread), data.ChatUnread)
	}
}

func (u *Updates) OnChatHasProtectedContent(up *tl.UpdateChatHasProtectedContent) {
	if c := u.chat(up.ChatID); c != nil {
		u.chatChanged(c, c.SetProtectedContent(up.HasProtectedContent), data.ChatProtected)
	}
}

func (u *Updates) OnChatOnlineMemberCount(up *tl.UpdateChatOnlineMemberCount) {
	if u.store.SetOnlineMemberCount(up.ChatID, up.OnlineMemberCount) {
		u.store.Changes().PeerUpdated(up.ChatID, data.PeerMembers)
	}
}

// OnChatAction only consumes group call speaking signals; typing indicators
// belong to the views.
func (u *Updates) OnChatAction(up *tl.UpdateChatAction) {
	if up.Action.Type != tl.ChatActionSpeaking {
		return
	}
	u.speaking.Handle(up.ChatID, up.SenderID.PeerID(), u.sched.Now())
}

func (u *Updates) OnScopeNotificationSettings(up *tl.UpdateScopeNotificationSettings) {
	scope, ok := notify.ScopeFromTL(up.Scope)
	if !ok {
		metrics.UpdatesDropped.WithLabelValues(metrics.DropUnexpected).Inc()
		glog.Warningf("updates: unexpected notification scope %q", up.Scope.Type)
		return
	}
	u.store.NotifyDefaults().Apply(scope, up.NotificationSettings, u.store.Now())
}

// users and groups

func (u *Updates) OnUser(up *tl.UpdateUser) {
	u.store.ProcessUser(&up.User)
	u.store.ResolveUnknownSpoken(up.User.ID)
}

func (u *Updates) OnUserStatus(up *tl.UpdateUserStatus) {
	user := u.store.User(up.UserID)
	if user == nil {
		u.missing("user", up.UserID)
		return
	}
	if !user.SetStatus(up.Status) {
		return
	}
	u.store.Changes().PeerUpdated(user.ID, data.PeerOnlineStatus)
	u.store.WatchForOffline(user)
	if u.store.IsSelf(user.ID) && up.Status.Type != tl.UserStatusOnline {
		u.liveness.OtherOffline()
	}
}

func (u *Updates) OnUserFullInfo(up *tl.UpdateUserFullInfo) {
	if !u.store.ApplyUserFullInfo(up.UserID, up.UserFullInfo) {
		u.missing("user", up.UserID)
	}
}

func (u *Updates) OnBasicGroup(up *tl.UpdateBasicGroup) {
	u.store.ProcessBasicGroup(&up.BasicGroup)
}

func (u *Updates) OnBasicGroupFullInfo(up *tl.UpdateBasicGroupFullInfo) {
	if !u.store.ApplyBasicGroupFullInfo(up.BasicGroupID, up.BasicGroupFullInfo) {
		u.missing("basic group", up.BasicGroupID)
	}
}

func (u *Updates) OnSupergroup(up *tl.UpdateSupergroup) {
	u.store.ProcessSupergroup(&up.Supergroup)
}

func (u *Updates) OnSupergroupFullInfo(up *tl.UpdateSupergroupFullInfo) {
	if !u.store.ApplySupergroupFullInfo(up.SupergroupID, up.SupergroupFullInfo) {
		u.missing("supergroup", up.SupergroupID)
	}
}

// calls

func (u *Updates) OnGroupCall(up *tl.UpdateGroupCall) {
	call, changed := u.store.ProcessGroupCall(&up.GroupCall)
	if call == nil {
		u.missing("group call", int64(up.GroupCall.ID))
		return
	}
	if changed {
		glog.V(3).Infof("updates: group call %d active=%v participants=%d",
			call.ID, call.IsActive, call.ParticipantCount)
	}
}

func (u *Updates) OnGroupCallParticipant(up *tl.UpdateGroupCallParticipant) {
	call := u.store.GroupCall(up.GroupCallID)
	if call == nil {
		u.missing("group call", int64(up.GroupCallID))
		return
	}
	call.ApplyParticipant(up.Participant)
}

func (u *Updates) OnCall(up *tl.UpdateCall) {
	if u.calls != nil {
		u.calls.HandleCall(&up.Call)
	}
}

func (u *Updates) OnNewCallSignalingData(up *tl.UpdateNewCallSignalingData) {
	if u.calls != nil {
		u.calls.HandleSignalingData(up.CallID, up.Data)
	}
}

// reactions and counters

func (u *Updates) OnActiveEmojiReactions(up *tl.UpdateActiveEmojiReactions) {
	u.store.Reactions().RefreshActive(up.Emojis)
}

func (u *Updates) OnDefaultReactionType(up *tl.UpdateDefaultReactionType) {
	u.store.Reactions().RefreshDefault(up.ReactionType)
}

func (u *Updates) OnUnreadMessageCount(up *tl.UpdateUnreadMessageCount) {
	c := u.store.Unread(up.ChatList)
	c.UnreadCount, c.UnreadUnmutedCount = up.UnreadCount, up.UnreadUnmutedCount
}

func (u *Updates) OnUnreadChatCount(up *tl.UpdateUnreadChatCount) {
	c := u.store.Unread(up.ChatList)
	c.ChatsTotal = up.TotalCount
	c.ChatsUnread = up.UnreadCount
	c.ChatsUnreadUnmuted = up.UnreadUnmutedCount
	c.ChatsMarkedUnread = up.MarkedAsUnreadCount
	c.ChatsMarkedUnreadMute = up.MarkedAsUnreadUnmutedCount
}

// shortcuts

func (u *Updates) OnQuickReplyShortcut(up *tl.UpdateQuickReplyShortcut) {
	if u.shortcuts != nil {
		u.shortcuts.ApplyShortcut(up)
	}
}

func (u *Updates) OnQuickReplyShortcutDeleted(up *tl.UpdateQuickReplyShortcutDeleted) {
	if u.shortcuts != nil {
		u.shortcuts.ApplyShortcutDeleted(up)
	}
}

func (u *Updates) OnQuickReplyShortcuts(up *tl.UpdateQuickReplyShortcuts) {
	if u.shortcuts != nil {
		u.shortcuts.ApplyShortcuts(up)
	}
}

func (u *Updates) OnQuickReplyShortcutMessages(up *tl.UpdateQuickReplyShortcutMessages) {
	if u.shortcuts != nil {
		u.shortcuts.ApplyShortcutMessages(up)
	}
}

// OnFile is a no-op: downloads are tracked by the file manager.
func (u *Updates) OnFile(*tl.UpdateFile) {}

func stringEq(a, b string) bool { return a == b }
