package tl

// Handler receives every Update variant. It has no default implementation:
// a new variant must be handled by every Handler before the module builds.
type Handler interface {
	OnAuthorizationState(*UpdateAuthorizationState)
	OnConnectionState(*UpdateConnectionState)
	OnOption(*UpdateOption)

	OnNewMessage(*UpdateNewMessage)
	OnMessageSendAcknowledged(*UpdateMessageSendAcknowledged)
	OnMessageSendSucceeded(*UpdateMessageSendSucceeded)
	OnMessageSendFailed(*UpdateMessageSendFailed)
	OnMessageContent(*UpdateMessageContent)
	OnMessageEdited(*UpdateMessageEdited)
	OnMessageIsPinned(*UpdateMessageIsPinned)
	OnMessageInteractionInfo(*UpdateMessageInteractionInfo)
	OnMessageContentOpened(*UpdateMessageContentOpened)
	OnMessageMentionRead(*UpdateMessageMentionRead)
	OnMessageUnreadReactions(*UpdateMessageUnreadReactions)
	OnMessageFactCheck(*UpdateMessageFactCheck)
	OnDeleteMessages(*UpdateDeleteMessages)

	OnNewChat(*UpdateNewChat)
	OnChatTitle(*UpdateChatTitle)
	OnChatPhoto(*UpdateChatPhoto)
	OnChatPermissions(*UpdateChatPermissions)
	OnChatLastMessage(*UpdateChatLastMessage)
	OnChatPosition(*UpdateChatPosition)
	OnChatReadInbox(*UpdateChatReadInbox)
	OnChatReadOutbox(*UpdateChatReadOutbox)
	OnChatUnreadMentionCount(*UpdateChatUnreadMentionCount)
	OnChatUnreadReactionCount(*UpdateChatUnreadReactionCount)
	OnChatAvailableReactions(*UpdateChatAvailableReactions)
	OnChatNotificationSettings(*UpdateChatNotificationSettings)
	OnChatDraftMessage(*UpdateChatDraftMessage)
	OnChatMessageAutoDeleteTime(*UpdateChatMessageAutoDeleteTime)
	OnChatTheme(*UpdateChatTheme)
	OnChatVideoChat(*UpdateChatVideoChat)
	OnChatIsBlocked(*UpdateChatIsBlocked)
	OnChatIsMarkedAsUnread(*UpdateChatIsMarkedAsUnread)
	OnChatHasProtectedContent(*UpdateChatHasProtectedContent)
	OnChatOnlineMemberCount(*UpdateChatOnlineMemberCount)
	OnChatAction(*UpdateChatAction)
	OnScopeNotificationSettings(*UpdateScopeNotificationSettings)

	OnUser(*UpdateUser)
	OnUserStatus(*UpdateUserStatus)
	OnUserFullInfo(*UpdateUserFullInfo)
	OnBasicGroup(*UpdateBasicGroup)
	OnBasicGroupFullInfo(*UpdateBasicGroupFullInfo)
	OnSupergroup(*UpdateSupergroup)
	OnSupergroupFullInfo(*UpdateSupergroupFullInfo)

	OnGroupCall(*UpdateGroupCall)
	OnGroupCallParticipant(*UpdateGroupCallParticipant)
	OnCall(*UpdateCall)
	OnNewCallSignalingData(*UpdateNewCallSignalingData)

	OnActiveEmojiReactions(*UpdateActiveEmojiReactions)
	OnDefaultReactionType(*UpdateDefaultReactionType)
	OnUnreadMessageCount(*UpdateUnreadMessageCount)
	OnUnreadChatCount(*UpdateUnreadChatCount)

	OnQuickReplyShortcut(*UpdateQuickReplyShortcut)
	OnQuickReplyShortcutDeleted(*UpdateQuickReplyShortcutDeleted)
	OnQuickReplyShortcuts(*UpdateQuickReplyShortcuts)
	OnQuickReplyShortcutMessages(*UpdateQuickReplyShortcutMessages)

	OnFile(*UpdateFile)
}

type UpdateAuthorizationState struct {
	AuthorizationState AuthorizationState `json:"authorization_state"`
}

func (*UpdateAuthorizationState) TypeName() string   { return "updateAuthorizationState" }
func (u *UpdateAuthorizationState) Accept(h Handler) { h.OnAuthorizationState(u) }

type UpdateConnectionState struct {
	State ConnectionState `json:"state"`
}

func (*UpdateConnectionState) TypeName() string   { return "updateConnectionState" }
func (u *UpdateConnectionState) Accept(h Handler) { h.OnConnectionState(u) }

type UpdateOption struct {
	Name  string      `json:"name"`
	Value OptionValue `json:"value"`
}

func (*UpdateOption) TypeName() string   { return "updateOption" }
func (u *UpdateOption) Accept(h Handler) { h.OnOption(u) }

type UpdateNewMessage struct {
	Message Message `json:"message"`
}

func (*UpdateNewMessage) TypeName() string   { return "updateNewMessage" }
func (u *UpdateNewMessage) Accept(h Handler) { h.OnNewMessage(u) }

type UpdateMessageSendAcknowledged struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int64 `json:"message_id"`
}

func (*UpdateMessageSendAcknowledged) TypeName() string   { return "updateMessageSendAcknowledged" }
func (u *UpdateMessageSendAcknowledged) Accept(h Handler) { h.OnMessageSendAcknowledged(u) }

type UpdateMessageSendSucceeded struct {
	Message      Message `json:"message"`
	OldMessageID int64   `json:"old_message_id"`
}

func (*UpdateMessageSendSucceeded) TypeName() string   { return "updateMessageSendSucceeded" }
func (u *UpdateMessageSendSucceeded) Accept(h Handler) { h.OnMessageSendSucceeded(u) }

type UpdateMessageSendFailed struct {
	Message      Message `json:"message"`
	OldMessageID int64   `json:"old_message_id"`
	Error        Error   `json:"error"`
}

func (*UpdateMessageSendFailed) TypeName() string   { return "updateMessageSendFailed" }
func (u *UpdateMessageSendFailed) Accept(h Handler) { h.OnMessageSendFailed(u) }

type UpdateMessageContent struct {
	ChatID     int64          `json:"chat_id"`
	MessageID  int64          `json:"message_id"`
	NewContent MessageContent `json:"new_content"`
}

func (*UpdateMessageContent) TypeName() string   { return "updateMessageContent" }
func (u *UpdateMessageContent) Accept(h Handler) { h.OnMessageContent(u) }

type UpdateMessageEdited struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int64 `json:"message_id"`
	EditDate  int32 `json:"edit_date"`
}

func (*UpdateMessageEdited) TypeName() string   { return "updateMessageEdited" }
func (u *UpdateMessageEdited) Accept(h Handler) { h.OnMessageEdited(u) }

type UpdateMessageIsPinned struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int64 `json:"message_id"`
	IsPinned  bool  `json:"is_pinned"`
}

func (*UpdateMessageIsPinned) TypeName() string   { return "updateMessageIsPinned" }
func (u *UpdateMessageIsPinned) Accept(h Handler) { h.OnMessageIsPinned(u) }

type UpdateMessageInteractionInfo struct {
	ChatID          int64                   `json:"chat_id"`
	MessageID       int64                   `json:"message_id"`
	InteractionInfo *MessageInteractionInfo `json:"interaction_info,omitempty"`
}

func (*UpdateMessageInteractionInfo) TypeName() string   { return "updateMessageInteractionInfo" }
func (u *UpdateMessageInteractionInfo) Accept(h Handler) { h.OnMessageInteractionInfo(u) }

type UpdateMessageContentOpened struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int64 `json:"message_id"`
}

func (*UpdateMessageContentOpened) TypeName() string   { return "updateMessageContentOpened" }
func (u *UpdateMessageContentOpened) Accept(h Handler) { h.OnMessageContentOpened(u) }

type UpdateMessageMentionRead struct {
	ChatID             int64 `json:"chat_id"`
	MessageID          int64 `json:"message_id"`
	UnreadMentionCount int32 `json:"unread_mention_count"`
}

func (*UpdateMessageMentionRead) TypeName() string   { return "updateMessageMentionRead" }
func (u *UpdateMessageMentionRead) Accept(h Handler) { h.OnMessageMentionRead(u) }

type UpdateMessageUnreadReactions struct {
	ChatID              int64            `json:"chat_id"`
	MessageID           int64            `json:"message_id"`
	UnreadReactions     []UnreadReaction `json:"unread_reactions"`
	UnreadReactionCount int32            `json:"unread_reaction_count"`
}

func (*UpdateMessageUnreadReactions) TypeName() string   { return "updateMessageUnreadReactions" }
func (u *UpdateMessageUnreadReactions) Accept(h Handler) { h.OnMessageUnreadReactions(u) }

type UpdateMessageFactCheck struct {
	ChatID    int64      `json:"chat_id"`
	MessageID int64      `json:"message_id"`
	FactCheck *FactCheck `json:"fact_check,omitempty"`
}

func (*UpdateMessageFactCheck) TypeName() string   { return "updateMessageFactCheck" }
func (u *UpdateMessageFactCheck) Accept(h Handler) { h.OnMessageFactCheck(u) }

type UpdateDeleteMessages struct {
	ChatID      int64   `json:"chat_id"`
	MessageIDs  []int64 `json:"message_ids"`
	IsPermanent bool    `json:"is_permanent"`
	FromCache   bool    `json:"from_cache"`
}

func (*UpdateDeleteMessages) TypeName() string   { return "updateDeleteMessages" }
func (u *UpdateDeleteMessages) Accept(h Handler) { h.OnDeleteMessages(u) }

type UpdateNewChat struct {
	Chat Chat `json:"chat"`
}

func (*UpdateNewChat) TypeName() string   { return "updateNewChat" }
func (u *UpdateNewChat) Accept(h Handler) { h.OnNewChat(u) }

type UpdateChatTitle struct {
	ChatID int64  `json:"chat_id"`
	Title  string `json:"title"`
}

func (*UpdateChatTitle) TypeName() string   { return "updateChatTitle" }
func (u *UpdateChatTitle) Accept(h Handler) { h.OnChatTitle(u) }

type UpdateChatPhoto struct {
	ChatID int64          `json:"chat_id"`
	Photo  *ChatPhotoInfo `json:"photo,omitempty"`
}

func (*UpdateChatPhoto) TypeName() string   { return "updateChatPhoto" }
func (u *UpdateChatPhoto) Accept(h Handler) { h.OnChatPhoto(u) }

type UpdateChatPermissions struct {
	ChatID      int64           `json:"chat_id"`
	Permissions ChatPermissions `json:"permissions"`
}

func (*UpdateChatPermissions) TypeName() string   { return "updateChatPermissions" }
func (u *UpdateChatPermissions) Accept(h Handler) { h.OnChatPermissions(u) }

type UpdateChatLastMessage struct {
	ChatID      int64          `json:"chat_id"`
	LastMessage *Message       `json:"last_message,omitempty"`
	Positions   []ChatPosition `json:"positions"`
}

func (*UpdateChatLastMessage) TypeName() string   { return "updateChatLastMessage" }
func (u *UpdateChatLastMessage) Accept(h Handler) { h.OnChatLastMessage(u) }

type UpdateChatPosition struct {
	ChatID   int64        `json:"chat_id"`
	Position ChatPosition `json:"position"`
}

func (*UpdateChatPosition) TypeName() string   { return "updateChatPosition" }
func (u *UpdateChatPosition) Accept(h Handler) { h.OnChatPosition(u) }

type UpdateChatReadInbox struct {
	ChatID                 int64 `json:"chat_id"`
	LastReadInboxMessageID int64 `json:"last_read_inbox_message_id"`
	UnreadCount            int32 `json:"unread_count"`
}

func (*UpdateChatReadInbox) TypeName() string   { return "updateChatReadInbox" }
func (u *UpdateChatReadInbox) Accept(h Handler) { h.OnChatReadInbox(u) }

type UpdateChatReadOutbox struct {
	ChatID                  int64 `json:"chat_id"`
	LastReadOutboxMessageID int64 `json:"last_read_outbox_message_id"`
}

func (*UpdateChatReadOutbox) TypeName() string   { return "updateChatReadOutbox" }
func (u *UpdateChatReadOutbox) Accept(h Handler) { h.OnChatReadOutbox(u) }

type UpdateChatUnreadMentionCount struct {
	ChatID             int64 `json:"chat_id"`
	UnreadMentionCount int32 `json:"unread_mention_count"`
}

func (*UpdateChatUnreadMentionCount) TypeName() string   { return "updateChatUnreadMentionCount" }
func (u *UpdateChatUnreadMentionCount) Accept(h Handler) { h.OnChatUnreadMentionCount(u) }

type UpdateChatUnreadReactionCount struct {
	ChatID              int64 `json:"chat_id"`
	UnreadReactionCount int32 `json:"unread_reaction_count"`
}

func (*UpdateChatUnreadReactionCount) TypeName() string   { return "updateChatUnreadReactionCount" }
func (u *UpdateChatUnreadReactionCount) Accept(h Handler) { h.OnChatUnreadReactionCount(u) }

type UpdateChatAvailableReactions struct {
	ChatID             int64                  `json:"chat_id"`
	AvailableReactions ChatAvailableReactions `json:"available_reactions"`
}

func (*UpdateChatAvailableReactions) TypeName() string   { return "updateChatAvailableReactions" }
func (u *UpdateChatAvailableReactions) Accept(h Handler) { h.OnChatAvailableReactions(u) }

type UpdateChatNotificationSettings struct {
	ChatID               int64                    `json:"chat_id"`
	NotificationSettings ChatNotificationSettings `json:"notification_settings"`
}

func (*UpdateChatNotificationSettings) TypeName() string   { return "updateChatNotificationSettings" }
func (u *UpdateChatNotificationSettings) Accept(h Handler) { h.OnChatNotificationSettings(u) }

type UpdateChatDraftMessage struct {
	ChatID       int64          `json:"chat_id"`
	DraftMessage *DraftMessage  `json:"draft_message,omitempty"`
	Positions    []ChatPosition `json:"positions"`
}

func (*UpdateChatDraftMessage) TypeName() string   { return "updateChatDraftMessage" }
func (u *UpdateChatDraftMessage) Accept(h Handler) { h.OnChatDraftMessage(u) }

type UpdateChatMessageAutoDeleteTime struct {
	ChatID                int64 `json:"chat_id"`
	MessageAutoDeleteTime int32 `json:"message_auto_delete_time"`
}

func (*UpdateChatMessageAutoDeleteTime) TypeName() string   { return "updateChatMessageAutoDeleteTime" }
func (u *UpdateChatMessageAutoDeleteTime) Accept(h Handler) { h.OnChatMessageAutoDeleteTime(u) }

type UpdateChatTheme struct {
	ChatID    int64  `json:"chat_id"`
	ThemeName string `json:"theme_name"`
}

func (*UpdateChatTheme) TypeName() string   { return "updateChatTheme" }
func (u *UpdateChatTheme) Accept(h Handler) { h.OnChatTheme(u) }

type UpdateChatVideoChat struct {
	ChatID    int64     `json:"chat_id"`
	VideoChat VideoChat `json:"video_chat"`
}

func (*UpdateChatVideoChat) TypeName() string   { return "updateChatVideoChat" }
func (u *UpdateChatVideoChat) Accept(h Handler) { h.OnChatVideoChat(u) }

type UpdateChatIsBlocked struct {
	ChatID    int64 `json:"chat_id"`
	IsBlocked bool  `json:"is_blocked"`
}

func (*UpdateChatIsBlocked) TypeName() string   { return "updateChatIsBlocked" }
func (u *UpdateChatIsBlocked) Accept(h Handler) { h.OnChatIsBlocked(u) }

type UpdateChatIsMarkedAsUnread struct {
	ChatID           int64 `json:"chat_id"`
	IsMarkedAsUnread bool  `json:"is_marked_as_unread"`
}

func (*UpdateChatIsMarkedAsUnread) TypeName() string   { return "updateChatIsMarkedAsUnread" }
func (u *UpdateChatIsMarkedAsUnread) Accept(h Handler) { h.OnChatIsMarkedAsUnread(u) }

type UpdateChatHasProtectedContent struct {
	ChatID              int64 `json:"chat_id"`
	HasProtectedContent bool  `json:"has_protected_content"`
}

func (*UpdateChatHasProtectedContent) TypeName() string   { return "updateChatHasProtectedContent" }
func (u *UpdateChatHasProtectedContent) Accept(h Handler) { h.OnChatHasProtectedContent(u) }

type UpdateChatOnlineMemberCount struct {
	ChatID            int64 `json:"chat_id"`
	OnlineMemberCount int32 `json:"online_member_count"`
}

func (*UpdateChatOnlineMemberCount) TypeName() string   { return "updateChatOnlineMemberCount" }
func (u *UpdateChatOnlineMemberCount) Accept(h Handler) { h.OnChatOnlineMemberCount(u) }

type UpdateChatAction struct {
	ChatID          int64         `json:"chat_id"`
	MessageThreadID int64         `json:"message_thread_id"`
	SenderID        MessageSender `json:"sender_id"`
	Action          ChatAction    `json:"action"`
}

func (*UpdateChatAction) TypeName() string   { return "updateChatAction" }
func (u *UpdateChatAction) Accept(h Handler) { h.OnChatAction(u) }

type UpdateScopeNotificationSettings struct {
	Scope                NotificationSettingsScope `json:"scope"`
	NotificationSettings ScopeNotificationSettings `json:"notification_settings"`
}

func (*UpdateScopeNotificationSettings) TypeName() string   { return "updateScopeNotificationSettings" }
func (u *UpdateScopeNotificationSettings) Accept(h Handler) { h.OnScopeNotificationSettings(u) }

type UpdateUser struct {
	User User `json:"user"`
}

func (*UpdateUser) TypeName() string   { return "updateUser" }
func (u *UpdateUser) Accept(h Handler) { h.OnUser(u) }

type UpdateUserStatus struct {
	UserID int64      `json:"user_id"`
	Status UserStatus `json:"status"`
}

func (*UpdateUserStatus) TypeName() string   { return "updateUserStatus" }
func (u *UpdateUserStatus) Accept(h Handler) { h.OnUserStatus(u) }

type UpdateUserFullInfo struct {
	UserID       int64        `json:"user_id"`
	UserFullInfo UserFullInfo `json:"user_full_info"`
}

func (*UpdateUserFullInfo) TypeName() string   { return "updateUserFullInfo" }
func (u *UpdateUserFullInfo) Accept(h Handler) { h.OnUserFullInfo(u) }

type UpdateBasicGroup struct {
	BasicGroup BasicGroup `json:"basic_group"`
}

func (*UpdateBasicGroup) TypeName() string   { return "updateBasicGroup" }
func (u *UpdateBasicGroup) Accept(h Handler) { h.OnBasicGroup(u) }

type UpdateBasicGroupFullInfo struct {
	BasicGroupID       int64              `json:"basic_group_id"`
	BasicGroupFullInfo BasicGroupFullInfo `json:"basic_group_full_info"`
}

func (*UpdateBasicGroupFullInfo) TypeName() string   { return "updateBasicGroupFullInfo" }
func (u *UpdateBasicGroupFullInfo) Accept(h Handler) { h.OnBasicGroupFullInfo(u) }

type UpdateSupergroup struct {
	Supergroup Supergroup `json:"supergroup"`
}

func (*UpdateSupergroup) TypeName() string   { return "updateSupergroup" }
func (u *UpdateSupergroup) Accept(h Handler) { h.OnSupergroup(u) }

type UpdateSupergroupFullInfo struct {
	SupergroupID       int64              `json:"supergroup_id"`
	SupergroupFullInfo SupergroupFullInfo `json:"supergroup_full_info"`
}

func (*UpdateSupergroupFullInfo) TypeName() string   { return "updateSupergroupFullInfo" }
func (u *UpdateSupergroupFullInfo) Accept(h Handler) { h.OnSupergroupFullInfo(u) }

type UpdateGroupCall struct {
	GroupCall GroupCall `json:"group_call"`
}

func (*UpdateGroupCall) TypeName() string   { return "updateGroupCall" }
func (u *UpdateGroupCall) Accept(h Handler) { h.OnGroupCall(u) }

type UpdateGroupCallParticipant struct {
	GroupCallID int32                `json:"group_call_id"`
	Participant GroupCallParticipant `json:"participant"`
}

func (*UpdateGroupCallParticipant) TypeName() string   { return "updateGroupCallParticipant" }
func (u *UpdateGroupCallParticipant) Accept(h Handler) { h.OnGroupCallParticipant(u) }

type UpdateCall struct {
	Call Call `json:"call"`
}

func (*UpdateCall) TypeName() string   { return "updateCall" }
func (u *UpdateCall) Accept(h Handler) { h.OnCall(u) }

type UpdateNewCallSignalingData struct {
	CallID int32  `json:"call_id"`
	Data   []byte `json:"data"`
}

func (*UpdateNewCallSignalingData) TypeName() string   { return "updateNewCallSignalingData" }
func (u *UpdateNewCallSignalingData) Accept(h Handler) { h.OnNewCallSignalingData(u) }

type UpdateActiveEmojiReactions struct {
	Emojis []string `json:"emojis"`
}

func (*UpdateActiveEmojiReactions) TypeName() string   { return "updateActiveEmojiReactions" }
func (u *UpdateActiveEmojiReactions) Accept(h Handler) { h.OnActiveEmojiReactions(u) }

type UpdateDefaultReactionType struct {
	ReactionType ReactionType `json:"reaction_type"`
}

func (*UpdateDefaultReactionType) TypeName() string   { return "updateDefaultReactionType" }
func (u *UpdateDefaultReactionType) Accept(h Handler) { h.OnDefaultReactionType(u) }

type UpdateUnreadMessageCount struct {
	ChatList           ChatList `json:"chat_list"`
	UnreadCount        int32    `json:"unread_count"`
	UnreadUnmutedCount int32    `json:"unread_unmuted_count"`
}

func (*UpdateUnreadMessageCount) TypeName() string   { return "updateUnreadMessageCount" }
func (u *UpdateUnreadMessageCount) Accept(h Handler) { h.OnUnreadMessageCount(u) }

type UpdateUnreadChatCount struct {
	ChatList                   ChatList `json:"chat_list"`
	TotalCount                 int32    `json:"total_count"`
	UnreadCount                int32    `json:"unread_count"`
	UnreadUnmutedCount         int32    `json:"unread_unmuted_count"`
	MarkedAsUnreadCount        int32    `json:"marked_as_unread_count"`
	MarkedAsUnreadUnmutedCount int32    `json:"marked_as_unread_unmuted_count"`
}

func (*UpdateUnreadChatCount) TypeName() string   { return "updateUnreadChatCount" }
func (u *UpdateUnreadChatCount) Accept(h Handler) { h.OnUnreadChatCount(u) }

type UpdateQuickReplyShortcut struct {
	Shortcut QuickReplyShortcut `json:"shortcut"`
}

func (*UpdateQuickReplyShortcut) TypeName() string   { return "updateQuickReplyShortcut" }
func (u *UpdateQuickReplyShortcut) Accept(h Handler) { h.OnQuickReplyShortcut(u) }

type UpdateQuickReplyShortcutDeleted struct {
	ShortcutID int32 `json:"shortcut_id"`
}

func (*UpdateQuickReplyShortcutDeleted) TypeName() string   { return "updateQuickReplyShortcutDeleted" }
func (u *UpdateQuickReplyShortcutDeleted) Accept(h Handler) { h.OnQuickReplyShortcutDeleted(u) }

type UpdateQuickReplyShortcuts struct {
	ShortcutIDs []int32 `json:"shortcut_ids"`
}

func (*UpdateQuickReplyShortcuts) TypeName() string   { return "updateQuickReplyShortcuts" }
func (u *UpdateQuickReplyShortcuts) Accept(h Handler) { h.OnQuickReplyShortcuts(u) }

type UpdateQuickReplyShortcutMessages struct {
	ShortcutID int32               `json:"shortcut_id"`
	Messages   []QuickReplyMessage `json:"messages"`
}

func (*UpdateQuickReplyShortcutMessages) TypeName() string   { return "updateQuickReplyShortcutMessages" }
func (u *UpdateQuickReplyShortcutMessages) Accept(h Handler) { h.OnQuickReplyShortcutMessages(u) }

type UpdateFile struct {
	File File `json:"file"`
}

func (*UpdateFile) TypeName() string   { return "updateFile" }
func (u *UpdateFile) Accept(h Handler) { h.OnFile(u) }

func init() {
	register(
		func() Object { return &UpdateAuthorizationState{} },
		func() Object { return &UpdateConnectionState{} },
		func() Object { return &UpdateOption{} },
		func() Object { return &UpdateNewMessage{} },
		func() Object { return &UpdateMessageSendAcknowledged{} },
		func() Object { return &UpdateMessageSendSucceeded{} },
		func() Object { return &UpdateMessageSendFailed{} },
		func() Object { return &UpdateMessageContent{} },
		func() Object { return &UpdateMessageEdited{} },
		func() Object { return &UpdateMessageIsPinned{} },
		func() Object { return &UpdateMessageInteractionInfo{} },
		func() Object { return &UpdateMessageContentOpened{} },
		func() Object { return &UpdateMessageMentionRead{} },
		func() Object { return &UpdateMessageUnreadReactions{} },
		func() Object { return &UpdateMessageFactCheck{} },
		func() Object { return &UpdateDeleteMessages{} },
		func() Object { return &UpdateNewChat{} },
		func() Object { return &UpdateChatTitle{} },
		func() Object { return &UpdateChatPhoto{} },
		func() Object { return &UpdateChatPermissions{} },
		func() Object { return &UpdateChatLastMessage{} },
		func() Object { return &UpdateChatPosition{} },
		func() Object { return &UpdateChatReadInbox{} },
		func() Object { return &UpdateChatReadOutbox{} },
		func() Object { return &UpdateChatUnreadMentionCount{} },
		func() Object { return &UpdateChatUnreadReactionCount{} },
		func() Object { return &UpdateChatAvailableReactions{} },
		func() Object { return &UpdateChatNotificationSettings{} },
		func() Object { return &UpdateChatDraftMessage{} },
		func() Object { return &UpdateChatMessageAutoDeleteTime{} },
		func() Object { return &UpdateChatTheme{} },
		func() Object { return &UpdateChatVideoChat{} },
		func() Object { return &UpdateChatIsBlocked{} },
		func() Object { return &UpdateChatIsMarkedAsUnread{} },
		func() Object { return &UpdateChatHasProtectedContent{} },
		func() Object { return &UpdateChatOnlineMemberCount{} },
		func() Object { return &UpdateChatAction{} },
		func() Object { return &UpdateScopeNotificationSettings{} },
		func() Object { return &UpdateUser{} },
		func() Object { return &UpdateUserStatus{} },
		func() Object { return &UpdateUserFullInfo{} },
		func() Object { return &UpdateBasicGroup{} },
		func() Object { return &UpdateBasicGroupFullInfo{} },
		func() Object { return &UpdateSupergroup{} },
		func() Object { return &UpdateSupergroupFullInfo{} },
		func() Object { return &UpdateGroupCall{} },
		func() Object { return &UpdateGroupCallParticipant{} },
		func() Object { return &UpdateCall{} },
		func() Object { return &UpdateNewCallSignalingData{} },
		func() Object { return &UpdateActiveEmojiReactions{} },
		func() Object { return &UpdateDefaultReactionType{} },
		func() Object { return &UpdateUnreadMessageCount{} },
		func() Object { return &UpdateUnreadChatCount{} },
		func() Object { return &UpdateQuickReplyShortcut{} },
		func() Object { return &UpdateQuickReplyShortcutDeleted{} },
		func() Object { return &UpdateQuickReplyShortcuts{} },
		func() Object { return &UpdateQuickReplyShortcutMessages{} },
		func() Object { return &UpdateFile{} },
	)
}
