package tl

import (
	"encoding/json"
	"strconv"
)

// Nested polymorphic values are flattened: one struct carries the fields of
// every constructor plus its own "@type".

type TextEntityType struct {
	Type string `json:"@type"`
	URL  string `json:"url,omitempty"`
}

type TextEntity struct {
	Offset int32          `json:"offset"`
	Length int32          `json:"length"`
	Type   TextEntityType `json:"type"`
}

type FormattedText struct {
	Text     string       `json:"text"`
	Entities []TextEntity `json:"entities,omitempty"`
}

const (
	MessageSenderUser = "messageSenderUser"
	MessageSenderChat = "messageSenderChat"
)

type MessageSender struct {
	Type   string `json:"@type"`
	UserID int64  `json:"user_id,omitempty"`
	ChatID int64  `json:"chat_id,omitempty"`
}

// PeerID returns the chat id of the sender; private chats share the user id.
func (s MessageSender) PeerID() int64 {
	if s.Type == MessageSenderChat {
		return s.ChatID
	}
	return s.UserID
}

func UserSender(userID int64) MessageSender {
	return MessageSender{Type: MessageSenderUser, UserID: userID}
}

func ChatSender(chatID int64) MessageSender {
	return MessageSender{Type: MessageSenderChat, ChatID: chatID}
}

const (
	ReactionTypeEmoji       = "reactionTypeEmoji"
	ReactionTypeCustomEmoji = "reactionTypeCustomEmoji"
	ReactionTypePaid        = "reactionTypePaid"
)

type ReactionType struct {
	Type          string `json:"@type"`
	Emoji         string `json:"emoji,omitempty"`
	CustomEmojiID int64  `json:"custom_emoji_id,omitempty"`
}

type MessageReaction struct {
	Type       ReactionType `json:"type"`
	TotalCount int32        `json:"total_count"`
	IsChosen   bool         `json:"is_chosen"`
}

type MessageReactions struct {
	Reactions []MessageReaction `json:"reactions"`
	AreTags   bool              `json:"are_tags,omitempty"`
}

type MessageInteractionInfo struct {
	ViewCount    int32             `json:"view_count"`
	ForwardCount int32             `json:"forward_count"`
	Reactions    *MessageReactions `json:"reactions,omitempty"`
}

type UnreadReaction struct {
	Type     ReactionType  `json:"type"`
	SenderID MessageSender `json:"sender_id"`
	IsBig    bool          `json:"is_big"`
}

type FactCheck struct {
	Text        FormattedText `json:"text"`
	CountryCode string        `json:"country_code"`
}

type PollOption struct {
	Text       FormattedText `json:"text"`
	VoterCount int32         `json:"voter_count"`
}

type Poll struct {
	ID              int64         `json:"id"`
	Question        FormattedText `json:"question"`
	Options         []PollOption  `json:"options"`
	TotalVoterCount int32         `json:"total_voter_count"`
	IsClosed        bool          `json:"is_closed"`
}

const (
	MessageText        = "messageText"
	MessagePhoto       = "messagePhoto"
	MessageVideo       = "messageVideo"
	MessageAnimation   = "messageAnimation"
	MessageAudio       = "messageAudio"
	MessageDocument    = "messageDocument"
	MessageVideoNote   = "messageVideoNote"
	MessageSticker     = "messageSticker"
	MessagePoll        = "messagePoll"
	MessageUnsupported = "messageUnsupported"
)

type MessageContent struct {
	Type    string         `json:"@type"`
	Text    *FormattedText `json:"text,omitempty"`
	Caption *FormattedText `json:"caption,omitempty"`
	Poll    *Poll          `json:"poll,omitempty"`
}

type MessageSendingState struct {
	Type  string `json:"@type"`
	Error *Error `json:"error,omitempty"`
}

type Message struct {
	ID                    int64                   `json:"id"`
	SenderID              MessageSender           `json:"sender_id"`
	ChatID                int64                   `json:"chat_id"`
	SendingState          *MessageSendingState    `json:"sending_state,omitempty"`
	IsOutgoing            bool                    `json:"is_outgoing"`
	IsPinned              bool                    `json:"is_pinned"`
	ContainsUnreadMention bool                    `json:"contains_unread_mention"`
	Date                  int32                   `json:"date"`
	EditDate              int32                   `json:"edit_date"`
	InteractionInfo       *MessageInteractionInfo `json:"interaction_info,omitempty"`
	UnreadReactions       []UnreadReaction        `json:"unread_reactions,omitempty"`
	FactCheck             *FactCheck              `json:"fact_check,omitempty"`
	Content               MessageContent          `json:"content"`
}

func (*Message) TypeName() string { return "message" }

type File struct {
	ID   int32 `json:"id"`
	Size int64 `json:"size"`
}

func (*File) TypeName() string { return "file" }

type ChatPhotoInfo struct {
	Small File `json:"small"`
	Big   File `json:"big"`
}

type ChatPermissions struct {
	CanSendBasicMessages bool `json:"can_send_basic_messages"`
	CanSendPolls         bool `json:"can_send_polls"`
	CanAddLinkPreviews   bool `json:"can_add_link_previews"`
	CanChangeInfo        bool `json:"can_change_info"`
	CanInviteUsers       bool `json:"can_invite_users"`
	CanPinMessages       bool `json:"can_pin_messages"`
}

const (
	ChatTypePrivate    = "chatTypePrivate"
	ChatTypeBasicGroup = "chatTypeBasicGroup"
	ChatTypeSupergroup = "chatTypeSupergroup"
	ChatTypeSecret     = "chatTypeSecret"
)

type ChatType struct {
	Type         string `json:"@type"`
	UserID       int64  `json:"user_id,omitempty"`
	BasicGroupID int64  `json:"basic_group_id,omitempty"`
	SupergroupID int64  `json:"supergroup_id,omitempty"`
	IsChannel    bool   `json:"is_channel,omitempty"`
}

const (
	ChatListMain    = "chatListMain"
	ChatListArchive = "chatListArchive"
	ChatListFolder  = "chatListFolder"
)

type ChatList struct {
	Type         string `json:"@type"`
	ChatFolderID int32  `json:"chat_folder_id,omitempty"`
}

// Key is stable across decodes and usable as a map key.
func (l ChatList) Key() string {
	if l.Type == ChatListFolder {
		return l.Type + ":" + strconv.Itoa(int(l.ChatFolderID))
	}
	return l.Type
}

type ChatPosition struct {
	List     ChatList `json:"list"`
	Order    int64    `json:"order"`
	IsPinned bool     `json:"is_pinned"`
}

type VideoChat struct {
	GroupCallID          int32          `json:"group_call_id"`
	HasParticipants      bool           `json:"has_participants"`
	DefaultParticipantID *MessageSender `json:"default_participant_id,omitempty"`
}

const (
	ChatAvailableReactionsAll  = "chatAvailableReactionsAll"
	ChatAvailableReactionsSome = "chatAvailableReactionsSome"
)

type AvailableReaction struct {
	Type         ReactionType `json:"type"`
	NeedsPremium bool         `json:"needs_premium"`
}

type ChatAvailableReactions struct {
	Type             string              `json:"@type"`
	Reactions        []AvailableReaction `json:"reactions,omitempty"`
	MaxReactionCount int32               `json:"max_reaction_count"`
}

type InputMessageText struct {
	Type string        `json:"@type"`
	Text FormattedText `json:"text"`
}

type DraftMessage struct {
	Date             int32            `json:"date"`
	InputMessageText InputMessageText `json:"input_message_text"`
}

// ChatNotificationSettings carries a per-chat override. Every dimension has
// a use_default flag; a set flag means the value field is meaningless.
type ChatNotificationSettings struct {
	UseDefaultMuteFor     bool  `json:"use_default_mute_for"`
	MuteFor               int32 `json:"mute_for"`
	UseDefaultSound       bool  `json:"use_default_sound"`
	SoundID               int64 `json:"sound_id"`
	UseDefaultShowPreview bool  `json:"use_default_show_preview"`
	ShowPreview           bool  `json:"show_preview"`

	UseDefaultMuteStories bool  `json:"use_default_mute_stories"`
	MuteStories           bool  `json:"mute_stories"`
	UseDefaultStorySound  bool  `json:"use_default_story_sound"`
	StorySoundID          int64 `json:"story_sound_id"`

	UseDefaultDisablePinnedMessageNotifications bool `json:"use_default_disable_pinned_message_notifications"`
	DisablePinnedMessageNotifications           bool `json:"disable_pinned_message_notifications"`
	UseDefaultDisableMentionNotifications       bool `json:"use_default_disable_mention_notifications"`
	DisableMentionNotifications                 bool `json:"disable_mention_notifications"`
}

func (*ChatNotificationSettings) TypeName() string { return "chatNotificationSettings" }

type ScopeNotificationSettings struct {
	MuteFor                           int32 `json:"mute_for"`
	SoundID                           int64 `json:"sound_id"`
	ShowPreview                       bool  `json:"show_preview"`
	UseDefaultMuteStories             bool  `json:"use_default_mute_stories"`
	MuteStories                       bool  `json:"mute_stories"`
	StorySoundID                      int64 `json:"story_sound_id"`
	DisablePinnedMessageNotifications bool  `json:"disable_pinned_message_notifications"`
	DisableMentionNotifications       bool  `json:"disable_mention_notifications"`
}

func (*ScopeNotificationSettings) TypeName() string { return "scopeNotificationSettings" }

const (
	NotificationSettingsScopePrivateChats = "notificationSettingsScopePrivateChats"
	NotificationSettingsScopeGroupChats   = "notificationSettingsScopeGroupChats"
	NotificationSettingsScopeChannelChats = "notificationSettingsScopeChannelChats"
)

type NotificationSettingsScope struct {
	Type string `json:"@type"`
}

type Chat struct {
	ID                      int64                    `json:"id"`
	Type                    ChatType                 `json:"type"`
	Title                   string                   `json:"title"`
	Photo                   *ChatPhotoInfo           `json:"photo,omitempty"`
	Permissions             ChatPermissions          `json:"permissions"`
	LastMessage             *Message                 `json:"last_message,omitempty"`
	Positions               []ChatPosition           `json:"positions"`
	HasProtectedContent     bool                     `json:"has_protected_content"`
	IsMarkedAsUnread        bool                     `json:"is_marked_as_unread"`
	IsBlocked               bool                     `json:"is_blocked"`
	UnreadCount             int32                    `json:"unread_count"`
	LastReadInboxMessageID  int64                    `json:"last_read_inbox_message_id"`
	LastReadOutboxMessageID int64                    `json:"last_read_outbox_message_id"`
	UnreadMentionCount      int32                    `json:"unread_mention_count"`
	UnreadReactionCount     int32                    `json:"unread_reaction_count"`
	NotificationSettings    ChatNotificationSettings `json:"notification_settings"`
	AvailableReactions      ChatAvailableReactions   `json:"available_reactions"`
	MessageAutoDeleteTime   int32                    `json:"message_auto_delete_time"`
	ThemeName               string                   `json:"theme_name"`
	VideoChat               VideoChat                `json:"video_chat"`
	DraftMessage            *DraftMessage            `json:"draft_message,omitempty"`
}

func (*Chat) TypeName() string { return "chat" }

const (
	UserStatusEmpty     = "userStatusEmpty"
	UserStatusOnline    = "userStatusOnline"
	UserStatusOffline   = "userStatusOffline"
	UserStatusRecently  = "userStatusRecently"
	UserStatusLastWeek  = "userStatusLastWeek"
	UserStatusLastMonth = "userStatusLastMonth"
)

type UserStatus struct {
	Type      string `json:"@type"`
	Expires   int32  `json:"expires,omitempty"`
	WasOnline int32  `json:"was_online,omitempty"`
}

type Usernames struct {
	ActiveUsernames   []string `json:"active_usernames"`
	DisabledUsernames []string `json:"disabled_usernames"`
	EditableUsername  string   `json:"editable_username"`
}

const (
	UserTypeRegular = "userTypeRegular"
	UserTypeBot     = "userTypeBot"
	UserTypeDeleted = "userTypeDeleted"
)

type UserType struct {
	Type        string `json:"@type"`
	CanBeEdited bool   `json:"can_be_edited,omitempty"`
}

type User struct {
	ID          int64      `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Usernames   *Usernames `json:"usernames,omitempty"`
	PhoneNumber string     `json:"phone_number"`
	Status      UserStatus `json:"status"`
	IsContact   bool       `json:"is_contact"`
	IsPremium   bool       `json:"is_premium"`
	Type        UserType   `json:"type"`
}

func (*User) TypeName() string { return "user" }

type UserFullInfo struct {
	Bio                *FormattedText `json:"bio,omitempty"`
	CanBeCalled        bool           `json:"can_be_called"`
	HasPrivateCalls    bool           `json:"has_private_calls"`
	GroupInCommonCount int32          `json:"group_in_common_count"`
	HasPinnedStories   bool           `json:"has_pinned_stories"`
}

func (*UserFullInfo) TypeName() string { return "userFullInfo" }

type ChatMemberStatus struct {
	Type string `json:"@type"`
}

type ChatMember struct {
	MemberID MessageSender    `json:"member_id"`
	Status   ChatMemberStatus `json:"status"`
}

type BasicGroup struct {
	ID                     int64            `json:"id"`
	MemberCount            int32            `json:"member_count"`
	Status                 ChatMemberStatus `json:"status"`
	IsActive               bool             `json:"is_active"`
	UpgradedToSupergroupID int64            `json:"upgraded_to_supergroup_id"`
}

func (*BasicGroup) TypeName() string { return "basicGroup" }

type BasicGroupFullInfo struct {
	Description   string       `json:"description"`
	CreatorUserID int64        `json:"creator_user_id"`
	Members       []ChatMember `json:"members"`
}

func (*BasicGroupFullInfo) TypeName() string { return "basicGroupFullInfo" }

type Supergroup struct {
	ID          int64            `json:"id"`
	Usernames   *Usernames       `json:"usernames,omitempty"`
	Date        int32            `json:"date"`
	Status      ChatMemberStatus `json:"status"`
	MemberCount int32            `json:"member_count"`
	IsChannel   bool             `json:"is_channel"`
	IsForum     bool             `json:"is_forum"`
}

func (*Supergroup) TypeName() string { return "supergroup" }

type SupergroupFullInfo struct {
	Description        string `json:"description"`
	MemberCount        int32  `json:"member_count"`
	AdministratorCount int32  `json:"administrator_count"`
	LinkedChatID       int64  `json:"linked_chat_id"`
	SlowModeDelay      int32  `json:"slow_mode_delay"`
	CanGetMembers      bool   `json:"can_get_members"`
}

func (*SupergroupFullInfo) TypeName() string { return "supergroupFullInfo" }

type GroupCall struct {
	ID                    int32  `json:"id"`
	Title                 string `json:"title"`
	IsActive              bool   `json:"is_active"`
	ParticipantCount      int32  `json:"participant_count"`
	LoadedAllParticipants bool   `json:"loaded_all_participants"`
	CanBeManaged          bool   `json:"can_be_managed"`
}

func (*GroupCall) TypeName() string { return "groupCall" }

type GroupCallParticipant struct {
	ParticipantID      MessageSender `json:"participant_id"`
	AudioSourceID      int32         `json:"audio_source_id"`
	IsSpeaking         bool          `json:"is_speaking"`
	IsMutedForAllUsers bool          `json:"is_muted_for_all_users"`
	VolumeLevel        int32         `json:"volume_level"`
	// Order is empty when the participant left the call.
	Order string `json:"order"`
}

const (
	CallStatePending        = "callStatePending"
	CallStateExchangingKeys = "callStateExchangingKeys"
	CallStateReady          = "callStateReady"
	CallStateHangingUp      = "callStateHangingUp"
	CallStateDiscarded      = "callStateDiscarded"
	CallStateError          = "callStateError"
)

type CallState struct {
	Type string `json:"@type"`
}

type Call struct {
	ID         int32     `json:"id"`
	UserID     int64     `json:"user_id"`
	IsOutgoing bool      `json:"is_outgoing"`
	IsVideo    bool      `json:"is_video"`
	State      CallState `json:"state"`
}

const (
	ChatActionTyping    = "chatActionTyping"
	ChatActionCancel    = "chatActionCancel"
	ChatActionSpeaking  = "chatActionSpeakingInGroupCall"
	ChatActionRecording = "chatActionRecordingVoiceNote"
)

type ChatAction struct {
	Type     string `json:"@type"`
	Progress int32  `json:"progress,omitempty"`
}

type AuthorizationState struct {
	Type string `json:"@type"`
}

const (
	AuthorizationStateReady      = "authorizationStateReady"
	AuthorizationStateLoggingOut = "authorizationStateLoggingOut"
	AuthorizationStateClosed     = "authorizationStateClosed"
)

type ConnectionState struct {
	Type string `json:"@type"`
}

const ConnectionStateReady = "connectionStateReady"

const (
	OptionValueBoolean = "optionValueBoolean"
	OptionValueInteger = "optionValueInteger"
	OptionValueString  = "optionValueString"
	OptionValueEmpty   = "optionValueEmpty"
)

// OptionValue keeps the raw "value" since its JSON type depends on "@type".
type OptionValue struct {
	Type  string          `json:"@type"`
	Value json.RawMessage `json:"value,omitempty"`
}

func BoolOption(v bool) OptionValue {
	raw, _ := json.Marshal(v)
	return OptionValue{Type: OptionValueBoolean, Value: raw}
}

func IntOption(v int64) OptionValue {
	raw, _ := json.Marshal(strconv.FormatInt(v, 10))
	return OptionValue{Type: OptionValueInteger, Value: raw}
}

func StringOption(v string) OptionValue {
	raw, _ := json.Marshal(v)
	return OptionValue{Type: OptionValueString, Value: raw}
}

func (v OptionValue) Bool() bool {
	var b bool
	_ = json.Unmarshal(v.Value, &b)
	return b
}

// Int accepts both the quoted int64 form and a bare number.
func (v OptionValue) Int() int64 {
	var s string
	if json.Unmarshal(v.Value, &s) == nil {
		n, _ := strconv.ParseInt(s, 10, 64)
		return n
	}
	var n int64
	_ = json.Unmarshal(v.Value, &n)
	return n
}

func (v OptionValue) String() string {
	var s string
	_ = json.Unmarshal(v.Value, &s)
	return s
}

type QuickReplyMessage struct {
	ID      int64          `json:"id"`
	Content MessageContent `json:"content"`
}

type QuickReplyShortcut struct {
	ID           int32              `json:"id"`
	Name         string             `json:"name"`
	FirstMessage *QuickReplyMessage `json:"first_message,omitempty"`
	MessageCount int32              `json:"message_count"`
}

type InputBusinessChatLink struct {
	Text  FormattedText `json:"text"`
	Title string        `json:"title"`
}

type BusinessChatLink struct {
	Link      string        `json:"link"`
	Text      FormattedText `json:"text"`
	Title     string        `json:"title"`
	ViewCount int32         `json:"view_count"`
}

func (*BusinessChatLink) TypeName() string { return "businessChatLink" }

type BusinessChatLinks struct {
	Links []BusinessChatLink `json:"links"`
}

func (*BusinessChatLinks) TypeName() string { return "businessChatLinks" }

type EmailAddressAuthenticationCodeInfo struct {
	EmailAddressPattern string `json:"email_address_pattern"`
	Length              int32  `json:"length"`
}

func (*EmailAddressAuthenticationCodeInfo) TypeName() string {
	return "emailAddressAuthenticationCodeInfo"
}

type PasswordState struct {
	HasPassword                  bool                                `json:"has_password"`
	PasswordHint                 string                              `json:"password_hint"`
	HasRecoveryEmailAddress      bool                                `json:"has_recovery_email_address"`
	HasPassportData              bool                                `json:"has_passport_data"`
	RecoveryEmailAddressCodeInfo *EmailAddressAuthenticationCodeInfo `json:"recovery_email_address_code_info,omitempty"`
	LoginEmailAddressPattern     string                              `json:"login_email_address_pattern"`
	PendingResetDate             int32                               `json:"pending_reset_date"`
}

func (*PasswordState) TypeName() string { return "passwordState" }

type RecoveryEmailAddress struct {
	RecoveryEmailAddress string `json:"recovery_email_address"`
}

func (*RecoveryEmailAddress) TypeName() string { return "recoveryEmailAddress" }

const (
	ResetPasswordResultOk       = "resetPasswordResultOk"
	ResetPasswordResultPending  = "resetPasswordResultPending"
	ResetPasswordResultDeclined = "resetPasswordResultDeclined"
)

type ResetPasswordResult struct {
	Type             string `json:"@type"`
	PendingResetDate int32  `json:"pending_reset_date,omitempty"`
	RetryDate        int32  `json:"retry_date,omitempty"`
}

func (r *ResetPasswordResult) TypeName() string { return r.Type }

type ChatBoostStatus struct {
	BoostURL                string  `json:"boost_url"`
	Level                   int32   `json:"level"`
	GiftCodeBoostCount      int32   `json:"gift_code_boost_count"`
	BoostCount              int32   `json:"boost_count"`
	CurrentLevelBoostCount  int32   `json:"current_level_boost_count"`
	NextLevelBoostCount     int32   `json:"next_level_boost_count"`
	PremiumMemberCount      int32   `json:"premium_member_count"`
	PremiumMemberPercentage float64 `json:"premium_member_percentage"`
	AppliedSlotIDs          []int32 `json:"applied_slot_ids"`
}

func (*ChatBoostStatus) TypeName() string { return "chatBoostStatus" }

const (
	StarTransactionPartnerUser        = "starTransactionPartnerUser"
	StarTransactionPartnerChat        = "starTransactionPartnerChat"
	StarTransactionPartnerFragment    = "starTransactionPartnerFragment"
	StarTransactionPartnerTelegramAds = "starTransactionPartnerTelegramAds"
	StarTransactionPartnerAppStore    = "starTransactionPartnerAppStore"
	StarTransactionPartnerGooglePlay  = "starTransactionPartnerGooglePlay"
	StarTransactionPartnerTelegram    = "starTransactionPartnerTelegram"
)

type StarTransactionPartner struct {
	Type   string `json:"@type"`
	UserID int64  `json:"user_id,omitempty"`
	ChatID int64  `json:"chat_id,omitempty"`
}

type StarAmount struct {
	StarCount     int64 `json:"star_count"`
	NanostarCount int32 `json:"nanostar_count"`
}

type StarTransaction struct {
	ID         string                 `json:"id"`
	StarAmount StarAmount             `json:"star_amount"`
	IsRefund   bool                   `json:"is_refund"`
	Date       int32                  `json:"date"`
	Partner    StarTransactionPartner `json:"partner"`
}

type StarTransactions struct {
	StarAmount   StarAmount        `json:"star_amount"`
	Transactions []StarTransaction `json:"transactions"`
	NextOffset   string            `json:"next_offset"`
}

func (*StarTransactions) TypeName() string { return "starTransactions" }

func init() {
	register(
		func() Object { return &Error{} },
		func() Object { return &Ok{} },
		func() Object { return &Message{} },
		func() Object { return &File{} },
		func() Object { return &Chat{} },
		func() Object { return &ChatNotificationSettings{} },
		func() Object { return &ScopeNotificationSettings{} },
		func() Object { return &User{} },
		func() Object { return &UserFullInfo{} },
		func() Object { return &BasicGroup{} },
		func() Object { return &BasicGroupFullInfo{} },
		func() Object { return &Supergroup{} },
		func() Object { return &SupergroupFullInfo{} },
		func() Object { return &GroupCall{} },
		func() Object { return &BusinessChatLink{} },
		func() Object { return &BusinessChatLinks{} },
		func() Object { return &PasswordState{} },
		func() Object { return &EmailAddressAuthenticationCodeInfo{} },
		func() Object { return &RecoveryEmailAddress{} },
		func() Object { return &ChatBoostStatus{} },
		func() Object { return &StarTransactions{} },
	)
	for _, typ := range []string{ResetPasswordResultOk, ResetPasswordResultPending, ResetPasswordResultDeclined} {
		typ := typ
		registry[typ] = func() Object { return &ResetPasswordResult{Type: typ} }
	}
}
