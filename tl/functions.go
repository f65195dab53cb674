package tl

type fn struct{}

func (fn) function() {}

type OpenChat struct {
	fn
	ChatID int64 `json:"chat_id"`
}

func (*OpenChat) TypeName() string { return "openChat" }

type CloseChat struct {
	fn
	ChatID int64 `json:"chat_id"`
}

func (*CloseChat) TypeName() string { return "closeChat" }

type SetOption struct {
	fn
	Name  string      `json:"name"`
	Value OptionValue `json:"value"`
}

func (*SetOption) TypeName() string { return "setOption" }

type GetChat struct {
	fn
	ChatID int64 `json:"chat_id"`
}

func (*GetChat) TypeName() string { return "getChat" }

type GetUser struct {
	fn
	UserID int64 `json:"user_id"`
}

func (*GetUser) TypeName() string { return "getUser" }

type GetUserFullInfo struct {
	fn
	UserID int64 `json:"user_id"`
}

func (*GetUserFullInfo) TypeName() string { return "getUserFullInfo" }

type GetSupergroup struct {
	fn
	SupergroupID int64 `json:"supergroup_id"`
}

func (*GetSupergroup) TypeName() string { return "getSupergroup" }

type GetSupergroupFullInfo struct {
	fn
	SupergroupID int64 `json:"supergroup_id"`
}

func (*GetSupergroupFullInfo) TypeName() string { return "getSupergroupFullInfo" }

type GetBasicGroupFullInfo struct {
	fn
	BasicGroupID int64 `json:"basic_group_id"`
}

func (*GetBasicGroupFullInfo) TypeName() string { return "getBasicGroupFullInfo" }

type SetChatDraftMessage struct {
	fn
	ChatID          int64         `json:"chat_id"`
	MessageThreadID int64         `json:"message_thread_id"`
	DraftMessage    *DraftMessage `json:"draft_message,omitempty"`
}

func (*SetChatDraftMessage) TypeName() string { return "setChatDraftMessage" }

type GetBusinessChatLinks struct{ fn }

func (*GetBusinessChatLinks) TypeName() string { return "getBusinessChatLinks" }

type CreateBusinessChatLink struct {
	fn
	LinkInfo InputBusinessChatLink `json:"link_info"`
}

func (*CreateBusinessChatLink) TypeName() string { return "createBusinessChatLink" }

type EditBusinessChatLink struct {
	fn
	Link     string                `json:"link"`
	LinkInfo InputBusinessChatLink `json:"link_info"`
}

func (*EditBusinessChatLink) TypeName() string { return "editBusinessChatLink" }

type DeleteBusinessChatLink struct {
	fn
	Link string `json:"link"`
}

func (*DeleteBusinessChatLink) TypeName() string { return "deleteBusinessChatLink" }

type GetPasswordState struct{ fn }

func (*GetPasswordState) TypeName() string { return "getPasswordState" }

type SetPassword struct {
	fn
	OldPassword             string `json:"old_password"`
	NewPassword             string `json:"new_password"`
	NewHint                 string `json:"new_hint"`
	SetRecoveryEmailAddress bool   `json:"set_recovery_email_address"`
	NewRecoveryEmailAddress string `json:"new_recovery_email_address"`
}

func (*SetPassword) TypeName() string { return "setPassword" }

type GetRecoveryEmailAddress struct {
	fn
	Password string `json:"password"`
}

func (*GetRecoveryEmailAddress) TypeName() string { return "getRecoveryEmailAddress" }

type CheckRecoveryEmailAddressCode struct {
	fn
	Code string `json:"code"`
}

func (*CheckRecoveryEmailAddressCode) TypeName() string { return "checkRecoveryEmailAddressCode" }

type ResendRecoveryEmailAddressCode struct{ fn }

func (*ResendRecoveryEmailAddressCode) TypeName() string { return "resendRecoveryEmailAddressCode" }

type RequestPasswordRecovery struct{ fn }

func (*RequestPasswordRecovery) TypeName() string { return "requestPasswordRecovery" }

type RecoverPassword struct {
	fn
	RecoveryCode string `json:"recovery_code"`
	NewPassword  string `json:"new_password"`
	NewHint      string `json:"new_hint"`
}

func (*RecoverPassword) TypeName() string { return "recoverPassword" }

// The authentication variants are used before the session is authorized.

type CheckAuthenticationPassword struct {
	fn
	Password string `json:"password"`
}

func (*CheckAuthenticationPassword) TypeName() string { return "checkAuthenticationPassword" }

type RequestAuthenticationPasswordRecovery struct{ fn }

func (*RequestAuthenticationPasswordRecovery) TypeName() string {
	return "requestAuthenticationPasswordRecovery"
}

type CheckAuthenticationPasswordRecoveryCode struct {
	fn
	RecoveryCode string `json:"recovery_code"`
}

func (*CheckAuthenticationPasswordRecoveryCode) TypeName() string {
	return "checkAuthenticationPasswordRecoveryCode"
}

type RecoverAuthenticationPassword struct {
	fn
	RecoveryCode string `json:"recovery_code"`
	NewPassword  string `json:"new_password"`
	NewHint      string `json:"new_hint"`
}

func (*RecoverAuthenticationPassword) TypeName() string { return "recoverAuthenticationPassword" }

type ResetPassword struct{ fn }

func (*ResetPassword) TypeName() string { return "resetPassword" }

type CancelPasswordReset struct{ fn }

func (*CancelPasswordReset) TypeName() string { return "cancelPasswordReset" }

type ToggleUsernameIsActive struct {
	fn
	Username string `json:"username"`
	IsActive bool   `json:"is_active"`
}

func (*ToggleUsernameIsActive) TypeName() string { return "toggleUsernameIsActive" }

type ToggleBotUsernameIsActive struct {
	fn
	BotUserID int64  `json:"bot_user_id"`
	Username  string `json:"username"`
	IsActive  bool   `json:"is_active"`
}

func (*ToggleBotUsernameIsActive) TypeName() string { return "toggleBotUsernameIsActive" }

type ToggleSupergroupUsernameIsActive struct {
	fn
	SupergroupID int64  `json:"supergroup_id"`
	Username     string `json:"username"`
	IsActive     bool   `json:"is_active"`
}

func (*ToggleSupergroupUsernameIsActive) TypeName() string {
	return "toggleSupergroupUsernameIsActive"
}

type ReorderActiveUsernames struct {
	fn
	Usernames []string `json:"usernames"`
}

func (*ReorderActiveUsernames) TypeName() string { return "reorderActiveUsernames" }

type ReorderBotActiveUsernames struct {
	fn
	BotUserID int64    `json:"bot_user_id"`
	Usernames []string `json:"usernames"`
}

func (*ReorderBotActiveUsernames) TypeName() string { return "reorderBotActiveUsernames" }

type ReorderSupergroupActiveUsernames struct {
	fn
	SupergroupID int64    `json:"supergroup_id"`
	Usernames    []string `json:"usernames"`
}

func (*ReorderSupergroupActiveUsernames) TypeName() string {
	return "reorderSupergroupActiveUsernames"
}

type SetMessageFactCheck struct {
	fn
	ChatID    int64          `json:"chat_id"`
	MessageID int64          `json:"message_id"`
	Text      *FormattedText `json:"text,omitempty"`
}

func (*SetMessageFactCheck) TypeName() string { return "setMessageFactCheck" }

type GetChatBoostStatus struct {
	fn
	ChatID int64 `json:"chat_id"`
}

func (*GetChatBoostStatus) TypeName() string { return "getChatBoostStatus" }

type GetStarTransactions struct {
	fn
	OwnerID MessageSender `json:"owner_id"`
	Offset  string        `json:"offset"`
	Limit   int32         `json:"limit"`
}

func (*GetStarTransactions) TypeName() string { return "getStarTransactions" }

type LoadQuickReplyShortcuts struct{ fn }

func (*LoadQuickReplyShortcuts) TypeName() string { return "loadQuickReplyShortcuts" }

type LoadQuickReplyShortcutMessages struct {
	fn
	ShortcutID int32 `json:"shortcut_id"`
}

func (*LoadQuickReplyShortcutMessages) TypeName() string { return "loadQuickReplyShortcutMessages" }

type SetQuickReplyShortcutName struct {
	fn
	ShortcutID int32  `json:"shortcut_id"`
	Name       string `json:"name"`
}

func (*SetQuickReplyShortcutName) TypeName() string { return "setQuickReplyShortcutName" }

type DeleteQuickReplyShortcut struct {
	fn
	ShortcutID int32 `json:"shortcut_id"`
}

func (*DeleteQuickReplyShortcut) TypeName() string { return "deleteQuickReplyShortcut" }
