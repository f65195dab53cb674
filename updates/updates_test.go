package updates

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqy/minisync/data"
	"github.com/mqy/minisync/loop"
	mock_rpc "github.com/mqy/minisync/rpc/mock"
	"github.com/mqy/minisync/tl"
)

var t0 = time.Unix(1_700_000_000, 0)

type fakeActivity struct {
	last   time.Time
	active bool
}

func (a *fakeActivity) LastNonIdle() time.Time { return a.last }

func (a *fakeActivity) HasActiveWindow() bool { return a.active }

type fixture struct {
	m        *loop.Manual
	store    *data.Store
	rec      *mock_rpc.Recorder
	activity *fakeActivity
	u        *Updates
}

func newFixture(t *testing.T, sinks ...IOptionSink) *fixture {
	ctrl := gomock.NewController(t)
	sender := mock_rpc.NewMockISender(ctrl)
	f := &fixture{
		m:        loop.NewManual(t0),
		rec:      mock_rpc.Record(sender),
		activity: &fakeActivity{last: t0, active: true},
	}
	f.store = data.NewStore(f.m)
	f.u = New(Deps{
		Sched:    f.m,
		Store:    f.store,
		Sender:   sender,
		Activity: f.activity,
		Liveness: DefaultLivenessConfig(),
		Options:  sinks,
	})
	return f
}

func supergroupChat(chatID, sgID int64, callID int32) *tl.Chat {
	return &tl.Chat{
		ID:        chatID,
		Type:      tl.ChatType{Type: tl.ChatTypeSupergroup, SupergroupID: sgID},
		VideoChat: tl.VideoChat{GroupCallID: callID},
	}
}

func TestTitleUpdatesCoalesce(t *testing.T) {
	f := newFixture(t)
	f.u.Apply(&tl.UpdateNewChat{Chat: tl.Chat{ID: 42, Title: "x"}})
	f.m.RunPending()

	var got []data.ChatUpdate
	f.store.Changes().SubscribeChats(func(u data.ChatUpdate) { got = append(got, u) })

	f.u.Apply(&tl.UpdateChatTitle{ChatID: 42, Title: "Foo"})
	f.u.Apply(&tl.UpdateChatTitle{ChatID: 42, Title: "Bar"})
	f.m.RunPending()

	require.Len(t, got, 1)
	assert.Equal(t, int64(42), got[0].Chat.ID)
	assert.Equal(t, data.ChatTitle, got[0].Flags)
	assert.Equal(t, "Bar", f.store.Chat(42).Title)
}

func sampleUpdates() []tl.Update {
	msg := tl.Message{ID: 7, ChatID: 42, Content: tl.MessageContent{Type: tl.MessageText, Text: &tl.FormattedText{Text: "hi"}}}
	main := tl.ChatList{Type: tl.ChatListMain}
	return []tl.Update{
		&tl.UpdateUser{User: tl.User{ID: 42, FirstName: "Ann"}},
		&tl.UpdateNewChat{Chat: tl.Chat{ID: 42, Type: tl.ChatType{Type: tl.ChatTypePrivate, UserID: 42}}},
		&tl.UpdateChatTitle{ChatID: 42, Title: "Ann"},
		&tl.UpdateNewMessage{Message: msg},
		&tl.UpdateChatLastMessage{ChatID: 42, LastMessage: &msg,
			Positions: []tl.ChatPosition{{List: main, Order: 10}}},
		&tl.UpdateChatPosition{ChatID: 42, Position: tl.ChatPosition{List: main, Order: 11}},
		&tl.UpdateChatReadInbox{ChatID: 42, LastReadInboxMessageID: 7, UnreadCount: 0},
		&tl.UpdateMessageIsPinned{ChatID: 42, MessageID: 7, IsPinned: true},
		&tl.UpdateMessageInteractionInfo{ChatID: 42, MessageID: 7,
			InteractionInfo: &tl.MessageInteractionInfo{ViewCount: 3}},
		&tl.UpdateMessageEdited{ChatID: 42, MessageID: 7, EditDate: 100},
		&tl.UpdateChatNotificationSettings{ChatID: 42, NotificationSettings: tl.ChatNotificationSettings{
			MuteFor: 60, UseDefaultSound: true, UseDefaultShowPreview: true}},
		&tl.UpdateUserStatus{UserID: 42, Status: tl.UserStatus{Type: tl.UserStatusRecently}},
		&tl.UpdateActiveEmojiReactions{Emojis: []string{"👍"}},
		&tl.UpdateUnreadChatCount{ChatList: main, TotalCount: 1},
		&tl.UpdateDeleteMessages{ChatID: 42, MessageIDs: []int64{99}, IsPermanent: true},
	}
}

func TestApplyTwiceIsApplyOnce(t *testing.T) {
	once := newFixture(t)
	twice := newFixture(t)
	for _, up := range sampleUpdates() {
		once.u.Apply(up)
		twice.u.Apply(up)
		twice.u.Apply(up)
	}
	once.m.RunPending()
	twice.m.RunPending()

	assert.Equal(t, once.store.Chat(42), twice.store.Chat(42))
	assert.Equal(t, once.store.Message(42, 7), twice.store.Message(42, 7))
	assert.Equal(t, once.store.User(42), twice.store.User(42))
	assert.Equal(t, once.store.MessageCount(), twice.store.MessageCount())
	assert.Equal(t, once.store.Unread(tl.ChatList{Type: tl.ChatListMain}),
		twice.store.Unread(tl.ChatList{Type: tl.ChatListMain}))
	assert.Equal(t, once.store.Reactions().Active(), twice.store.Reactions().Active())
}

func TestReapplyFiresNothing(t *testing.T) {
	f := newFixture(t)
	fired := 0
	f.store.Changes().SubscribeChats(func(data.ChatUpdate) { fired++ })
	f.store.Changes().SubscribeMessages(func(data.MessageUpdate) { fired++ })
	f.store.Changes().SubscribePeers(func(data.PeerUpdate) { fired++ })

	for _, up := range sampleUpdates() {
		f.u.Apply(up)
		f.m.RunPending()
		fired = 0
		f.u.Apply(up)
		f.m.RunPending()
		assert.Zero(t, fired, up.TypeName())
	}
}

func TestUnknownEntitiesAreSkipped(t *testing.T) {
	f := newFixture(t)
	fired := 0
	f.store.Changes().SubscribeMessages(func(data.MessageUpdate) { fired++ })

	f.u.Apply(&tl.UpdateMessageEdited{ChatID: 1, MessageID: 2, EditDate: 3})
	f.u.Apply(&tl.UpdateChatTitle{ChatID: 1, Title: "x"})
	f.u.Apply(&tl.UpdateUserStatus{UserID: 1})
	f.u.Apply(&tl.UpdateGroupCallParticipant{GroupCallID: 9})
	f.m.RunPending()

	assert.Zero(t, fired)
	assert.Nil(t, f.store.Chat(1))
	assert.Zero(t, f.store.MessageCount())
}

func TestApplyFrame(t *testing.T) {
	f := newFixture(t)
	f.u.Apply(&tl.UpdateNewChat{Chat: tl.Chat{ID: 42}})

	f.u.ApplyFrame([]byte(`{"@type":"updateChatTitle","chat_id":42,"title":"Foo"}`))
	f.u.ApplyFrame([]byte(`{"@type":"updateSomethingNew","chat_id":42}`))
	f.u.ApplyFrame([]byte(`{"@type":`))
	f.m.RunPending()

	assert.Equal(t, "Foo", f.store.Chat(42).Title)
}

func TestMessageSendSucceeded(t *testing.T) {
	f := newFixture(t)
	f.u.Apply(&tl.UpdateNewChat{Chat: tl.Chat{ID: 42}})
	f.u.Apply(&tl.UpdateNewMessage{Message: tl.Message{ID: 1, ChatID: 42,
		SendingState: &tl.MessageSendingState{Type: "messageSendingStatePending"}}})
	require.True(t, f.store.Message(42, 1).Sending)

	f.u.Apply(&tl.UpdateMessageSendSucceeded{OldMessageID: 1, Message: tl.Message{ID: 1001, ChatID: 42}})
	assert.Nil(t, f.store.Message(42, 1))
	m := f.store.Message(42, 1001)
	require.NotNil(t, m)
	assert.False(t, m.Sending)
}

type recordingSink struct{ names []string }

func (s *recordingSink) ApplyOption(name string, _ tl.OptionValue) bool {
	s.names = append(s.names, name)
	return name == "wanted"
}

func TestOptions(t *testing.T) {
	sink := &recordingSink{}
	f := newFixture(t, sink)

	f.u.Apply(&tl.UpdateOption{Name: "my_id", Value: tl.IntOption(5)})
	f.u.Apply(&tl.UpdateOption{Name: "wanted", Value: tl.BoolOption(true)})
	f.u.Apply(&tl.UpdateOption{Name: OptionOfflineIdleTimeout, Value: tl.IntOption(5000)})

	assert.True(t, f.store.IsSelf(5))
	assert.Equal(t, []string{"my_id", "wanted", OptionOfflineIdleTimeout}, sink.names)
	assert.Equal(t, 5*time.Second, f.u.Liveness().conf.OfflineIdleTimeout)
}

func TestVideoChatLifecycle(t *testing.T) {
	f := newFixture(t)
	f.u.Apply(&tl.UpdateSupergroup{Supergroup: tl.Supergroup{ID: 100}})
	f.u.Apply(&tl.UpdateNewChat{Chat: *supergroupChat(-100, 100, 0)})
	f.u.Apply(&tl.UpdateSupergroupFullInfo{SupergroupID: 100})
	c := f.store.Chat(-100)
	require.True(t, c.FullInfoLoaded)
	assert.Nil(t, f.store.GroupCallForChat(c))

	f.u.Apply(&tl.UpdateChatVideoChat{ChatID: -100, VideoChat: tl.VideoChat{GroupCallID: 7}})
	require.NotNil(t, f.store.GroupCallForChat(c))

	f.u.Apply(&tl.UpdateGroupCall{GroupCall: tl.GroupCall{ID: 7, Title: "standup", IsActive: true}})
	assert.Equal(t, "standup", f.store.GroupCall(7).Title)

	f.u.Apply(&tl.UpdateGroupCallParticipant{GroupCallID: 7, Participant: tl.GroupCallParticipant{
		ParticipantID: tl.UserSender(3), Order: "1"}})
	assert.NotNil(t, f.store.GroupCall(7).Participant(3))

	f.u.Apply(&tl.UpdateChatVideoChat{ChatID: -100})
	assert.Nil(t, f.store.GroupCall(7))
	assert.Nil(t, f.store.GroupCallForChat(c))
}

func TestSpeakingChatAction(t *testing.T) {
	f := newFixture(t)
	f.u.Apply(&tl.UpdateUser{User: tl.User{ID: 3}})
	f.u.Apply(&tl.UpdateSupergroup{Supergroup: tl.Supergroup{ID: 100}})
	f.u.Apply(&tl.UpdateNewChat{Chat: *supergroupChat(-100, 100, 7)})
	f.m.RunPending()

	f.u.Apply(&tl.UpdateChatAction{ChatID: -100, SenderID: tl.UserSender(3),
		Action: tl.ChatAction{Type: tl.ChatActionSpeaking}})
	assert.Equal(t, []int64{3}, f.u.Speaking().Pending(-100))
	require.Len(t, f.rec.Of("getSupergroupFullInfo"), 1)

	f.rec.Of("getSupergroupFullInfo")[0].Reply(&tl.SupergroupFullInfo{MemberCount: 2})
	f.m.RunPending()

	assert.Empty(t, f.u.Speaking().Pending(-100))
	p := f.store.GroupCall(7).Participant(3)
	require.NotNil(t, p)
	assert.Equal(t, t0, p.Spoke.Voice)
}

func TestLogoutClearsStore(t *testing.T) {
	f := newFixture(t)
	f.u.Apply(&tl.UpdateNewChat{Chat: tl.Chat{ID: 42}})
	h := f.store.Handle(f.store.Chat(42))

	f.u.Apply(&tl.UpdateAuthorizationState{AuthorizationState: tl.AuthorizationState{Type: tl.AuthorizationStateLoggingOut}})
	assert.Nil(t, f.store.Resolve(h))
	assert.Equal(t, tl.AuthorizationStateLoggingOut, f.u.AuthorizationState().Current())
}
