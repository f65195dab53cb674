package data

import (
	"fmt"
	"reflect"

	"github.com/mqy/minisync/tl"
)

type FullMsgID struct {
	ChatID int64
	ID     int64
}

func (id FullMsgID) String() string {
	return fmt.Sprintf("%d:%d", id.ChatID, id.ID)
}

type Message struct {
	FullMsgID
	SenderID              tl.MessageSender
	Date                  int32
	EditDate              int32
	IsOutgoing            bool
	IsPinned              bool
	ContainsUnreadMention bool
	Content               tl.MessageContent
	InteractionInfo       *tl.MessageInteractionInfo
	UnreadReactions       []tl.UnreadReaction
	FactCheck             *tl.FactCheck
	ContentOpened         bool

	// Sending is set while the message waits for the server; SendError is set
	// when sending failed.
	Sending   bool
	SendError *tl.Error
}

func (m *Message) apply(src *tl.Message) MessageFlags {
	var f MessageFlags
	m.SenderID = src.SenderID
	m.Date = src.Date
	m.IsOutgoing = src.IsOutgoing
	if m.EditDate != src.EditDate {
		m.EditDate = src.EditDate
		f |= MessageEdited
	}
	if m.SetPinned(src.IsPinned) {
		f |= MessagePinned
	}
	if m.ContainsUnreadMention != src.ContainsUnreadMention {
		m.ContainsUnreadMention = src.ContainsUnreadMention
		f |= MessageMention
	}
	if m.SetContent(src.Content) {
		f |= MessageContent
	}
	if m.SetInteractionInfo(src.InteractionInfo) {
		f |= MessageReactions
	}
	if m.SetUnreadReactions(src.UnreadReactions) {
		f |= MessageReactions
	}
	if m.SetFactCheck(src.FactCheck) {
		f |= MessageFactCheck
	}
	sending := src.SendingState != nil && src.SendingState.Error == nil
	var sendErr *tl.Error
	if src.SendingState != nil {
		sendErr = src.SendingState.Error
	}
	if m.Sending != sending || !reflect.DeepEqual(m.SendError, sendErr) {
		m.Sending, m.SendError = sending, sendErr
		f |= MessageSending
	}
	return f
}

func (m *Message) SetPinned(v bool) bool {
	if m.IsPinned == v {
		return false
	}
	m.IsPinned = v
	return true
}

func (m *Message) SetContent(c tl.MessageContent) bool {
	if reflect.DeepEqual(m.Content, c) {
		return false
	}
	m.Content = c
	return true
}

func (m *Message) SetInteractionInfo(v *tl.MessageInteractionInfo) bool {
	if reflect.DeepEqual(m.InteractionInfo, v) {
		return false
	}
	m.InteractionInfo = v
	return true
}

func (m *Message) SetUnreadReactions(v []tl.UnreadReaction) bool {
	if len(m.UnreadReactions) == 0 && len(v) == 0 {
		return false
	}
	if reflect.DeepEqual(m.UnreadReactions, v) {
		return false
	}
	m.UnreadReactions = v
	return true
}

func (m *Message) SetFactCheck(v *tl.FactCheck) bool {
	if reflect.DeepEqual(m.FactCheck, v) {
		return false
	}
	m.FactCheck = v
	return true
}

func (m *Message) MarkMentionRead() bool {
	if !m.ContainsUnreadMention {
		return false
	}
	m.ContainsUnreadMention = false
	return true
}

func (m *Message) MarkContentOpened() bool {
	if m.ContentOpened {
		return false
	}
	m.ContentOpened = true
	return true
}

func (m *Message) SetEditDate(v int32) bool {
	if m.EditDate == v {
		return false
	}
	m.EditDate = v
	return true
}
