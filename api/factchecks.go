package api

import (
	"github.com/golang/glog"

	"github.com/mqy/minisync/data"
	"github.com/mqy/minisync/event"
	"github.com/mqy/minisync/rpc"
	"github.com/mqy/minisync/tl"
)

const (
	optionCanEditFactCheck   = "can_edit_fact_check"
	optionFactCheckLengthMax = "fact_check_length_max"

	defaultFactCheckLengthMax = 1024
)

// Factchecks tracks whether the account may edit fact-checks and forwards
// fact-check pushes to observers.
type Factchecks struct {
	sender rpc.ISender
	store  *data.Store

	canEdit   bool
	lengthMax int

	updated event.Stream[data.FullMsgID]
}

func NewFactchecks(sender rpc.ISender, store *data.Store) *Factchecks {
	return &Factchecks{sender: sender, store: store, lengthMax: defaultFactCheckLengthMax}
}

func (f *Factchecks) ApplyOption(name string, v tl.OptionValue) bool {
	switch name {
	case optionCanEditFactCheck:
		f.canEdit = v.Bool()
	case optionFactCheckLengthMax:
		n := int(v.Int())
		if n <= 0 {
			n = defaultFactCheckLengthMax
		}
		f.lengthMax = n
	default:
		return false
	}
	return true
}

// Apply runs after the store took the new fact-check.
func (f *Factchecks) Apply(u *tl.UpdateMessageFactCheck) {
	if f.store.Message(u.ChatID, u.MessageID) == nil {
		return
	}
	fired("factchecks")
	f.updated.Fire(data.FullMsgID{ChatID: u.ChatID, ID: u.MessageID})
}

func (f *Factchecks) Updated() *event.Stream[data.FullMsgID] { return &f.updated }

func (f *Factchecks) LengthMax() int { return f.lengthMax }

// CanEdit reports whether a fact-check may be added to m: the option must
// allow it, m must be a sent post of a broadcast channel, and its content
// kind must carry text or a caption.
func (f *Factchecks) CanEdit(m *data.Message) bool {
	if !f.canEdit || m == nil || m.ID <= 0 || m.Sending || m.SendError != nil {
		return false
	}
	c := f.store.Chat(m.ChatID)
	if c == nil || !c.IsSupergroup() {
		return false
	}
	sg := f.store.Supergroup(c.Type.SupergroupID)
	if sg == nil || !sg.IsChannel {
		return false
	}
	switch m.Content.Type {
	case tl.MessageText, tl.MessagePhoto, tl.MessageVideo,
		tl.MessageAnimation, tl.MessageAudio, tl.MessageDocument:
		return true
	}
	return false
}

// Save sets the fact-check text of a message. An empty text removes it.
func (f *Factchecks) Save(chatID, msgID int64, text tl.FormattedText, done func(error)) {
	finish := func(err error) {
		if done != nil {
			done(err)
		}
	}
	if f.store.Message(chatID, msgID) == nil {
		finish(ErrNoMessage)
		return
	}
	req := &tl.SetMessageFactCheck{ChatID: chatID, MessageID: msgID}
	if text.Text != "" {
		req.Text = &text
	}
	f.sender.Send(req, func(tl.Object) {
		finish(nil)
	}, func(e *tl.Error) {
		glog.Warningf("factchecks: save %d:%d: %v", chatID, msgID, e)
		finish(asError(e))
	})
}
