package api

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/scylladb/go-set/i64set"

	"github.com/mqy/minisync/data"
	"github.com/mqy/minisync/kv"
	"github.com/mqy/minisync/rpc"
	"github.com/mqy/minisync/tl"
)

const draftsBucket = "drafts"

const inputMessageText = "inputMessageText"

// Drafts keeps the unsent text of every chat on disk and uploads it as the
// cloud draft when the session goes offline.
type Drafts struct {
	sender rpc.ISender
	store  *data.Store
	kv     kv.IStore

	local    map[int64]tl.FormattedText
	dirty    *i64set.Set
	inFlight *i64set.Set
}

func NewDrafts(sender rpc.ISender, store *data.Store, db kv.IStore) *Drafts {
	return &Drafts{
		sender:   sender,
		store:    store,
		kv:       db,
		local:    make(map[int64]tl.FormattedText),
		dirty:    i64set.New(),
		inFlight: i64set.New(),
	}
}

// Load reads the drafts saved by a previous run. They are all dirty until
// uploaded.
func (d *Drafts) Load(ctx context.Context) error {
	return d.kv.ForEach(ctx, draftsBucket, func(key string, value []byte) error {
		chatID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			glog.Warningf("drafts: bad key %q", key)
			return nil
		}
		var text tl.FormattedText
		if err := json.Unmarshal(value, &text); err != nil {
			return errors.Wrapf(err, "decoding draft of %d", chatID)
		}
		d.local[chatID] = text
		d.dirty.Add(chatID)
		return nil
	})
}

// Set stores the local draft of a chat. An empty text clears it.
func (d *Drafts) Set(ctx context.Context, chatID int64, text tl.FormattedText) error {
	key := strconv.FormatInt(chatID, 10)
	if text.Text == "" {
		if _, ok := d.local[chatID]; !ok {
			return nil
		}
		delete(d.local, chatID)
		d.dirty.Add(chatID)
		return d.kv.Delete(ctx, draftsBucket, key)
	}
	raw, err := json.Marshal(text)
	if err != nil {
		return errors.Wrap(err, "encoding draft")
	}
	d.local[chatID] = text
	d.dirty.Add(chatID)
	return d.kv.Put(ctx, draftsBucket, key, raw)
}

func (d *Drafts) Local(chatID int64) (tl.FormattedText, bool) {
	t, ok := d.local[chatID]
	return t, ok
}

func (d *Drafts) Dirty() int { return d.dirty.Size() }

func cloudText(c *data.Chat) string {
	if c.CloudDraft == nil {
		return ""
	}
	return c.CloudDraft.InputMessageText.Text.Text
}

// SaveCurrentToCloud uploads every dirty draft that differs from the cloud
// one. Drafts whose upload failed stay dirty.
func (d *Drafts) SaveCurrentToCloud() {
	for _, chatID := range d.dirty.List() {
		if d.inFlight.Has(chatID) {
			continue
		}
		c := d.store.Chat(chatID)
		if c == nil {
			d.dirty.Remove(chatID)
			continue
		}
		text, has := d.local[chatID]
		if text.Text == cloudText(c) {
			d.dirty.Remove(chatID)
			continue
		}
		req := &tl.SetChatDraftMessage{ChatID: chatID}
		if has {
			req.DraftMessage = &tl.DraftMessage{
				Date:             d.store.Now(),
				InputMessageText: tl.InputMessageText{Type: inputMessageText, Text: text},
			}
		}
		id := chatID
		d.inFlight.Add(id)
		d.sender.Send(req, func(tl.Object) {
			d.inFlight.Remove(id)
			d.dirty.Remove(id)
		}, func(e *tl.Error) {
			d.inFlight.Remove(id)
			glog.Warningf("drafts: save %d: %v", id, e)
		})
	}
}
