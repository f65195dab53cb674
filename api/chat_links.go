package api

import (
	"reflect"

	"github.com/golang/glog"

	"github.com/mqy/minisync/event"
	"github.com/mqy/minisync/rpc"
	"github.com/mqy/minisync/tl"
)

// ChatLink is a business chat link: a t.me link that opens a chat with the
// account and prefills a message.
type ChatLink struct {
	Link    string
	Title   string
	Message tl.FormattedText
	Clicks  int32
}

func chatLinkFromTL(l *tl.BusinessChatLink) ChatLink {
	return ChatLink{Link: l.Link, Title: l.Title, Message: l.Text, Clicks: l.ViewCount}
}

// ChatLinkUpdate describes one local list change. Was is empty for a created
// link; Now is nil for a removed one.
type ChatLinkUpdate struct {
	Was string
	Now *ChatLink
}

type ChatLinks struct {
	sender rpc.ISender

	list       []ChatLink
	loaded     bool
	requesting bool

	updates       event.Stream[ChatLinkUpdate]
	loadedUpdates event.Stream[struct{}]
}

func NewChatLinks(sender rpc.ISender) *ChatLinks {
	return &ChatLinks{sender: sender}
}

// Preload requests the list once. It does nothing after the first load.
func (c *ChatLinks) Preload() {
	if c.loaded {
		return
	}
	c.Reload()
}

// Reload requests the list again. LoadedUpdates fires only if the list
// changed or this is the first answer.
func (c *ChatLinks) Reload() {
	if c.requesting {
		return
	}
	c.requesting = true
	c.sender.Send(&tl.GetBusinessChatLinks{}, rpc.Expect(func(r *tl.BusinessChatLinks) {
		c.requesting = false
		links := make([]ChatLink, 0, len(r.Links))
		for i := range r.Links {
			links = append(links, chatLinkFromTL(&r.Links[i]))
		}
		first := !c.loaded
		c.loaded = true
		if !first && reflect.DeepEqual(c.list, links) {
			return
		}
		c.list = links
		glog.V(3).Infof("chat links: loaded %d", len(links))
		fired("chat_links")
		c.loadedUpdates.Fire(struct{}{})
	}, c.loadFailed), c.loadFailed)
}

func (c *ChatLinks) loadFailed(e *tl.Error) {
	c.requesting = false
	glog.Warningf("chat links: load: %v", e)
	if c.loaded {
		return
	}
	// Observers waiting for the first load see an empty list.
	c.loaded = true
	c.loadedUpdates.Fire(struct{}{})
}

// Create adds a link. The list changes only after the server created it.
func (c *ChatLinks) Create(title string, message tl.FormattedText, done func(ChatLink, error)) {
	finish := func(l ChatLink, err error) {
		if done != nil {
			done(l, err)
		}
	}
	fail := func(e *tl.Error) {
		finish(ChatLink{}, &ChatLinkError{Kind: ChatLinkUnknown, Cause: e})
	}
	c.sender.Send(&tl.CreateBusinessChatLink{
		LinkInfo: tl.InputBusinessChatLink{Text: message, Title: title},
	}, rpc.Expect(func(r *tl.BusinessChatLink) {
		link := chatLinkFromTL(r)
		c.list = append(c.list, link)
		fired("chat_links")
		c.updates.Fire(ChatLinkUpdate{Now: &link})
		finish(link, nil)
	}, fail), fail)
}

// Edit replaces the title and message of link in place.
func (c *ChatLinks) Edit(link, title string, message tl.FormattedText, done func(ChatLink, error)) {
	finish := func(l ChatLink, err error) {
		if done != nil {
			done(l, err)
		}
	}
	fail := func(e *tl.Error) {
		finish(ChatLink{}, &ChatLinkError{Kind: ChatLinkUnknown, Cause: e})
	}
	c.sender.Send(&tl.EditBusinessChatLink{
		Link:     link,
		LinkInfo: tl.InputBusinessChatLink{Text: message, Title: title},
	}, rpc.Expect(func(r *tl.BusinessChatLink) {
		parsed := chatLinkFromTL(r)
		if parsed.Link != link {
			glog.Errorf("chat links: edit of %s answered with %s", link, parsed.Link)
			finish(ChatLink{}, &ChatLinkError{Kind: ChatLinkChanged})
			return
		}
		i := c.index(link)
		if i < 0 {
			glog.Errorf("chat links: edited link %s not in list", link)
			finish(ChatLink{}, &ChatLinkError{Kind: ChatLinkNotFound})
			return
		}
		c.list[i] = parsed
		fired("chat_links")
		c.updates.Fire(ChatLinkUpdate{Was: link, Now: &parsed})
		finish(parsed, nil)
	}, fail), fail)
}

// Destroy deletes link. A link the server deleted but the list did not have
// completes without error.
func (c *ChatLinks) Destroy(link string, done func(error)) {
	finish := func(err error) {
		if done != nil {
			done(err)
		}
	}
	c.sender.Send(&tl.DeleteBusinessChatLink{Link: link}, func(tl.Object) {
		i := c.index(link)
		if i < 0 {
			glog.Warningf("chat links: deleted link %s not in list", link)
			finish(nil)
			return
		}
		c.list = append(c.list[:i], c.list[i+1:]...)
		fired("chat_links")
		c.updates.Fire(ChatLinkUpdate{Was: link})
		finish(nil)
	}, func(e *tl.Error) {
		finish(&ChatLinkError{Kind: ChatLinkUnknown, Cause: e})
	})
}

func (c *ChatLinks) index(link string) int {
	for i := range c.list {
		if c.list[i].Link == link {
			return i
		}
	}
	return -1
}

// List returns a copy in server order.
func (c *ChatLinks) List() []ChatLink {
	return append([]ChatLink(nil), c.list...)
}

func (c *ChatLinks) Loaded() bool { return c.loaded }

func (c *ChatLinks) Updates() *event.Stream[ChatLinkUpdate] { return &c.updates }

func (c *ChatLinks) LoadedUpdates() *event.Stream[struct{}] { return &c.loadedUpdates }
