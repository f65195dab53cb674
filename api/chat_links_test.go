package api

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqy/minisync/tl"
)

func linksReply(links ...string) *tl.BusinessChatLinks {
	out := &tl.BusinessChatLinks{}
	for _, l := range links {
		out.Links = append(out.Links, tl.BusinessChatLink{Link: l, Title: "title " + l})
	}
	return out
}

func TestChatLinksReloadFiresOnlyOnChange(t *testing.T) {
	f := newFixture(t)
	c := NewChatLinks(f.sender)
	loaded := 0
	c.LoadedUpdates().Subscribe(func(struct{}) { loaded++ })
	before := mergerEvents("chat_links")

	c.Preload()
	c.Preload()
	require.Len(t, f.rec.Of("getBusinessChatLinks"), 1)
	f.rec.Last().Reply(linksReply("a", "b"))
	assert.Equal(t, 1, loaded)
	assert.True(t, c.Loaded())

	c.Preload()
	assert.Len(t, f.rec.Of("getBusinessChatLinks"), 1)

	c.Reload()
	f.rec.Last().Reply(linksReply("a", "b"))
	assert.Equal(t, 1, loaded)
	assert.Equal(t, 1.0, mergerEvents("chat_links")-before)

	c.Reload()
	f.rec.Last().Reply(linksReply("a"))
	assert.Equal(t, 2, loaded)
	assert.Equal(t, []string{"a"}, linkNames(c.List()))
}

func linkNames(list []ChatLink) []string {
	var out []string
	for _, l := range list {
		out = append(out, l.Link)
	}
	return out
}

func TestChatLinksFirstLoadFailure(t *testing.T) {
	f := newFixture(t)
	c := NewChatLinks(f.sender)
	loaded := 0
	c.LoadedUpdates().Subscribe(func(struct{}) { loaded++ })

	c.Reload()
	f.rec.Last().Fail(&tl.Error{Code: 500, Message: "INTERNAL"})
	assert.Equal(t, 1, loaded)
	assert.True(t, c.Loaded())
	assert.Empty(t, c.List())

	c.Reload()
	f.rec.Last().Fail(&tl.Error{Code: 500, Message: "INTERNAL"})
	assert.Equal(t, 1, loaded)
}

func TestChatLinksCreateEditDestroy(t *testing.T) {
	f := newFixture(t)
	c := NewChatLinks(f.sender)
	c.Reload()
	f.rec.Last().Reply(linksReply("a"))

	var got []ChatLinkUpdate
	c.Updates().Subscribe(func(u ChatLinkUpdate) { got = append(got, u) })

	var created ChatLink
	c.Create("new", text("hi"), func(l ChatLink, err error) {
		require.NoError(t, err)
		created = l
	})
	create := f.rec.Last().Fn.(*tl.CreateBusinessChatLink)
	assert.Equal(t, "new", create.LinkInfo.Title)
	f.rec.Last().Reply(&tl.BusinessChatLink{Link: "b", Title: "new", Text: text("hi")})
	assert.Equal(t, "b", created.Link)
	assert.Equal(t, []string{"a", "b"}, linkNames(c.List()))

	var editErr error
	c.Edit("a", "renamed", text("x"), func(_ ChatLink, err error) { editErr = err })
	f.rec.Last().Reply(&tl.BusinessChatLink{Link: "a", Title: "renamed", Text: text("x")})
	assert.NoError(t, editErr)
	assert.Equal(t, "renamed", c.List()[0].Title)

	c.Destroy("b", func(err error) { assert.NoError(t, err) })
	f.rec.Last().Reply(&tl.Ok{})
	assert.Equal(t, []string{"a"}, linkNames(c.List()))

	require.Len(t, got, 3)
	assert.Equal(t, "", got[0].Was)
	assert.Equal(t, "a", got[1].Was)
	assert.Equal(t, "renamed", got[1].Now.Title)
	assert.Equal(t, "b", got[2].Was)
	assert.Nil(t, got[2].Now)
}

func TestChatLinksEditErrors(t *testing.T) {
	f := newFixture(t)
	c := NewChatLinks(f.sender)
	c.Reload()
	f.rec.Last().Reply(linksReply("a"))

	var err error
	c.Edit("a", "t", text("x"), func(_ ChatLink, e error) { err = e })
	f.rec.Last().Reply(&tl.BusinessChatLink{Link: "other"})
	var linkErr *ChatLinkError
	require.True(t, errors.As(err, &linkErr))
	assert.Equal(t, ChatLinkChanged, linkErr.Kind)

	c.Edit("gone", "t", text("x"), func(_ ChatLink, e error) { err = e })
	f.rec.Last().Reply(&tl.BusinessChatLink{Link: "gone"})
	require.True(t, errors.As(err, &linkErr))
	assert.Equal(t, ChatLinkNotFound, linkErr.Kind)

	c.Edit("a", "t", text("x"), func(_ ChatLink, e error) { err = e })
	f.rec.Last().Fail(&tl.Error{Code: 400, Message: "BUSINESS_LINK_INVALID"})
	require.True(t, errors.As(err, &linkErr))
	assert.Equal(t, ChatLinkUnknown, linkErr.Kind)
	assert.Equal(t, "BUSINESS_LINK_INVALID", linkErr.Cause.Message)

	err = errors.New("unset")
	c.Destroy("missing", func(e error) { err = e })
	f.rec.Last().Reply(&tl.Ok{})
	assert.NoError(t, err)
	assert.Equal(t, []string{"a"}, linkNames(c.List()))
}
