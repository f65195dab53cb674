package api

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqy/minisync/tl"
)

func TestParseBoostStatus(t *testing.T) {
	s := ParseBoostStatus(&tl.ChatBoostStatus{
		BoostURL:               "https://t.me/boost/x",
		Level:                  -1,
		BoostCount:             3,
		CurrentLevelBoostCount: 5,
		NextLevelBoostCount:    10,
		AppliedSlotIDs:         []int32{1},
	})
	assert.Equal(t, 0, s.Level)
	assert.Equal(t, 5, s.BoostCount)
	assert.True(t, s.Mine)
	assert.False(t, ParseBoostStatus(&tl.ChatBoostStatus{}).Mine)
}

func TestBoostsRequestDedup(t *testing.T) {
	f := newFixture(t)
	b := NewBoosts(f.sender, f.store)

	var got []BoostStatus
	collect := func(s BoostStatus, err error) {
		require.NoError(t, err)
		got = append(got, s)
	}
	b.Request(channelID, collect)
	b.Request(channelID, collect)
	require.Len(t, f.rec.Of("getChatBoostStatus"), 1)
	f.rec.Last().Reply(&tl.ChatBoostStatus{Level: 2, BoostCount: 7})
	require.Len(t, got, 2)
	assert.Equal(t, got[0], got[1])
	cached, ok := b.Status(channelID)
	assert.True(t, ok)
	assert.Equal(t, 2, cached.Level)

	b.Request(channelID, func(_ BoostStatus, err error) { assert.Error(t, err) })
	f.rec.Last().Fail(&tl.Error{Code: 400, Message: "CHAT_ADMIN_REQUIRED"})
	_, ok = b.Status(channelID)
	assert.True(t, ok)

	var err error
	b.Request(groupID, func(_ BoostStatus, e error) { err = e })
	assert.Equal(t, ErrNotSupported, err)
}

func TestBoostsChanges(t *testing.T) {
	f := newFixture(t)
	b := NewBoosts(f.sender, f.store)
	var got []BoostUpdate
	b.Changes().Subscribe(func(u BoostUpdate) { got = append(got, u) })

	b.Request(channelID, nil)
	f.rec.Last().Reply(&tl.ChatBoostStatus{Level: 1, BoostCount: 3})
	b.Request(channelID, nil)
	f.rec.Last().Reply(&tl.ChatBoostStatus{Level: 1, BoostCount: 3})
	require.Len(t, got, 1, "same status fires nothing")
	assert.Equal(t, channelID, got[0].ChatID)

	b.Request(channelID, nil)
	f.rec.Last().Reply(&tl.ChatBoostStatus{Level: 2, BoostCount: 7})
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[1].Status.Level)

	// nil callbacks are fine on every path
	b.Request(groupID, nil)
	b.Request(channelID, nil)
	f.rec.Last().Fail(&tl.Error{Code: 500, Message: "INTERNAL"})
}

func TestParseCreditsHistoryEntry(t *testing.T) {
	tests := []struct {
		partner tl.StarTransactionPartner
		count   int64
		want    CreditsHistoryEntry
	}{
		{
			tl.StarTransactionPartner{Type: tl.StarTransactionPartnerUser, UserID: 5}, 10,
			CreditsHistoryEntry{ID: "t", Credits: 10, In: true, PeerType: CreditsPeer, PeerID: 5},
		},
		{
			tl.StarTransactionPartner{Type: tl.StarTransactionPartnerChat, ChatID: -100}, -4,
			CreditsHistoryEntry{ID: "t", Credits: 4, PeerType: CreditsPeer, PeerID: -100},
		},
		{
			tl.StarTransactionPartner{Type: tl.StarTransactionPartnerFragment}, 0,
			CreditsHistoryEntry{ID: "t", In: true, PeerType: CreditsFragment},
		},
		{
			tl.StarTransactionPartner{Type: "starTransactionPartnerSomethingNew"}, 1,
			CreditsHistoryEntry{ID: "t", Credits: 1, In: true, PeerType: CreditsPeerUnsupported},
		},
	}
	for _, tt := range tests {
		got := ParseCreditsHistoryEntry(&tl.StarTransaction{
			ID: "t", StarAmount: tl.StarAmount{StarCount: tt.count}, Partner: tt.partner,
		})
		assert.Equal(t, tt.want, got, tt.partner.Type)
	}
}

func TestCreditsRequest(t *testing.T) {
	f := newFixture(t)
	c := NewCredits(f.sender)
	var balances []CreditsBalance
	c.BalanceChanges().Subscribe(func(b CreditsBalance) { balances = append(balances, b) })

	owner := tl.UserSender(selfID)
	var slice CreditsSlice
	var err error
	assert.True(t, c.Request(owner, "", func(s CreditsSlice, e error) { slice, err = s, e }))
	assert.False(t, c.Request(owner, "", nil))
	req := f.rec.Last().Fn.(*tl.GetStarTransactions)
	assert.Equal(t, int32(creditsFirstPage), req.Limit)
	f.rec.Last().Reply(&tl.StarTransactions{
		StarAmount:   tl.StarAmount{StarCount: 42},
		Transactions: []tl.StarTransaction{{ID: "a", StarAmount: tl.StarAmount{StarCount: 2}}},
		NextOffset:   "next",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), slice.Balance)
	assert.Equal(t, "next", slice.NextOffset)
	require.Len(t, slice.List, 1)

	assert.True(t, c.Request(owner, "next", func(s CreditsSlice, e error) { slice, err = s, e }))
	assert.Equal(t, int32(creditsPage), f.rec.Last().Fn.(*tl.GetStarTransactions).Limit)
	f.rec.Last().Fail(&tl.Error{Code: 500, Message: "INTERNAL"})
	var remote *tl.Error
	require.True(t, errors.As(err, &remote), "the failure is reported, not an empty page")
	assert.Equal(t, "INTERNAL", remote.Message)
	assert.Empty(t, slice.List)

	// an empty history is not an error
	assert.True(t, c.Request(owner, "", func(s CreditsSlice, e error) { slice, err = s, e }))
	f.rec.Last().Reply(&tl.StarTransactions{StarAmount: tl.StarAmount{StarCount: 42}})
	require.NoError(t, err)
	assert.Empty(t, slice.List)

	assert.True(t, c.Request(owner, "", nil))
	f.rec.Last().Reply(&tl.StarTransactions{StarAmount: tl.StarAmount{StarCount: 42}})
	assert.Equal(t, []CreditsBalance{{PeerID: selfID, Balance: 42}}, balances)
	b, ok := c.Balance(selfID)
	assert.True(t, ok)
	assert.Equal(t, int64(42), b)
}
