package api

import (
	"github.com/golang/glog"

	"github.com/mqy/minisync/event"
	"github.com/mqy/minisync/rpc"
	"github.com/mqy/minisync/tl"
)

const (
	creditsFirstPage = 3
	creditsPage      = 50
)

type CreditsPeerType int

const (
	CreditsPeerUnsupported CreditsPeerType = iota
	CreditsPeer
	CreditsAppStore
	CreditsPlayMarket
	CreditsFragment
	CreditsPremiumBot
	CreditsAds
)

type CreditsHistoryEntry struct {
	ID       string
	Date     int32
	Credits  int64
	In       bool
	Refunded bool
	PeerType CreditsPeerType
	PeerID   int64
}

// ParseCreditsHistoryEntry keeps the absolute amount in Credits; In tells the
// direction.
func ParseCreditsHistoryEntry(t *tl.StarTransaction) CreditsHistoryEntry {
	n := t.StarAmount.StarCount
	out := CreditsHistoryEntry{
		ID:       t.ID,
		Date:     t.Date,
		Credits:  n,
		In:       n >= 0,
		Refunded: t.IsRefund,
	}
	if n < 0 {
		out.Credits = -n
	}
	switch t.Partner.Type {
	case tl.StarTransactionPartnerUser:
		out.PeerType, out.PeerID = CreditsPeer, t.Partner.UserID
	case tl.StarTransactionPartnerChat:
		out.PeerType, out.PeerID = CreditsPeer, t.Partner.ChatID
	case tl.StarTransactionPartnerTelegram:
		out.PeerType = CreditsPremiumBot
	case tl.StarTransactionPartnerAppStore:
		out.PeerType = CreditsAppStore
	case tl.StarTransactionPartnerGooglePlay:
		out.PeerType = CreditsPlayMarket
	case tl.StarTransactionPartnerFragment:
		out.PeerType = CreditsFragment
	case tl.StarTransactionPartnerTelegramAds:
		out.PeerType = CreditsAds
	}
	return out
}

type CreditsSlice struct {
	List       []CreditsHistoryEntry
	Balance    int64
	NextOffset string
}

type CreditsBalance struct {
	PeerID  int64
	Balance int64
}

// Credits pages through the star transactions of an owner and tracks the
// balances they report.
type Credits struct {
	sender rpc.ISender

	requesting map[int64]struct{}
	balances   map[int64]int64
	changes    event.Stream[CreditsBalance]
}

func NewCredits(sender rpc.ISender) *Credits {
	return &Credits{
		sender:     sender,
		requesting: make(map[int64]struct{}),
		balances:   make(map[int64]int64),
	}
}

// Request loads one page of history. It returns false when a request for the
// owner is already in flight. An empty offset asks for the short first page.
func (c *Credits) Request(owner tl.MessageSender, offset string, done func(CreditsSlice, error)) bool {
	peer := owner.PeerID()
	if _, ok := c.requesting[peer]; ok {
		return false
	}
	c.requesting[peer] = struct{}{}

	limit := int32(creditsPage)
	if offset == "" {
		limit = creditsFirstPage
	}
	fail := func(e *tl.Error) {
		delete(c.requesting, peer)
		glog.Warningf("credits: history of %d: %v", peer, e)
		if done != nil {
			done(CreditsSlice{}, asError(e))
		}
	}
	c.sender.Send(&tl.GetStarTransactions{OwnerID: owner, Offset: offset, Limit: limit},
		rpc.Expect(func(r *tl.StarTransactions) {
			delete(c.requesting, peer)
			slice := CreditsSlice{
				List:       make([]CreditsHistoryEntry, 0, len(r.Transactions)),
				Balance:    r.StarAmount.StarCount,
				NextOffset: r.NextOffset,
			}
			for i := range r.Transactions {
				slice.List = append(slice.List, ParseCreditsHistoryEntry(&r.Transactions[i]))
			}
			c.apply(peer, slice.Balance)
			if done != nil {
				done(slice, nil)
			}
		}, fail), fail)
	return true
}

func (c *Credits) apply(peer, balance int64) {
	if old, ok := c.balances[peer]; ok && old == balance {
		return
	}
	c.balances[peer] = balance
	fired("credits")
	c.changes.Fire(CreditsBalance{PeerID: peer, Balance: balance})
}

func (c *Credits) Balance(peer int64) (int64, bool) {
	b, ok := c.balances[peer]
	return b, ok
}

func (c *Credits) BalanceChanges() *event.Stream[CreditsBalance] { return &c.changes }
