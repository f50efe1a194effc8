package domain

import (
	"time"

	"github.com/cristianortiz/auctionLedger/internal/shared/identity"
	"github.com/cristianortiz/auctionLedger/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// AuctionID is assigned by the store, starting at 0 and strictly increasing.
type AuctionID uint64

// Item is what is being sold. Image holds PNG data by convention.
type Item struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       []byte `json:"image"`
}

func (i Item) clone() Item {
	if i.Image != nil {
		i.Image = append([]byte(nil), i.Image...)
	}
	return i
}

// Auction is the aggregate root: one item, its bids and the instant it closes.
// Open or closed is never stored, it is derived from ClosingTime and the clock.
// Auction is not safe for concurrent use, the AuctionStore serializes access.
type Auction struct {
	ID          AuctionID
	Item        Item
	ClosingTime time.Time
	// append only, prices strictly increasing
	Bids []Bid
}

// NewAuction creates an auction closing durationSeconds after now
func NewAuction(id AuctionID, item Item, now time.Time, durationSeconds uint64) *Auction {
	return &Auction{
		ID:          id,
		Item:        item.clone(),
		ClosingTime: now.Add(secondsToDuration(durationSeconds)),
		Bids:        []Bid{},
	}
}

// RemainingTime is max(0, ClosingTime - now).
func (a *Auction) RemainingTime(now time.Time) time.Duration {
	d := a.ClosingTime.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// RemainingSeconds rounds the remaining time up to whole seconds, so it is 0
// exactly when the auction is closed.
func (a *Auction) RemainingSeconds(now time.Time) uint64 {
	d := a.RemainingTime(now)
	secs := uint64(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return secs
}

// IsClosed is true from ClosingTime on.
func (a *Auction) IsClosed(now time.Time) bool {
	return !now.Before(a.ClosingTime)
}

// LeadingBid is the last accepted bid, the winner once the auction is closed.
func (a *Auction) LeadingBid() (Bid, bool) {
	if len(a.Bids) == 0 {
		return Bid{}, false
	}
	return a.Bids[len(a.Bids)-1], true
}

// MinimumPrice is one unit above the leading bid, or 1 with no bids.
func (a *Auction) MinimumPrice() Price {
	last, ok := a.LeadingBid()
	if !ok {
		return Price{}.Next()
	}
	return last.Price.Next()
}

// PlaceBid checks price and closing time and appends the bid.
// Caller identity is validated by the store before the auction is looked up.
func (a *Auction) PlaceBid(originator identity.Principal, price Price, now time.Time) (Bid, error) {
	if price.Cmp(a.MinimumPrice()) < 0 {
		log.Warn("Bid rejected: price too low",
			zap.Uint64("auctionID", uint64(a.ID)),
			zap.Stringer("price", price),
			zap.Stringer("minimumPrice", a.MinimumPrice()),
			zap.Stringer("originator", originator),
		)
		return Bid{}, ErrPriceTooLow
	}

	if a.IsClosed(now) {
		log.Warn("Bid rejected: auction closed",
			zap.Uint64("auctionID", uint64(a.ID)),
			zap.Stringer("price", price),
			zap.Time("closingTime", a.ClosingTime),
			zap.Stringer("originator", originator),
		)
		return Bid{}, ErrAuctionClosed
	}

	bid := NewBid(price, a.RemainingSeconds(now), originator)
	a.Bids = append(a.Bids, bid)

	log.Info("Bid placed successfully",
		zap.Uint64("auctionID", uint64(a.ID)),
		zap.Int("seq", len(a.Bids)-1),
		zap.Stringer("price", price),
		zap.Uint64("remainingSeconds", bid.Time),
		zap.Stringer("originator", originator),
	)
	return bid, nil
}

// snapshot returns a copy that shares nothing mutable with a.
func (a *Auction) snapshot() *Auction {
	bids := make([]Bid, len(a.Bids))
	copy(bids, a.Bids)
	return &Auction{
		ID:          a.ID,
		Item:        a.Item.clone(),
		ClosingTime: a.ClosingTime,
		Bids:        bids,
	}
}

// validate checks the invariants of a restored auction.
func (a *Auction) validate() error {
	floor := Price{}.Next()
	for _, b := range a.Bids {
		if b.Originator.IsAnonymous() || b.Price.Cmp(floor) < 0 {
			return ErrInvalidSnapshot
		}
		floor = b.Price.Next()
	}
	return nil
}

const maxDurationSeconds = uint64(1<<63-1) / uint64(time.Second)

// secondsToDuration clamps at the largest representable time.Duration.
func secondsToDuration(s uint64) time.Duration {
	if s > maxDurationSeconds {
		s = maxDurationSeconds
	}
	return time.Duration(s) * time.Second
}
