package domain

import (
	"context"
	"time"
)

type EventType string

const (
	EventAuctionCreated EventType = "auction_created"
	EventBidAccepted    EventType = "bid_accepted"
)

// Event describes one mutation of the store. Events are emitted in mutation order.
type Event struct {
	Type      EventType `json:"type"`
	AuctionID AuctionID `json:"auction_id"`
	// set for auction_created
	Item        *Item     `json:"item,omitempty"`
	ClosingTime time.Time `json:"closing_time,omitzero"`
	// set for bid_accepted, Seq is the position of the bid in the history
	Seq int  `json:"seq"`
	Bid *Bid `json:"bid,omitempty"`
}

// EventPublisher receives store events while the store lock is held,
// implementations must return quickly and never call back into the store.
type EventPublisher interface {
	Publish(ev Event)
}

// LedgerRepository persists the ledger so the host can restore it after a restart.
type LedgerRepository interface {
	SaveAuction(ctx context.Context, id AuctionID, item Item, closingTime time.Time) error
	SaveBid(ctx context.Context, auctionID AuctionID, seq int, bid Bid) error
	// LoadAll returns every auction ordered by id, with bids in acceptance order.
	LoadAll(ctx context.Context) ([]*Auction, error)
}
