package domain

import (
	"github.com/cristianortiz/auctionLedger/internal/shared/identity"
)

// Bid is an accepted offer, it is never changed after acceptance.
// is also an entity inside Auction agreggate (DDD concepts)
type Bid struct {
	Price Price `json:"price"`
	// Time is the remaining seconds until closing at the moment the bid was accepted.
	Time       uint64             `json:"time"`
	Originator identity.Principal `json:"originator"`
}

// NewBid creates a new Bid instance
func NewBid(price Price, remainingSeconds uint64, originator identity.Principal) Bid {
	return Bid{
		Price:      price,
		Time:       remainingSeconds,
		Originator: originator,
	}
}
