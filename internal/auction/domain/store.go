package domain

import (
	"sort"
	"sync"
	"time"

	"github.com/cristianortiz/auctionLedger/internal/shared/clock"
	"github.com/cristianortiz/auctionLedger/internal/shared/identity"
	"go.uber.org/zap"
)

// Overview is the reduced view of an auction returned by ListOverviews.
type Overview struct {
	ID   AuctionID `json:"id"`
	Item Item      `json:"item"`
}

// Details is a point in time view of one auction.
type Details struct {
	Item       Item  `json:"item"`
	BidHistory []Bid `json:"bid_history"`
	// RemainingTime in whole seconds, 0 means closed and the last bid, if any, won.
	RemainingTime uint64    `json:"remaining_time"`
	ClosingTime   time.Time `json:"closing_time"`
}

// Leader is the last entry of the bid history.
func (d Details) Leader() (Bid, bool) {
	if len(d.BidHistory) == 0 {
		return Bid{}, false
	}
	return d.BidHistory[len(d.BidHistory)-1], true
}

// Closed reports whether the auction had closed when the details were taken.
func (d Details) Closed() bool { return d.RemainingTime == 0 }

// AuctionStore owns every auction and the id counter. A single mutex guards
// both and is held for the whole of each operation, so operations are
// serializable. Returned values never alias store state.
type AuctionStore struct {
	mu        sync.Mutex
	clock     clock.Clock
	publisher EventPublisher
	auctions  []*Auction // ascending id
	byID      map[AuctionID]*Auction
	nextID    AuctionID
}

// StoreOption configures an AuctionStore at construction.
type StoreOption func(*AuctionStore)

// WithPublisher makes the store emit an Event after every mutation.
func WithPublisher(p EventPublisher) StoreOption {
	return func(s *AuctionStore) { s.publisher = p }
}

// NewAuctionStore returns an empty store reading time from c.
func NewAuctionStore(c clock.Clock, opts ...StoreOption) *AuctionStore {
	s := &AuctionStore{
		clock:    c,
		auctions: []*Auction{},
		byID:     make(map[AuctionID]*Auction),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAuction registers a new auction open for durationSeconds from now.
func (s *AuctionStore) CreateAuction(item Item, durationSeconds uint64) AuctionID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	a := NewAuction(id, item, s.clock.Now(), durationSeconds)
	s.auctions = append(s.auctions, a)
	s.byID[id] = a

	log.Info("Auction created",
		zap.Uint64("auctionID", uint64(id)),
		zap.String("title", a.Item.Title),
		zap.Time("closingTime", a.ClosingTime),
	)

	if s.publisher != nil {
		created := a.Item.clone()
		s.publisher.Publish(Event{
			Type:        EventAuctionCreated,
			AuctionID:   id,
			Item:        &created,
			ClosingTime: a.ClosingTime,
		})
	}
	return id
}

// ListOverviews returns every auction, open or closed, in ascending id order.
func (s *AuctionStore) ListOverviews() []Overview {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Overview, 0, len(s.auctions))
	for _, a := range s.auctions {
		out = append(out, Overview{ID: a.ID, Item: a.Item.clone()})
	}
	return out
}

// GetDetails returns item, bid history and remaining time of an auction.
func (s *AuctionStore) GetDetails(id AuctionID) (Details, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return Details{}, ErrAuctionNotFound
	}
	snap := a.snapshot()
	return Details{
		Item:          snap.Item,
		BidHistory:    snap.Bids,
		RemainingTime: a.RemainingSeconds(s.clock.Now()),
		ClosingTime:   a.ClosingTime,
	}, nil
}

// MakeBid validates, in order: caller identity, auction existence, price and
// closing time. Nothing is mutated unless every check passes.
func (s *AuctionStore) MakeBid(id AuctionID, price Price, caller identity.Principal) (Bid, error) {
	if caller.IsAnonymous() {
		log.Warn("Bid rejected: anonymous caller",
			zap.Uint64("auctionID", uint64(id)),
			zap.Stringer("price", price),
		)
		return Bid{}, ErrUnauthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return Bid{}, ErrAuctionNotFound
	}

	bid, err := a.PlaceBid(caller, price, s.clock.Now())
	if err != nil {
		return Bid{}, err
	}

	if s.publisher != nil {
		accepted := bid
		s.publisher.Publish(Event{
			Type:      EventBidAccepted,
			AuctionID: id,
			Seq:       len(a.Bids) - 1,
			Bid:       &accepted,
		})
	}
	return bid, nil
}

// Restore replaces the store contents with previously persisted auctions and
// resumes the counter after the highest id. Nothing is published. The whole
// snapshot is rejected if any auction breaks an invariant.
func (s *AuctionStore) Restore(auctions []*Auction) error {
	restored := make([]*Auction, 0, len(auctions))
	byID := make(map[AuctionID]*Auction, len(auctions))
	for _, a := range auctions {
		if a == nil {
			return ErrInvalidSnapshot
		}
		if _, dup := byID[a.ID]; dup {
			return ErrInvalidSnapshot
		}
		if err := a.validate(); err != nil {
			return err
		}
		c := a.snapshot()
		restored = append(restored, c)
		byID[c.ID] = c
	}
	sort.Slice(restored, func(i, j int) bool { return restored[i].ID < restored[j].ID })

	var next AuctionID
	if n := len(restored); n > 0 {
		next = restored[n-1].ID + 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.auctions = restored
	s.byID = byID
	s.nextID = next

	log.Info("Auction store restored",
		zap.Int("auctions", len(restored)),
		zap.Uint64("nextID", uint64(next)),
	)
	return nil
}
