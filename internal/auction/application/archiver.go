package application

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianortiz/auctionLedger/internal/auction/domain"
	"go.uber.org/zap"
)

const archiveWriteTimeout = 5 * time.Second

// Archiver persists store events through a LedgerRepository from its own
// goroutine, so no store operation waits on the database.
type Archiver struct {
	repo   domain.LedgerRepository
	events chan domain.Event
}

func NewArchiver(repo domain.LedgerRepository, buffer int) *Archiver {
	return &Archiver{
		repo:   repo,
		events: make(chan domain.Event, buffer),
	}
}

// Publish implements domain.EventPublisher, it never blocks.
func (a *Archiver) Publish(ev domain.Event) {
	select {
	case a.events <- ev:
	default:
		log.Error("Archive buffer is full, event dropped",
			zap.String("type", string(ev.Type)),
			zap.Uint64("auctionID", uint64(ev.AuctionID)),
			zap.Int("seq", ev.Seq),
		)
	}
}

// Run writes events until ctx is cancelled, then flushes what is still buffered.
// Writes never use ctx, so a cancelled Run still persists every queued event.
// Stop it only after every producer of store mutations has stopped.
func (a *Archiver) Run(ctx context.Context) {
	log.Info("Archiver started")
	for {
		select {
		case <-ctx.Done():
			a.flush()
			log.Info("Archiver stopped")
			return
		default:
		}

		select {
		case <-ctx.Done():
		case ev := <-a.events:
			a.write(ev)
		}
	}
}

func (a *Archiver) flush() {
	for {
		select {
		case ev := <-a.events:
			a.write(ev)
		default:
			return
		}
	}
}

func (a *Archiver) write(ev domain.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), archiveWriteTimeout)
	defer cancel()

	var err error
	switch ev.Type {
	case domain.EventAuctionCreated:
		if ev.Item == nil {
			err = fmt.Errorf("auction_created event without item")
			break
		}
		err = a.repo.SaveAuction(ctx, ev.AuctionID, *ev.Item, ev.ClosingTime)
	case domain.EventBidAccepted:
		if ev.Bid == nil {
			err = fmt.Errorf("bid_accepted event without bid")
			break
		}
		err = a.repo.SaveBid(ctx, ev.AuctionID, ev.Seq, *ev.Bid)
	default:
		err = fmt.Errorf("unknown event type %q", ev.Type)
	}

	if err != nil {
		log.Error("Archiver: failed to persist event",
			zap.String("type", string(ev.Type)),
			zap.Uint64("auctionID", uint64(ev.AuctionID)),
			zap.Int("seq", ev.Seq),
			zap.Error(err),
		)
	}
}

// RestoreLedger loads every persisted auction into the store.
func RestoreLedger(ctx context.Context, repo domain.LedgerRepository, store *domain.AuctionStore) error {
	auctions, err := repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("restore ledger: failed to load auctions: %w", err)
	}
	if err := store.Restore(auctions); err != nil {
		return fmt.Errorf("restore ledger: %w", err)
	}
	return nil
}
