package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianortiz/auctionLedger/internal/auction/domain"
	"github.com/cristianortiz/auctionLedger/internal/shared/identity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of pgxpool.Pool used by the repository
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// LedgerRepository implements domain.LedgerRepository interface
type LedgerRepository struct {
	db querier
}

// NewLedgerRepository creates a new instance of LedgerRepository
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: pool}
}

// SaveAuction inserts an auction, replaying an already stored auction is a no-op.
func (r *LedgerRepository) SaveAuction(ctx context.Context, id domain.AuctionID, item domain.Item, closingTime time.Time) error {
	query := `
        INSERT INTO auctions (id, title, description, image, closing_time)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO NOTHING
    `
	_, err := r.db.Exec(ctx, query,
		int64(id),
		item.Title,
		item.Description,
		item.Image,
		closingTime,
	)
	if err != nil {
		return fmt.Errorf("save auction %d: %w", id, err)
	}
	return nil
}

// SaveBid inserts one bid at its position in the auction history.
func (r *LedgerRepository) SaveBid(ctx context.Context, auctionID domain.AuctionID, seq int, bid domain.Bid) error {
	query := `
        INSERT INTO bids (auction_id, seq, price, remaining_seconds, originator)
        VALUES ($1, $2, $3::numeric, $4, $5)
        ON CONFLICT (auction_id, seq) DO NOTHING
    `
	_, err := r.db.Exec(ctx, query,
		int64(auctionID),
		seq,
		bid.Price.String(),
		int64(bid.Time),
		uuid.UUID(bid.Originator),
	)
	if err != nil {
		return fmt.Errorf("save bid %d of auction %d: %w", seq, auctionID, err)
	}
	return nil
}

// LoadAll reads every auction ordered by id and attaches its bids in seq order.
func (r *LedgerRepository) LoadAll(ctx context.Context) ([]*domain.Auction, error) {
	auctions, err := r.loadAuctions(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[domain.AuctionID]*domain.Auction, len(auctions))
	for _, a := range auctions {
		byID[a.ID] = a
	}

	query := `
        SELECT auction_id, price::text, remaining_seconds, originator
        FROM bids
        ORDER BY auction_id ASC, seq ASC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load bids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			auctionID  int64
			price      string
			remaining  int64
			originator uuid.UUID
		)
		if err := rows.Scan(&auctionID, &price, &remaining, &originator); err != nil {
			return nil, fmt.Errorf("scan bid: %w", err)
		}
		a, ok := byID[domain.AuctionID(auctionID)]
		if !ok {
			return nil, fmt.Errorf("bid references unknown auction %d: %w", auctionID, domain.ErrInvalidSnapshot)
		}
		p, err := domain.ParsePrice(price)
		if err != nil {
			return nil, fmt.Errorf("bid of auction %d: %w", auctionID, err)
		}
		a.Bids = append(a.Bids, domain.NewBid(p, uint64(remaining), identity.Principal(originator)))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load bids: %w", err)
	}

	return auctions, nil
}

func (r *LedgerRepository) loadAuctions(ctx context.Context) ([]*domain.Auction, error) {
	query := `
        SELECT id, title, description, image, closing_time
        FROM auctions
        ORDER BY id ASC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load auctions: %w", err)
	}
	defer rows.Close()

	auctions := []*domain.Auction{}
	for rows.Next() {
		var (
			id int64
			a  = &domain.Auction{Bids: []domain.Bid{}}
		)
		if err := rows.Scan(&id, &a.Item.Title, &a.Item.Description, &a.Item.Image, &a.ClosingTime); err != nil {
			return nil, fmt.Errorf("scan auction: %w", err)
		}
		a.ID = domain.AuctionID(id)
		auctions = append(auctions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load auctions: %w", err)
	}
	return auctions, nil
}
