package application

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianortiz/auctionLedger/internal/auction/domain"
)

// AuctionDetailsDTO is the output DTO for exposing auction state to REST/WS clients
type AuctionDetailsDTO struct {
	AuctionID     domain.AuctionID `json:"auction_id"`
	Item          domain.Item      `json:"item"`
	BidHistory    []domain.Bid     `json:"bid_history"`
	RemainingTime uint64           `json:"remaining_time"`
	ClosingTime   time.Time        `json:"closing_time"`
	Closed        bool             `json:"closed"`
	// Leader is the current highest bid, the winner once Closed is true
	Leader *domain.Bid `json:"leader,omitempty"`
}

// GetDetailsUseCase retrieves the current state of an auction
type GetDetailsUseCase struct {
	store *domain.AuctionStore
}

func NewGetDetailsUseCase(store *domain.AuctionStore) *GetDetailsUseCase {
	return &GetDetailsUseCase{store: store}
}

func (uc *GetDetailsUseCase) Execute(_ context.Context, id domain.AuctionID) (*AuctionDetailsDTO, error) {
	d, err := uc.store.GetDetails(id)
	if err != nil {
		return nil, fmt.Errorf("get details use case: auction %d: %w", id, err)
	}
	return newAuctionDetailsDTO(id, d), nil
}

func newAuctionDetailsDTO(id domain.AuctionID, d domain.Details) *AuctionDetailsDTO {
	dto := &AuctionDetailsDTO{
		AuctionID:     id,
		Item:          d.Item,
		BidHistory:    d.BidHistory,
		RemainingTime: d.RemainingTime,
		ClosingTime:   d.ClosingTime,
		Closed:        d.Closed(),
	}
	if leader, ok := d.Leader(); ok {
		dto.Leader = &leader
	}
	return dto
}
