package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianortiz/auctionLedger/internal/auction/domain"
	"github.com/cristianortiz/auctionLedger/internal/shared/identity"
	"github.com/cristianortiz/auctionLedger/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// MakeBidDTO is DTO input for MakeBid useCase. The bidder is not part of it,
// it is taken from the authenticated identity carried by the context.
type MakeBidDTO struct {
	AuctionID domain.AuctionID
	Price     domain.Price
}

// MakeBidUseCase places a bid on an auction of the store
type MakeBidUseCase struct {
	store *domain.AuctionStore
}

func NewMakeBidUseCase(store *domain.AuctionStore) *MakeBidUseCase {
	return &MakeBidUseCase{store: store}
}

func (uc *MakeBidUseCase) Execute(ctx context.Context, cmd MakeBidDTO) (*domain.Bid, error) {
	caller := identity.FromContext(ctx)
	log.Debug("Executing MakeBidUseCase",
		zap.Uint64("auctionID", uint64(cmd.AuctionID)),
		zap.Stringer("originator", caller),
		zap.Stringer("price", cmd.Price),
	)

	bid, err := uc.store.MakeBid(cmd.AuctionID, cmd.Price, caller)
	if err != nil {
		if errors.Is(err, domain.ErrAuctionNotFound) {
			log.Warn("MakeBidUseCase: auction not found",
				zap.Uint64("auctionID", uint64(cmd.AuctionID)),
				zap.Stringer("originator", caller),
			)
		}
		return nil, fmt.Errorf("make bid use case: bid failed for auction %d: %w", cmd.AuctionID, err)
	}
	return &bid, nil
}
