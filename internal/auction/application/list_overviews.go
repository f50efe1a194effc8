package application

import (
	"context"

	"github.com/cristianortiz/auctionLedger/internal/auction/domain"
)

// ListOverviewsUseCase lists every auction, open and closed, by ascending id
type ListOverviewsUseCase struct {
	store *domain.AuctionStore
}

func NewListOverviewsUseCase(store *domain.AuctionStore) *ListOverviewsUseCase {
	return &ListOverviewsUseCase{store: store}
}

func (uc *ListOverviewsUseCase) Execute(_ context.Context) []domain.Overview {
	return uc.store.ListOverviews()
}
