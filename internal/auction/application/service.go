package application

import (
	"context"

	"github.com/cristianortiz/auctionLedger/internal/auction/domain"
)

// AuctionService defines application interface layer of auction module
// exposes uses cases to external layer, aka infra
type AuctionService interface {
	CreateAuction(ctx context.Context, cmd CreateAuctionDTO) domain.AuctionID
	ListOverviews(ctx context.Context) []domain.Overview
	GetDetails(ctx context.Context, id domain.AuctionID) (*AuctionDetailsDTO, error)
	// MakeBid bids as the principal carried by ctx, see identity.WithPrincipal
	MakeBid(ctx context.Context, cmd MakeBidDTO) (*domain.Bid, error)
}

// concret implementation of AuctionService (struct)
type auctionService struct {
	createUC  *CreateAuctionUseCase
	listUC    *ListOverviewsUseCase
	detailsUC *GetDetailsUseCase
	makeBidUC *MakeBidUseCase
}

// NewAuctionService wires every use case around the same store
func NewAuctionService(store *domain.AuctionStore) AuctionService {
	return &auctionService{
		createUC:  NewCreateAuctionUseCase(store),
		listUC:    NewListOverviewsUseCase(store),
		detailsUC: NewGetDetailsUseCase(store),
		makeBidUC: NewMakeBidUseCase(store),
	}
}

func (as *auctionService) CreateAuction(ctx context.Context, cmd CreateAuctionDTO) domain.AuctionID {
	return as.createUC.Execute(ctx, cmd)
}

func (as *auctionService) ListOverviews(ctx context.Context) []domain.Overview {
	return as.listUC.Execute(ctx)
}

func (as *auctionService) GetDetails(ctx context.Context, id domain.AuctionID) (*AuctionDetailsDTO, error) {
	return as.detailsUC.Execute(ctx, id)
}

func (as *auctionService) MakeBid(ctx context.Context, cmd MakeBidDTO) (*domain.Bid, error) {
	return as.makeBidUC.Execute(ctx, cmd)
}
