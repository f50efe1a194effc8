package application

import (
	"context"

	"github.com/cristianortiz/auctionLedger/internal/auction/domain"
	"go.uber.org/zap"
)

// CreateAuctionDTO is DTO input for CreateAuction useCase. Image is base64 in JSON.
type CreateAuctionDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       []byte `json:"image"`
	// Duration in seconds the auction stays open
	Duration uint64 `json:"duration"`
}

type CreateAuctionUseCase struct {
	store *domain.AuctionStore
}

func NewCreateAuctionUseCase(store *domain.AuctionStore) *CreateAuctionUseCase {
	return &CreateAuctionUseCase{store: store}
}

func (uc *CreateAuctionUseCase) Execute(_ context.Context, cmd CreateAuctionDTO) domain.AuctionID {
	log.Debug("Executing CreateAuctionUseCase",
		zap.String("title", cmd.Title),
		zap.Uint64("durationSeconds", cmd.Duration),
		zap.Int("imageBytes", len(cmd.Image)),
	)
	item := domain.Item{
		Title:       cmd.Title,
		Description: cmd.Description,
		Image:       cmd.Image,
	}
	return uc.store.CreateAuction(item, cmd.Duration)
}
