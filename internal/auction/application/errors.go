package application

import (
	"errors"

	"github.com/cristianortiz/auctionLedger/internal/auction/domain"
)

// Error codes shared by every transport
const (
	CodeNotFound        = "not_found"
	CodeUnauthenticated = "unauthenticated"
	CodePriceTooLow     = "price_too_low"
	CodeAuctionClosed   = "auction_closed"
	CodeBadRequest      = "bad_request"
	CodeInternal        = "internal"
)

// ErrorCode maps a use case error to its stable client facing code
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrAuctionNotFound):
		return CodeNotFound
	case errors.Is(err, domain.ErrUnauthenticated):
		return CodeUnauthenticated
	case errors.Is(err, domain.ErrPriceTooLow):
		return CodePriceTooLow
	case errors.Is(err, domain.ErrAuctionClosed):
		return CodeAuctionClosed
	case errors.Is(err, domain.ErrInvalidPrice):
		return CodeBadRequest
	default:
		return CodeInternal
	}
}
