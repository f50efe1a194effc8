package domain

import "errors"

var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrUnauthenticated = errors.New("anonymous caller cannot bid")
	ErrPriceTooLow     = errors.New("bid price is too low")
	ErrAuctionClosed   = errors.New("auction is closed")
	ErrInvalidPrice    = errors.New("price must be a non-negative integer")
	ErrInvalidSnapshot = errors.New("invalid auction snapshot")
)
