package domain

import (
	"testing"
	"time"

	"github.com/cristianortiz/auctionLedger/internal/shared/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestAuction_RemainingTime(t *testing.T) {
	a := NewAuction(0, Item{Title: "Vase"}, epoch, 60)

	assert.Equal(t, epoch.Add(time.Minute), a.ClosingTime)
	assert.Equal(t, 60*time.Second, a.RemainingTime(epoch))
	assert.Equal(t, uint64(60), a.RemainingSeconds(epoch))

	// partial seconds round up so that 0 only ever means closed
	assert.Equal(t, uint64(1), a.RemainingSeconds(epoch.Add(59*time.Second+time.Millisecond)))
	assert.False(t, a.IsClosed(epoch.Add(59*time.Second+time.Millisecond)))

	assert.Equal(t, time.Duration(0), a.RemainingTime(epoch.Add(time.Hour)))
	assert.Equal(t, uint64(0), a.RemainingSeconds(epoch.Add(time.Hour)))
	assert.True(t, a.IsClosed(epoch.Add(time.Minute)))
}

func TestAuction_ZeroDurationIsClosedImmediately(t *testing.T) {
	a := NewAuction(0, Item{}, epoch, 0)

	assert.True(t, a.IsClosed(epoch))
	_, err := a.PlaceBid(identity.New(), NewPrice(1), epoch)
	assert.ErrorIs(t, err, ErrAuctionClosed)
}

func TestAuction_HugeDurationIsClamped(t *testing.T) {
	a := NewAuction(0, Item{}, epoch, ^uint64(0))

	assert.True(t, a.ClosingTime.After(epoch))
	assert.False(t, a.IsClosed(epoch))
	assert.Equal(t, maxDurationSeconds, a.RemainingSeconds(epoch))
}

func TestAuction_ItemIsCopied(t *testing.T) {
	img := []byte{0x89, 'P', 'N', 'G'}
	a := NewAuction(0, Item{Title: "Vase", Image: img}, epoch, 10)

	img[0] = 0
	assert.Equal(t, byte(0x89), a.Item.Image[0])
}

func TestAuction_PlaceBid(t *testing.T) {
	alice, bob := identity.New(), identity.New()
	a := NewAuction(3, Item{Title: "Vase"}, epoch, 60)

	assert.Equal(t, "1", a.MinimumPrice().String())

	_, err := a.PlaceBid(alice, NewPrice(0), epoch)
	assert.ErrorIs(t, err, ErrPriceTooLow)

	bid, err := a.PlaceBid(alice, NewPrice(10), epoch.Add(15*time.Second))
	require.NoError(t, err)
	assert.Equal(t, uint64(45), bid.Time)
	assert.Equal(t, alice, bid.Originator)
	assert.Equal(t, "11", a.MinimumPrice().String())

	_, err = a.PlaceBid(bob, NewPrice(10), epoch.Add(20*time.Second))
	assert.ErrorIs(t, err, ErrPriceTooLow)

	_, err = a.PlaceBid(bob, NewPrice(11), epoch.Add(20*time.Second))
	require.NoError(t, err)

	leader, ok := a.LeadingBid()
	require.True(t, ok)
	assert.Equal(t, bob, leader.Originator)
	assert.Len(t, a.Bids, 2)
}

func TestAuction_PriceCheckedBeforeClosing(t *testing.T) {
	a := NewAuction(0, Item{}, epoch, 10)
	_, err := a.PlaceBid(identity.New(), NewPrice(5), epoch)
	require.NoError(t, err)

	late := epoch.Add(time.Minute)
	_, err = a.PlaceBid(identity.New(), NewPrice(5), late)
	assert.ErrorIs(t, err, ErrPriceTooLow)

	_, err = a.PlaceBid(identity.New(), NewPrice(6), late)
	assert.ErrorIs(t, err, ErrAuctionClosed)
	assert.Len(t, a.Bids, 1)
}

func TestAuction_Validate(t *testing.T) {
	p := identity.New()

	ok := &Auction{Bids: []Bid{NewBid(NewPrice(1), 5, p), NewBid(NewPrice(3), 4, p)}}
	assert.NoError(t, ok.validate())

	zeroPrice := &Auction{Bids: []Bid{NewBid(NewPrice(0), 5, p)}}
	assert.ErrorIs(t, zeroPrice.validate(), ErrInvalidSnapshot)

	decreasing := &Auction{Bids: []Bid{NewBid(NewPrice(3), 5, p), NewBid(NewPrice(3), 4, p)}}
	assert.ErrorIs(t, decreasing.validate(), ErrInvalidSnapshot)

	anonymous := &Auction{Bids: []Bid{NewBid(NewPrice(3), 5, identity.Anonymous)}}
	assert.ErrorIs(t, anonymous.validate(), ErrInvalidSnapshot)
}
