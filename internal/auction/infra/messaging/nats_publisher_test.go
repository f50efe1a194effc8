package messaging

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/cristianortiz/auctionLedger/internal/auction/domain"
	"github.com/cristianortiz/auctionLedger/internal/shared/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	msgs    []published
	err     error
	drained bool
}

func (f *fakeConn) Publish(subj string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{subject: subj, data: data})
	return nil
}

func (f *fakeConn) Drain() error {
	f.drained = true
	return nil
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "auction.events.bid_accepted", Subject("auction.events", domain.EventBidAccepted))
}

func TestNATSPublisher_Publish(t *testing.T) {
	fc := &fakeConn{}
	p := &NATSPublisher{nc: fc, prefix: "ledger"}
	bidder := identity.New()
	bid := domain.NewBid(domain.NewPrice(12), 30, bidder)

	p.Publish(domain.Event{Type: domain.EventBidAccepted, AuctionID: 3, Seq: 1, Bid: &bid})

	require.Len(t, fc.msgs, 1)
	assert.Equal(t, "ledger.bid_accepted", fc.msgs[0].subject)

	var got map[string]any
	require.NoError(t, json.Unmarshal(fc.msgs[0].data, &got))
	assert.Equal(t, "bid_accepted", got["type"])
	assert.Equal(t, float64(3), got["auction_id"])
	assert.Equal(t, float64(1), got["seq"])
	b := got["bid"].(map[string]any)
	assert.Equal(t, "12", b["price"])
	assert.Equal(t, bidder.String(), b["originator"])
	assert.NotContains(t, got, "closing_time")

	require.NoError(t, p.Close())
	assert.True(t, fc.drained)
}

func TestNATSPublisher_PublishErrorIsSwallowed(t *testing.T) {
	fc := &fakeConn{err: errors.New("nats: connection closed")}
	p := &NATSPublisher{nc: fc, prefix: "ledger"}

	assert.NotPanics(t, func() {
		p.Publish(domain.Event{Type: domain.EventAuctionCreated, Item: &domain.Item{Title: "x"}})
	})
	assert.Empty(t, fc.msgs)
}
