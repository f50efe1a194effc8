package application

import "github.com/cristianortiz/auctionLedger/internal/auction/domain"

// Publishers fans one event out to several publishers, in order.
type Publishers []domain.EventPublisher

func (ps Publishers) Publish(ev domain.Event) {
	for _, p := range ps {
		if p != nil {
			p.Publish(ev)
		}
	}
}
