package websocket

import (
	"encoding/json"

	"github.com/cristianortiz/auctionLedger/internal/auction/domain"
	"github.com/cristianortiz/auctionLedger/internal/shared/websocket"
	"go.uber.org/zap"
)

// Notifier broadcasts every accepted bid to the room of its auction
type Notifier struct {
	hub *websocket.Hub
}

func NewNotifier(hub *websocket.Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) Publish(ev domain.Event) {
	if ev.Type != domain.EventBidAccepted || ev.Bid == nil {
		return
	}
	msg := ServerAuctionUpdateMessage{BaseMessage: BaseMessage{Type: MessageTypeServerAuctionUpdate}}
	msg.Payload.AuctionID = ev.AuctionID
	msg.Payload.Seq = ev.Seq
	msg.Payload.Price = ev.Bid.Price
	msg.Payload.Originator = ev.Bid.Originator
	msg.Payload.Time = ev.Bid.Time

	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("failed to marshal ServerAuctionUpdateMessage",
			zap.Uint64("auctionID", uint64(ev.AuctionID)),
			zap.Error(err),
		)
		return
	}
	n.hub.BroadcastToRoom(Room(ev.AuctionID), data)
}
