package websocket

import (
	"github.com/cristianortiz/auctionLedger/internal/auction/application"
	"github.com/cristianortiz/auctionLedger/internal/auction/domain"
	"github.com/cristianortiz/auctionLedger/internal/shared/identity"
)

// MessageType defines ws type message
type MessageType string

const (
	MessageTypeClientBid           MessageType = "client_bid"            // client msg to make a bid
	MessageTypeServerAuctionUpdate MessageType = "server_auction_update" // server msg with a newly accepted bid
	MessageTypeServerError         MessageType = "server_error"          // server msg indicating error
	MessageTypeServerInfo          MessageType = "server_info"           // server msg with general info
	MessageTypeServerInitialState  MessageType = "server_initial_state"  // server msg with auction state on join
)

// BaseMessage is base struct for all the WS messages, includes a Type field for identify the message type
type BaseMessage struct {
	Type MessageType `json:"type"`
}

// ClientBidMessage is DTO for a bid message sent by the client, the bidder is the connection principal
type ClientBidMessage struct {
	BaseMessage
	Payload struct {
		AuctionID domain.AuctionID `json:"auction_id"`
		Price     domain.Price     `json:"price"`
	} `json:"payload"`
}

// ServerAuctionUpdateMessage is broadcast to the room for every accepted bid
type ServerAuctionUpdateMessage struct {
	BaseMessage
	Payload struct {
		AuctionID  domain.AuctionID   `json:"auction_id"`
		Seq        int                `json:"seq"`
		Price      domain.Price       `json:"price"`
		Originator identity.Principal `json:"originator"`
		// remaining seconds at acceptance
		Time uint64 `json:"time"`
	} `json:"payload"`
}

type ServerErrorMessage struct {
	BaseMessage
	Payload struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	} `json:"payload"`
}

type ServerInfoMessage struct {
	BaseMessage
	Payload struct {
		Message string `json:"message"`
	} `json:"payload"`
}

// ServerInitialStateMessage carries the auction details sent to a client when it joins
type ServerInitialStateMessage struct {
	BaseMessage
	Payload *application.AuctionDetailsDTO `json:"payload"`
}
