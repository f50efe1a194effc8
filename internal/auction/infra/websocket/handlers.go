package websocket

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/cristianortiz/auctionLedger/internal/auction/application"
	"github.com/cristianortiz/auctionLedger/internal/auction/domain"
	"github.com/cristianortiz/auctionLedger/internal/shared/httpserver"
	"github.com/cristianortiz/auctionLedger/internal/shared/identity"
	"github.com/cristianortiz/auctionLedger/internal/shared/logger"
	"github.com/cristianortiz/auctionLedger/internal/shared/websocket"
	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Room is the hub room of an auction
func Room(id domain.AuctionID) string {
	return strconv.FormatUint(uint64(id), 10)
}

// AuctionWSHandler handles the ws inbound msgs wich are specific for auction module (remember is a bounded context)
type AuctionWSHandler struct {
	ctx            context.Context            // lifetime of every connection pump
	auctionService application.AuctionService // application layer dependency
	hub            *websocket.Hub             // shared hub dependency to send msgs
}

// NewAuctionWSHandler creates a new instance of AuctionWSHandler, connections are closed when ctx is done
func NewAuctionWSHandler(ctx context.Context, auctionService application.AuctionService, hub *websocket.Hub) *AuctionWSHandler {
	return &AuctionWSHandler{
		ctx:            ctx,
		auctionService: auctionService,
		hub:            hub,
	}
}

// Register mounts GET /ws/auctions/:id, it must run after the authentication middleware
func (h *AuctionWSHandler) Register(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws/auctions/:id", fiberws.New(h.Serve))
}

// Serve joins the connection to the auction room and blocks until it is closed.
// The client gets the auction details first, then every bid accepted after them.
func (h *AuctionWSHandler) Serve(conn *fiberws.Conn) {
	id, err := strconv.ParseUint(conn.Params("id"), 10, 64)
	if err != nil {
		writeErrorAndClose(conn, "invalid auction id", application.CodeBadRequest)
		return
	}
	principal, ok := conn.Locals(httpserver.PrincipalLocal).(identity.Principal)
	if !ok {
		principal = identity.Anonymous
	}
	auctionID := domain.AuctionID(id)

	if _, err := h.auctionService.GetDetails(h.ctx, auctionID); err != nil {
		writeErrorAndClose(conn, err.Error(), application.ErrorCode(err))
		return
	}

	client := h.newClient(conn, auctionID, principal)
	if !h.hub.RegisterClient(client) {
		writeErrorAndClose(conn, "server busy", application.CodeInternal)
		return
	}

	go client.WritePump(h.ctx)
	client.ReadPump(h.ctx)
}

// newClient builds a room client whose initial state is read by the hub while it
// registers the client, so no bid falls between the snapshot and the broadcasts.
// Bids accepted just before the snapshot may also arrive as updates, their seq
// is below len(bid_history).
func (h *AuctionWSHandler) newClient(conn *fiberws.Conn, auctionID domain.AuctionID, principal identity.Principal) *websocket.Client {
	return &websocket.Client{
		Hub:       h.hub,
		Conn:      conn,
		Send:      make(chan []byte, websocket.SendBuffer),
		Room:      Room(auctionID),
		ID:        uuid.NewString(),
		Principal: principal,
		OnJoin:    func() []byte { return h.initialState(auctionID) },
	}
}

func (h *AuctionWSHandler) initialState(auctionID domain.AuctionID) []byte {
	details, err := h.auctionService.GetDetails(h.ctx, auctionID)
	if err != nil {
		log.Error("failed to load initial state", zap.Uint64("auctionID", uint64(auctionID)), zap.Error(err))
		return nil
	}
	data, err := json.Marshal(ServerInitialStateMessage{
		BaseMessage: BaseMessage{Type: MessageTypeServerInitialState},
		Payload:     details,
	})
	if err != nil {
		log.Error("failed to marshal ServerInitialStateMessage", zap.Error(err))
		return nil
	}
	return data
}

// ListenForMessages listen the Hub inbound channel for messages and proccess every one of them until ctx is done
func (h *AuctionWSHandler) ListenForMessages(ctx context.Context) {
	log.Info("AuctionWSHandler started listening for inbound messages from hub")
	for {
		select {
		case <-ctx.Done():
			log.Info("AuctionWSHandler stopped listening for inbound messages from hub")
			return
		case msg := <-h.hub.InboundMessages:
			h.processMessage(ctx, msg.Client, msg.Data)
		}
	}
}

// processMesssage dispatch the message by this type
func (h *AuctionWSHandler) processMessage(ctx context.Context, client *websocket.Client, data []byte) {
	var baseMsg BaseMessage
	if err := json.Unmarshal(data, &baseMsg); err != nil {
		h.sendErrorToClient(client, "invalid message format", application.CodeBadRequest)
		return
	}
	switch baseMsg.Type {
	case MessageTypeClientBid:
		h.handleClientBidMessage(ctx, client, data)
	default:
		h.sendErrorToClient(client, "unknown message type", application.CodeBadRequest)
	}
}

func (h *AuctionWSHandler) handleClientBidMessage(ctx context.Context, client *websocket.Client, data []byte) {
	var bidMsg ClientBidMessage
	if err := json.Unmarshal(data, &bidMsg); err != nil {
		h.sendErrorToClient(client, "invalid bid message format", application.CodeBadRequest)
		return
	}

	if Room(bidMsg.Payload.AuctionID) != client.Room {
		h.sendErrorToClient(client, "auction ID mismatch", application.CodeBadRequest)
		return
	}

	cmd := application.MakeBidDTO{
		AuctionID: bidMsg.Payload.AuctionID,
		Price:     bidMsg.Payload.Price,
	}
	bid, err := h.auctionService.MakeBid(identity.WithPrincipal(ctx, client.Principal), cmd)
	if err != nil {
		h.sendErrorToClient(client, err.Error(), application.ErrorCode(err))
		return
	}

	// the room, bidder included, is told through the store event, see Notifier
	info := ServerInfoMessage{BaseMessage: BaseMessage{Type: MessageTypeServerInfo}}
	info.Payload.Message = "bid accepted at " + bid.Price.String()
	h.send(client, info)
}

// sendErrorToClient serializes and sends an error msg to a specific client
func (h *AuctionWSHandler) sendErrorToClient(client *websocket.Client, errorMessage, code string) {
	errMsg := ServerErrorMessage{
		BaseMessage: BaseMessage{Type: MessageTypeServerError},
	}
	errMsg.Payload.Error = errorMessage
	errMsg.Payload.Code = code
	h.send(client, errMsg)
}

func (h *AuctionWSHandler) send(client *websocket.Client, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("failed to marshal ws message", zap.String("clientID", client.ID), zap.Error(err))
		return
	}
	h.hub.SendToClient(client, data)
}

func writeErrorAndClose(conn *fiberws.Conn, errorMessage, code string) {
	errMsg := ServerErrorMessage{BaseMessage: BaseMessage{Type: MessageTypeServerError}}
	errMsg.Payload.Error = errorMessage
	errMsg.Payload.Code = code
	if err := conn.WriteJSON(errMsg); err != nil {
		log.Warn("failed to write ws error", zap.Error(err))
	}
	_ = conn.Close()
}
