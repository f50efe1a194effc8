package websocket

import (
	"context"
	"time"

	"github.com/cristianortiz/auctionLedger/internal/shared/identity"
	"github.com/cristianortiz/auctionLedger/internal/shared/logger"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	// SendBuffer is the outbound queue size of every client
	SendBuffer = 64

	hubBuffer = 256
)

// Hub keeps the clients of every room and broadcasts messages to them.
// Room state is only touched from the Run goroutine.
type Hub struct {
	// room -> set of clients
	rooms      map[string]map[*Client]struct{}
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	direct     chan *directMessage
	// InboundMessages is consumed by module specific handlers
	InboundMessages chan *ClientMessage
}

// Client is one websocket connection joined to a room
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	// Buffered channel of outbound messages, closed by the hub.
	Send      chan []byte
	Room      string
	ID        string
	Principal identity.Principal
	// OnJoin, when set, is called from the hub goroutine while the client is
	// registered. Its result is the first message the client receives, and every
	// broadcast processed afterwards follows it.
	OnJoin func() []byte
}

type Message struct {
	Room string
	Data []byte
}

type directMessage struct {
	client *Client
	data   []byte
}

// ClientMessage wraps a message read from a client
type ClientMessage struct {
	Client *Client
	Data   []byte
}

func NewHub() *Hub {
	return &Hub{
		rooms:           make(map[string]map[*Client]struct{}),
		broadcast:       make(chan *Message, hubBuffer),
		register:        make(chan *Client, hubBuffer),
		unregister:      make(chan *Client, hubBuffer),
		direct:          make(chan *directMessage, hubBuffer),
		InboundMessages: make(chan *ClientMessage, hubBuffer),
	}
}

// Run serves register, unregister and broadcast requests until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	log.Info("Websocket Hub started")
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			log.Info("WebSocket Hub shutting down due to context cancellation")
			return

		case client := <-h.register:
			clients, ok := h.rooms[client.Room]
			if !ok {
				clients = make(map[*Client]struct{})
				h.rooms[client.Room] = clients
			}
			clients[client] = struct{}{}
			if client.OnJoin != nil {
				if data := client.OnJoin(); data != nil {
					select {
					case client.Send <- data:
					default:
						log.Warn("Client send buffer full on join, unregistering",
							zap.String("clientID", client.ID),
							zap.String("room", client.Room),
						)
						h.remove(client)
						continue
					}
				}
			}
			log.Info("Client registered",
				zap.String("clientID", client.ID),
				zap.String("room", client.Room),
				zap.Stringer("principal", client.Principal),
				zap.Int("room_clients", len(clients)),
			)

		case client := <-h.unregister:
			h.remove(client)

		case dm := <-h.direct:
			if _, ok := h.rooms[dm.client.Room][dm.client]; !ok {
				continue
			}
			select {
			case dm.client.Send <- dm.data:
			default:
				log.Warn("Client send buffer full, unregistering",
					zap.String("clientID", dm.client.ID),
					zap.String("room", dm.client.Room),
				)
				h.remove(dm.client)
			}

		case message := <-h.broadcast:
			clients := h.rooms[message.Room]
			log.Debug("Broadcasting message to room", zap.String("room", message.Room), zap.Int("clients", len(clients)))
			for client := range clients {
				select {
				case client.Send <- message.Data:
				default:
					log.Warn("Client send buffer full, unregistering",
						zap.String("clientID", client.ID),
						zap.String("room", client.Room),
					)
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	clients, ok := h.rooms[client.Room]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	log.Info("Client unregistered",
		zap.String("clientID", client.ID),
		zap.String("room", client.Room),
	)
	if len(clients) == 0 {
		delete(h.rooms, client.Room)
	}
}

func (h *Hub) closeAll() {
	for _, clients := range h.rooms {
		for client := range clients {
			h.remove(client)
		}
	}
}

// RegisterClient queues a client to join its room
func (h *Hub) RegisterClient(client *Client) bool {
	select {
	case h.register <- client:
		return true
	default:
		log.Error("Register channel is full, client registration failed",
			zap.String("clientID", client.ID),
			zap.String("room", client.Room),
		)
		return false
	}
}

// UnregisterClient queues a client to leave its room, repeated calls are harmless
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	default:
		log.Error("Unregister channel is full, client unregistration failed",
			zap.String("clientID", client.ID),
			zap.String("room", client.Room),
		)
	}
}

// BroadcastToRoom sends data to every client of room without blocking the caller
func (h *Hub) BroadcastToRoom(room string, data []byte) {
	select {
	case h.broadcast <- &Message{Room: room, Data: data}:
	default:
		log.Error("Broadcast channel is full, message dropped", zap.String("room", room))
	}
}

// SendToClient sends data to a single registered client. Handlers must use it
// instead of writing to client.Send, which the hub may close at any time.
func (h *Hub) SendToClient(client *Client, data []byte) {
	select {
	case h.direct <- &directMessage{client: client, data: data}:
	default:
		log.Error("Direct channel is full, message dropped",
			zap.String("clientID", client.ID),
			zap.String("room", client.Room),
		)
	}
}

// ReadPump forwards client messages to InboundMessages until the connection fails.
// Run it in the goroutine of the websocket handler.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.Hub.UnregisterClient(c)
		_ = c.Conn.Close()
		log.Debug("ReadPump stopped", zap.String("clientID", c.ID), zap.String("room", c.Room))
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { return c.Conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		if ctx.Err() != nil {
			return
		}
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("WebSocket read error",
					zap.String("clientID", c.ID),
					zap.String("room", c.Room),
					zap.Error(err),
				)
			}
			return
		}

		select {
		case c.Hub.InboundMessages <- &ClientMessage{Client: c, Data: message}:
		default:
			log.Error("Hub InboundMessages channel is full, dropping message",
				zap.String("clientID", c.ID),
				zap.String("room", c.Room),
			)
		}
	}
}

// WritePump writes queued messages and pings. It is the only writer of the connection.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Hub.UnregisterClient(c)
		_ = c.Conn.Close()
		log.Debug("WritePump stopped", zap.String("clientID", c.ID), zap.String("room", c.Room))
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.Conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return

		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn("Failed to write message to client",
					zap.String("clientID", c.ID),
					zap.String("room", c.Room),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Warn("Failed to write ping message to client",
					zap.String("clientID", c.ID),
					zap.String("room", c.Room),
					zap.Error(err),
				)
				return
			}
		}
	}
}
