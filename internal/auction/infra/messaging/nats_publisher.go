package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cristianortiz/auctionLedger/internal/auction/domain"
	"github.com/cristianortiz/auctionLedger/internal/shared/logger"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// conn is the part of *nats.Conn the publisher needs
type conn interface {
	Publish(subj string, data []byte) error
	Drain() error
}

// NATSPublisher forwards every store event to NATS as JSON on <prefix>.<event type>.
// nats.Conn buffers outgoing messages, so Publish does not wait on the network.
type NATSPublisher struct {
	nc     conn
	prefix string
}

// NewNATSPublisher connects to url and keeps reconnecting in the background
func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("auction-ledger"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Info("Connected to NATS", zap.String("url", nc.ConnectedUrl()), zap.String("prefix", prefix))
	return &NATSPublisher{nc: nc, prefix: prefix}, nil
}

func Subject(prefix string, t domain.EventType) string {
	return prefix + "." + string(t)
}

// Publish implements domain.EventPublisher
func (p *NATSPublisher) Publish(ev domain.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error("failed to marshal event", zap.String("type", string(ev.Type)), zap.Error(err))
		return
	}
	subject := Subject(p.prefix, ev.Type)
	if err := p.nc.Publish(subject, data); err != nil {
		log.Error("failed to publish event to NATS",
			zap.String("subject", subject),
			zap.Uint64("auctionID", uint64(ev.AuctionID)),
			zap.Error(err),
		)
		return
	}
	log.Debug("Event published", zap.String("subject", subject), zap.Uint64("auctionID", uint64(ev.AuctionID)))
}

// Close flushes pending messages and closes the connection
func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}
