package pubsub

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSPubSub implements Upstream over an external NATS JetStream server
type NATSPubSub struct {
	*jetStreamBridge
}

// NewNATSPubSub connects to natsURL and subscribes to subject
func NewNATSPubSub(natsURL, subject string) (*NATSPubSub, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name("worldcup-finals-dashboard"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	bridge, err := newJetStreamBridge(nc, subject)
	if err != nil {
		nc.Close()
		return nil, err
	}

	// Activity events are only interesting live, a day of history is plenty
	if err := ensureStream(bridge.js, DefaultStreamName, subject, nats.FileStorage, 24*time.Hour); err != nil {
		nc.Close()
		return nil, err
	}

	if err := bridge.start(); err != nil {
		nc.Close()
		return nil, err
	}

	return &NATSPubSub{jetStreamBridge: bridge}, nil
}

// Close closes the NATS connection and every local subscription
func (p *NATSPubSub) Close() {
	p.close()
}
