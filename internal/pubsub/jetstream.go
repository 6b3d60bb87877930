package pubsub

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/logger"
)

// DefaultStreamName is the JetStream stream holding dashboard events
const DefaultStreamName = "WORLDCUP_EVENTS"

// jetStreamBridge publishes events to a JetStream subject and fans the
// subject's messages out to local channels
type jetStreamBridge struct {
	nc          *nats.Conn
	js          nats.JetStreamContext
	sub         *nats.Subscription
	subject     string
	subscribers []chan Event
	mu          sync.RWMutex
}

// ensureStream creates the stream for subject unless it already exists
func ensureStream(js nats.JetStreamContext, name, subject string, storage nats.StorageType, maxAge time.Duration) error {
	if name == "" {
		name = DefaultStreamName
	}
	if _, err := js.StreamInfo(name); err == nil {
		return nil
	}
	_, err := js.AddStream(&nats.StreamConfig{
		Name:     name,
		Subjects: []string{subject},
		Storage:  storage,
		MaxAge:   maxAge,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", name, err)
	}
	logger.Info("JetStream stream created", "stream", name, "subject", subject)
	return nil
}

func newJetStreamBridge(nc *nats.Conn, subject string) (*jetStreamBridge, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	return &jetStreamBridge{
		nc:          nc,
		js:          js,
		subject:     subject,
		subscribers: make([]chan Event, 0),
	}, nil
}

// start subscribes to new messages on the subject
func (b *jetStreamBridge) start() error {
	sub, err := b.js.Subscribe(b.subject, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Error("Failed to unmarshal event from JetStream", "error", err)
			msg.Nak()
			return
		}
		b.broadcast(event)
		msg.Ack()
	}, nats.ManualAck(), nats.DeliverNew())
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", b.subject, err)
	}
	b.sub = sub
	logger.Debug("Subscribed to JetStream", "subject", b.subject)
	return nil
}

func (b *jetStreamBridge) broadcast(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subscribers {
		select {
		case sub <- event:
		default:
			logger.Warn("JetStream: skipping slow subscriber", "event_type", event.Type)
		}
	}
}

// Publish publishes an event to the JetStream subject
func (b *jetStreamBridge) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return
	}
	if _, err := b.js.Publish(b.subject, data); err != nil {
		logger.Error("Failed to publish to JetStream", "error", err, "subject", b.subject, "event_type", event.Type)
		return
	}
	logger.Debug("Published event", "event_type", event.Type, "subject", b.subject)
}

// Subscribe creates a subscription channel for events
func (b *jetStreamBridge) Subscribe() chan Event {
	ch := make(chan Event, 100)

	b.mu.Lock()
	b.subscribers = append(b.subscribers, ch)
	b.mu.Unlock()

	return ch
}

// Unsubscribe removes a subscription channel
func (b *jetStreamBridge) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subscribers {
		if sub == ch {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

// GetSubscriberCount returns the number of active local subscribers
func (b *jetStreamBridge) GetSubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Connected reports whether the NATS connection is up
func (b *jetStreamBridge) Connected() bool {
	return b.nc != nil && b.nc.IsConnected()
}

func (b *jetStreamBridge) close() {
	if b.sub != nil {
		b.sub.Unsubscribe()
	}

	b.mu.Lock()
	for _, sub := range b.subscribers {
		close(sub)
	}
	b.subscribers = nil
	b.mu.Unlock()

	if b.nc != nil {
		b.nc.Close()
	}
}
