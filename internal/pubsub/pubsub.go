package pubsub

import (
	"sync"
	"time"

	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/logger"
)

// Event is a dashboard activity event
type Event struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	TS      int64                  `json:"ts,omitempty"`
}

// Upstream is a publisher shared between instances (e.g., NATS)
type Upstream interface {
	Publish(Event)
	Subscribe() chan Event
	Unsubscribe(chan Event)
}

const (
	subscriberBuffer = 10
	historySize      = 50
)

// PubSub fans events out to in-process subscribers and keeps a short
// history so late subscribers can catch up
type PubSub struct {
	mu          sync.RWMutex
	subscribers []chan Event
	history     []Event
	upstream    Upstream
	upstreamCh  chan Event
}

// New creates a local-only PubSub
func New() *PubSub {
	return &PubSub{
		subscribers: []chan Event{},
		history:     make([]Event, 0, historySize),
	}
}

// NewWithUpstream creates a PubSub whose publishes go through upstream.
// Events coming back from upstream, including our own, are delivered locally.
func NewWithUpstream(upstream Upstream) *PubSub {
	ps := New()
	ps.upstream = upstream
	ps.upstreamCh = upstream.Subscribe()

	go func(ch chan Event) {
		logger.Debug("PubSub: forwarding upstream events")
		for event := range ch {
			ps.publishLocal(event)
		}
		logger.Debug("PubSub: upstream channel closed")
	}(ps.upstreamCh)

	return ps
}

// Subscribe adds a new subscriber and returns a channel for receiving events
func (ps *PubSub) Subscribe() chan Event {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	ps.subscribers = append(ps.subscribers, ch)
	logger.Debug("PubSub: subscriber added", "total", len(ps.subscribers))
	return ch
}

// Unsubscribe removes and closes a subscriber; unknown channels are ignored
func (ps *PubSub) Unsubscribe(ch chan Event) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for i, sub := range ps.subscribers {
		if sub == ch {
			close(ch)
			ps.subscribers = append(ps.subscribers[:i], ps.subscribers[i+1:]...)
			return
		}
	}
}

// Publish stamps the event and sends it upstream, or locally if there is no upstream
func (ps *PubSub) Publish(event Event) {
	if event.TS == 0 {
		event.TS = time.Now().UnixMilli()
	}

	if ps.upstream != nil {
		ps.upstream.Publish(event)
		return
	}
	ps.publishLocal(event)
}

// Recent returns up to n of the latest events, oldest first
func (ps *PubSub) Recent(n int) []Event {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	if n <= 0 || n > len(ps.history) {
		n = len(ps.history)
	}
	out := make([]Event, n)
	copy(out, ps.history[len(ps.history)-n:])
	return out
}

// SubscriberCount returns the number of local subscribers
func (ps *PubSub) SubscriberCount() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.subscribers)
}

// Close drops every local subscriber and detaches from upstream
func (ps *PubSub) Close() {
	if ps.upstream != nil && ps.upstreamCh != nil {
		ps.upstream.Unsubscribe(ps.upstreamCh)
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	for _, sub := range ps.subscribers {
		close(sub)
	}
	ps.subscribers = nil
}

func (ps *PubSub) publishLocal(event Event) {
	ps.mu.Lock()
	ps.history = append(ps.history, event)
	if len(ps.history) > historySize {
		ps.history = ps.history[len(ps.history)-historySize:]
	}
	ps.mu.Unlock()

	// Sends never block, so holding the read lock keeps Unsubscribe from
	// closing a channel mid-send
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	for _, ch := range ps.subscribers {
		select {
		case ch <- event:
		default:
			// slow subscriber, drop
		}
	}
}
