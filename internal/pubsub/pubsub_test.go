package pubsub

import (
	"sync"
	"testing"
	"time"
)

func TestSubscribeAndUnsubscribe(t *testing.T) {
	ps := New()

	ch1 := ps.Subscribe()
	ch2 := ps.Subscribe()
	if ps.SubscriberCount() != 2 {
		t.Fatalf("expected 2 subscribers, got %d", ps.SubscriberCount())
	}

	ps.Unsubscribe(ch1)
	if ps.SubscriberCount() != 1 {
		t.Errorf("expected 1 subscriber after unsubscribe, got %d", ps.SubscriberCount())
	}

	select {
	case _, ok := <-ch1:
		if ok {
			t.Error("channel should be closed after unsubscribe")
		}
	default:
		t.Error("channel should be closed and readable")
	}

	ps.Publish(Event{Type: "selection:changed"})
	select {
	case <-ch2:
	case <-time.After(100 * time.Millisecond):
		t.Error("remaining subscriber should receive events")
	}
}

func TestUnsubscribeNonexistent(t *testing.T) {
	ps := New()
	ch := make(chan Event, 1)

	// Should not panic or close a channel it does not own
	ps.Unsubscribe(ch)
	ch <- Event{Type: "still-open"}
}

func TestPublishStampsTime(t *testing.T) {
	ps := New()
	ch := ps.Subscribe()

	ps.Publish(Event{Type: "dataset:loaded", Payload: map[string]interface{}{"rows": 22}})

	select {
	case received := <-ch:
		if received.TS == 0 {
			t.Error("expected publish to stamp TS")
		}
		if received.Payload["rows"] != 22 {
			t.Errorf("payload mismatch: %v", received.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for event")
	}

	ps.Publish(Event{Type: "keep", TS: 42})
	if got := <-ch; got.TS != 42 {
		t.Errorf("explicit TS should be kept, got %d", got.TS)
	}
}

func TestPublishNoSubscribers(t *testing.T) {
	ps := New()
	ps.Publish(Event{Type: "test"})
	if len(ps.Recent(0)) != 1 {
		t.Error("event should still be recorded in history")
	}
}

func TestPublishDropsWhenChannelFull(t *testing.T) {
	ps := New()
	ch := ps.Subscribe()

	for i := 0; i < subscriberBuffer+5; i++ {
		ps.Publish(Event{Type: "fill"})
	}

	if len(ch) != subscriberBuffer {
		t.Errorf("expected %d buffered events, got %d", subscriberBuffer, len(ch))
	}
}

func TestRecent(t *testing.T) {
	ps := New()
	for i := 0; i < historySize+10; i++ {
		ps.Publish(Event{Type: "e", Payload: map[string]interface{}{"i": i}})
	}

	all := ps.Recent(0)
	if len(all) != historySize {
		t.Fatalf("expected history capped at %d, got %d", historySize, len(all))
	}
	if all[0].Payload["i"] != 10 {
		t.Errorf("expected oldest kept event to be 10, got %v", all[0].Payload["i"])
	}

	last := ps.Recent(3)
	if len(last) != 3 || last[2].Payload["i"] != historySize+9 {
		t.Errorf("unexpected tail %v", last)
	}
}

func TestClose(t *testing.T) {
	ps := New()
	ch := ps.Subscribe()
	ps.Close()

	if _, ok := <-ch; ok {
		t.Error("Close should close subscriber channels")
	}
	if ps.SubscriberCount() != 0 {
		t.Error("Close should drop subscribers")
	}
}

func TestConcurrentSubscribeUnsubscribe(t *testing.T) {
	ps := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ch := ps.Subscribe()
			time.Sleep(time.Millisecond)
			ps.Unsubscribe(ch)
		}()
		go func() {
			defer wg.Done()
			ps.Publish(Event{Type: "concurrent"})
		}()
	}
	wg.Wait()

	if ps.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", ps.SubscriberCount())
	}
}

// mockUpstream implements Upstream for testing
type mockUpstream struct {
	mu          sync.Mutex
	published   []Event
	subscribers []chan Event
}

func (m *mockUpstream) Publish(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, event)
	for _, ch := range m.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

func (m *mockUpstream) Subscribe() chan Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan Event, 100)
	m.subscribers = append(m.subscribers, ch)
	return ch
}

func (m *mockUpstream) Unsubscribe(ch chan Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, sub := range m.subscribers {
		if sub == ch {
			close(ch)
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			return
		}
	}
}

func (m *mockUpstream) publishedEvents() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.published))
	copy(out, m.published)
	return out
}

func TestPublishWithUpstream(t *testing.T) {
	upstream := &mockUpstream{}
	ps := NewWithUpstream(upstream)
	defer ps.Close()

	ch := ps.Subscribe()
	ps.Publish(Event{Type: "selection:changed", Payload: map[string]interface{}{"value": "Brazil"}})

	if published := upstream.publishedEvents(); len(published) != 1 || published[0].Type != "selection:changed" {
		t.Errorf("expected one event upstream, got %v", published)
	}

	select {
	case received := <-ch:
		if received.Payload["value"] != "Brazil" {
			t.Errorf("unexpected payload %v", received.Payload)
		}
	case <-time.After(200 * time.Millisecond):
		t.Error("timeout waiting for event from upstream")
	}
}

func TestUpstreamEventsReachLocalSubscribers(t *testing.T) {
	upstream := &mockUpstream{}
	ps := NewWithUpstream(upstream)
	defer ps.Close()

	ch1 := ps.Subscribe()
	ch2 := ps.Subscribe()

	// Another instance publishing
	upstream.Publish(Event{Type: "external:event"})

	for i, ch := range []chan Event{ch1, ch2} {
		select {
		case received := <-ch:
			if received.Type != "external:event" {
				t.Errorf("subscriber %d: expected external:event, got %s", i, received.Type)
			}
		case <-time.After(200 * time.Millisecond):
			t.Errorf("subscriber %d: timeout waiting for event", i)
		}
	}
}
