package pubsub

import (
	"testing"
	"time"

	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/logger"
)

func init() {
	logger.Init()
}

func newEmbedded(t *testing.T, opts EmbeddedNATSOptions) *EmbeddedNATSPubSub {
	t.Helper()
	opts.StoreDir = t.TempDir()
	ps, err := NewEmbeddedNATSPubSub(opts)
	if err != nil {
		t.Fatalf("Failed to create embedded NATS: %v", err)
	}
	return ps
}

func TestEmbeddedNATSStarts(t *testing.T) {
	ps := newEmbedded(t, DefaultEmbeddedNATSOptions())
	defer ps.Close()

	if ps.GetServerURL() == "" {
		t.Error("server URL should not be empty")
	}
	if !ps.Connected() {
		t.Error("client should be connected")
	}
}

func TestEmbeddedNATSPublishAndReceive(t *testing.T) {
	ps := newEmbedded(t, DefaultEmbeddedNATSOptions())
	defer ps.Close()

	ch := ps.Subscribe()
	ps.Publish(Event{
		Type:    "selection:changed",
		Payload: map[string]interface{}{"kind": "select_year", "value": "2022"},
	})

	select {
	case received := <-ch:
		if received.Type != "selection:changed" {
			t.Errorf("expected selection:changed, got %s", received.Type)
		}
		if received.Payload["value"] != "2022" {
			t.Errorf("payload mismatch: %v", received.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Error("timeout waiting for event")
	}
}

func TestEmbeddedNATSAsUpstream(t *testing.T) {
	nats := newEmbedded(t, DefaultEmbeddedNATSOptions())
	defer nats.Close()

	ps := NewWithUpstream(nats)
	ch := ps.Subscribe()

	ps.Publish(Event{Type: "dataset:loaded"})

	select {
	case received := <-ch:
		if received.Type != "dataset:loaded" {
			t.Errorf("expected dataset:loaded, got %s", received.Type)
		}
		if received.TS == 0 {
			t.Error("timestamp should survive the round trip")
		}
	case <-time.After(2 * time.Second):
		t.Error("timeout waiting for event through NATS")
	}
}

func TestEmbeddedNATSUnsubscribe(t *testing.T) {
	ps := newEmbedded(t, DefaultEmbeddedNATSOptions())
	defer ps.Close()

	ch := ps.Subscribe()
	if ps.GetSubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", ps.GetSubscriberCount())
	}
	ps.Unsubscribe(ch)
	if ps.GetSubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", ps.GetSubscriberCount())
	}
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}
}

func TestEmbeddedNATSClose(t *testing.T) {
	ps := newEmbedded(t, DefaultEmbeddedNATSOptions())
	ch := ps.Subscribe()

	ps.Close()

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Close()")
	}
}

func TestEmbeddedNATSCustomSubject(t *testing.T) {
	ps := newEmbedded(t, EmbeddedNATSOptions{
		Subject:    "custom.events",
		StreamName: "CUSTOM_STREAM",
	})
	defer ps.Close()

	if ps.subject != "custom.events" {
		t.Errorf("expected subject custom.events, got %s", ps.subject)
	}
}

func TestDefaultEmbeddedNATSOptions(t *testing.T) {
	opts := DefaultEmbeddedNATSOptions()
	if opts.Port != -1 {
		t.Errorf("expected port -1 (random), got %d", opts.Port)
	}
	if opts.Subject != "worldcup.events" {
		t.Errorf("expected subject worldcup.events, got %s", opts.Subject)
	}
	if opts.StreamName != DefaultStreamName {
		t.Errorf("expected stream %s, got %s", DefaultStreamName, opts.StreamName)
	}
}
