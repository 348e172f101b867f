package telemetry

import (
	"runtime"
	"sync"
	"testing"

	"github.com/posthog/posthog-go"
)

// mockEnqueuer captures events for testing.
type mockEnqueuer struct {
	mu     sync.Mutex
	events []posthog.Capture
	closed bool
}

func (m *mockEnqueuer) Enqueue(msg posthog.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if capture, ok := msg.(posthog.Capture); ok {
		m.events = append(m.events, capture)
	}
	return nil
}

func (m *mockEnqueuer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockEnqueuer) getEvents() []posthog.Capture {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]posthog.Capture, len(m.events))
	copy(result, m.events)
	return result
}

func newTestClient(cfg *Config) (*PostHogClient, *mockEnqueuer) {
	mock := &mockEnqueuer{}
	return newPostHogClientWithEnqueuer(mock, cfg, "1.2.3"), mock
}

func TestPostHogClient_Track_WhenEnabled(t *testing.T) {
	cfg := &Config{Enabled: true, ConsentAsked: true, AnonymousID: "anon-123"}
	client, mock := newTestClient(cfg)

	TrackCascade(client, "shift", 1, 4)

	events := mock.getEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.Event != EventCascadeApplied {
		t.Errorf("event name = %q, want %q", event.Event, EventCascadeApplied)
	}
	if event.DistinctId != "anon-123" {
		t.Errorf("distinct_id = %q, want anon-123", event.DistinctId)
	}
	if event.Properties["direct_count"] != 1 || event.Properties["cascaded_count"] != 4 {
		t.Errorf("counts not carried: %v", event.Properties)
	}
	if event.Properties["os"] != runtime.GOOS {
		t.Errorf("os = %v, want %q", event.Properties["os"], runtime.GOOS)
	}
	if event.Properties["cli_version"] != "1.2.3" {
		t.Errorf("cli_version = %v", event.Properties["cli_version"])
	}
	if event.Properties["$process_person_profile"] != false {
		t.Error("person profile processing should be disabled")
	}
}

func TestPostHogClient_Track_WhenDisabled(t *testing.T) {
	cfg := &Config{Enabled: false, ConsentAsked: true, AnonymousID: "anon-123"}
	client, mock := newTestClient(cfg)

	client.Track(EventCommandExecuted, Properties{"command": "shift"})

	if len(mock.getEvents()) != 0 {
		t.Error("disabled client should not enqueue events")
	}
}

func TestPostHogClient_Uninitialized(t *testing.T) {
	client, err := NewPostHogClient(ClientConfig{Version: "1.2.3"})
	if err != nil {
		t.Fatalf("NewPostHogClient failed: %v", err)
	}

	// Track and Close are safe no-ops without an API key.
	client.Track(EventCommandExecuted, nil)
	if err := client.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestPostHogClient_Close(t *testing.T) {
	cfg := &Config{Enabled: true, ConsentAsked: true, AnonymousID: "anon-123"}
	client, mock := newTestClient(cfg)

	if err := client.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	mock.mu.Lock()
	defer mock.mu.Unlock()
	if !mock.closed {
		t.Error("Close should close the underlying client")
	}
}
