package websocket

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestHub() *Hub {
	h := NewHub(nil, nopLogger{})
	go h.Run()
	return h
}

func (h *Hub) clientCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func TestHubSendDeliversToRegisteredClient(t *testing.T) {
	h := newTestHub()
	userID := uuid.New()
	client := &Client{Hub: h, UserID: userID, Send: make(chan []byte, 4)}
	h.register <- client

	h.Send(userID, Notice{Type: "results_stale"})

	select {
	case msg := <-client.Send:
		assert.Contains(t, string(msg), "results_stale")
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
}

func TestHubSendDropsStalledClientWithoutDoubleClose(t *testing.T) {
	h := newTestHub()
	userID := uuid.New()

	// No reader and no buffer, so the first push already stalls.
	stalled := &Client{Hub: h, UserID: userID, Send: make(chan []byte)}
	healthy := &Client{Hub: h, UserID: userID, Send: make(chan []byte, 4)}
	h.register <- stalled
	h.register <- healthy
	require.Eventually(t, func() bool { return h.clientCount(userID) == 2 },
		time.Second, 5*time.Millisecond)

	h.Send(userID, Notice{Type: "application_saved"})

	// The unregister branch is the only closer of Send; once it runs, the
	// channel reads closed exactly once and the client is gone from the hub.
	select {
	case _, ok := <-stalled.Send:
		require.False(t, ok, "stalled client channel should be closed, not written")
	case <-time.After(time.Second):
		t.Fatal("stalled client was never dropped")
	}
	require.Eventually(t, func() bool { return h.clientCount(userID) == 1 },
		time.Second, 5*time.Millisecond)

	// A second send must not panic and still reaches the healthy client.
	h.Send(userID, Notice{Type: "results_stale"})
	msgs := 0
	for done := false; !done; {
		select {
		case <-healthy.Send:
			msgs++
		case <-time.After(200 * time.Millisecond):
			done = true
		}
	}
	assert.Equal(t, 2, msgs)
}

func TestHubUnregisterTwiceIsSafe(t *testing.T) {
	h := newTestHub()
	userID := uuid.New()
	client := &Client{Hub: h, UserID: userID, Send: make(chan []byte, 1)}
	h.register <- client

	h.unregister <- client
	h.unregister <- client

	require.Eventually(t, func() bool { return h.clientCount(userID) == 0 },
		time.Second, 5*time.Millisecond)
}
