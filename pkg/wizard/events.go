package wizard

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	// TopicSignatureChanged carries SignatureChangedEvent payloads. The
	// auto-save coordinator is its only in-process subscriber.
	TopicSignatureChanged = "wizard.signature.changed"

	// TopicResultsStale fires when the committed search inputs diverge
	// from the results currently on screen. The transport layer relays it
	// to the client so the Results stage refetches.
	TopicResultsStale = "wizard.results.stale"
)

// SignatureChangedEvent is published after every mutation that changed the
// save signature. The signature itself is informational; subscribers must
// re-read the session at flush time rather than trust a possibly stale
// payload.
type SignatureChangedEvent struct {
	SaveSignature string `json:"save_signature"`
}

// ResultsStaleEvent is published when cached results no longer match the
// committed keywords and filters.
type ResultsStaleEvent struct {
	SearchHash string `json:"search_hash"`
}

// NewBus returns the in-process pub/sub channel an Engine publishes on.
// One bus per engine keeps subscriptions session-scoped. The buffer keeps
// Publish from blocking on a slow subscriber during an edit burst.
func NewBus() *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 16,
	}, watermill.NopLogger{})
}

func publishJSON(bus *gochannel.GoChannel, topic string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	// Publish never blocks on gochannel with default config; errors only
	// occur after close, which means the engine is being torn down.
	_ = bus.Publish(topic, message.NewMessage(watermill.NewUUID(), data))
}
