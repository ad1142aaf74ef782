package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"job-wizard-be/internal/pkg/logger"
)

const saveTimeout = 10 * time.Second

// SaveView is the read-only projection the auto-saver takes of a session
// at flush time. It is captured under the engine lock, so the record and
// signature are always mutually consistent.
type SaveView struct {
	Eligible      bool
	Signature     string
	ApplicationID string
	Record        ApplicationRecord
	Epoch         uint64
}

// SessionSource is what the auto-saver needs from the engine: a consistent
// view to persist and a way to hand back a server-assigned identifier.
type SessionSource interface {
	SaveView() SaveView
	AdoptApplicationID(id string, epoch uint64)
}

// AutoSaver debounces save-signature changes and persists the session
// through an ApplicationStore. It guarantees trailing-edge debouncing, at
// most one in-flight persistence call, one coalesced retry when a change
// lands during a flight, and idempotence on the save signature. All
// bookkeeping lives on the instance; construct one per engine and Close it
// with the engine.
type AutoSaver struct {
	source SessionSource
	store  ApplicationStore
	log    logger.ILogger

	debounce   time.Duration
	retryDelay time.Duration

	mu           sync.Mutex
	timer        *time.Timer
	inFlight     bool
	retryPending bool
	lastSaved    string
	closed       bool

	cancel context.CancelFunc
}

// NewAutoSaver subscribes to the engine bus and starts reacting to
// signature changes. Zero durations fall back to the production values
// (600ms debounce, 1s retry).
func NewAutoSaver(bus *gochannel.GoChannel, source SessionSource, store ApplicationStore, log logger.ILogger, debounce, retryDelay time.Duration) (*AutoSaver, error) {
	if debounce <= 0 {
		debounce = 600 * time.Millisecond
	}
	if retryDelay <= 0 {
		retryDelay = time.Second
	}
	a := &AutoSaver{
		source:     source,
		store:      store,
		log:        log,
		debounce:   debounce,
		retryDelay: retryDelay,
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	messages, err := bus.Subscribe(ctx, TopicSignatureChanged)
	if err != nil {
		cancel()
		return nil, err
	}
	go func() {
		for msg := range messages {
			msg.Ack()
			a.bump()
		}
	}()
	return a, nil
}

// bump (re)starts the trailing-edge debounce window. Intermediate changes
// within the window are superseded, not queued.
func (a *AutoSaver) bump() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.debounce, a.flush)
}

// flush is the save routine; it runs at most once per debounce window.
func (a *AutoSaver) flush() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	view := a.source.SaveView()
	if !view.Eligible {
		a.mu.Unlock()
		return
	}
	if view.Signature == a.lastSaved {
		// Nothing changed since the last successful save.
		a.mu.Unlock()
		return
	}
	if a.inFlight {
		// Single-flight: defer exactly one trailing retry, never a queue.
		if !a.retryPending {
			a.retryPending = true
			time.AfterFunc(a.retryDelay, a.retryFlush)
		}
		a.mu.Unlock()
		return
	}
	a.inFlight = true
	a.mu.Unlock()

	a.persist(view)
}

func (a *AutoSaver) retryFlush() {
	a.mu.Lock()
	a.retryPending = false
	closed := a.closed
	a.mu.Unlock()
	if !closed {
		a.flush()
	}
}

func (a *AutoSaver) persist(view SaveView) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	var err error
	if view.ApplicationID == "" {
		var id string
		id, err = a.store.Create(ctx, view.Record)
		if err == nil && id != "" {
			a.source.AdoptApplicationID(id, view.Epoch)
		}
	} else {
		err = a.store.Update(ctx, view.ApplicationID, view.Record)
	}

	a.mu.Lock()
	if err != nil {
		// Best-effort background persistence: log and leave lastSaved
		// unchanged so the next signature change tries again.
		if a.log != nil {
			a.log.Error("AutoSaver", "Failed to persist wizard session", map[string]interface{}{
				"application_id": view.ApplicationID,
				"error":          err.Error(),
			})
		}
	} else if a.source.SaveView().Epoch == view.Epoch {
		// A reset during the flight supersedes this save; ignore its
		// result instead of recording a hash for state that is gone.
		a.lastSaved = view.Signature
	}
	a.inFlight = false
	a.mu.Unlock()
}

// Reset discards the pending timer and the saved-hash memory. A reset of
// the session supersedes any in-flight save; its result is ignored via the
// epoch comparison in persist.
func (a *AutoSaver) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.lastSaved = ""
	a.retryPending = false
}

// Close stops the subscription and all pending timers.
func (a *AutoSaver) Close() {
	a.mu.Lock()
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()
	a.cancel()
}
