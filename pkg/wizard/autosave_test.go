package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDebounce = 30 * time.Millisecond
	testRetry    = 50 * time.Millisecond
)

type fakeStore struct {
	mu         sync.Mutex
	creates    int
	updates    int
	createErr  error
	updateErr  error
	delay      time.Duration
	lastRecord ApplicationRecord
	lastID     string
}

func (f *fakeStore) Create(ctx context.Context, record ApplicationRecord) (string, error) {
	f.mu.Lock()
	delay := f.delay
	f.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	f.lastRecord = record
	if f.createErr != nil {
		return "", f.createErr
	}
	return "app-1", nil
}

func (f *fakeStore) Update(ctx context.Context, id string, record ApplicationRecord) error {
	f.mu.Lock()
	delay := f.delay
	f.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	f.lastID = id
	f.lastRecord = record
	return f.updateErr
}

func (f *fakeStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates + f.updates
}

func (f *fakeStore) record() ApplicationRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastRecord
}

func (f *fakeStore) setDelay(d time.Duration) {
	f.mu.Lock()
	f.delay = d
	f.mu.Unlock()
}

func (f *fakeStore) setUpdateErr(err error) {
	f.mu.Lock()
	f.updateErr = err
	f.mu.Unlock()
}

func newTestSaver(t *testing.T, e *Engine, store *fakeStore) *AutoSaver {
	t.Helper()
	saver, err := NewAutoSaver(e.Bus(), e, store, nil, testDebounce, testRetry)
	require.NoError(t, err)
	t.Cleanup(saver.Close)
	return saver
}

func waitCalls(t *testing.T, store *fakeStore, want int) {
	t.Helper()
	require.Eventually(t, func() bool { return store.calls() == want },
		2*time.Second, 5*time.Millisecond)
}

// assertNoMoreCalls waits out several debounce windows and checks the call
// count stayed put.
func assertNoMoreCalls(t *testing.T, store *fakeStore, want int) {
	t.Helper()
	time.Sleep(6 * testDebounce)
	assert.Equal(t, want, store.calls())
}

func TestAutoSaverGateBlocksBeforeResults(t *testing.T) {
	e := newTestEngine()
	defer e.Close()
	store := &fakeStore{}
	newTestSaver(t, e, store)

	require.NoError(t, e.SelectKeyword("go", SourceCustom))
	stepForward(t, e) // keywords -> confirm
	stepForward(t, e) // confirm -> filters
	filters := e.State().Filters
	filters.ExactPhrase = true
	e.SetFilters(filters)

	assertNoMoreCalls(t, store, 0)
}

func TestAutoSaverCreatesOnFirstArrivalAtResults(t *testing.T) {
	e := newTestEngine()
	defer e.Close()
	store := &fakeStore{}
	newTestSaver(t, e, store)

	driveToResults(t, e)
	waitCalls(t, store, 1)

	record := store.record()
	assert.Equal(t, 4, record.CurrentStep)
	assert.Equal(t, []string{"go"}, record.SelectedKeywords)
	assert.False(t, record.IsCompleted)

	// The server-assigned id is adopted; the next save must be an update.
	require.Eventually(t, func() bool { return e.State().ApplicationID == "app-1" },
		time.Second, 5*time.Millisecond)

	e.SetResults([]Vacancy{{ID: "v1"}, {ID: "v2"}}, 2)
	waitCalls(t, store, 2)
	store.mu.Lock()
	creates, updates, lastID := store.creates, store.updates, store.lastID
	store.mu.Unlock()
	assert.Equal(t, 1, creates)
	assert.Equal(t, 1, updates)
	assert.Equal(t, "app-1", lastID)
}

func TestAutoSaverDebounceCoalescesBurst(t *testing.T) {
	e := newTestEngine()
	defer e.Close()
	store := &fakeStore{}
	newTestSaver(t, e, store)

	driveToResults(t, e)
	waitCalls(t, store, 1)
	require.Eventually(t, func() bool { return e.State().ApplicationID != "" },
		time.Second, 5*time.Millisecond)
	e.SetResults(make([]Vacancy, 20), 20)
	waitCalls(t, store, 2)

	for i := 0; i < 10; i++ {
		e.Advance(1)
	}

	waitCalls(t, store, 3)
	assert.Equal(t, 10, store.record().CurrentVacancyIndex)
	assertNoMoreCalls(t, store, 3)
}

func TestAutoSaverSingleFlightCoalescesOneRetry(t *testing.T) {
	e := newTestEngine()
	defer e.Close()
	store := &fakeStore{}
	newTestSaver(t, e, store)

	driveToResults(t, e)
	waitCalls(t, store, 1)
	require.Eventually(t, func() bool { return e.State().ApplicationID != "" },
		time.Second, 5*time.Millisecond)
	e.SetResults(make([]Vacancy, 20), 20)
	waitCalls(t, store, 2)

	store.setDelay(4 * testDebounce)

	e.Advance(1)
	time.Sleep(testDebounce + 10*time.Millisecond) // first flush is now in flight
	e.Advance(1)
	e.Advance(1) // changes during the flight fold into one retry

	waitCalls(t, store, 4)
	assert.Equal(t, 3, store.record().CurrentVacancyIndex,
		"the coalesced retry carries the latest state")
	store.setDelay(0)
	assertNoMoreCalls(t, store, 4)
}

func TestAutoSaverIdempotentOnSignature(t *testing.T) {
	e := newTestEngine()
	defer e.Close()
	store := &fakeStore{}
	newTestSaver(t, e, store)

	driveToResults(t, e)
	waitCalls(t, store, 1)
	e.SetResults(make([]Vacancy, 5), 5)
	waitCalls(t, store, 2)

	// A round trip back to the saved state leaves nothing to persist.
	e.Advance(1)
	e.Advance(-1)
	assertNoMoreCalls(t, store, 2)
}

func TestAutoSaverRetriesAfterFailure(t *testing.T) {
	e := newTestEngine()
	defer e.Close()
	store := &fakeStore{}
	newTestSaver(t, e, store)

	driveToResults(t, e)
	waitCalls(t, store, 1)
	require.Eventually(t, func() bool { return e.State().ApplicationID != "" },
		time.Second, 5*time.Millisecond)
	e.SetResults(make([]Vacancy, 5), 5)
	waitCalls(t, store, 2)

	store.setUpdateErr(errors.New("storage unavailable"))
	e.Advance(1)
	waitCalls(t, store, 3)

	// lastSaved was not advanced, so the next change saves the lot.
	store.setUpdateErr(nil)
	e.Advance(1)
	waitCalls(t, store, 4)
	assert.Equal(t, 2, store.record().CurrentVacancyIndex)
}

func TestAutoSaverDropsIDFromSupersededEpoch(t *testing.T) {
	e := newTestEngine()
	defer e.Close()
	store := &fakeStore{delay: 4 * testDebounce}
	saver := newTestSaver(t, e, store)

	driveToResults(t, e)
	time.Sleep(testDebounce + 10*time.Millisecond) // create is now in flight

	saver.Reset()
	e.StartNewSearch()

	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.creates == 1
	}, 2*time.Second, 5*time.Millisecond)

	// The identifier belongs to a session that no longer exists.
	time.Sleep(2 * testDebounce)
	assert.Empty(t, e.State().ApplicationID)
}
