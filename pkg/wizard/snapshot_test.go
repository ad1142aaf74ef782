package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	e := newTestEngine()
	defer e.Close()
	driveToResults(t, e)
	e.SetResults([]Vacancy{{ID: "v1"}, {ID: "v2"}}, 2)
	e.Advance(1)
	e.MarkApplied("v1")
	e.SetFreeText("remote go jobs")

	snap := e.Snapshot()

	restored := NewEngine(Config{TransitionDuration: time.Millisecond}, nil)
	defer restored.Close()
	restored.RestoreSnapshot(snap)

	state := restored.State()
	assert.Equal(t, "results", state.Step)
	assert.True(t, state.HasReachedResults)
	assert.Equal(t, "remote go jobs", state.FreeTextInput)
	assert.Equal(t, []string{"go"}, state.CanonicalKeywords)
	assert.Equal(t, []string{"v1"}, state.AppliedIDs)
	assert.Equal(t, 1, state.Results.Index)
	assert.Equal(t, 2, state.Results.Total)
	assert.Empty(t, state.Results.Items, "result items are refetched, not snapshotted")
}

func TestRestoreSnapshotBadStepFallsBack(t *testing.T) {
	e := newTestEngine()
	defer e.Close()

	e.RestoreSnapshot(Snapshot{Step: 42})
	state := e.State()
	require.Equal(t, "keywords", state.Step)
	assert.False(t, state.HasReachedResults)
}
