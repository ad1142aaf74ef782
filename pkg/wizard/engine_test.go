package wizard

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPurger struct {
	mu     sync.Mutex
	purges int
}

func (p *countingPurger) PurgeAll() {
	p.mu.Lock()
	p.purges++
	p.mu.Unlock()
}

func (p *countingPurger) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.purges
}

func newTestEngine() *Engine {
	return NewEngine(Config{TransitionDuration: time.Millisecond}, nil)
}

// stepForward runs one full forward transition.
func stepForward(t *testing.T, e *Engine) {
	t.Helper()
	_, err := e.GoNext()
	require.NoError(t, err)
	e.CompleteTransition()
}

// driveToResults walks a fresh engine through the whole wizard with one
// selected keyword.
func driveToResults(t *testing.T, e *Engine) {
	t.Helper()
	require.NoError(t, e.SelectKeyword("go", SourceCustom))
	stepForward(t, e) // keywords -> confirm
	stepForward(t, e) // confirm -> filters
	stepForward(t, e) // filters -> results
	require.Equal(t, "results", e.State().Step)
	require.True(t, e.State().HasReachedResults)
}

func TestSelectKeywordValidation(t *testing.T) {
	e := newTestEngine()
	defer e.Close()

	assert.ErrorIs(t, e.SelectKeyword("  ", SourceCustom), ErrEmptyKeyword)

	require.NoError(t, e.SelectKeyword("go", SourceCustom))
	assert.ErrorIs(t, e.SelectKeyword("GO", SourceAISuggested), ErrDuplicateKeyword)

	require.NoError(t, e.SelectKeyword("java", SourceCustom))
	require.NoError(t, e.SelectKeyword("rust", SourceCustom))
	assert.ErrorIs(t, e.SelectKeyword("python", SourceCustom), ErrKeywordLimit)
}

func TestRemoveKeyword(t *testing.T) {
	e := newTestEngine()
	defer e.Close()

	require.NoError(t, e.SelectKeyword("Go", SourceCustom))
	require.NoError(t, e.SelectKeyword("java", SourceCustom))
	e.RemoveKeyword(" go ")

	state := e.State()
	require.Len(t, state.PendingKeywords, 1)
	assert.Equal(t, "java", state.PendingKeywords[0].Text)
}

func TestGoNextRequiresKeywords(t *testing.T) {
	e := newTestEngine()
	defer e.Close()

	_, err := e.GoNext()
	assert.ErrorIs(t, err, ErrNoKeywords)
}

func TestGoNextBlockedDuringTransition(t *testing.T) {
	e := newTestEngine()
	defer e.Close()

	require.NoError(t, e.SelectKeyword("go", SourceCustom))
	_, err := e.GoNext()
	require.NoError(t, err)

	_, err = e.GoNext()
	assert.ErrorIs(t, err, ErrTransitionInProgress)
	_, err = e.GoBack(false)
	assert.ErrorIs(t, err, ErrTransitionInProgress)
}

func TestGoNextStopsAtResults(t *testing.T) {
	e := newTestEngine()
	defer e.Close()
	driveToResults(t, e)

	_, err := e.GoNext()
	assert.ErrorIs(t, err, ErrNoFurtherStep)
}

func TestGoBackStopsAtKeywords(t *testing.T) {
	e := newTestEngine()
	defer e.Close()

	_, err := e.GoBack(false)
	assert.ErrorIs(t, err, ErrNoFurtherStep)
}

func TestKeywordsCommitOnConfirmEdge(t *testing.T) {
	e := newTestEngine()
	defer e.Close()

	require.NoError(t, e.SelectKeyword("Java ", SourceAISuggested))
	require.NoError(t, e.SelectKeyword("Go", SourceCustom))

	stepForward(t, e) // keywords -> confirm
	assert.Empty(t, e.State().CanonicalKeywords, "commit happens on the confirm edge, not before")

	stepForward(t, e) // confirm -> filters
	state := e.State()
	assert.Equal(t, []string{"go", "java"}, state.CanonicalKeywords)
	assert.Equal(t, 0, state.Results.Index)
}

func TestGoBackAfterResultsNeedsConfirmation(t *testing.T) {
	e := newTestEngine()
	defer e.Close()
	driveToResults(t, e)

	_, err := e.GoBack(false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)

	transition, err := e.GoBack(true)
	require.NoError(t, err)
	assert.Equal(t, StepResults, transition.From)
	assert.Equal(t, StepFilters, transition.To)
	e.CompleteTransition()
	assert.Equal(t, "filters", e.State().Step)
}

func TestSetResultsClearsStaleAndResetsIndex(t *testing.T) {
	e := newTestEngine()
	defer e.Close()
	driveToResults(t, e)

	e.SetResults([]Vacancy{{ID: "v1"}, {ID: "v2"}, {ID: "v3"}}, 3)
	state := e.State()
	assert.Equal(t, 0, state.Results.Index)
	assert.False(t, state.Results.Stale)

	// A filter change flips the results stale.
	filters := state.Filters
	filters.Location = StringFilter{Enabled: true, Value: "1"}
	e.SetFilters(filters)
	assert.True(t, e.State().Results.Stale)

	// A fresh fetch for the new inputs clears it again.
	e.SetResults([]Vacancy{{ID: "v4"}}, 1)
	assert.False(t, e.State().Results.Stale)
}

func TestAdvanceClampsToWindow(t *testing.T) {
	e := newTestEngine()
	defer e.Close()
	driveToResults(t, e)
	e.SetResults([]Vacancy{{ID: "v1"}, {ID: "v2"}, {ID: "v3"}}, 3)

	assert.Equal(t, 1, e.Advance(1))
	assert.Equal(t, 2, e.Advance(5))
	assert.Equal(t, 0, e.Advance(-10))
}

func TestMarkApplied(t *testing.T) {
	e := newTestEngine()
	defer e.Close()
	driveToResults(t, e)

	e.MarkApplied("v2")
	e.MarkApplied("v1")
	e.MarkApplied("v2")
	e.MarkApplied("")

	assert.Equal(t, []string{"v1", "v2"}, e.State().AppliedIDs)
}

func TestStartNewSearchPurgesAndKeepsPrefs(t *testing.T) {
	purger := &countingPurger{}
	e := NewEngine(Config{TransitionDuration: time.Millisecond}, purger)
	defer e.Close()
	driveToResults(t, e)

	filters := e.State().Filters
	filters.ExactPhrase = true
	e.SetFilters(filters)

	e.StartNewSearch()

	state := e.State()
	assert.Equal(t, 1, purger.count())
	assert.Equal(t, "keywords", state.Step)
	assert.Empty(t, state.CanonicalKeywords)
	assert.True(t, state.Filters.ExactPhrase)
}

func TestFullResetClearsEverything(t *testing.T) {
	purger := &countingPurger{}
	e := NewEngine(Config{TransitionDuration: time.Millisecond}, purger)
	defer e.Close()
	driveToResults(t, e)

	filters := e.State().Filters
	filters.ExactPhrase = true
	e.SetFilters(filters)

	e.FullReset()

	state := e.State()
	assert.Equal(t, 1, purger.count())
	assert.Equal(t, "keywords", state.Step)
	assert.False(t, state.Filters.ExactPhrase)
}

func TestInterceptBackNotArmedAtKeywords(t *testing.T) {
	e := newTestEngine()
	defer e.Close()

	assert.False(t, e.InterceptBack(false), "nothing to guard on the first step")
}

func TestInterceptBackDeclineReArms(t *testing.T) {
	e := newTestEngine()
	defer e.Close()
	require.NoError(t, e.SelectKeyword("go", SourceCustom))
	stepForward(t, e) // now on confirm

	assert.True(t, e.InterceptBack(false))
	assert.True(t, e.InterceptBack(false), "declining keeps the guard armed")
	assert.Equal(t, "confirm", e.State().Step)
}

func TestInterceptBackConfirmedPurgesAndResets(t *testing.T) {
	purger := &countingPurger{}
	e := NewEngine(Config{TransitionDuration: time.Millisecond}, purger)
	defer e.Close()
	driveToResults(t, e)

	assert.False(t, e.InterceptBack(true))
	state := e.State()
	assert.Equal(t, 1, purger.count())
	assert.Equal(t, "keywords", state.Step)
	assert.False(t, state.HasReachedResults)

	// Back on Keywords the guard is disarmed again.
	assert.False(t, e.InterceptBack(false))
}

func TestRestoreFromRecord(t *testing.T) {
	e := newTestEngine()
	defer e.Close()

	e.RestoreFromRecord("app-7", ApplicationRecord{
		CurrentStep:         4,
		SelectedKeywords:    []string{"Go", "backend"},
		SuggestedKeywords:   []string{"golang"},
		Filters:             FilterConfig{Version: 1},
		CurrentVacancyIndex: 9,
		Vacancies:           []Vacancy{{ID: "v1"}, {ID: "v2"}},
		TotalVacancies:      2,
		AppliedVacancyIds:   []string{"v1"},
	})

	state := e.State()
	assert.Equal(t, "results", state.Step)
	assert.True(t, state.HasReachedResults)
	assert.Equal(t, []string{"backend", "go"}, state.CanonicalKeywords)
	assert.Equal(t, 1, state.Results.Index, "index clamps to the restored window")
	assert.Equal(t, []string{"v1"}, state.AppliedIDs)
	assert.Equal(t, "app-7", state.ApplicationID)
	assert.Equal(t, CurrentFilterVersion, state.Filters.Version)
	assert.False(t, state.Results.Stale, "restored results match the restored inputs")
}

func TestRestoreFromRecordBadStepFallsBack(t *testing.T) {
	e := newTestEngine()
	defer e.Close()

	e.RestoreFromRecord("app-8", ApplicationRecord{CurrentStep: 99})
	state := e.State()
	assert.Equal(t, "keywords", state.Step)
	assert.False(t, state.HasReachedResults)
}

func TestTransitionMessage(t *testing.T) {
	assert.Equal(t, "Checking your keywords...", TransitionMessage(StepKeywords, StepConfirm))
	assert.Equal(t, "Working...", TransitionMessage(StepResults, StepKeywords))
}
