package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidatorArmedSteps(t *testing.T) {
	iv := NewInvalidator(nil)
	s := NewSession()

	iv.Arm(s)
	assert.False(t, iv.Armed())

	for _, step := range []Step{StepConfirm, StepFilters, StepResults} {
		s.Step = step
		iv.Arm(s)
		assert.True(t, iv.Armed(), step.String())
	}
}

func TestInvalidatorRefreshNoopWithoutResults(t *testing.T) {
	iv := NewInvalidator(nil)
	s := NewSession()

	// Nothing fetched yet, nothing to invalidate.
	assert.False(t, iv.Refresh(s))
	assert.False(t, s.Results.Stale)
}

func TestInvalidatorRefreshFlipsOnce(t *testing.T) {
	iv := NewInvalidator(nil)
	s := NewSession()
	s.CanonicalKeywords = []string{"go"}
	s.recomputeSignatures()
	s.Results = ResultSet{Items: []Vacancy{{ID: "v1"}}, Total: 1}
	s.LastAppliedSearchSig = s.SearchSignature

	assert.False(t, iv.Refresh(s))

	s.CanonicalKeywords = []string{"go", "backend"}
	s.recomputeSignatures()
	assert.True(t, iv.Refresh(s), "first divergence flips stale")
	assert.True(t, s.Results.Stale)
	assert.False(t, iv.Refresh(s), "already stale, no second event")

	s.LastAppliedSearchSig = s.SearchSignature
	assert.False(t, iv.Refresh(s))
	assert.False(t, s.Results.Stale, "fresh results clear the flag")
}

func TestPurgeAndReset(t *testing.T) {
	purger := &countingPurger{}
	iv := NewInvalidator(purger)
	s := NewSession()
	s.Step = StepResults
	s.CanonicalKeywords = []string{"go"}
	s.Filters.DebugMode = true

	iv.PurgeAndReset(s)

	assert.Equal(t, 1, purger.count())
	assert.Equal(t, StepKeywords, s.Step)
	assert.True(t, s.Filters.DebugMode)
}
