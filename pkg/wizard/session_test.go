package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeKeywords(t *testing.T) {
	pending := []Keyword{
		{Text: "Java ", Source: SourceAISuggested},
		{Text: "java", Source: SourceCustom},
		{Text: "Go", Source: SourceVerified},
	}
	assert.Equal(t, []string{"go", "java"}, canonicalizeKeywords(pending))
}

func TestCanonicalizeKeywordsDropsEmpties(t *testing.T) {
	pending := []Keyword{
		{Text: "  ", Source: SourceCustom},
		{Text: "backend", Source: SourceCustom},
		{Text: "", Source: SourceCustom},
	}
	assert.Equal(t, []string{"backend"}, canonicalizeKeywords(pending))
}

func TestCanonicalizeKeywordsFirstOccurrenceWins(t *testing.T) {
	pending := []Keyword{
		{Text: "DevOps", Source: SourceCustom},
		{Text: "devops", Source: SourceAISuggested},
		{Text: "DEVOPS", Source: SourceVerified},
	}
	assert.Equal(t, []string{"devops"}, canonicalizeKeywords(pending))
}

func TestClampIndex(t *testing.T) {
	tests := []struct {
		name  string
		items int
		index int
		want  int
	}{
		{"empty window", 0, 5, 0},
		{"negative", 3, -2, 0},
		{"past end", 3, 10, 2},
		{"within", 3, 1, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rs := ResultSet{Items: make([]Vacancy, tc.items), Index: tc.index}
			rs.clampIndex()
			assert.Equal(t, tc.want, rs.Index)
		})
	}
}

func TestPartialResetKeepsGlobalPrefs(t *testing.T) {
	s := NewSession()
	s.Step = StepResults
	s.FreeTextInput = "remote go jobs"
	s.CanonicalKeywords = []string{"go"}
	s.Filters.ExactPhrase = true
	s.Filters.SearchInTitle = true
	s.Filters.DebugMode = true
	s.Filters.Location = StringFilter{Enabled: true, Value: "1"}
	s.Results = ResultSet{Items: []Vacancy{{ID: "v1"}}, Total: 1, Index: 0}
	s.AppliedIDs["v1"] = true
	s.ApplicationID = "app-1"
	s.HasReachedResults = true

	s.partialReset()

	assert.Equal(t, StepKeywords, s.Step)
	assert.Empty(t, s.FreeTextInput)
	assert.Empty(t, s.CanonicalKeywords)
	assert.Empty(t, s.Results.Items)
	assert.Empty(t, s.AppliedIDs)
	assert.Empty(t, s.ApplicationID)
	assert.False(t, s.HasReachedResults)
	assert.True(t, s.Filters.ExactPhrase)
	assert.True(t, s.Filters.SearchInTitle)
	assert.True(t, s.Filters.DebugMode)
	assert.False(t, s.Filters.Location.Enabled, "session-scoped filters reset")
}

func TestFullResetClearsGlobalPrefs(t *testing.T) {
	s := NewSession()
	s.Filters.ExactPhrase = true
	s.Filters.SearchInTitle = true
	s.Filters.DebugMode = true

	s.fullReset()

	assert.False(t, s.Filters.ExactPhrase)
	assert.False(t, s.Filters.SearchInTitle)
	assert.False(t, s.Filters.DebugMode)
	assert.Equal(t, DefaultFilterConfig(), s.Filters)
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "keywords", StepKeywords.String())
	assert.Equal(t, "results", StepResults.String())
	assert.Equal(t, "unknown", Step(0).String())
}
