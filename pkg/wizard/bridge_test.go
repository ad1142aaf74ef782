package wizard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRecord(t *testing.T) {
	s := NewSession()
	s.Step = StepResults
	s.CanonicalKeywords = []string{"backend", "go"}
	s.AISuggestions = []string{"golang", "gopher"}
	s.Results = ResultSet{Items: []Vacancy{{ID: "v1"}, {ID: "v2"}}, Total: 40, Index: 1}
	s.AppliedIDs = map[string]bool{"v2": true, "v1": true}

	record := BuildRecord(s)
	assert.Equal(t, "backend, go", record.Title)
	assert.Equal(t, 4, record.CurrentStep)
	assert.Equal(t, []string{"backend", "go"}, record.SelectedKeywords)
	assert.Equal(t, []string{"golang", "gopher"}, record.SuggestedKeywords)
	assert.Equal(t, 1, record.CurrentVacancyIndex)
	assert.Equal(t, 40, record.TotalVacancies)
	assert.Equal(t, []string{"v1", "v2"}, record.AppliedVacancyIds, "applied ids are sorted")
	assert.False(t, record.IsCompleted)
}

func TestTitleFromKeywords(t *testing.T) {
	assert.Equal(t, "Job search", titleFromKeywords(nil))
	assert.Equal(t, "go", titleFromKeywords([]string{"go"}))

	long := titleFromKeywords([]string{strings.Repeat("x", 100)})
	assert.Equal(t, maxTitleRunes, len([]rune(long)))
	assert.True(t, strings.HasSuffix(long, "…"))
}

func TestMigrateFilterConfigBackfillsOrdering(t *testing.T) {
	migrated := MigrateFilterConfig(FilterConfig{Version: 0})
	assert.Equal(t, CurrentFilterVersion, migrated.Version)
	assert.Equal(t, StringFilter{Enabled: true, Value: "relevance"}, migrated.Ordering)
}

func TestMigrateFilterConfigKeepsExistingDimensions(t *testing.T) {
	in := FilterConfig{
		Version:  1,
		Ordering: StringFilter{Enabled: true, Value: "publication_time"},
		Location: StringFilter{Enabled: true, Value: "1"},
	}
	migrated := MigrateFilterConfig(in)
	assert.Equal(t, CurrentFilterVersion, migrated.Version)
	assert.Equal(t, "publication_time", migrated.Ordering.Value)
	assert.Equal(t, "1", migrated.Location.Value)
	assert.False(t, migrated.WorkFormat.Enabled)
}

func TestMigrateFilterConfigCurrentVersionUntouched(t *testing.T) {
	in := DefaultFilterConfig()
	in.ExactPhrase = true
	assert.Equal(t, in, MigrateFilterConfig(in))
}
