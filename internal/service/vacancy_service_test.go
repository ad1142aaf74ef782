package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"job-wizard-be/pkg/wizard"
)

func TestBuildQueryJoinsKeywords(t *testing.T) {
	state := wizard.State{
		CanonicalKeywords: []string{"go", "backend"},
		Filters:           wizard.DefaultFilterConfig(),
	}
	q := buildQuery(state, 2)
	assert.Equal(t, "go OR backend", q.Text)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, searchPageSize, q.PerPage)
	assert.Empty(t, q.OrderBy, "relevance is the upstream default and is omitted")
}

func TestBuildQueryExactPhraseSingleKeywordOnly(t *testing.T) {
	filters := wizard.DefaultFilterConfig()
	filters.ExactPhrase = true

	single := wizard.State{CanonicalKeywords: []string{"go developer"}, Filters: filters}
	assert.Equal(t, `"go developer"`, buildQuery(single, 0).Text)

	multi := wizard.State{CanonicalKeywords: []string{"go", "java"}, Filters: filters}
	assert.Equal(t, "go OR java", buildQuery(multi, 0).Text)
}

func TestBuildQuerySearchInTitle(t *testing.T) {
	filters := wizard.DefaultFilterConfig()
	filters.SearchInTitle = true
	state := wizard.State{CanonicalKeywords: []string{"go"}, Filters: filters}
	assert.Equal(t, "NAME:(go)", buildQuery(state, 0).Text)
}

func TestBuildQuerySkipsDisabledDimensions(t *testing.T) {
	filters := wizard.DefaultFilterConfig()
	filters.Location = wizard.StringFilter{Enabled: false, Value: "1"}
	filters.Salary = wizard.SalaryFilter{Enabled: true, Amount: 150000, OnlyWithSalary: true}
	filters.Employment = wizard.ListFilter{Enabled: true, Values: []string{"full"}}
	filters.Ordering = wizard.StringFilter{Enabled: true, Value: "publication_time"}

	q := buildQuery(wizard.State{Filters: filters}, 0)
	assert.Empty(t, q.Area)
	assert.Equal(t, 150000, q.Salary)
	assert.True(t, q.OnlyWithSalary)
	assert.Equal(t, []string{"full"}, q.Employment)
	assert.Equal(t, "publication_time", q.OrderBy)
}

func TestParseSuggestions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "plain array",
			raw:  `["go", "backend"]`,
			want: []string{"go", "backend"},
		},
		{
			name: "fenced with prose",
			raw:  "Here you go:\n```json\n[\"go\", \"devops\"]\n```",
			want: []string{"go", "devops"},
		},
		{
			name: "dedupes case-insensitively",
			raw:  `["Go", "go", "GO", "java"]`,
			want: []string{"Go", "java"},
		},
		{
			name: "drops blanks",
			raw:  `["", "  ", "go"]`,
			want: []string{"go"},
		},
		{
			name: "caps at the limit",
			raw:  `["a","b","c","d","e","f","g","h","i","j"]`,
			want: []string{"a", "b", "c", "d", "e", "f", "g", "h"},
		},
		{
			name: "no array",
			raw:  "sorry, I cannot help with that",
			want: nil,
		},
		{
			name: "malformed json",
			raw:  `["go", "backend"`,
			want: nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := parseSuggestions(tc.raw)
			if tc.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}
