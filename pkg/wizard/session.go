package wizard

import (
	"sort"
	"strings"
)

// Step is one of the four ordered wizard stages.
type Step int

const (
	StepKeywords Step = iota + 1
	StepConfirm
	StepFilters
	StepResults
)

func (s Step) String() string {
	switch s {
	case StepKeywords:
		return "keywords"
	case StepConfirm:
		return "confirm"
	case StepFilters:
		return "filters"
	case StepResults:
		return "results"
	}
	return "unknown"
}

// Transition is the in-flight step change. While InProgress is set the UI
// renders a transition view and Step must not be read as authoritative.
type Transition struct {
	From       Step `json:"from"`
	To         Step `json:"to"`
	InProgress bool `json:"in_progress"`
}

// KeywordSource records where a pending keyword selection came from.
type KeywordSource string

const (
	SourceAISuggested KeywordSource = "ai-suggested"
	SourceVerified    KeywordSource = "externally-verified"
	SourceCustom      KeywordSource = "user-custom"
)

// Keyword is a pending keyword selection tagged with provenance.
type Keyword struct {
	Text   string        `json:"text"`
	Source KeywordSource `json:"source"`
}

// Vacancy is the listing summary the wizard keeps per result. It is a
// projection of the upstream payload, small enough to persist wholesale.
type Vacancy struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Employer    string `json:"employer"`
	Area        string `json:"area"`
	Salary      string `json:"salary"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
}

// ResultSet holds the fetched listings, the upstream total and the current
// viewing index. Index is clamped to [0, len) whenever Items is non-empty
// and reset to 0 whenever Items is replaced.
type ResultSet struct {
	Items []Vacancy `json:"items"`
	Total int       `json:"total"`
	Index int       `json:"index"`
	Stale bool      `json:"stale"`
}

// Session is the root aggregate for one wizard run. It is owned by an
// Engine and mutated only through the Engine's operations.
type Session struct {
	Step       Step
	Transition Transition

	FreeTextInput     string
	AISuggestions     []string
	PendingKeywords   []Keyword
	CanonicalKeywords []string

	Filters FilterConfig
	Results ResultSet

	AppliedIDs map[string]bool

	ApplicationID     string
	HasReachedResults bool

	SearchSignature      string
	LastAppliedSearchSig string
	SaveSignature        string
}

// NewSession returns a fresh session at the Keywords step.
func NewSession() *Session {
	s := &Session{
		Step:       StepKeywords,
		Filters:    DefaultFilterConfig(),
		AppliedIDs: map[string]bool{},
	}
	s.recomputeSignatures()
	return s
}

func (s *Session) recomputeSignatures() {
	s.SearchSignature = ComputeSearchSignature(s)
	s.SaveSignature = ComputeSaveSignature(s)
}

// canonicalizeKeywords derives the committed keyword set from the pending
// selections: trim, drop empties, dedupe case-insensitively keeping the
// first occurrence, sort case-insensitively.
func canonicalizeKeywords(pending []Keyword) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(pending))
	for _, kw := range pending {
		text := strings.TrimSpace(kw.Text)
		if text == "" {
			continue
		}
		lower := strings.ToLower(text)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, lower)
	}
	sort.Strings(out)
	return out
}

// hasPendingDuplicate reports whether text already appears in the pending
// set, ignoring case.
func hasPendingDuplicate(pending []Keyword, text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, kw := range pending {
		if strings.ToLower(strings.TrimSpace(kw.Text)) == lower {
			return true
		}
	}
	return false
}

// clampIndex keeps the viewing index inside the result window.
func (r *ResultSet) clampIndex() {
	if len(r.Items) == 0 {
		r.Index = 0
		return
	}
	if r.Index < 0 {
		r.Index = 0
	}
	if r.Index >= len(r.Items) {
		r.Index = len(r.Items) - 1
	}
}

// partialReset clears session-scoped state but keeps user-global
// preferences. Used by "start a new search" and confirmed back-navigation.
func (s *Session) partialReset() {
	prefs := s.Filters
	s.Step = StepKeywords
	s.Transition = Transition{}
	s.FreeTextInput = ""
	s.AISuggestions = nil
	s.PendingKeywords = nil
	s.CanonicalKeywords = nil
	s.Filters = prefs.keepGlobalPrefs(DefaultFilterConfig())
	s.Results = ResultSet{}
	s.AppliedIDs = map[string]bool{}
	s.ApplicationID = ""
	s.HasReachedResults = false
	s.LastAppliedSearchSig = ""
	s.recomputeSignatures()
}

// fullReset clears everything, preferences included. Used on logout.
func (s *Session) fullReset() {
	s.Filters = DefaultFilterConfig()
	s.partialReset()
}
