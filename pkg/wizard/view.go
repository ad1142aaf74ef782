package wizard

import "sort"

// State is the read-only copy of the session handed to the transport
// layer. Everything is deep-copied; mutating a State never touches the
// engine.
type State struct {
	Step              string       `json:"step"`
	Transition        Transition   `json:"transition"`
	FreeTextInput     string       `json:"free_text_input"`
	AISuggestions     []string     `json:"ai_suggestions"`
	PendingKeywords   []Keyword    `json:"pending_keywords"`
	CanonicalKeywords []string     `json:"canonical_keywords"`
	Filters           FilterConfig `json:"filters"`
	Results           ResultSet    `json:"results"`
	AppliedIDs        []string     `json:"applied_ids"`
	ApplicationID     string       `json:"application_id,omitempty"`
	HasReachedResults bool         `json:"has_reached_results"`
	SearchSignature   string       `json:"search_signature"`
	SaveSignature     string       `json:"save_signature"`
}

// State returns a deep copy of the current session.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.s
	applied := make([]string, 0, len(s.AppliedIDs))
	for id := range s.AppliedIDs {
		applied = append(applied, id)
	}
	sort.Strings(applied)
	return State{
		Step:              s.Step.String(),
		Transition:        s.Transition,
		FreeTextInput:     s.FreeTextInput,
		AISuggestions:     append([]string(nil), s.AISuggestions...),
		PendingKeywords:   append([]Keyword(nil), s.PendingKeywords...),
		CanonicalKeywords: append([]string(nil), s.CanonicalKeywords...),
		Filters:           s.Filters,
		Results: ResultSet{
			Items: append([]Vacancy(nil), s.Results.Items...),
			Total: s.Results.Total,
			Index: s.Results.Index,
			Stale: s.Results.Stale,
		},
		AppliedIDs:        applied,
		ApplicationID:     s.ApplicationID,
		HasReachedResults: s.HasReachedResults,
		SearchSignature:   s.SearchSignature,
		SaveSignature:     s.SaveSignature,
	}
}
