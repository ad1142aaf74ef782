package wizard

import "sort"

// Snapshot is the subset of session state that survives a client reload,
// distinct from the server-side application record. It round-trips through
// the snapshot store as JSON.
type Snapshot struct {
	FreeTextInput        string       `json:"free_text_input"`
	PendingKeywords      []Keyword    `json:"pending_keywords"`
	CanonicalKeywords    []string     `json:"canonical_keywords"`
	Filters              FilterConfig `json:"filters"`
	Step                 int          `json:"step"`
	ApplicationID        string       `json:"application_id"`
	Index                int          `json:"index"`
	Total                int          `json:"total"`
	AppliedIDs           []string     `json:"applied_ids"`
	HasReachedResults    bool         `json:"has_reached_results"`
	SearchSignature      string       `json:"search_signature"`
	LastAppliedSearchSig string       `json:"last_applied_search_sig"`
	SaveSignature        string       `json:"save_signature"`
}

// Snapshot captures the reload-survivable subset of the session.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.s
	applied := make([]string, 0, len(s.AppliedIDs))
	for id := range s.AppliedIDs {
		applied = append(applied, id)
	}
	sort.Strings(applied)
	return Snapshot{
		FreeTextInput:        s.FreeTextInput,
		PendingKeywords:      append([]Keyword(nil), s.PendingKeywords...),
		CanonicalKeywords:    append([]string(nil), s.CanonicalKeywords...),
		Filters:              s.Filters,
		Step:                 int(s.Step),
		ApplicationID:        s.ApplicationID,
		Index:                s.Results.Index,
		Total:                s.Results.Total,
		AppliedIDs:           applied,
		HasReachedResults:    s.HasReachedResults,
		SearchSignature:      s.SearchSignature,
		LastAppliedSearchSig: s.LastAppliedSearchSig,
		SaveSignature:        s.SaveSignature,
	}
}

// RestoreSnapshot rehydrates the reload-survivable subset. Result items
// are not part of the snapshot; the Results stage refetches them from the
// still-warm query cache or from upstream.
func (e *Engine) RestoreSnapshot(snap Snapshot) {
	e.mutate(func(s *Session) {
		step := Step(snap.Step)
		if step < StepKeywords || step > StepResults {
			step = StepKeywords
		}
		s.Step = step
		s.Transition = Transition{}
		s.FreeTextInput = snap.FreeTextInput
		s.PendingKeywords = append([]Keyword(nil), snap.PendingKeywords...)
		s.CanonicalKeywords = append([]string(nil), snap.CanonicalKeywords...)
		s.Filters = MigrateFilterConfig(snap.Filters)
		s.Results = ResultSet{Total: snap.Total, Index: snap.Index}
		s.AppliedIDs = map[string]bool{}
		for _, id := range snap.AppliedIDs {
			s.AppliedIDs[id] = true
		}
		s.ApplicationID = snap.ApplicationID
		s.HasReachedResults = snap.HasReachedResults
		s.LastAppliedSearchSig = ""
	})
}
