package wizard

import (
	"context"
	"sort"
	"strings"
)

const maxTitleRunes = 60

// ApplicationRecord is the create/update payload for the external
// application storage. IsCompleted stays false for as long as the engine
// is the writer.
type ApplicationRecord struct {
	Title               string       `json:"title"`
	CurrentStep         int          `json:"currentStep"`
	SelectedKeywords    []string     `json:"selectedKeywords"`
	SuggestedKeywords   []string     `json:"suggestedKeywords"`
	Filters             FilterConfig `json:"filters"`
	CurrentVacancyIndex int          `json:"currentVacancyIndex"`
	Vacancies           []Vacancy    `json:"vacancies"`
	TotalVacancies      int          `json:"totalVacancies"`
	AppliedVacancyIds   []string     `json:"appliedVacancyIds"`
	IsCompleted         bool         `json:"isCompleted"`
}

// ApplicationStore is the application-storage collaborator. Create returns
// the server-assigned identifier; both calls are fire-and-forget from the
// engine's perspective.
type ApplicationStore interface {
	Create(ctx context.Context, record ApplicationRecord) (string, error)
	Update(ctx context.Context, id string, record ApplicationRecord) error
}

// BuildRecord projects a session onto the persistence payload.
func BuildRecord(s *Session) ApplicationRecord {
	applied := make([]string, 0, len(s.AppliedIDs))
	for id := range s.AppliedIDs {
		applied = append(applied, id)
	}
	sort.Strings(applied)
	return ApplicationRecord{
		Title:               titleFromKeywords(s.CanonicalKeywords),
		CurrentStep:         int(s.Step),
		SelectedKeywords:    append([]string(nil), s.CanonicalKeywords...),
		SuggestedKeywords:   append([]string(nil), s.AISuggestions...),
		Filters:             s.Filters,
		CurrentVacancyIndex: s.Results.Index,
		Vacancies:           append([]Vacancy(nil), s.Results.Items...),
		TotalVacancies:      s.Results.Total,
		AppliedVacancyIds:   applied,
		IsCompleted:         false,
	}
}

// titleFromKeywords derives the record title from the committed keywords,
// capped at 60 runes and never empty.
func titleFromKeywords(keywords []string) string {
	title := strings.Join(keywords, ", ")
	if title == "" {
		return "Job search"
	}
	if runes := []rune(title); len(runes) > maxTitleRunes {
		title = string(runes[:maxTitleRunes-1]) + "…"
	}
	return title
}

// SaveView captures a consistent persistence view of the session under the
// engine lock. The auto-saver consumes it at flush time.
func (e *Engine) SaveView() SaveView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return SaveView{
		Eligible:      e.s.HasReachedResults && len(e.s.CanonicalKeywords) > 0,
		Signature:     e.s.SaveSignature,
		ApplicationID: e.s.ApplicationID,
		Record:        BuildRecord(e.s),
		Epoch:         e.epoch,
	}
}

// AdoptApplicationID stores the server-assigned identifier the first time
// a create call returns one. A stale epoch means the session was reset
// while the save was in flight; the identifier belongs to state that no
// longer exists and is dropped.
func (e *Engine) AdoptApplicationID(id string, epoch uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id == "" || e.s.ApplicationID != "" || epoch != e.epoch {
		return
	}
	e.s.ApplicationID = id
}

// RestoreFromRecord rehydrates the session from a previously saved
// application: the "continue application" path. Older records run through
// the filter migration and the index is clamped to the restored window.
func (e *Engine) RestoreFromRecord(id string, record ApplicationRecord) {
	e.mutate(func(s *Session) {
		step := Step(record.CurrentStep)
		if step < StepKeywords || step > StepResults {
			step = StepKeywords
		}
		s.Step = step
		s.Transition = Transition{}
		s.CanonicalKeywords = normalizedKeywords(record.SelectedKeywords)
		s.PendingKeywords = nil
		for _, kw := range s.CanonicalKeywords {
			s.PendingKeywords = append(s.PendingKeywords, Keyword{Text: kw, Source: SourceVerified})
		}
		s.AISuggestions = append([]string(nil), record.SuggestedKeywords...)
		s.Filters = MigrateFilterConfig(record.Filters)
		s.Results = ResultSet{
			Items: append([]Vacancy(nil), record.Vacancies...),
			Total: record.TotalVacancies,
			Index: record.CurrentVacancyIndex,
		}
		s.Results.clampIndex()
		s.AppliedIDs = map[string]bool{}
		for _, applied := range record.AppliedVacancyIds {
			s.AppliedIDs[applied] = true
		}
		s.ApplicationID = id
		s.HasReachedResults = step == StepResults
		// The restored results are the acted-upon state for the restored
		// inputs until the next commit.
		s.recomputeSignatures()
		s.LastAppliedSearchSig = s.SearchSignature
	})
}
