package wizard

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

var (
	ErrTransitionInProgress = errors.New("a step transition is already in progress")
	ErrNoKeywords           = errors.New("at least one keyword must be selected")
	ErrKeywordLimit         = errors.New("keyword limit reached")
	ErrDuplicateKeyword     = errors.New("keyword already selected")
	ErrEmptyKeyword         = errors.New("keyword text is empty")
	ErrConfirmationRequired = errors.New("backward navigation requires confirmation")
	ErrNoFurtherStep        = errors.New("no further step in this direction")
)

// Config tunes an Engine. Zero values fall back to production defaults.
type Config struct {
	MaxKeywords        int
	TransitionDuration time.Duration
}

// Engine owns one Session for the lifetime of a client session. All
// mutations go through its methods; signature recomputation happens
// synchronously under the lock, so a save or fetch is never scheduled
// against a stale signature. Events are published after the lock is
// released to keep the bus handoff out of the critical section.
type Engine struct {
	mu  sync.Mutex
	s   *Session
	bus *gochannel.GoChannel
	inv *Invalidator
	cfg Config

	// epoch increments on every reset so late results of superseded
	// async work can be detected and discarded.
	epoch uint64
}

type pendingEvent struct {
	topic   string
	payload interface{}
}

// NewEngine builds an engine around a fresh session. purger may be nil
// when no caches are attached (tests).
func NewEngine(cfg Config, purger CachePurger) *Engine {
	if cfg.MaxKeywords <= 0 {
		cfg.MaxKeywords = 3
	}
	if cfg.TransitionDuration <= 0 {
		cfg.TransitionDuration = 4 * time.Second
	}
	e := &Engine{
		s:   NewSession(),
		bus: NewBus(),
		inv: NewInvalidator(purger),
		cfg: cfg,
	}
	e.inv.Arm(e.s)
	return e
}

// Bus exposes the engine's event channel for subscribers (auto-saver,
// transport relays).
func (e *Engine) Bus() *gochannel.GoChannel {
	return e.bus
}

// Close tears the engine down. Pending subscriptions drain and stop.
func (e *Engine) Close() {
	_ = e.bus.Close()
}

// mutate runs fn under the lock, recomputes both signatures and publishes
// the resulting events once the lock is released.
func (e *Engine) mutate(fn func(s *Session)) {
	e.mu.Lock()
	events := e.applyLocked(fn)
	e.mu.Unlock()
	e.emit(events)
}

func (e *Engine) applyLocked(fn func(s *Session)) []pendingEvent {
	prevSave := e.s.SaveSignature
	fn(e.s)
	e.s.recomputeSignatures()
	e.inv.Arm(e.s)
	var events []pendingEvent
	if e.s.SaveSignature != prevSave {
		events = append(events, pendingEvent{TopicSignatureChanged, SignatureChangedEvent{SaveSignature: e.s.SaveSignature}})
	}
	if e.inv.Refresh(e.s) {
		events = append(events, pendingEvent{TopicResultsStale, ResultsStaleEvent{SearchHash: SignatureHash(e.s.SearchSignature)}})
	}
	return events
}

func (e *Engine) emit(events []pendingEvent) {
	for _, ev := range events {
		publishJSON(e.bus, ev.topic, ev.payload)
	}
}

// SetFreeText records the user's search intent text.
func (e *Engine) SetFreeText(text string) {
	e.mutate(func(s *Session) {
		s.FreeTextInput = text
	})
}

// SetSuggestions replaces the AI suggestion list wholesale.
func (e *Engine) SetSuggestions(items []string) {
	e.mutate(func(s *Session) {
		s.AISuggestions = append([]string(nil), items...)
	})
}

// SelectKeyword adds a pending keyword selection. The pending set holds at
// most MaxKeywords entries and no case-insensitive duplicates.
func (e *Engine) SelectKeyword(text string, source KeywordSource) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyKeyword
	}
	e.mu.Lock()
	if len(e.s.PendingKeywords) >= e.cfg.MaxKeywords {
		e.mu.Unlock()
		return ErrKeywordLimit
	}
	if hasPendingDuplicate(e.s.PendingKeywords, text) {
		e.mu.Unlock()
		return ErrDuplicateKeyword
	}
	events := e.applyLocked(func(s *Session) {
		s.PendingKeywords = append(s.PendingKeywords, Keyword{Text: text, Source: source})
	})
	e.mu.Unlock()
	e.emit(events)
	return nil
}

// RemoveKeyword drops a pending keyword by text, ignoring case.
func (e *Engine) RemoveKeyword(text string) {
	lower := strings.ToLower(strings.TrimSpace(text))
	e.mutate(func(s *Session) {
		kept := s.PendingKeywords[:0]
		for _, kw := range s.PendingKeywords {
			if strings.ToLower(strings.TrimSpace(kw.Text)) != lower {
				kept = append(kept, kw)
			}
		}
		s.PendingKeywords = kept
	})
}

// GoNext begins the forward transition from the current step. The step
// itself only changes when CompleteTransition runs. The Confirm->Filters
// edge is where the pending keywords are committed.
func (e *Engine) GoNext() (Transition, error) {
	e.mu.Lock()
	if e.s.Transition.InProgress {
		e.mu.Unlock()
		return Transition{}, ErrTransitionInProgress
	}
	if e.s.Step >= StepResults {
		e.mu.Unlock()
		return Transition{}, ErrNoFurtherStep
	}
	if (e.s.Step == StepKeywords || e.s.Step == StepConfirm) && len(e.s.PendingKeywords) == 0 {
		e.mu.Unlock()
		return Transition{}, ErrNoKeywords
	}
	from, to := e.s.Step, e.s.Step+1
	events := e.applyLocked(func(s *Session) {
		s.Transition = Transition{From: from, To: to, InProgress: true}
		if from == StepConfirm {
			s.CanonicalKeywords = canonicalizeKeywords(s.PendingKeywords)
			s.Results.Index = 0
			s.LastAppliedSearchSig = ""
		}
	})
	transition := e.s.Transition
	e.mu.Unlock()
	e.emit(events)
	return transition, nil
}

// GoBack begins the backward transition. Once the session has reached the
// Results stage, going back discards search context and must be confirmed.
func (e *Engine) GoBack(confirmed bool) (Transition, error) {
	e.mu.Lock()
	if e.s.Transition.InProgress {
		e.mu.Unlock()
		return Transition{}, ErrTransitionInProgress
	}
	if e.s.Step <= StepKeywords {
		e.mu.Unlock()
		return Transition{}, ErrNoFurtherStep
	}
	if e.s.HasReachedResults && !confirmed {
		e.mu.Unlock()
		return Transition{}, ErrConfirmationRequired
	}
	from, to := e.s.Step, e.s.Step-1
	events := e.applyLocked(func(s *Session) {
		s.Transition = Transition{From: from, To: to, InProgress: true}
	})
	transition := e.s.Transition
	e.mu.Unlock()
	e.emit(events)
	return transition, nil
}

// CompleteTransition atomically lands the pending transition: the step
// becomes the target and the transition clears. First arrival at Results
// opens the auto-save gate.
func (e *Engine) CompleteTransition() {
	e.mutate(func(s *Session) {
		if !s.Transition.InProgress {
			return
		}
		s.Step = s.Transition.To
		s.Transition = Transition{}
		if s.Step == StepResults {
			s.HasReachedResults = true
		}
	})
}

// SetFilters replaces the filter configuration.
func (e *Engine) SetFilters(f FilterConfig) {
	f.Version = CurrentFilterVersion
	e.mutate(func(s *Session) {
		s.Filters = f
	})
}

// SetResults replaces the result window wholesale: index resets, the
// stale flag clears and the current search signature becomes the last
// applied one.
func (e *Engine) SetResults(items []Vacancy, total int) {
	if total < 0 {
		total = 0
	}
	e.mutate(func(s *Session) {
		s.Results = ResultSet{
			Items: append([]Vacancy(nil), items...),
			Total: total,
		}
		s.LastAppliedSearchSig = s.SearchSignature
	})
}

// Advance moves the viewing index by delta, clamped to the result window,
// and returns the landing index.
func (e *Engine) Advance(delta int) int {
	var index int
	e.mutate(func(s *Session) {
		s.Results.Index += delta
		s.Results.clampIndex()
		index = s.Results.Index
	})
	return index
}

// MarkApplied records a listing the user applied to. Append-only within a
// session.
func (e *Engine) MarkApplied(vacancyID string) {
	if vacancyID == "" {
		return
	}
	e.mutate(func(s *Session) {
		s.AppliedIDs[vacancyID] = true
	})
}

// StartNewSearch purges all derived caches and partially resets the
// session, keeping user-global preferences. The caller is expected to have
// obtained the user's confirmation.
func (e *Engine) StartNewSearch() {
	e.mu.Lock()
	e.epoch++
	events := e.applyLocked(func(s *Session) {
		e.inv.PurgeAndReset(s)
	})
	e.mu.Unlock()
	e.emit(events)
}

// FullReset clears the session including user-global preferences. Used on
// logout.
func (e *Engine) FullReset() {
	e.mu.Lock()
	e.epoch++
	events := e.applyLocked(func(s *Session) {
		e.inv.purge()
		s.fullReset()
	})
	e.mu.Unlock()
	e.emit(events)
}

// InterceptBack handles the platform back-navigation signal. While a
// guarded step is active the default navigation is suppressed and the user
// is asked to confirm; confirming runs the same purge-and-reset path as a
// new search, declining re-arms the interception.
func (e *Engine) InterceptBack(confirmed bool) (confirmationRequired bool) {
	e.mu.Lock()
	if !e.inv.Armed() {
		e.mu.Unlock()
		return false
	}
	if !confirmed {
		e.mu.Unlock()
		return true
	}
	e.epoch++
	events := e.applyLocked(func(s *Session) {
		e.inv.PurgeAndReset(s)
	})
	e.mu.Unlock()
	e.emit(events)
	return false
}

// TransitionDuration returns how long the UI should hold the transition
// view before calling CompleteTransition.
func (e *Engine) TransitionDuration(from, to Step) time.Duration {
	return e.cfg.TransitionDuration
}

// transitionMessages maps a (from, to) edge to the user-facing copy shown
// while the transition view is up.
var transitionMessages = map[[2]Step]string{
	{StepKeywords, StepConfirm}: "Checking your keywords...",
	{StepConfirm, StepFilters}:  "Locking in your search...",
	{StepFilters, StepResults}:  "Finding matching vacancies...",
	{StepResults, StepFilters}:  "Back to filters...",
	{StepFilters, StepConfirm}:  "Back to your keywords...",
	{StepConfirm, StepKeywords}: "Starting over...",
}

// TransitionMessage returns the copy for a (from, to) edge.
func TransitionMessage(from, to Step) string {
	if msg, ok := transitionMessages[[2]Step{from, to}]; ok {
		return msg
	}
	return "Working..."
}
