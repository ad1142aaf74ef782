package wizard

// CachePurger is the hook into the derived caches (listing queries, AI
// suggestions). Only the Invalidator ever calls it; no other component may
// evict those caches.
type CachePurger interface {
	PurgeAll()
}

// Invalidator keeps the displayed results consistent with the committed
// keywords and filters, and owns the back-navigation interception state.
type Invalidator struct {
	purger CachePurger
	armed  bool
}

func NewInvalidator(purger CachePurger) *Invalidator {
	return &Invalidator{purger: purger}
}

// Arm re-evaluates the interception guard: back navigation is intercepted
// while the session sits on any step past Keywords.
func (iv *Invalidator) Arm(s *Session) {
	iv.armed = s.Step == StepConfirm || s.Step == StepFilters || s.Step == StepResults
}

// Armed reports whether the back-navigation signal is currently
// intercepted.
func (iv *Invalidator) Armed() bool {
	return iv.armed
}

// Refresh compares the current search signature against the last one
// results were fetched for and flips the stale flag on divergence. It
// returns true only on a fresh false->true flip so callers can emit one
// event per divergence.
func (iv *Invalidator) Refresh(s *Session) bool {
	if len(s.Results.Items) == 0 && s.LastAppliedSearchSig == "" {
		return false
	}
	stale := SignatureHash(s.SearchSignature) != SignatureHash(s.LastAppliedSearchSig)
	wasStale := s.Results.Stale
	s.Results.Stale = stale
	return stale && !wasStale
}

// PurgeAndReset is the confirmed "new search" / confirmed back-navigation
// path: all derived caches are discarded, then the session is partially
// reset, keeping user-global preferences.
func (iv *Invalidator) PurgeAndReset(s *Session) {
	iv.purge()
	s.partialReset()
}

func (iv *Invalidator) purge() {
	if iv.purger != nil {
		iv.purger.PurgeAll()
	}
}
