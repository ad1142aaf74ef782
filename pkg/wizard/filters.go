package wizard

// CurrentFilterVersion is bumped whenever a dimension is added to
// FilterConfig. MigrateFilterConfig backfills records saved under an
// older version.
const CurrentFilterVersion = 2

// StringFilter is a single-valued filter dimension. Enabled is decoupled
// from Value so a value survives being toggled off.
type StringFilter struct {
	Enabled bool   `json:"enabled"`
	Value   string `json:"value"`
}

// ListFilter is a multi-valued filter dimension.
type ListFilter struct {
	Enabled bool     `json:"enabled"`
	Values  []string `json:"values"`
}

// SalaryFilter carries the desired salary floor plus the upstream
// "only with salary" toggle.
type SalaryFilter struct {
	Enabled        bool `json:"enabled"`
	Amount         int  `json:"amount"`
	OnlyWithSalary bool `json:"only_with_salary"`
}

// FilterConfig is the closed set of search filter dimensions. It replaces
// the loose key/value bag older clients persisted; unknown keys from those
// records are simply dropped on load.
type FilterConfig struct {
	Version    int          `json:"version"`
	Location   StringFilter `json:"location"`
	Experience StringFilter `json:"experience"`
	Employment ListFilter   `json:"employment"`
	Schedule   ListFilter   `json:"schedule"`
	Salary     SalaryFilter `json:"salary"`
	Metro      StringFilter `json:"metro"`
	Labels     ListFilter   `json:"labels"`
	Education  StringFilter `json:"education"`
	WorkFormat ListFilter   `json:"work_format"`
	Ordering   StringFilter `json:"ordering"`

	// User-global preferences. A partial reset keeps these; only a full
	// reset clears them.
	ExactPhrase   bool `json:"exact_phrase"`
	SearchInTitle bool `json:"search_in_title"`
	DebugMode     bool `json:"debug_mode"`
}

// DefaultFilterConfig returns the configuration a fresh session starts with.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		Version:  CurrentFilterVersion,
		Ordering: StringFilter{Enabled: true, Value: "relevance"},
	}
}

// MigrateFilterConfig backfills dimensions absent from records persisted
// under an older filter version. It never touches dimensions the record
// already carries.
func MigrateFilterConfig(f FilterConfig) FilterConfig {
	if f.Version >= CurrentFilterVersion {
		return f
	}
	if f.Version < 1 {
		// v0 records predate explicit ordering.
		if f.Ordering.Value == "" {
			f.Ordering = StringFilter{Enabled: true, Value: "relevance"}
		}
	}
	if f.Version < 2 {
		// v1 records predate the work-format dimension; leave it disabled
		// with no values rather than guessing.
		if f.WorkFormat.Values == nil {
			f.WorkFormat = ListFilter{}
		}
	}
	f.Version = CurrentFilterVersion
	return f
}

// keepGlobalPrefs copies the user-global toggles from an old config onto a
// fresh one. Used by the partial reset path.
func (f FilterConfig) keepGlobalPrefs(fresh FilterConfig) FilterConfig {
	fresh.ExactPhrase = f.ExactPhrase
	fresh.SearchInTitle = f.SearchInTitle
	fresh.DebugMode = f.DebugMode
	return fresh
}
