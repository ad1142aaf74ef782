package entity

import (
	"time"

	"github.com/google/uuid"

	"job-wizard-be/pkg/wizard"
)

// Application is a saved wizard session: the record the auto-saver writes
// and "continue application" reads back.
type Application struct {
	Id                  uuid.UUID
	UserId              uuid.UUID
	Title               string
	CurrentStep         int
	SelectedKeywords    []string
	SuggestedKeywords   []string
	Filters             wizard.FilterConfig
	CurrentVacancyIndex int
	Vacancies           []wizard.Vacancy
	TotalVacancies      int
	AppliedVacancyIds   []string
	IsCompleted         bool
	CreatedAt           time.Time
	UpdatedAt           *time.Time
}
