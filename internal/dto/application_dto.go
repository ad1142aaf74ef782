package dto

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationListItem struct {
	Id             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	CurrentStep    int        `json:"current_step"`
	TotalVacancies int        `json:"total_vacancies"`
	AppliedCount   int        `json:"applied_count"`
	IsCompleted    bool       `json:"is_completed"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}

type ApplicationListResponse struct {
	Items []ApplicationListItem `json:"items"`
	Total int64                 `json:"total"`
}

type ShowApplicationResponse struct {
	Id                  uuid.UUID  `json:"id"`
	Title               string     `json:"title"`
	CurrentStep         int        `json:"current_step"`
	SelectedKeywords    []string   `json:"selected_keywords"`
	SuggestedKeywords   []string   `json:"suggested_keywords"`
	CurrentVacancyIndex int        `json:"current_vacancy_index"`
	TotalVacancies      int        `json:"total_vacancies"`
	AppliedVacancyIds   []string   `json:"applied_vacancy_ids"`
	IsCompleted         bool       `json:"is_completed"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at"`
}
