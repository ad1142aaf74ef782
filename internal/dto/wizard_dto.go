package dto

import (
	"job-wizard-be/pkg/wizard"
)

type StartSessionRequest struct {
	// ApplicationId resumes a saved application; empty starts fresh.
	ApplicationId string `json:"application_id"`
}

type FreeTextRequest struct {
	Text string `json:"text" validate:"max=500"`
}

type SelectKeywordRequest struct {
	Text   string `json:"text" validate:"required"`
	Source string `json:"source" validate:"omitempty,oneof=ai-suggested externally-verified user-custom"`
}

type SuggestResponse struct {
	Keywords []wizard.Keyword `json:"keywords"`
}

type FiltersRequest struct {
	Filters wizard.FilterConfig `json:"filters" validate:"required"`
}

type ResetRequest struct {
	Scope string `json:"scope" validate:"required,oneof=partial full"`
}

type BackRequest struct {
	Confirmed bool `json:"confirmed"`
}

type HistoryBackResponse struct {
	ConfirmationRequired bool          `json:"confirmation_required"`
	State                *wizard.State `json:"state,omitempty"`
}

type TransitionResponse struct {
	Message  string        `json:"message"`
	Duration int64         `json:"duration_ms"`
	State    *wizard.State `json:"state"`
}

type SearchResponse struct {
	State     *wizard.State `json:"state"`
	FromCache bool          `json:"from_cache"`
}
