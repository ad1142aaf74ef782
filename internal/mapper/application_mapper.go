package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"job-wizard-be/internal/entity"
	"job-wizard-be/internal/model"
	"job-wizard-be/pkg/wizard"
)

type ApplicationMapper struct{}

func NewApplicationMapper() *ApplicationMapper {
	return &ApplicationMapper{}
}

func (m *ApplicationMapper) ToEntity(a *model.Application) *entity.Application {
	if a == nil {
		return nil
	}
	e := &entity.Application{
		Id:                  a.Id,
		UserId:              a.UserId,
		Title:               a.Title,
		CurrentStep:         a.CurrentStep,
		CurrentVacancyIndex: a.CurrentVacancyIndex,
		TotalVacancies:      a.TotalVacancies,
		IsCompleted:         a.IsCompleted,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
	// Tolerate malformed JSON from older records: the zero value is a
	// valid (empty) state for every column.
	_ = json.Unmarshal(a.SelectedKeywords, &e.SelectedKeywords)
	_ = json.Unmarshal(a.SuggestedKeywords, &e.SuggestedKeywords)
	_ = json.Unmarshal(a.Vacancies, &e.Vacancies)
	_ = json.Unmarshal(a.AppliedVacancyIds, &e.AppliedVacancyIds)
	var filters wizard.FilterConfig
	if err := json.Unmarshal(a.Filters, &filters); err == nil {
		e.Filters = wizard.MigrateFilterConfig(filters)
	} else {
		e.Filters = wizard.DefaultFilterConfig()
	}
	return e
}

func (m *ApplicationMapper) ToModel(e *entity.Application) *model.Application {
	if e == nil {
		return nil
	}
	selected, _ := json.Marshal(e.SelectedKeywords)
	suggested, _ := json.Marshal(e.SuggestedKeywords)
	filters, _ := json.Marshal(e.Filters)
	vacancies, _ := json.Marshal(e.Vacancies)
	applied, _ := json.Marshal(e.AppliedVacancyIds)
	return &model.Application{
		Id:                  e.Id,
		UserId:              e.UserId,
		Title:               e.Title,
		CurrentStep:         e.CurrentStep,
		SelectedKeywords:    datatypes.JSON(selected),
		SuggestedKeywords:   datatypes.JSON(suggested),
		Filters:             datatypes.JSON(filters),
		CurrentVacancyIndex: e.CurrentVacancyIndex,
		Vacancies:           datatypes.JSON(vacancies),
		TotalVacancies:      e.TotalVacancies,
		AppliedVacancyIds:   datatypes.JSON(applied),
		IsCompleted:         e.IsCompleted,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

func (m *ApplicationMapper) ToEntities(models []*model.Application) []*entity.Application {
	entities := make([]*entity.Application, len(models))
	for i, a := range models {
		entities[i] = m.ToEntity(a)
	}
	return entities
}
