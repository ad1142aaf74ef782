package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Application persists a saved wizard session. Structured sub-documents
// (keywords, filters, vacancies) live in JSONB columns; the mapper owns
// the (de)serialization.
type Application struct {
	Id                  uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId              uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title               string         `gorm:"type:varchar(100);not null"`
	CurrentStep         int            `gorm:"not null;default:1"`
	SelectedKeywords    datatypes.JSON `gorm:"type:jsonb"`
	SuggestedKeywords   datatypes.JSON `gorm:"type:jsonb"`
	Filters             datatypes.JSON `gorm:"type:jsonb"`
	CurrentVacancyIndex int            `gorm:"not null;default:0"`
	Vacancies           datatypes.JSON `gorm:"type:jsonb"`
	TotalVacancies      int            `gorm:"not null;default:0"`
	AppliedVacancyIds   datatypes.JSON `gorm:"type:jsonb"`
	IsCompleted         bool           `gorm:"not null;default:false"`
	CreatedAt           time.Time      `gorm:"autoCreateTime"`
	UpdatedAt           *time.Time
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

func (Application) TableName() string {
	return "applications"
}
