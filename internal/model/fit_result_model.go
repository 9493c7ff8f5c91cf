package model

import (
	"time"

	"github.com/google/uuid"
)

// FitResult is one aggregated scoring outcome for a job. One row is written per
// assessment submission; history accumulates in creation order. Strengths and
// gaps are computed at submission time and returned to the caller but are not
// persisted here.
type FitResult struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	JobID     uuid.UUID `gorm:"type:uuid;index;not null" json:"job_id"`
	FitScore  float64   `gorm:"type:float;not null" json:"fit_score"` // percentage, 0..100
	Category  string    `gorm:"type:varchar(50)" json:"category"`
	Summary   string    `gorm:"type:text" json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *FitResult) TableName() string {
	return "fit_results"
}
