package model

import (
	"time"

	"github.com/google/uuid"
)

// Assessment is one self-reported score for one task. Rows are append-only:
// resubmitting a job creates new rows rather than updating old ones.
type Assessment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TaskID    uuid.UUID `gorm:"type:uuid;index;not null" json:"task_id"`
	Score     int       `gorm:"not null" json:"score"` // expected 0..2
	CreatedAt time.Time `json:"created_at"`
}

func (a *Assessment) TableName() string {
	return "assessments"
}
