package model

import (
	"github.com/google/uuid"
)

// Task is one atomic, assessable responsibility derived from a job posting.
// Tasks are created in a batch when the job is created and never mutated.
// Position preserves extraction order so task lists read back in the same
// order on every call.
type Task struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	JobID          uuid.UUID `gorm:"type:uuid;index;not null" json:"job_id"`
	Position       int       `gorm:"not null" json:"-"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	Category       string    `gorm:"type:varchar(100)" json:"category,omitempty"`
	Difficulty     string    `gorm:"type:varchar(50)" json:"difficulty,omitempty"` // e.g. "Easy", "Medium", "Hard"
	PredictedScore *int      `json:"predicted_score,omitempty"`                    // 0..2, set only when a resume was supplied
}

func (t *Task) TableName() string {
	return "tasks"
}
