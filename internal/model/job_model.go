package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Job is a normalized job-posting text plus its derived tasks. A job is
// immutable once created; there is no update path.
type Job struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Description string           `gorm:"type:text;not null" json:"description"`
	Embedding   *pgvector.Vector `gorm:"type:vector(3072)" json:"-"` // nil when the embedding capability was unavailable
	CreatedAt   time.Time        `json:"created_at"`

	Tasks      []Task      `gorm:"foreignKey:JobID" json:"tasks"`
	FitResults []FitResult `gorm:"foreignKey:JobID" json:"-"`
}

func (j *Job) TableName() string {
	return "jobs"
}
