package dto

import (
	"time"

	"github.com/google/uuid"
)

type TaskDTO struct {
	ID             uuid.UUID `json:"id"`
	JobID          uuid.UUID `json:"job_id"`
	Description    string    `json:"description"`
	Category       string    `json:"category,omitempty"`
	Difficulty     string    `json:"difficulty,omitempty"`
	PredictedScore *int      `json:"predicted_score,omitempty"`
}

type JobResponse struct {
	JobID uuid.UUID `json:"job_id"`
	Tasks []TaskDTO `json:"tasks"`
}

type SimilarJobDTO struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
