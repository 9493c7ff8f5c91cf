package dto

import (
	"time"

	"github.com/google/uuid"
)

type AssessmentItem struct {
	TaskID uuid.UUID `json:"task_id"`
	Score  int       `json:"score"`
}

type AssessmentRequest struct {
	JobID       uuid.UUID        `json:"job_id"`
	Assessments []AssessmentItem `json:"assessments"`
}

type FitResultResponse struct {
	FitScore  float64   `json:"fit_score"`
	Category  string    `json:"category"`
	Summary   string    `json:"summary"`
	Strengths []string  `json:"strengths"`
	Gaps      []string  `json:"gaps"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
