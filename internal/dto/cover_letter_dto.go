package dto

import "github.com/google/uuid"

type CoverLetterRequest struct {
	JobID     uuid.UUID `json:"job_id"`
	Strengths []string  `json:"strengths"`
	Gaps      []string  `json:"gaps"`
}

type CoverLetterResponse struct {
	CoverLetter string `json:"cover_letter"`
}
