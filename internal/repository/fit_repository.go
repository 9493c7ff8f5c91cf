package repository

import (
	"github.com/fadilmartias/taskfit/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FitRepository struct {
	db *gorm.DB
}

func NewFitRepository(db *gorm.DB) *FitRepository {
	return &FitRepository{db}
}

// CreateSubmission persists the assessment rows and the fit result of one
// submission atomically. Prior rows for the job are never touched; history
// accumulates.
func (r *FitRepository) CreateSubmission(assessments []model.Assessment, result *model.FitResult) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(assessments) > 0 {
			if err := tx.Create(&assessments).Error; err != nil {
				return err
			}
		}
		return tx.Create(result).Error
	})
}

// FindResultsByJobID returns the full fit-result history for a job, oldest
// first.
func (r *FitRepository) FindResultsByJobID(jobID uuid.UUID) ([]model.FitResult, error) {
	var results []model.FitResult
	err := r.db.Order("created_at ASC").Find(&results, "job_id = ?", jobID).Error
	return results, err
}
