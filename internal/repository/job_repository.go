package repository

import (
	"github.com/fadilmartias/taskfit/internal/model"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db}
}

// CreateJobWithTasks persists a job and its extracted tasks in one
// transaction so a partially-extracted job is never visible.
func (r *JobRepository) CreateJobWithTasks(job *model.Job, tasks []model.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(job).Error; err != nil {
			return err
		}
		if len(tasks) == 0 {
			return nil
		}
		for i := range tasks {
			tasks[i].JobID = job.ID
			tasks[i].Position = i
		}
		if err := tx.Create(&tasks).Error; err != nil {
			return err
		}
		job.Tasks = tasks
		return nil
	})
}

// FindJobByID returns the job with its tasks in extraction order.
func (r *JobRepository) FindJobByID(id uuid.UUID) (*model.Job, error) {
	var j model.Job
	err := r.db.Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&j, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// FindTasksByIDs resolves task rows for the given ids. Missing ids are simply
// absent from the result; the caller decides how to treat them.
func (r *JobRepository) FindTasksByIDs(ids []uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	if len(ids) == 0 {
		return tasks, nil
	}
	err := r.db.Find(&tasks, "id IN ?", ids).Error
	return tasks, err
}

// SearchSimilarJobs returns the topK jobs nearest to the given embedding,
// excluding the source job and jobs that were created without an embedding.
func (r *JobRepository) SearchSimilarJobs(embedding pgvector.Vector, excludeID uuid.UUID, topK int) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.Raw(`
        SELECT id, description, created_at
        FROM jobs
        WHERE id <> ? AND embedding IS NOT NULL
        ORDER BY embedding <-> ?
        LIMIT ?
    `, excludeID, embedding, topK).Scan(&jobs).Error
	return jobs, err
}
