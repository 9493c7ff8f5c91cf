package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/fadilmartias/taskfit/internal/dto"
	"github.com/fadilmartias/taskfit/internal/model"
	"github.com/fadilmartias/taskfit/internal/service"
	"github.com/fadilmartias/taskfit/internal/util"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Validation errors surfaced to the caller. Everything else in the pipeline
// degrades to deterministic output instead of failing the request.
var (
	ErrEmptyDescription = errors.New("description or file required")
	ErrNoAssessments    = errors.New("no assessments provided")
)

// JobStore is the persistence surface the pipeline needs for jobs and tasks.
type JobStore interface {
	CreateJobWithTasks(job *model.Job, tasks []model.Task) error
	FindJobByID(id uuid.UUID) (*model.Job, error)
	FindTasksByIDs(ids []uuid.UUID) ([]model.Task, error)
	SearchSimilarJobs(embedding pgvector.Vector, excludeID uuid.UUID, topK int) ([]model.Job, error)
}

// FitStore is the persistence surface for assessment submissions.
type FitStore interface {
	CreateSubmission(assessments []model.Assessment, result *model.FitResult) error
	FindResultsByJobID(jobID uuid.UUID) ([]model.FitResult, error)
}

// Embedder produces job-description embeddings for similar-job search.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// UploadedFile is a file received by the HTTP layer, held in memory.
type UploadedFile struct {
	Filename string
	Data     []byte
}

type TaskFitUsecase struct {
	jobStore  JobStore
	fitStore  FitStore
	extractor *service.TaskExtractorService
	letters   *service.CoverLetterService
	embedder  Embedder
}

func NewTaskFitUsecase(jobStore JobStore, fitStore FitStore, extractor *service.TaskExtractorService, letters *service.CoverLetterService, embedder Embedder) *TaskFitUsecase {
	return &TaskFitUsecase{
		jobStore:  jobStore,
		fitStore:  fitStore,
		extractor: extractor,
		letters:   letters,
		embedder:  embedder,
	}
}

// CreateJob normalizes the posting (raw text first, then the uploaded file),
// extracts tasks, and persists the job with its task batch atomically. The
// embedding is best effort: a failure is logged and the job is created
// without one.
func (uc *TaskFitUsecase) CreateJob(ctx context.Context, rawDescription string, jobFile, cvFile *UploadedFile) (*model.Job, error) {
	finalDescription := rawDescription
	if jobFile != nil {
		text, err := util.NormalizeDocument(jobFile.Data, jobFile.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to extract description text: %w", err)
		}
		finalDescription += "\n" + text
	}
	if strings.TrimSpace(finalDescription) == "" {
		return nil, ErrEmptyDescription
	}

	cvText := ""
	if cvFile != nil {
		text, err := util.NormalizeDocument(cvFile.Data, cvFile.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to extract cv text: %w", err)
		}
		cvText = text
	}

	extracted := uc.extractor.Extract(ctx, finalDescription, cvText)

	tasks := make([]model.Task, 0, len(extracted))
	for _, t := range extracted {
		tasks = append(tasks, model.Task{
			Description:    t.Description,
			Category:       t.Category,
			Difficulty:     t.Difficulty,
			PredictedScore: t.PredictedScore,
		})
	}

	job := &model.Job{Description: finalDescription}
	if uc.embedder != nil {
		if emb, err := uc.embedder.GenerateEmbedding(ctx, finalDescription); err != nil {
			log.Printf("Failed to embed job description: %v", err)
		} else {
			vec := pgvector.NewVector(emb)
			job.Embedding = &vec
		}
	}

	if err := uc.jobStore.CreateJobWithTasks(job, tasks); err != nil {
		return nil, err
	}
	return job, nil
}

// GetJob returns the job with its tasks in extraction order.
func (uc *TaskFitUsecase) GetJob(id uuid.UUID) (*model.Job, error) {
	return uc.jobStore.FindJobByID(id)
}

// SubmitAssessments aggregates self-reported scores into a fit result and
// persists the submission. Items referencing unknown tasks still count toward
// the score but contribute to neither strengths nor gaps.
func (uc *TaskFitUsecase) SubmitAssessments(jobID uuid.UUID, items []dto.AssessmentItem) (*dto.FitResultResponse, error) {
	if len(items) == 0 {
		return nil, ErrNoAssessments
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.TaskID)
	}
	tasks, err := uc.jobStore.FindTasksByIDs(ids)
	if err != nil {
		return nil, err
	}
	taskByID := make(map[uuid.UUID]model.Task, len(tasks))
	for _, t := range tasks {
		taskByID[t.ID] = t
	}

	totalScore := 0
	maxScore := 2 * len(items)
	strengths := []string{}
	gaps := []string{}
	assessments := make([]model.Assessment, 0, len(items))

	for _, item := range items {
		totalScore += item.Score
		assessments = append(assessments, model.Assessment{TaskID: item.TaskID, Score: item.Score})

		task, ok := taskByID[item.TaskID]
		if !ok {
			continue
		}
		switch item.Score {
		case 2:
			strengths = append(strengths, task.Description)
		case 0:
			gaps = append(gaps, task.Description)
		}
	}

	fitScore := 0.0
	if maxScore > 0 {
		fitScore = float64(totalScore) / float64(maxScore) * 100
	}
	category := FitCategory(fitScore)
	summary := fmt.Sprintf("You scored %d%%. You are a %s.", int(fitScore), category)

	result := &model.FitResult{
		JobID:    jobID,
		FitScore: fitScore,
		Category: category,
		Summary:  summary,
	}
	if err := uc.fitStore.CreateSubmission(assessments, result); err != nil {
		return nil, err
	}

	return &dto.FitResultResponse{
		FitScore:  fitScore,
		Category:  category,
		Summary:   summary,
		Strengths: strengths,
		Gaps:      gaps,
	}, nil
}

// FitCategory maps a fit percentage to its band. Thresholds are evaluated
// high to low and are inclusive on the lower edge.
func FitCategory(fitScore float64) string {
	switch {
	case fitScore >= 80:
		return "Strong Fit"
	case fitScore >= 60:
		return "Possible Fit"
	case fitScore >= 40:
		return "Stretch Role"
	default:
		return "Not a Fit (Yet)"
	}
}

// GetResults returns the fit-result history for a job, oldest first.
// Strengths and gaps are not persisted, so past results carry empty lists.
func (uc *TaskFitUsecase) GetResults(jobID uuid.UUID) ([]dto.FitResultResponse, error) {
	results, err := uc.fitStore.FindResultsByJobID(jobID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FitResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, dto.FitResultResponse{
			FitScore:  r.FitScore,
			Category:  r.Category,
			Summary:   r.Summary,
			Strengths: []string{},
			Gaps:      []string{},
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

// GenerateCoverLetter produces a letter body for an existing job from the
// candidate's confirmed strengths and gaps.
func (uc *TaskFitUsecase) GenerateCoverLetter(ctx context.Context, jobID uuid.UUID, strengths, gaps []string) (string, error) {
	job, err := uc.jobStore.FindJobByID(jobID)
	if err != nil {
		return "", err
	}
	return uc.letters.Generate(ctx, job.Description, strengths, gaps), nil
}

// SimilarJobs returns jobs nearest to the given job's embedding. A job
// created without an embedding has no neighbours.
func (uc *TaskFitUsecase) SimilarJobs(id uuid.UUID, topK int) ([]model.Job, error) {
	job, err := uc.jobStore.FindJobByID(id)
	if err != nil {
		return nil, err
	}
	if job.Embedding == nil {
		return []model.Job{}, nil
	}
	return uc.jobStore.SearchSimilarJobs(*job.Embedding, job.ID, topK)
}
