package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/fadilmartias/taskfit/internal/dto"
	"github.com/fadilmartias/taskfit/internal/middleware"
	"github.com/fadilmartias/taskfit/internal/model"
	"github.com/fadilmartias/taskfit/internal/usecase"
	"github.com/fadilmartias/taskfit/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxUploadSize caps one uploaded file. The server's body limit must sit
// above two of these plus form overhead so this check, not the transport,
// rejects oversized files.
const MaxUploadSize = 5 * 1024 * 1024

var errFileTooLarge = errors.New("file size is too large (max 5MB)")

type TaskFitHandler struct {
	uc *usecase.TaskFitUsecase
}

func NewTaskFitHandler(uc *usecase.TaskFitUsecase) *TaskFitHandler {
	return &TaskFitHandler{uc: uc}
}

func (h *TaskFitHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/jobs", middleware.RateLimiter(1, 4*time.Second), h.CreateJob)
	app.Get("/jobs/:id", h.GetJob)
	app.Get("/jobs/:id/similar", h.SimilarJobs)
	app.Post("/assessments", h.SubmitAssessments)
	app.Get("/assessments/results/:job_id", h.GetResults)
	app.Post("/generator/cover-letter", h.GenerateCoverLetter)
}

func (h *TaskFitHandler) CreateJob(c *fiber.Ctx) error {
	rawDescription := c.FormValue("raw_description")

	jobFile, err := h.readFile(c, "file")
	if err != nil {
		return h.uploadError(c, "file", err)
	}
	cvFile, err := h.readFile(c, "cv_file")
	if err != nil {
		return h.uploadError(c, "cv_file", err)
	}

	job, err := h.uc.CreateJob(c.Context(), rawDescription, jobFile, cvFile)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyDescription) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusBadRequest,
				Message: err.Error(),
			})
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to create job",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success create job",
		Data:    toJobResponse(job),
	})
}

// readFile pulls an optional multipart file into memory. A missing field is
// not an error; an oversized or unreadable file is.
func (h *TaskFitHandler) readFile(c *fiber.Ctx, fieldName string) (*usecase.UploadedFile, error) {
	file, err := c.FormFile(fieldName)
	if err != nil {
		return nil, nil
	}
	if file.Size > MaxUploadSize {
		return nil, errFileTooLarge
	}
	data, err := readMultipartFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fieldName, err)
	}
	return &usecase.UploadedFile{Filename: file.Filename, Data: data}, nil
}

func (h *TaskFitHandler) uploadError(c *fiber.Ctx, fieldName string, err error) error {
	if errors.Is(err, errFileTooLarge) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: fmt.Sprintf("%s %s", fieldName, errFileTooLarge.Error()),
		})
	}
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Message: fmt.Sprintf("cannot read %s file", fieldName),
	}, err)
}

func readMultipartFile(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *TaskFitHandler) GetJob(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid job id",
		}, err)
	}

	job, err := h.uc.GetJob(id)
	if err != nil {
		return h.jobError(c, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get job",
		Data:    toJobResponse(job),
	})
}

func (h *TaskFitHandler) SimilarJobs(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid job id",
		}, err)
	}

	jobs, err := h.uc.SimilarJobs(id, c.QueryInt("top_k", 5))
	if err != nil {
		return h.jobError(c, err)
	}

	data := make([]dto.SimilarJobDTO, 0, len(jobs))
	for _, j := range jobs {
		data = append(data, dto.SimilarJobDTO{
			ID:          j.ID,
			Description: j.Description,
			CreatedAt:   j.CreatedAt,
		})
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get similar jobs",
		Data:    data,
	})
}

func (h *TaskFitHandler) SubmitAssessments(c *fiber.Ctx) error {
	var req dto.AssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	result, err := h.uc.SubmitAssessments(req.JobID, req.Assessments)
	if err != nil {
		if errors.Is(err, usecase.ErrNoAssessments) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusBadRequest,
				Message: err.Error(),
			})
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to submit assessments",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success submit assessments",
		Data:    result,
	})
}

func (h *TaskFitHandler) GetResults(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid job id",
		}, err)
	}

	results, err := h.uc.GetResults(jobID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to get results",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get fit results",
		Data:    results,
	})
}

func (h *TaskFitHandler) GenerateCoverLetter(c *fiber.Ctx) error {
	var req dto.CoverLetterRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	letter, err := h.uc.GenerateCoverLetter(c.Context(), req.JobID, req.Strengths, req.Gaps)
	if err != nil {
		return h.jobError(c, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success generate cover letter",
		Data:    dto.CoverLetterResponse{CoverLetter: letter},
	})
}

func (h *TaskFitHandler) jobError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "job not found",
		})
	}
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Message: "failed to get job",
	}, err)
}

func toJobResponse(job *model.Job) dto.JobResponse {
	tasks := make([]dto.TaskDTO, 0, len(job.Tasks))
	for _, t := range job.Tasks {
		tasks = append(tasks, dto.TaskDTO{
			ID:             t.ID,
			JobID:          t.JobID,
			Description:    t.Description,
			Category:       t.Category,
			Difficulty:     t.Difficulty,
			PredictedScore: t.PredictedScore,
		})
	}
	return dto.JobResponse{JobID: job.ID, Tasks: tasks}
}
