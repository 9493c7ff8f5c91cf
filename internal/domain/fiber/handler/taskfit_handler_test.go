package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fadilmartias/taskfit/internal/dto"
	"github.com/fadilmartias/taskfit/internal/model"
	"github.com/fadilmartias/taskfit/internal/service"
	"github.com/fadilmartias/taskfit/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memJobStore struct {
	jobs  map[uuid.UUID]*model.Job
	tasks map[uuid.UUID]model.Task
}

func newMemJobStore() *memJobStore {
	return &memJobStore{jobs: map[uuid.UUID]*model.Job{}, tasks: map[uuid.UUID]model.Task{}}
}

func (s *memJobStore) CreateJobWithTasks(job *model.Job, tasks []model.Task) error {
	job.ID = uuid.New()
	for i := range tasks {
		tasks[i].ID = uuid.New()
		tasks[i].JobID = job.ID
		tasks[i].Position = i
		s.tasks[tasks[i].ID] = tasks[i]
	}
	job.Tasks = tasks
	s.jobs[job.ID] = job
	return nil
}

func (s *memJobStore) FindJobByID(id uuid.UUID) (*model.Job, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return job, nil
}

func (s *memJobStore) FindTasksByIDs(ids []uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	for _, id := range ids {
		if task, ok := s.tasks[id]; ok {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (s *memJobStore) SearchSimilarJobs(pgvector.Vector, uuid.UUID, int) ([]model.Job, error) {
	return nil, nil
}

type memFitStore struct {
	results []model.FitResult
}

func (s *memFitStore) CreateSubmission(_ []model.Assessment, result *model.FitResult) error {
	s.results = append(s.results, *result)
	return nil
}

func (s *memFitStore) FindResultsByJobID(jobID uuid.UUID) ([]model.FitResult, error) {
	var out []model.FitResult
	for _, r := range s.results {
		if r.JobID == jobID {
			out = append(out, r)
		}
	}
	return out, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(jobStore *memJobStore, fitStore *memFitStore) *fiber.App {
	uc := usecase.NewTaskFitUsecase(jobStore, fitStore,
		service.NewTaskExtractorService(nil), service.NewCoverLetterService(nil), nil)
	app := fiber.New(fiber.Config{BodyLimit: 3 * MaxUploadSize})
	NewTaskFitHandler(uc).RegisterRoutes(app)
	return app
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

func TestCreateJobEndpoint(t *testing.T) {
	app := newTestApp(newMemJobStore(), &memFitStore{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("raw_description", "Write backend APIs"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/jobs", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	require.True(t, env.Success)

	var job dto.JobResponse
	require.NoError(t, json.Unmarshal(env.Data, &job))
	assert.Len(t, job.Tasks, 8)
	for _, task := range job.Tasks {
		assert.Nil(t, task.PredictedScore)
	}
}

func TestCreateJobEndpointRejectsEmpty(t *testing.T) {
	app := newTestApp(newMemJobStore(), &memFitStore{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/jobs", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateJobEndpointRejectsOversizedFile(t *testing.T) {
	jobStore := newMemJobStore()
	app := newTestApp(jobStore, &memFitStore{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("raw_description", "Write backend APIs"))
	part, err := mw.CreateFormFile("file", "big.txt")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("a"), MaxUploadSize+1))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/jobs", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "too large")
	assert.Empty(t, jobStore.jobs)
}

func TestReadMultipartFileUnopenable(t *testing.T) {
	_, err := readMultipartFile(&multipart.FileHeader{Filename: "ghost.pdf", Size: 1})
	assert.Error(t, err)
}

func TestGetJobEndpoint(t *testing.T) {
	jobStore := newMemJobStore()
	app := newTestApp(jobStore, &memFitStore{})

	job := &model.Job{Description: "seed"}
	require.NoError(t, jobStore.CreateJobWithTasks(job, []model.Task{{Description: "Task A"}}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/jobs/"+job.ID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/jobs/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/jobs/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmitAssessmentsEndpoint(t *testing.T) {
	jobStore := newMemJobStore()
	fitStore := &memFitStore{}
	app := newTestApp(jobStore, fitStore)

	job := &model.Job{Description: "seed"}
	require.NoError(t, jobStore.CreateJobWithTasks(job, []model.Task{
		{Description: "Task A"}, {Description: "Task B"},
	}))

	payload, err := json.Marshal(dto.AssessmentRequest{
		JobID: job.ID,
		Assessments: []dto.AssessmentItem{
			{TaskID: job.Tasks[0].ID, Score: 2},
			{TaskID: job.Tasks[1].ID, Score: 0},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/assessments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	var result dto.FitResultResponse
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 50.0, result.FitScore)
	assert.Equal(t, "Stretch Role", result.Category)
	assert.Equal(t, []string{"Task A"}, result.Strengths)
	assert.Equal(t, []string{"Task B"}, result.Gaps)
	assert.Len(t, fitStore.results, 1)
}

func TestSubmitAssessmentsEndpointRejectsEmptyList(t *testing.T) {
	fitStore := &memFitStore{}
	app := newTestApp(newMemJobStore(), fitStore)

	body := strings.NewReader(`{"job_id":"` + uuid.NewString() + `","assessments":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/assessments", body)
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, fitStore.results)
}

func TestGenerateCoverLetterEndpoint(t *testing.T) {
	jobStore := newMemJobStore()
	app := newTestApp(jobStore, &memFitStore{})

	job := &model.Job{Description: "seed"}
	require.NoError(t, jobStore.CreateJobWithTasks(job, nil))

	payload, err := json.Marshal(dto.CoverLetterRequest{
		JobID:     job.ID,
		Strengths: []string{"Go"},
		Gaps:      []string{"React"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/generator/cover-letter", bytes.NewReader(payload))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	var letter dto.CoverLetterResponse
	require.NoError(t, json.Unmarshal(env.Data, &letter))
	assert.Contains(t, letter.CoverLetter, "Dear Hiring Manager")
}
