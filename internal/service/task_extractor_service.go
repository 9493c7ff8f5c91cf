package service

import (
	"context"
	"log"
	"strings"

	"github.com/tidwall/gjson"
)

// ExtractedTask is one structured task produced by extraction, before
// persistence. PredictedScore is set only when a resume was supplied.
type ExtractedTask struct {
	Description    string
	Category       string
	Difficulty     string
	PredictedScore *int
}

// fallbackCatalog is the deterministic task set returned when the external
// extraction capability is unavailable or fails.
var fallbackCatalog = []ExtractedTask{
	{Description: "Design a relational database schema for a user management system.", Category: "Backend", Difficulty: "Medium"},
	{Description: "Implement a RESTful API using FastAPI with JWT authentication.", Category: "Backend", Difficulty: "Medium"},
	{Description: "Build a responsive frontend using React and Tailwind CSS.", Category: "Frontend", Difficulty: "Medium"},
	{Description: "Deploy the application to AWS using Docker containers.", Category: "DevOps", Difficulty: "Hard"},
	{Description: "Write unit and integration tests to ensure 80% code coverage.", Category: "Testing", Difficulty: "Medium"},
	{Description: "Optimize SQL queries for performance improvements.", Category: "Database", Difficulty: "Hard"},
	{Description: "Collaborate with product managers to define feature requirements.", Category: "Soft Skills", Difficulty: "Easy"},
	{Description: "Debug production issues using logging and monitoring tools.", Category: "Maintenance", Difficulty: "Hard"},
}

const extractSystemPrompt = `You are an expert technical recruiter and engineering manager.
Your goal is to extract 8-15 concrete, atomic, and assessable technical tasks from a job description.
Ignore generic requirements like "good communication". Focus on what they will actually DO.

If a CANDIDATE CV context is provided, also PREDICT the candidate's ability score for each task based on their experience:
- 2: Strong evidence in CV (e.g. "Used Python for 5 years" vs Task "Write Python")
- 1: Partial evidence or transferrable skill
- 0: No evidence

Output must be a JSON object with a key "tasks" containing a list of objects.
Each object must have:
- description: string (The task)
- category: string (e.g., Backend, Frontend, CI/CD, System Design)
- difficulty: string (Easy, Medium, Hard)
- predicted_score: integer (0, 1, 2) [Optional, only if CV provided]

Example JSON:
{
  "tasks": [
    {"description": "Write a Python script", "category": "Scripting", "difficulty": "Easy", "predicted_score": 2}
  ]
}`

// TaskExtractorService turns normalized job text into structured tasks. With
// a generator it delegates to the external capability; without one, or when
// the capability fails in any way, it returns the deterministic fallback
// catalog. It never returns an error to the caller.
type TaskExtractorService struct {
	gen TextGenerator
}

// NewTaskExtractorService builds an extractor. A nil generator pins the
// extractor to fallback mode.
func NewTaskExtractorService(gen TextGenerator) *TaskExtractorService {
	return &TaskExtractorService{gen: gen}
}

// Extract returns the ordered task list for jobText. cvText may be empty.
func (s *TaskExtractorService) Extract(ctx context.Context, jobText, cvText string) []ExtractedTask {
	if s.gen == nil {
		log.Println("No extraction capability configured. Using fallback task catalog.")
		return s.fallbackTasks(cvText)
	}

	userPrompt := "Job Description:\n" + jobText
	if cvText != "" {
		userPrompt += "\n\nCandidate CV:\n" + cvText
	}

	raw, err := s.gen.Complete(ctx, extractSystemPrompt, userPrompt)
	if err != nil {
		log.Printf("Task extraction call failed: %v. Using fallback task catalog.", err)
		return s.fallbackTasks(cvText)
	}

	tasks := parseExtractedTasks(raw, cvText != "")
	if len(tasks) == 0 {
		log.Println("Task extraction returned no usable tasks. Using fallback task catalog.")
		return s.fallbackTasks(cvText)
	}
	return tasks
}

// parseExtractedTasks validates the untrusted LLM payload. Entries without a
// description are dropped, unknown fields are ignored, and predicted scores
// are only honored on resume runs.
func parseExtractedTasks(raw string, withResume bool) []ExtractedTask {
	raw = CleanJSONBlock(raw)
	if !gjson.Valid(raw) {
		log.Println("Task extraction response is not valid JSON")
		return nil
	}

	var tasks []ExtractedTask
	gjson.Get(raw, "tasks").ForEach(func(_, entry gjson.Result) bool {
		description := strings.TrimSpace(entry.Get("description").String())
		if description == "" {
			return true // skip the entry, keep the batch
		}
		task := ExtractedTask{
			Description: description,
			Category:    entry.Get("category").String(),
			Difficulty:  entry.Get("difficulty").String(),
		}
		if withResume {
			if score := entry.Get("predicted_score"); score.Exists() {
				v := int(score.Int())
				task.PredictedScore = &v
			}
		}
		tasks = append(tasks, task)
		return true
	})
	return tasks
}

// fallbackTasks returns a copy of the catalog. With a resume, the predicted
// score is 2 when the task category appears in the resume text
// (case-insensitive substring) and 0 otherwise; the heuristic never awards
// partial credit.
func (s *TaskExtractorService) fallbackTasks(cvText string) []ExtractedTask {
	tasks := make([]ExtractedTask, len(fallbackCatalog))
	copy(tasks, fallbackCatalog)

	if cvText == "" {
		return tasks
	}

	cvLower := strings.ToLower(cvText)
	for i := range tasks {
		score := 0
		if strings.Contains(cvLower, strings.ToLower(tasks[i].Category)) {
			score = 2
		}
		tasks[i].PredictedScore = &score
	}
	return tasks
}

// CleanJSONBlock removes markdown code fences that LLMs wrap around JSON even
// when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
