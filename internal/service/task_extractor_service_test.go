package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	response   string
	err        error
	lastSystem string
	lastUser   string
	calls      int
}

func (s *stubGenerator) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	s.calls++
	s.lastSystem = systemPrompt
	s.lastUser = userPrompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func fallbackCategories() map[string]int {
	counts := map[string]int{}
	for _, t := range fallbackCatalog {
		counts[t.Category]++
	}
	return counts
}

func TestExtractFallbackIsDeterministic(t *testing.T) {
	extractor := NewTaskExtractorService(nil)

	first := extractor.Extract(context.Background(), "Write backend APIs", "")
	second := extractor.Extract(context.Background(), "Write backend APIs", "")

	require.Len(t, first, 8)
	assert.Equal(t, first, second)

	seen := map[string]int{}
	for _, task := range first {
		require.NotEmpty(t, task.Description)
		require.NotEmpty(t, task.Difficulty)
		assert.Nil(t, task.PredictedScore, "no resume supplied, predicted score must be absent")
		seen[task.Category]++
	}
	assert.Equal(t, fallbackCategories(), seen)
}

func TestExtractFallbackResumeHeuristic(t *testing.T) {
	extractor := NewTaskExtractorService(nil)

	tasks := extractor.Extract(context.Background(), "Some job", "Five years of BACKEND work plus testing experience")

	require.Len(t, tasks, 8)
	for _, task := range tasks {
		require.NotNil(t, task.PredictedScore, "resume supplied, every task gets a score")
		switch task.Category {
		case "Backend", "Testing":
			assert.Equal(t, 2, *task.PredictedScore, "category %s appears in resume", task.Category)
		default:
			assert.Equal(t, 0, *task.PredictedScore, "category %s absent from resume", task.Category)
		}
		assert.NotEqual(t, 1, *task.PredictedScore, "heuristic never awards partial credit")
	}
}

func TestExtractDelegatedParsesTasks(t *testing.T) {
	stub := &stubGenerator{response: `{
		"tasks": [
			{"description": "Build a gRPC service", "category": "Backend", "difficulty": "Medium", "unexpected": true},
			{"category": "Frontend", "difficulty": "Easy"},
			{"description": "Tune Postgres indexes", "category": "Database", "difficulty": "Hard", "predicted_score": 1}
		]
	}`}
	extractor := NewTaskExtractorService(stub)

	tasks := extractor.Extract(context.Background(), "Go backend role", "")

	require.Len(t, tasks, 2, "entry without description is dropped, not fatal")
	assert.Equal(t, "Build a gRPC service", tasks[0].Description)
	assert.Equal(t, "Backend", tasks[0].Category)
	assert.Nil(t, tasks[1].PredictedScore, "predicted score ignored when no resume was supplied")

	assert.Contains(t, stub.lastUser, "Go backend role")
	assert.NotContains(t, stub.lastUser, "Candidate CV")
}

func TestExtractDelegatedHonorsPredictedScoreWithResume(t *testing.T) {
	stub := &stubGenerator{response: "```json\n" + `{"tasks": [{"description": "Write Python", "category": "Scripting", "difficulty": "Easy", "predicted_score": 1}]}` + "\n```"}
	extractor := NewTaskExtractorService(stub)

	tasks := extractor.Extract(context.Background(), "Python role", "Python developer")

	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].PredictedScore)
	assert.Equal(t, 1, *tasks[0].PredictedScore)
	assert.Contains(t, stub.lastUser, "Candidate CV")
}

func TestExtractDelegatedInvalidJSONFallsBack(t *testing.T) {
	stub := &stubGenerator{response: "Sorry, I cannot help with that."}
	extractor := NewTaskExtractorService(stub)

	tasks := extractor.Extract(context.Background(), "Go backend role", "")

	require.Len(t, tasks, 8)
	assert.Equal(t, fallbackCatalog[0].Description, tasks[0].Description)
}

func TestExtractDelegatedTransportErrorFallsBack(t *testing.T) {
	stub := &stubGenerator{err: errors.New("connection reset")}
	extractor := NewTaskExtractorService(stub)

	tasks := extractor.Extract(context.Background(), "Go backend role", "golang backend engineer")

	require.Len(t, tasks, 8)
	for _, task := range tasks {
		require.NotNil(t, task.PredictedScore, "fallback heuristic still applies with a resume")
	}
}

func TestExtractDelegatedEmptyListFallsBack(t *testing.T) {
	stub := &stubGenerator{response: `{"tasks": []}`}
	extractor := NewTaskExtractorService(stub)

	tasks := extractor.Extract(context.Background(), "Go backend role", "")

	require.Len(t, tasks, 8)
}

func TestCleanJSONBlock(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CleanJSONBlock("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanJSONBlock("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanJSONBlock(` {"a":1} `))
}
