package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"worksheet-studio/internal/domain"
	"worksheet-studio/internal/llm"
	"worksheet-studio/internal/prompts"
	"worksheet-studio/internal/storage"

	"github.com/stretchr/testify/require"
)

// mockGateway implements llm.Gateway with pluggable function fields and
// records every request it receives.
type mockGateway struct {
	invokeFunc          func(ctx context.Context, req llm.Request) (*llm.Result, error)
	invokeWithRetryFunc func(ctx context.Context, req llm.Request) (*llm.Result, error)

	invokeCalls []llm.Request
	retryCalls  []llm.Request
}

func (m *mockGateway) Invoke(ctx context.Context, req llm.Request) (*llm.Result, error) {
	m.invokeCalls = append(m.invokeCalls, req)
	if m.invokeFunc == nil {
		return &llm.Result{Content: "{}"}, nil
	}
	return m.invokeFunc(ctx, req)
}

func (m *mockGateway) InvokeWithRetry(ctx context.Context, req llm.Request) (*llm.Result, error) {
	m.retryCalls = append(m.retryCalls, req)
	if m.invokeWithRetryFunc == nil {
		return &llm.Result{Content: "{}"}, nil
	}
	return m.invokeWithRetryFunc(ctx, req)
}

const testPromptsYAML = `
syllabus_analyzer:
  model_params:
    model: "google/gemma-3-27b-it:free"
    temperature: 0.2
    max_tokens: 4000
  system_prompt: |
    Analyze this grade {{.grade}} {{.subject}} syllabus:
    {{.syllabus_text}}

worksheet:
  model_params:
    model: "google/gemma-3-27b-it:free"
    temperature: 0.4
    max_tokens: 6000
  system_prompt: |
    Create a grade {{.grade}} worksheet titled "{{.topic}}".
    {{.section_instructions}}

grading:
  model_params:
    model: "google/gemma-3-27b-it:free"
    temperature: 0.1
    max_tokens: 3000
  system_prompt: |
    Grade this grade {{.grade}} {{.subject}} worksheet "{{.worksheet_title}}".
    Student answers: {{.student_answers}}
    Answer key: {{.answer_key}}

grading_vision:
  model_params:
    model: "nvidia/nemotron-nano-12b-v2-vl:free"
    temperature: 0.1
    max_tokens: 3000
  system_prompt: |
    Grade this grade {{.grade}} {{.subject}} worksheet "{{.worksheet_title}}" from {{.num_images}} page image(s).
    Answer key: {{.answer_key}}
`

func testPromptStore(t *testing.T) *prompts.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testPromptsYAML), 0o644))
	store, err := prompts.Load(path)
	require.NoError(t, err)
	return store
}

func testFileStore(t *testing.T) *storage.FileStore {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func textResult(content string, totalTokens int) *llm.Result {
	return &llm.Result{
		Content: content,
		Usage: domain.Usage{
			PromptTokens:     totalTokens / 2,
			CompletionTokens: totalTokens - totalTokens/2,
			TotalTokens:      totalTokens,
		},
	}
}
