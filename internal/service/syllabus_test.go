package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"worksheet-studio/internal/domain"
	"worksheet-studio/internal/llm"
	"worksheet-studio/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const syllabusModelResponse = "```json\n" + `{
  "grade": 99,
  "subject": "Ignored",
  "topics": [
    {
      "name": "Numbers",
      "subtopics": [
        {"id": "num_1", "name": "Counting to 1000"},
        {"id": "num_2", "name": "Place Value", "difficulty": "medium"}
      ]
    }
  ]
}` + "\n```"

func TestSyllabusAnalyze(t *testing.T) {
	gateway := &mockGateway{
		invokeFunc: func(ctx context.Context, req llm.Request) (*llm.Result, error) {
			return textResult(syllabusModelResponse, 1200), nil
		},
	}
	store := testFileStore(t)
	svc := NewSyllabusService(gateway, testPromptStore(t), store)

	doc, err := svc.Analyze(context.Background(), "Unit 1: Numbers...", 3, "Math", true)
	require.NoError(t, err)

	// The request, not the model, decides grade and subject.
	assert.Equal(t, 3, doc.Grade)
	assert.Equal(t, "Math", doc.Subject)
	require.Len(t, doc.Topics, 1)
	assert.Equal(t, 2, doc.SubtopicCount())
	assert.Equal(t, 1200, doc.Metadata.TokensUsed)
	assert.NotEmpty(t, doc.Metadata.AnalyzedAt)

	require.Len(t, gateway.invokeCalls, 1)
	req := gateway.invokeCalls[0]
	assert.Equal(t, "google/gemma-3-27b-it:free", req.Model)
	assert.Contains(t, req.Text, "Unit 1: Numbers...")
	assert.Contains(t, req.Text, "grade 3 Math")
	assert.Empty(t, gateway.retryCalls, "syllabus analysis is never retried")

	// Persisted document round-trips through Load.
	loaded, err := svc.Load(3, "Math")
	require.NoError(t, err)
	assert.Equal(t, doc.Topics, loaded.Topics)
	assert.Equal(t, doc.Metadata, loaded.Metadata)
}

func TestSyllabusAnalyzeWithoutPersist(t *testing.T) {
	gateway := &mockGateway{
		invokeFunc: func(ctx context.Context, req llm.Request) (*llm.Result, error) {
			return textResult(syllabusModelResponse, 100), nil
		},
	}
	store := testFileStore(t)
	svc := NewSyllabusService(gateway, testPromptStore(t), store)

	_, err := svc.Analyze(context.Background(), "text", 3, "Math", false)
	require.NoError(t, err)

	assert.False(t, store.Exists(storage.SyllabusKey(3, "Math")))
}

func TestSyllabusAnalyzeOverwritesPriorDocument(t *testing.T) {
	responses := []string{
		`{"topics": [{"name": "Old", "subtopics": [{"id": "a", "name": "Old Sub"}]}]}`,
		`{"topics": [{"name": "New", "subtopics": [{"id": "b", "name": "New Sub"}]}]}`,
	}
	call := 0
	gateway := &mockGateway{
		invokeFunc: func(ctx context.Context, req llm.Request) (*llm.Result, error) {
			resp := responses[call]
			call++
			return textResult(resp, 10), nil
		},
	}
	svc := NewSyllabusService(gateway, testPromptStore(t), testFileStore(t))

	_, err := svc.Analyze(context.Background(), "v1", 3, "Math", true)
	require.NoError(t, err)
	_, err = svc.Analyze(context.Background(), "v2", 3, "Math", true)
	require.NoError(t, err)

	doc, err := svc.Load(3, "Math")
	require.NoError(t, err)
	require.Len(t, doc.Topics, 1)
	assert.Equal(t, "New", doc.Topics[0].Name)
}

func TestSyllabusAnalyzeParseFailures(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no JSON object", "Sorry, I cannot analyze this."},
		{"invalid JSON", `{"topics": [`},
		{"empty topics", `{"topics": []}`},
		{"missing topics", `{"grade": 3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := &mockGateway{
				invokeFunc: func(ctx context.Context, req llm.Request) (*llm.Result, error) {
					return textResult(tt.response, 10), nil
				},
			}
			svc := NewSyllabusService(gateway, testPromptStore(t), testFileStore(t))

			_, err := svc.Analyze(context.Background(), "text", 3, "Math", true)

			var domainErr *domain.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, domain.CodeParse, domainErr.Code)
		})
	}
}

func TestSyllabusAnalyzeGatewayErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected domain.ErrorCode
	}{
		{"transport", &llm.TransportError{Err: errors.New("dial tcp")}, domain.CodeTransport},
		{"upstream", &llm.UpstreamError{Status: 429, Err: errors.New("rate limited")}, domain.CodeUpstream},
		{"malformed", &llm.MalformedResponseError{Detail: "no choices"}, domain.CodeUpstream},
		{"unknown", errors.New("boom"), domain.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := &mockGateway{
				invokeFunc: func(ctx context.Context, req llm.Request) (*llm.Result, error) {
					return nil, tt.err
				},
			}
			svc := NewSyllabusService(gateway, testPromptStore(t), testFileStore(t))

			_, err := svc.Analyze(context.Background(), "text", 3, "Math", true)

			var domainErr *domain.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.expected, domainErr.Code)
		})
	}
}

func TestSyllabusLoadNotFound(t *testing.T) {
	svc := NewSyllabusService(&mockGateway{}, testPromptStore(t), testFileStore(t))

	_, err := svc.Load(9, "History")

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeMissingSyllabus, domainErr.Code)
	assert.Contains(t, domainErr.Message, "Grade 9 History")
}

func TestSyllabusLoadCorruptDocument(t *testing.T) {
	store := testFileStore(t)
	require.NoError(t, store.Put(storage.SyllabusKey(3, "Math"), []byte("not json")))
	svc := NewSyllabusService(&mockGateway{}, testPromptStore(t), store)

	_, err := svc.Load(3, "Math")

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInternal, domainErr.Code)
}

func TestSyllabusPersistedDocumentIsIndented(t *testing.T) {
	gateway := &mockGateway{
		invokeFunc: func(ctx context.Context, req llm.Request) (*llm.Result, error) {
			return textResult(`{"topics": [{"name": "N", "subtopics": []}]}`, 10), nil
		},
	}
	store := testFileStore(t)
	svc := NewSyllabusService(gateway, testPromptStore(t), store)

	_, err := svc.Analyze(context.Background(), "text", 3, "Math", true)
	require.NoError(t, err)

	data, err := store.Get(storage.SyllabusKey(3, "Math"))
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
	assert.Contains(t, string(data), "\n  ")
}
