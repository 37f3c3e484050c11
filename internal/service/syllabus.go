package service

import (
	"context"
	"encoding/json"
	"time"

	"worksheet-studio/internal/domain"
	"worksheet-studio/internal/llm"
	"worksheet-studio/internal/logger"
	"worksheet-studio/internal/prompts"
	"worksheet-studio/internal/storage"

	"go.uber.org/zap"
)

// SyllabusService turns raw syllabus text into a structured topic tree and
// serves previously analyzed documents.
type SyllabusService interface {
	Analyze(ctx context.Context, syllabusText string, grade int, subject string, persist bool) (*domain.SyllabusDocument, error)
	Load(grade int, subject string) (*domain.SyllabusDocument, error)
}

type syllabusService struct {
	gateway llm.Gateway
	prompts *prompts.Store
	store   storage.Store
}

// NewSyllabusService creates a new SyllabusService.
func NewSyllabusService(gateway llm.Gateway, promptStore *prompts.Store, store storage.Store) SyllabusService {
	return &syllabusService{
		gateway: gateway,
		prompts: promptStore,
		store:   store,
	}
}

// Analyze renders the syllabus-analysis prompt, invokes the gateway once
// (no retry), parses the sanitized JSON into a SyllabusDocument and, when
// persist is set, overwrites any prior document for the same grade/subject.
func (s *syllabusService) Analyze(ctx context.Context, syllabusText string, grade int, subject string, persist bool) (*domain.SyllabusDocument, error) {
	l := logger.Get()

	op, err := s.prompts.Operation(prompts.OpSyllabusAnalyzer)
	if err != nil {
		return nil, domain.NewInternalError("prompt store misconfigured", err)
	}

	promptText, err := op.Render(map[string]any{
		"syllabus_text": syllabusText,
		"grade":         grade,
		"subject":       subject,
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to render syllabus prompt", err)
	}

	l.Info("Analyzing syllabus",
		zap.Int("grade", grade),
		zap.String("subject", subject),
		zap.Int("text_length", len(syllabusText)))

	result, err := s.gateway.Invoke(ctx, llm.Request{
		Operation:   prompts.OpSyllabusAnalyzer,
		Model:       op.Params.Model,
		Temperature: op.Params.Temperature,
		MaxTokens:   op.Params.MaxTokens,
		Text:        promptText,
	})
	if err != nil {
		return nil, mapGatewayError(err)
	}

	candidate, ok := llm.SanitizeJSON(result.Content)
	if !ok {
		return nil, domain.NewParseError("no JSON object found in model response", nil)
	}

	var doc domain.SyllabusDocument
	if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
		return nil, domain.NewParseError("model response is not valid JSON", err)
	}
	if len(doc.Topics) == 0 {
		return nil, domain.NewParseError("model response lacks a topics list", nil)
	}

	// The request, not the model, is authoritative for grade and subject;
	// subject is preserved verbatim in the document.
	doc.Grade = grade
	doc.Subject = subject
	doc.Metadata = domain.SyllabusMetadata{
		AnalyzedAt: time.Now().Format(time.RFC3339),
		TokensUsed: result.Usage.TotalTokens,
	}

	if persist {
		data, err := json.MarshalIndent(&doc, "", "  ")
		if err != nil {
			return nil, domain.NewInternalError("failed to encode syllabus document", err)
		}
		key := storage.SyllabusKey(grade, subject)
		if err := s.store.Put(key, data); err != nil {
			return nil, domain.NewInternalError("failed to persist syllabus document", err)
		}
		l.Info("Syllabus persisted", zap.String("key", key))
	}

	l.Info("Syllabus analyzed",
		zap.Int("grade", grade),
		zap.String("subject", subject),
		zap.Int("topics", len(doc.Topics)),
		zap.Int("subtopics", doc.SubtopicCount()),
		zap.Int("tokens_used", result.Usage.TotalTokens))

	return &doc, nil
}

// Load retrieves a previously persisted document for the grade/subject
// pair. Returns a NOT_FOUND domain error when none exists.
func (s *syllabusService) Load(grade int, subject string) (*domain.SyllabusDocument, error) {
	data, err := s.store.Get(storage.SyllabusKey(grade, subject))
	if err == storage.ErrNotFound {
		return nil, domain.NewMissingSyllabusError(grade, subject)
	}
	if err != nil {
		return nil, domain.NewInternalError("failed to read syllabus document", err)
	}

	var doc domain.SyllabusDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domain.NewInternalError("stored syllabus document is corrupt", err)
	}
	return &doc, nil
}
