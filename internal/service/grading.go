package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"worksheet-studio/internal/domain"
	"worksheet-studio/internal/llm"
	"worksheet-studio/internal/logger"
	"worksheet-studio/internal/prompts"
	"worksheet-studio/internal/storage"

	"go.uber.org/zap"
)

// defaultAnswerKey is substituted when the teacher supplies no key.
const defaultAnswerKey = "Not provided. Evaluate correctness based on standard expectations."

// GradingService grades completed worksheets from typed answers or from
// photographed pages, and persists results.
type GradingService interface {
	GradeText(ctx context.Context, grade int, subject, title, studentAnswers, answerKey string) (*domain.GradingResult, error)
	GradeVision(ctx context.Context, grade int, subject, title string, images []domain.GradingImage, answerKey string) (*domain.GradingResult, error)
	SaveResult(result *domain.GradingResult, studentName string) (string, error)
}

type gradingService struct {
	gateway llm.Gateway
	prompts *prompts.Store
	store   storage.Store
	now     func() time.Time
}

// NewGradingService creates a new GradingService.
func NewGradingService(gateway llm.Gateway, promptStore *prompts.Store, store storage.Store) GradingService {
	return &gradingService{
		gateway: gateway,
		prompts: promptStore,
		store:   store,
		now:     time.Now,
	}
}

// GradeText grades typed student answers with a single non-retried call.
// The parsed response must expose score, total_questions and percentage.
func (s *gradingService) GradeText(ctx context.Context, grade int, subject, title, studentAnswers, answerKey string) (*domain.GradingResult, error) {
	l := logger.Get()

	op, err := s.prompts.Operation(prompts.OpGrading)
	if err != nil {
		return nil, domain.NewInternalError("prompt store misconfigured", err)
	}
	promptText, err := op.Render(map[string]any{
		"grade":           grade,
		"subject":         subject,
		"worksheet_title": title,
		"student_answers": studentAnswers,
		"answer_key":      normalizeAnswerKey(answerKey),
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to render grading prompt", err)
	}

	l.Info("Grading worksheet from text answers",
		zap.Int("grade", grade),
		zap.String("subject", subject),
		zap.String("title", title))

	result, err := s.gateway.Invoke(ctx, llm.Request{
		Operation:   prompts.OpGrading,
		Model:       op.Params.Model,
		Temperature: op.Params.Temperature,
		MaxTokens:   op.Params.MaxTokens,
		Text:        promptText,
	})
	if err != nil {
		return nil, mapGatewayError(err)
	}

	parsed, err := parseGradingResponse(result.Content)
	if err != nil {
		return nil, err
	}
	if parsed.Score == nil || parsed.TotalQuestions == nil || parsed.Percentage == nil {
		return nil, domain.NewParseError("grading response is missing score, total_questions or percentage", nil)
	}

	parsed.Metadata = gradingMetadata(op.Params.Model, result.Usage, grade, subject)
	return parsed, nil
}

// GradeVision grades photographed worksheet pages. The payload is one text
// instruction part naming the expected page count followed by one image
// part per page; the call is retried on transient failures.
func (s *gradingService) GradeVision(ctx context.Context, grade int, subject, title string, images []domain.GradingImage, answerKey string) (*domain.GradingResult, error) {
	l := logger.Get()

	op, err := s.prompts.Operation(prompts.OpGradingVision)
	if err != nil {
		return nil, domain.NewInternalError("prompt store misconfigured", err)
	}
	promptText, err := op.Render(map[string]any{
		"grade":           grade,
		"subject":         subject,
		"worksheet_title": title,
		"num_images":      len(images),
		"answer_key":      normalizeAnswerKey(answerKey),
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to render vision grading prompt", err)
	}

	parts := make([]llm.ContentPart, 0, len(images)+1)
	parts = append(parts, llm.ContentPart{Text: promptText})
	for _, img := range images {
		parts = append(parts, llm.ContentPart{ImageData: img.Data, ImageMIME: img.MimeType})
	}

	l.Info("Grading worksheet from images",
		zap.Int("grade", grade),
		zap.String("subject", subject),
		zap.String("title", title),
		zap.Int("pages", len(images)))

	result, err := s.gateway.InvokeWithRetry(ctx, llm.Request{
		Operation:   prompts.OpGradingVision,
		Model:       op.Params.Model,
		Temperature: op.Params.Temperature,
		MaxTokens:   op.Params.MaxTokens,
		Parts:       parts,
	})
	if err != nil {
		return nil, mapGatewayError(err)
	}

	parsed, err := parseGradingResponse(result.Content)
	if err != nil {
		return nil, err
	}

	parsed.Metadata = gradingMetadata(op.Params.Model, result.Usage, grade, subject)
	return parsed, nil
}

// SaveResult persists one grading result keyed by sanitized student name
// and call timestamp. Results are never overwritten; a same-second
// collision for one student is accepted as a low-probability risk.
func (s *gradingService) SaveResult(result *domain.GradingResult, studentName string) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", domain.NewInternalError("failed to encode grading result", err)
	}

	key := storage.ResultKey(studentName, s.now().Format("20060102_150405"))
	if err := s.store.Put(key, data); err != nil {
		return "", domain.NewInternalError("failed to persist grading result", err)
	}

	logger.Get().Info("Grading result saved", zap.String("key", key))
	return key, nil
}

func normalizeAnswerKey(answerKey string) string {
	if strings.TrimSpace(answerKey) == "" {
		return defaultAnswerKey
	}
	return answerKey
}

// parseGradingResponse sanitizes and parses a raw model response into a
// GradingResult, keeping unrecognized keys in Details.
func parseGradingResponse(raw string) (*domain.GradingResult, error) {
	candidate, ok := llm.SanitizeJSON(raw)
	if !ok {
		return nil, domain.NewParseError("no JSON object found in grading response", nil)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		return nil, domain.NewParseError("grading response is not valid JSON", err)
	}

	result := &domain.GradingResult{}
	for key, value := range fields {
		switch key {
		case "score":
			var v float64
			if err := json.Unmarshal(value, &v); err == nil {
				result.Score = &v
			}
		case "total_questions":
			var v int
			if err := json.Unmarshal(value, &v); err == nil {
				result.TotalQuestions = &v
			}
		case "percentage":
			var v float64
			if err := json.Unmarshal(value, &v); err == nil {
				result.Percentage = &v
			}
		case "feedback":
			var v string
			if err := json.Unmarshal(value, &v); err == nil {
				result.Feedback = v
			}
		default:
			if result.Details == nil {
				result.Details = make(map[string]interface{})
			}
			var v interface{}
			if err := json.Unmarshal(value, &v); err == nil {
				result.Details[key] = v
			}
		}
	}
	return result, nil
}

func gradingMetadata(model string, usage domain.Usage, grade int, subject string) domain.GradingMetadata {
	return domain.GradingMetadata{
		Model:            model,
		TokensUsed:       usage.TotalTokens,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		GradeLevel:       grade,
		Subject:          subject,
	}
}
