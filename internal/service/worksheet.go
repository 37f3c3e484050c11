package service

import (
	"context"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"worksheet-studio/internal/domain"
	"worksheet-studio/internal/llm"
	"worksheet-studio/internal/logger"
	"worksheet-studio/internal/prompts"
	"worksheet-studio/internal/storage"

	"go.uber.org/zap"
)

// WorksheetService assembles generation instructions from teacher-selected
// question blocks, produces the worksheet HTML via the gateway and serves
// previously generated worksheets.
type WorksheetService interface {
	Generate(ctx context.Context, grade int, title string, blocks []domain.QuestionBlock, subject string) (*domain.Worksheet, error)
	List() ([]string, error)
	GetHTML(filename string) ([]byte, error)
}

type worksheetService struct {
	gateway      llm.Gateway
	prompts      *prompts.Store
	store        storage.Store
	syllabus     SyllabusService
	templatePath string
}

// NewWorksheetService creates a new WorksheetService. templatePath names
// the static HTML shell with the TITLE/CONTENT/TOTAL_POINTS placeholders.
func NewWorksheetService(gateway llm.Gateway, promptStore *prompts.Store, store storage.Store, syllabus SyllabusService, templatePath string) WorksheetService {
	return &worksheetService{
		gateway:      gateway,
		prompts:      promptStore,
		store:        store,
		syllabus:     syllabus,
		templatePath: templatePath,
	}
}

// Generate builds the section instructions for the given blocks, invokes
// the gateway once (no retry) and persists the finished worksheet under a
// key derived from grade and sanitized title.
func (s *worksheetService) Generate(ctx context.Context, grade int, title string, blocks []domain.QuestionBlock, subject string) (*domain.Worksheet, error) {
	l := logger.Get()

	// The syllabus must exist before any subtopic lookup is attempted.
	doc, err := s.syllabus.Load(grade, subject)
	if err != nil {
		return nil, err
	}

	instructions, total := assembleSections(doc, blocks)

	op, err := s.prompts.Operation(prompts.OpWorksheet)
	if err != nil {
		return nil, domain.NewInternalError("prompt store misconfigured", err)
	}
	promptText, err := op.Render(map[string]any{
		"grade":                grade,
		"topic":                title,
		"section_instructions": instructions,
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to render worksheet prompt", err)
	}

	l.Info("Generating worksheet",
		zap.Int("grade", grade),
		zap.String("title", title),
		zap.Int("blocks", len(blocks)),
		zap.Int("expected_questions", total))

	result, err := s.gateway.Invoke(ctx, llm.Request{
		Operation:   prompts.OpWorksheet,
		Model:       op.Params.Model,
		Temperature: op.Params.Temperature,
		MaxTokens:   op.Params.MaxTokens,
		Text:        promptText,
	})
	if err != nil {
		return nil, mapGatewayError(err)
	}

	content := llm.StripFence(result.Content)

	template, err := os.ReadFile(s.templatePath)
	if err != nil {
		return nil, domain.NewInternalError("failed to read worksheet template", err)
	}

	fullTitle := fmt.Sprintf("Grade %d %s - %s", grade, subject, title)
	html := strings.ReplaceAll(string(template), "{{TITLE}}", fullTitle)
	html = strings.ReplaceAll(html, "{{CONTENT}}", content)
	html = strings.ReplaceAll(html, "{{TOTAL_POINTS}}", strconv.Itoa(total))

	key := storage.WorksheetKey(grade, title)
	if err := s.store.Put(key, []byte(html)); err != nil {
		return nil, domain.NewInternalError("failed to persist worksheet", err)
	}

	l.Info("Worksheet generated",
		zap.String("key", key),
		zap.Int("total_questions", total),
		zap.Int("tokens_used", result.Usage.TotalTokens))

	return &domain.Worksheet{
		Grade:          grade,
		Subject:        subject,
		Title:          title,
		Filename:       path.Base(key),
		HTML:           html,
		TotalQuestions: total,
		Usage:          result.Usage,
	}, nil
}

// List returns the filenames of all generated worksheets.
func (s *worksheetService) List() ([]string, error) {
	keys, err := s.store.List(storage.NamespaceWorksheets)
	if err != nil {
		return nil, domain.NewInternalError("failed to list worksheets", err)
	}
	filenames := make([]string, 0, len(keys))
	for _, key := range keys {
		filenames = append(filenames, path.Base(key))
	}
	return filenames, nil
}

// GetHTML returns a stored worksheet by filename. The filename must be a
// bare name produced by Generate; anything path-like is rejected.
func (s *worksheetService) GetHTML(filename string) ([]byte, error) {
	if filename == "" || filename != path.Base(filename) || !strings.HasSuffix(filename, ".html") {
		return nil, domain.NewInvalidInputError("invalid worksheet filename")
	}
	data, err := s.store.Get(storage.NamespaceWorksheets + "/" + filename)
	if err == storage.ErrNotFound {
		return nil, domain.NewNotFoundError("Worksheet not found")
	}
	if err != nil {
		return nil, domain.NewInternalError("failed to read worksheet", err)
	}
	return data, nil
}
