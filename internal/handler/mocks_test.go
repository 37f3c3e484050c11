package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"worksheet-studio/internal/domain"
	"worksheet-studio/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// mockSyllabusService implements service.SyllabusService with pluggable
// function fields.
type mockSyllabusService struct {
	analyzeFunc func(ctx context.Context, syllabusText string, grade int, subject string, persist bool) (*domain.SyllabusDocument, error)
	loadFunc    func(grade int, subject string) (*domain.SyllabusDocument, error)
}

func (m *mockSyllabusService) Analyze(ctx context.Context, syllabusText string, grade int, subject string, persist bool) (*domain.SyllabusDocument, error) {
	return m.analyzeFunc(ctx, syllabusText, grade, subject, persist)
}

func (m *mockSyllabusService) Load(grade int, subject string) (*domain.SyllabusDocument, error) {
	return m.loadFunc(grade, subject)
}

// mockWorksheetService implements service.WorksheetService.
type mockWorksheetService struct {
	generateFunc func(ctx context.Context, grade int, title string, blocks []domain.QuestionBlock, subject string) (*domain.Worksheet, error)
	listFunc     func() ([]string, error)
	getHTMLFunc  func(filename string) ([]byte, error)
}

func (m *mockWorksheetService) Generate(ctx context.Context, grade int, title string, blocks []domain.QuestionBlock, subject string) (*domain.Worksheet, error) {
	return m.generateFunc(ctx, grade, title, blocks, subject)
}

func (m *mockWorksheetService) List() ([]string, error) {
	return m.listFunc()
}

func (m *mockWorksheetService) GetHTML(filename string) ([]byte, error) {
	return m.getHTMLFunc(filename)
}

// mockGradingService implements service.GradingService.
type mockGradingService struct {
	gradeTextFunc   func(ctx context.Context, grade int, subject, title, studentAnswers, answerKey string) (*domain.GradingResult, error)
	gradeVisionFunc func(ctx context.Context, grade int, subject, title string, images []domain.GradingImage, answerKey string) (*domain.GradingResult, error)
	saveResultFunc  func(result *domain.GradingResult, studentName string) (string, error)
}

func (m *mockGradingService) GradeText(ctx context.Context, grade int, subject, title, studentAnswers, answerKey string) (*domain.GradingResult, error) {
	return m.gradeTextFunc(ctx, grade, subject, title, studentAnswers, answerKey)
}

func (m *mockGradingService) GradeVision(ctx context.Context, grade int, subject, title string, images []domain.GradingImage, answerKey string) (*domain.GradingResult, error) {
	return m.gradeVisionFunc(ctx, grade, subject, title, images, answerKey)
}

func (m *mockGradingService) SaveResult(result *domain.GradingResult, studentName string) (string, error) {
	return m.saveResultFunc(result, studentName)
}

// newRouterApp builds a fiber app with the production error handler so
// handler tests exercise the same error mapping the server does.
func newRouterApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func getPath(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &parsed))
	return parsed
}
