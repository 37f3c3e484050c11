package handler

import (
	"worksheet-studio/internal/dto"
	"worksheet-studio/internal/logger"
	"worksheet-studio/internal/service"
	"worksheet-studio/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SyllabusHandler handles syllabus-related HTTP requests
type SyllabusHandler struct {
	service   service.SyllabusService
	validator *validation.Validator
}

// NewSyllabusHandler creates a new SyllabusHandler instance
func NewSyllabusHandler(service service.SyllabusService) *SyllabusHandler {
	return &SyllabusHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// AnalyzeSyllabus godoc
// @Summary Analyze a syllabus
// @Description Converts raw syllabus text into a structured topic/subtopic document and persists it
// @Tags syllabus
// @Accept json
// @Produce json
// @Param request body dto.AnalyzeSyllabusRequest true "Syllabus text, grade and subject"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /syllabus/analyze [post]
func (h *SyllabusHandler) AnalyzeSyllabus(c *fiber.Ctx) error {
	var req dto.AnalyzeSyllabusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Subject == "" {
		req.Subject = "Math"
	}

	if errs := h.validator.ValidateAnalyzeSyllabus(&req); len(errs) > 0 {
		return errs
	}

	doc, err := h.service.Analyze(c.Context(), req.SyllabusText, req.Grade, req.Subject, true)
	if err != nil {
		logger.Get().Error("Failed to analyze syllabus",
			zap.Error(err),
			zap.Int("grade", req.Grade),
			zap.String("subject", req.Subject),
		)
		return err
	}

	return c.JSON(dto.NewSuccess(doc))
}

// LoadSyllabus godoc
// @Summary Load an analyzed syllabus
// @Description Returns the persisted syllabus document for a grade/subject pair
// @Tags syllabus
// @Produce json
// @Param grade path int true "Grade level"
// @Param subject path string true "Subject"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /syllabus/{grade}/{subject} [get]
func (h *SyllabusHandler) LoadSyllabus(c *fiber.Ctx) error {
	grade, err := c.ParamsInt("grade")
	if err != nil || grade < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid grade")
	}
	subject := c.Params("subject")
	if subject == "" {
		return fiber.NewError(fiber.StatusBadRequest, "subject is required")
	}

	doc, err := h.service.Load(grade, subject)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSuccess(doc))
}
