package handler

import (
	"worksheet-studio/internal/dto"
	"worksheet-studio/internal/logger"
	"worksheet-studio/internal/service"
	"worksheet-studio/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GradingHandler handles grading-related HTTP requests
type GradingHandler struct {
	service   service.GradingService
	validator *validation.Validator
}

// NewGradingHandler creates a new GradingHandler instance
func NewGradingHandler(service service.GradingService) *GradingHandler {
	return &GradingHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// GradeText godoc
// @Summary Grade typed answers
// @Description Grades a completed worksheet from typed student answers
// @Tags grading
// @Accept json
// @Produce json
// @Param request body dto.GradeTextRequest true "Student answers"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /grading/text [post]
func (h *GradingHandler) GradeText(c *fiber.Ctx) error {
	var req dto.GradeTextRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Subject == "" {
		req.Subject = "Math"
	}

	if errs := h.validator.ValidateGradeText(&req); len(errs) > 0 {
		return errs
	}

	result, err := h.service.GradeText(c.Context(), req.Grade, req.Subject,
		req.WorksheetTitle, req.StudentAnswers, req.AnswerKey)
	if err != nil {
		logger.Get().Error("Failed to grade worksheet",
			zap.Error(err),
			zap.String("title", req.WorksheetTitle),
		)
		return err
	}

	resp := dto.GradingResponse{Result: result}
	if req.StudentName != "" {
		savedTo, err := h.service.SaveResult(result, req.StudentName)
		if err != nil {
			return err
		}
		resp.SavedTo = savedTo
	}

	return c.JSON(dto.NewSuccess(resp))
}

// GradeVision godoc
// @Summary Grade photographed pages
// @Description Grades a completed worksheet from photographed answer pages
// @Tags grading
// @Accept json
// @Produce json
// @Param request body dto.GradeVisionRequest true "Photographed pages"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /grading/vision [post]
func (h *GradingHandler) GradeVision(c *fiber.Ctx) error {
	var req dto.GradeVisionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Subject == "" {
		req.Subject = "Math"
	}

	if errs := h.validator.ValidateGradeVision(&req); len(errs) > 0 {
		return errs
	}

	result, err := h.service.GradeVision(c.Context(), req.Grade, req.Subject,
		req.WorksheetTitle, dto.ToDomainImages(req.Images), req.AnswerKey)
	if err != nil {
		logger.Get().Error("Failed to grade worksheet from images",
			zap.Error(err),
			zap.String("title", req.WorksheetTitle),
			zap.Int("pages", len(req.Images)),
		)
		return err
	}

	resp := dto.GradingResponse{Result: result}
	if req.StudentName != "" {
		savedTo, err := h.service.SaveResult(result, req.StudentName)
		if err != nil {
			return err
		}
		resp.SavedTo = savedTo
	}

	return c.JSON(dto.NewSuccess(resp))
}
