package handler

import (
	"worksheet-studio/internal/dto"
	"worksheet-studio/internal/logger"
	"worksheet-studio/internal/service"
	"worksheet-studio/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WorksheetHandler handles worksheet-related HTTP requests
type WorksheetHandler struct {
	service   service.WorksheetService
	validator *validation.Validator
}

// NewWorksheetHandler creates a new WorksheetHandler instance
func NewWorksheetHandler(service service.WorksheetService) *WorksheetHandler {
	return &WorksheetHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// GenerateWorksheet godoc
// @Summary Generate a worksheet
// @Description Assembles generation instructions from the given question blocks and produces an HTML worksheet
// @Tags worksheets
// @Accept json
// @Produce json
// @Param request body dto.GenerateWorksheetRequest true "Worksheet specification"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /worksheets [post]
func (h *WorksheetHandler) GenerateWorksheet(c *fiber.Ctx) error {
	var req dto.GenerateWorksheetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Subject == "" {
		req.Subject = "Math"
	}

	if errs := h.validator.ValidateGenerateWorksheet(&req); len(errs) > 0 {
		return errs
	}

	worksheet, err := h.service.Generate(c.Context(), req.Grade, req.Title,
		dto.ToDomainBlocks(req.QuestionBlocks), req.Subject)
	if err != nil {
		logger.Get().Error("Failed to generate worksheet",
			zap.Error(err),
			zap.Int("grade", req.Grade),
			zap.String("title", req.Title),
		)
		return err
	}

	return c.JSON(dto.NewSuccess(dto.GenerateWorksheetResponse{
		Filename:       worksheet.Filename,
		TotalQuestions: worksheet.TotalQuestions,
		Usage:          worksheet.Usage,
	}))
}

// ListWorksheets godoc
// @Summary List generated worksheets
// @Description Returns the filenames of all generated worksheets
// @Tags worksheets
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Router /worksheets [get]
func (h *WorksheetHandler) ListWorksheets(c *fiber.Ctx) error {
	filenames, err := h.service.List()
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSuccess(dto.WorksheetListResponse{Worksheets: filenames}))
}

// ViewWorksheet godoc
// @Summary View a generated worksheet
// @Description Serves a stored worksheet as HTML
// @Tags worksheets
// @Produce html
// @Param filename path string true "Worksheet filename"
// @Success 200 {string} string "worksheet HTML"
// @Failure 404 {object} middleware.ErrorResponse
// @Router /worksheets/{filename} [get]
func (h *WorksheetHandler) ViewWorksheet(c *fiber.Ctx) error {
	html, err := h.service.GetHTML(c.Params("filename"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(html)
}
