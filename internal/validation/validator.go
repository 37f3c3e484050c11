package validation

import (
	"regexp"
	"strings"

	"worksheet-studio/internal/domain"
	"worksheet-studio/internal/dto"
)

const (
	maxSyllabusTextLen = 50000
	maxAnswersLen      = 20000
	maxBlocks          = 20
	maxQuestionCount   = 50
	maxImages          = 10
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAnalyzeSyllabus validates the syllabus analysis request
func (v *Validator) ValidateAnalyzeSyllabus(req *dto.AnalyzeSyllabusRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.SyllabusText) == "" {
		errors = append(errors, domain.NewMissingFieldError("syllabus_text"))
	} else if len(req.SyllabusText) > maxSyllabusTextLen {
		errors = append(errors, domain.NewOutOfRangeError("syllabus_text", len(req.SyllabusText), 1, maxSyllabusTextLen))
	}

	errors = append(errors, v.validateGradeSubject(req.Grade, req.Subject)...)
	return errors
}

// ValidateGenerateWorksheet validates the worksheet generation request
func (v *Validator) ValidateGenerateWorksheet(req *dto.GenerateWorksheetRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.Title) == "" {
		errors = append(errors, domain.NewMissingFieldError("title"))
	}
	errors = append(errors, v.validateGradeSubject(req.Grade, req.Subject)...)

	if len(req.QuestionBlocks) == 0 {
		errors = append(errors, domain.NewMissingFieldError("question_blocks"))
	} else if len(req.QuestionBlocks) > maxBlocks {
		errors = append(errors, domain.NewOutOfRangeError("question_blocks", len(req.QuestionBlocks), 1, maxBlocks))
	}

	for _, block := range req.QuestionBlocks {
		errors = append(errors, v.validateBlock(block)...)
	}
	return errors
}

// ValidateGradeText validates the text grading request
func (v *Validator) ValidateGradeText(req *dto.GradeTextRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.WorksheetTitle) == "" {
		errors = append(errors, domain.NewMissingFieldError("worksheet_title"))
	}
	if strings.TrimSpace(req.StudentAnswers) == "" {
		errors = append(errors, domain.NewMissingFieldError("student_answers"))
	} else if len(req.StudentAnswers) > maxAnswersLen {
		errors = append(errors, domain.NewOutOfRangeError("student_answers", len(req.StudentAnswers), 1, maxAnswersLen))
	}

	errors = append(errors, v.validateGradeSubject(req.Grade, req.Subject)...)
	return errors
}

// ValidateGradeVision validates the vision grading request
func (v *Validator) ValidateGradeVision(req *dto.GradeVisionRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.WorksheetTitle) == "" {
		errors = append(errors, domain.NewMissingFieldError("worksheet_title"))
	}
	if len(req.Images) == 0 {
		errors = append(errors, domain.NewMissingFieldError("images"))
	} else if len(req.Images) > maxImages {
		errors = append(errors, domain.NewOutOfRangeError("images", len(req.Images), 1, maxImages))
	}
	for _, img := range req.Images {
		if img.Data == "" {
			errors = append(errors, domain.NewMissingFieldError("images.data"))
		}
		if !isValidImageMime(img.MimeType) {
			errors = append(errors, domain.NewInvalidFormatError("images.mime_type", img.MimeType))
		}
	}

	errors = append(errors, v.validateGradeSubject(req.Grade, req.Subject)...)
	return errors
}

func (v *Validator) validateGradeSubject(grade int, subject string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if grade < 1 || grade > 12 {
		errors = append(errors, domain.NewOutOfRangeError("grade", grade, 1, 12))
	}
	if subject != "" && !isValidSubject(subject) {
		errors = append(errors, domain.NewInvalidFormatError("subject", subject))
	}
	return errors
}

func (v *Validator) validateBlock(block dto.QuestionBlock) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(block.Type) == "" {
		errors = append(errors, domain.NewMissingFieldError("question_blocks.type"))
	}
	if block.Count < 0 || block.Count > maxQuestionCount {
		errors = append(errors, domain.NewOutOfRangeError("question_blocks.count", block.Count, 0, maxQuestionCount))
	}
	for _, sub := range block.SubBlocks {
		errors = append(errors, v.validateBlock(sub)...)
	}
	return errors
}

// isValidSubject allows letters, digits and spaces, 1-50 characters
func isValidSubject(s string) bool {
	if len(s) == 0 || len(s) > 50 {
		return false
	}
	validSubject := regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)
	return validSubject.MatchString(s)
}

// isValidImageMime accepts image/* media types only
func isValidImageMime(s string) bool {
	return strings.HasPrefix(s, "image/") && len(s) > len("image/")
}
