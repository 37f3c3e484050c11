package dto

import "worksheet-studio/internal/domain"

// GradeTextRequest is the request body for text grading
// @Description Typed student answers for one worksheet
type GradeTextRequest struct {
	Grade          int    `json:"grade"`
	Subject        string `json:"subject"`
	WorksheetTitle string `json:"worksheet_title"`
	StudentAnswers string `json:"student_answers"`
	AnswerKey      string `json:"answer_key,omitempty"`
	StudentName    string `json:"student_name,omitempty"`
}

// GradingImageRequest is one photographed worksheet page
type GradingImageRequest struct {
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
}

// GradeVisionRequest is the request body for vision grading
// @Description Photographed worksheet pages for one worksheet
type GradeVisionRequest struct {
	Grade          int                   `json:"grade"`
	Subject        string                `json:"subject"`
	WorksheetTitle string                `json:"worksheet_title"`
	Images         []GradingImageRequest `json:"images"`
	AnswerKey      string                `json:"answer_key,omitempty"`
	StudentName    string                `json:"student_name,omitempty"`
}

// ToDomainImages converts request images in order.
func ToDomainImages(images []GradingImageRequest) []domain.GradingImage {
	out := make([]domain.GradingImage, 0, len(images))
	for _, img := range images {
		out = append(out, domain.GradingImage{Data: img.Data, MimeType: img.MimeType})
	}
	return out
}

// GradingResponse reports the grading result and, when a student name was
// supplied, where it was saved.
type GradingResponse struct {
	Result  *domain.GradingResult `json:"result"`
	SavedTo string                `json:"saved_to,omitempty"`
}
