package dto

// AnalyzeSyllabusRequest is the request body for syllabus analysis
// @Description Raw syllabus text plus grade and subject
type AnalyzeSyllabusRequest struct {
	SyllabusText string `json:"syllabus_text"`
	Grade        int    `json:"grade"`
	Subject      string `json:"subject"`
}
