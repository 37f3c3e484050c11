package domain

// GradingResult is the parsed outcome of one grading call. Score,
// TotalQuestions and Percentage are pointers because the vision path only
// requires a parseable JSON object, not specific keys; the text path
// rejects responses missing any of the three. Details carries whatever
// extra structure the model returned (per-question feedback and the like).
type GradingResult struct {
	Score          *float64               `json:"score,omitempty"`
	TotalQuestions *int                   `json:"total_questions,omitempty"`
	Percentage     *float64               `json:"percentage,omitempty"`
	Feedback       string                 `json:"feedback,omitempty"`
	Details        map[string]interface{} `json:"details,omitempty"`
	Metadata       GradingMetadata        `json:"metadata"`
}

// GradingMetadata is attached to every grading result for cost tracking.
type GradingMetadata struct {
	Model            string `json:"model"`
	TokensUsed       int    `json:"tokens_used"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	GradeLevel       int    `json:"grade_level"`
	Subject          string `json:"subject"`
}

// GradingImage is one photographed worksheet page, inlined as base64.
type GradingImage struct {
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
}
