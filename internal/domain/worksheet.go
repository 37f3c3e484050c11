package domain

// Question block types that render a visual element instead of questions.
const (
	TypeBarChart  = "bar_chart"
	TypePieChart  = "pie_chart"
	TypeLineChart = "line_chart"
	TypeDataTable = "data_table"
)

// QuestionBlock is one teacher-specified worksheet section. Either
// SubtopicID (resolved against the analyzed syllabus) or TopicName names
// the topic; Type selects a chart/table element or a question kind.
//
// When Continuous is true the block's SubBlocks share one generated
// context (a single scenario, chart or passage); otherwise each sub-block
// stands on its own. Blocks are transient: built per request, never
// persisted.
type QuestionBlock struct {
	SubtopicID string          `json:"subtopic_id,omitempty"`
	TopicName  string          `json:"topic_name,omitempty"`
	Type       string          `json:"type"`
	Count      int             `json:"count,omitempty"`
	Options    int             `json:"options,omitempty"`
	Difficulty string          `json:"difficulty,omitempty"`
	Continuous bool            `json:"continuous,omitempty"`
	SubBlocks  []QuestionBlock `json:"sub_blocks,omitempty"`
}

// IsChart reports whether the block type renders a chart or table rather
// than questions. Chart blocks never contribute to the expected question
// count.
func (b QuestionBlock) IsChart() bool {
	return IsChartType(b.Type)
}

// IsChartType reports whether the given block type is a chart/table type.
func IsChartType(t string) bool {
	switch t {
	case TypeBarChart, TypePieChart, TypeLineChart, TypeDataTable:
		return true
	}
	return false
}

// Worksheet is a generated HTML worksheet together with the bookkeeping
// the caller needs for scoring.
type Worksheet struct {
	Grade          int    `json:"grade"`
	Subject        string `json:"subject"`
	Title          string `json:"title"`
	Filename       string `json:"filename"`
	HTML           string `json:"-"`
	TotalQuestions int    `json:"total_questions"`
	Usage          Usage  `json:"usage"`
}

// Usage tracks token consumption for a single LLM call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
