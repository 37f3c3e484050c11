package dto

import "worksheet-studio/internal/domain"

// QuestionBlock is one worksheet section specification as submitted by the
// builder UI. It mirrors the domain shape one-to-one.
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

// ToDomain converts the request block (and its sub-blocks) to the domain
// representation.
func (b QuestionBlock) ToDomain() domain.QuestionBlock {
	out := domain.QuestionBlock{
		SubtopicID: b.SubtopicID,
		TopicName:  b.TopicName,
		Type:       b.Type,
		Count:      b.Count,
		Options:    b.Options,
		Difficulty: b.Difficulty,
		Continuous: b.Continuous,
	}
	for _, sub := range b.SubBlocks {
		out.SubBlocks = append(out.SubBlocks, sub.ToDomain())
	}
	return out
}

// ToDomainBlocks converts a request block list in order.
func ToDomainBlocks(blocks []QuestionBlock) []domain.QuestionBlock {
	out := make([]domain.QuestionBlock, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b.ToDomain())
	}
	return out
}

// GenerateWorksheetRequest is the request body for worksheet generation
// @Description Ordered question blocks plus grade, title and subject
type GenerateWorksheetRequest struct {
	Grade          int             `json:"grade"`
	Title          string          `json:"title"`
	Subject        string          `json:"subject"`
	QuestionBlocks []QuestionBlock `json:"question_blocks"`
}

// GenerateWorksheetResponse reports the persisted worksheet
type GenerateWorksheetResponse struct {
	Filename       string       `json:"filename"`
	TotalQuestions int          `json:"total_questions"`
	Usage          domain.Usage `json:"usage"`
}

// WorksheetListResponse lists generated worksheet filenames
type WorksheetListResponse struct {
	Worksheets []string `json:"worksheets"`
}
