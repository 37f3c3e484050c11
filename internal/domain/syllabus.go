package domain

// SyllabusDocument is the structured topic/subtopic breakdown produced by
// analyzing raw syllabus text for one grade/subject pair. It is persisted
// wholesale and overwritten on re-analysis; there are no merge semantics.
type SyllabusDocument struct {
	Grade    int              `json:"grade"`
	Subject  string           `json:"subject"`
	Topics   []Topic          `json:"topics"`
	Metadata SyllabusMetadata `json:"_metadata"`
}

// Topic is one main syllabus area containing an ordered list of subtopics.
type Topic struct {
	Name      string     `json:"name"`
	Subtopics []Subtopic `json:"subtopics"`
}

// Subtopic is a single teachable unit. ID is unique within a document and
// is the handle question blocks use to reference it.
type Subtopic struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Difficulty  string `json:"difficulty,omitempty"`
	Description string `json:"description,omitempty"`
}

// SyllabusMetadata records when the document was produced and what it cost.
type SyllabusMetadata struct {
	AnalyzedAt string `json:"analyzed_at"`
	TokensUsed int    `json:"tokens_used"`
}

// FindSubtopic returns the subtopic with the given id, scanning topics in
// order. The second return value is false when no subtopic matches.
func (d *SyllabusDocument) FindSubtopic(subtopicID string) (*Subtopic, bool) {
	for ti := range d.Topics {
		for si := range d.Topics[ti].Subtopics {
			if d.Topics[ti].Subtopics[si].ID == subtopicID {
				return &d.Topics[ti].Subtopics[si], true
			}
		}
	}
	return nil, false
}

// SubtopicCount returns the total number of subtopics across all topics.
func (d *SyllabusDocument) SubtopicCount() int {
	total := 0
	for _, t := range d.Topics {
		total += len(t.Subtopics)
	}
	return total
}
