package service

import (
	"strings"
	"testing"

	"worksheet-studio/internal/domain"

	"github.com/stretchr/testify/assert"
)

func testSyllabus() *domain.SyllabusDocument {
	return &domain.SyllabusDocument{
		Grade:   3,
		Subject: "Math",
		Topics: []domain.Topic{
			{
				Name: "Numbers",
				Subtopics: []domain.Subtopic{
					{ID: "num_1", Name: "Counting to 1000"},
					{ID: "num_2", Name: "Place Value"},
				},
			},
		},
	}
}

func TestAssembleSectionsMixedBlocks(t *testing.T) {
	blocks := []domain.QuestionBlock{
		{SubtopicID: "num_1", Type: "short_answer", Count: 5},
		{TopicName: "Class Pets", Type: domain.TypePieChart},
		{SubtopicID: "num_2", Type: "multiple_choice", Count: 3, Options: 4},
	}

	instructions, total := assembleSections(testSyllabus(), blocks)

	assert.Equal(t, 8, total, "chart blocks contribute no questions")

	assert.Contains(t, instructions, "--- SECTION 1 START ---")
	assert.Contains(t, instructions, "--- SECTION 2 START ---")
	assert.Contains(t, instructions, "--- SECTION 3 END ---")

	assert.Contains(t, instructions, "Output: <h2>1. Counting to 1000</h2>")
	assert.Contains(t, instructions, "Output: <h2>2. Class Pets</h2>")
	assert.Contains(t, instructions, "Output: <h2>3. Place Value</h2>")

	assert.Contains(t, instructions, "Output EXACTLY 5 short_answer question(s) about 'Counting to 1000'")
	assert.Contains(t, instructions, "STOP AFTER 5 QUESTION(S) - DO NOT ADD MORE")
	assert.Contains(t, instructions, "Output: Google pie chart with id='piechart_0' (4 items)")
	assert.Contains(t, instructions, "Output EXACTLY 3 multiple_choice question(s) about 'Place Value' (4 options)")
}

func TestAssembleSectionsChartIDsAreDistinct(t *testing.T) {
	blocks := []domain.QuestionBlock{
		{TopicName: "A", Type: domain.TypePieChart},
		{TopicName: "B", Type: domain.TypeLineChart},
		{TopicName: "C", Type: domain.TypePieChart},
		{TopicName: "D", Type: domain.TypeLineChart},
	}

	instructions, total := assembleSections(nil, blocks)

	assert.Equal(t, 0, total)
	assert.Contains(t, instructions, "id='piechart_0'")
	assert.Contains(t, instructions, "id='piechart_1'")
	assert.Contains(t, instructions, "id='linechart_0'")
	assert.Contains(t, instructions, "id='linechart_1'")
	assert.Equal(t, 1, strings.Count(instructions, "id='piechart_0'"))
}

func TestAssembleSectionsChartIDsResetPerCall(t *testing.T) {
	blocks := []domain.QuestionBlock{{TopicName: "A", Type: domain.TypePieChart}}

	first, _ := assembleSections(nil, blocks)
	second, _ := assembleSections(nil, blocks)

	assert.Contains(t, first, "id='piechart_0'")
	assert.Equal(t, first, second)
}

func TestAssembleSectionsSingularPhrasing(t *testing.T) {
	instructions, total := assembleSections(nil, []domain.QuestionBlock{
		{TopicName: "Fractions", Type: "word_problem", Count: 1},
	})

	assert.Equal(t, 1, total)
	assert.Contains(t, instructions, "Output EXACTLY ONE word_problem question about 'Fractions'")
	assert.NotContains(t, instructions, "EXACTLY 1 ")
}

func TestAssembleSectionsMissingCountDefaultsToOneInstruction(t *testing.T) {
	instructions, total := assembleSections(nil, []domain.QuestionBlock{
		{TopicName: "Fractions", Type: "word_problem"},
	})

	// The instruction demands one question, but the unspecified count
	// contributes nothing to the expected total.
	assert.Equal(t, 0, total)
	assert.Contains(t, instructions, "Output EXACTLY ONE word_problem question")
	assert.Contains(t, instructions, "STOP AFTER 1 QUESTION(S) - DO NOT ADD MORE")
}

func TestAssembleSectionsTopicResolution(t *testing.T) {
	doc := testSyllabus()

	t.Run("unknown subtopic id falls back", func(t *testing.T) {
		instructions, _ := assembleSections(doc, []domain.QuestionBlock{
			{SubtopicID: "missing_99", Type: "short_answer", Count: 2},
		})
		assert.Contains(t, instructions, "Output: <h2>1. Practice Problems</h2>")
	})

	t.Run("nil syllabus uses topic name", func(t *testing.T) {
		instructions, _ := assembleSections(nil, []domain.QuestionBlock{
			{TopicName: "Custom Topic", Type: "short_answer", Count: 2},
		})
		assert.Contains(t, instructions, "Output: <h2>1. Custom Topic</h2>")
	})

	t.Run("subtopic id with nil syllabus falls back", func(t *testing.T) {
		instructions, _ := assembleSections(nil, []domain.QuestionBlock{
			{SubtopicID: "num_1", TopicName: "Custom Topic", Type: "short_answer", Count: 2},
		})
		assert.Contains(t, instructions, "Output: <h2>1. Practice Problems</h2>")
	})

	t.Run("no topic at all falls back", func(t *testing.T) {
		instructions, _ := assembleSections(nil, []domain.QuestionBlock{
			{Type: "short_answer", Count: 2},
		})
		assert.Contains(t, instructions, "Output: <h2>1. Practice Problems</h2>")
	})
}

func TestAssembleSectionsTimeFormatReminder(t *testing.T) {
	instructions, _ := assembleSections(nil, []domain.QuestionBlock{
		{TopicName: "Clocks", Type: "draw_time", Count: 4},
		{TopicName: "Clocks", Type: "tell_time", Count: 2},
	})

	assert.Contains(t, instructions, "USE ONLY THE DRAW_TIME FORMAT, NO WORD PROBLEMS")
	assert.Contains(t, instructions, "USE ONLY THE TELL_TIME FORMAT, NO WORD PROBLEMS")
}

func TestAssembleSectionsDifficultyAnnotation(t *testing.T) {
	instructions, _ := assembleSections(nil, []domain.QuestionBlock{
		{TopicName: "Fractions", Type: "word_problem", Count: 3, Difficulty: "hard"},
	})

	assert.Contains(t, instructions, "[difficulty: hard]")
}

func TestAssembleSectionsContinuousSharedContext(t *testing.T) {
	blocks := []domain.QuestionBlock{
		{
			TopicName:  "Shopping Trip",
			Type:       "word_problem",
			Continuous: true,
			SubBlocks: []domain.QuestionBlock{
				{Type: "multiple_choice", Count: 2, Options: 4},
				{Type: "short_answer", Count: 3},
			},
		},
	}

	instructions, total := assembleSections(nil, blocks)

	assert.Equal(t, 5, total)
	assert.Contains(t, instructions,
		"Output: ONE shared word_problem context about 'Shopping Trip' - all questions below refer to it")
	assert.Contains(t, instructions, "Output EXACTLY 2 multiple_choice question(s) about the shared context (4 options)")
	assert.Contains(t, instructions, "Output EXACTLY 3 short_answer question(s) about the shared context")
	assert.Contains(t, instructions, "STOP AFTER 5 QUESTION(S) IN THIS SECTION - DO NOT ADD MORE")
	// One stop instruction for the whole section, not one per sub-block.
	assert.Equal(t, 1, strings.Count(instructions, "STOP AFTER"))
}

func TestAssembleSectionsContinuousChartContext(t *testing.T) {
	blocks := []domain.QuestionBlock{
		{
			TopicName:  "Weekly Rainfall",
			Type:       domain.TypeLineChart,
			Continuous: true,
			SubBlocks: []domain.QuestionBlock{
				{Type: "short_answer", Count: 3},
			},
		},
	}

	instructions, total := assembleSections(nil, blocks)

	assert.Equal(t, 3, total)
	assert.Contains(t, instructions, "Output: Google line chart with id='linechart_0' (5 days)")
	assert.Contains(t, instructions, "All questions below refer to the chart above")
	assert.Contains(t, instructions, "STOP AFTER 3 QUESTION(S) IN THIS SECTION - DO NOT ADD MORE")
}

func TestAssembleSectionsDiscreteSubBlocksInheritParentTopic(t *testing.T) {
	blocks := []domain.QuestionBlock{
		{
			TopicName: "Mixed Review",
			Type:      "mixed",
			SubBlocks: []domain.QuestionBlock{
				{Type: "multiple_choice", Count: 2, Options: 3},
				{SubtopicID: "num_1", Type: "short_answer", Count: 1},
			},
		},
	}

	instructions, total := assembleSections(testSyllabus(), blocks)

	assert.Equal(t, 3, total)
	assert.Contains(t, instructions, "Output EXACTLY 2 multiple_choice question(s) about 'Mixed Review' (3 options)")
	assert.Contains(t, instructions, "Output EXACTLY ONE short_answer question about 'Counting to 1000'")
}

func TestAssembleSectionsChartLines(t *testing.T) {
	instructions, _ := assembleSections(nil, []domain.QuestionBlock{
		{TopicName: "A", Type: domain.TypeBarChart},
		{TopicName: "B", Type: domain.TypeDataTable},
	})

	assert.Contains(t, instructions, "Output: CSS bar chart (5 bars)")
	assert.Contains(t, instructions, "Output: Data table (4 rows)")
}

func TestAssembleSectionsEmptyBlocks(t *testing.T) {
	instructions, total := assembleSections(nil, nil)
	assert.Equal(t, "", instructions)
	assert.Equal(t, 0, total)
}
