package service

import (
	"fmt"
	"strings"

	"worksheet-studio/internal/domain"
)

// fallbackTopicName is used when a block names no topic or its subtopic id
// cannot be resolved.
const fallbackTopicName = "Practice Problems"

// chartCounters allocates distinct element ids for charts within a single
// assembler invocation. Scoped to one worksheet; never reused across calls.
type chartCounters struct {
	bar  int
	pie  int
	line int
}

func (c *chartCounters) nextPieID() string {
	id := fmt.Sprintf("piechart_%d", c.pie)
	c.pie++
	return id
}

func (c *chartCounters) nextLineID() string {
	id := fmt.Sprintf("linechart_%d", c.line)
	c.line++
	return id
}

// assembleSections renders the per-block generation instructions and
// computes the total expected question count. doc may be nil, in which
// case subtopic lookups fall back to the literal topic name.
//
// Each block is wrapped in a SECTION N START/END delimiter pair carrying
// its 1-based position, so the instruction stream is a re-parseable
// sequence of fenced sections.
func assembleSections(doc *domain.SyllabusDocument, blocks []domain.QuestionBlock) (string, int) {
	counters := &chartCounters{}
	var lines []string

	for i, block := range blocks {
		idx := i + 1
		topicName := resolveTopicName(doc, block)

		lines = append(lines, fmt.Sprintf("\n--- SECTION %d START ---", idx))
		lines = append(lines, fmt.Sprintf("Output: <h2>%d. %s</h2>", idx, topicName))

		switch {
		case len(block.SubBlocks) > 0 && block.Continuous:
			lines = append(lines, continuousLines(doc, block, topicName, counters)...)
		case len(block.SubBlocks) > 0:
			for _, sub := range block.SubBlocks {
				subTopic := resolveTopicName(doc, sub)
				if subTopic == fallbackTopicName && sub.SubtopicID == "" && sub.TopicName == "" {
					subTopic = topicName
				}
				lines = append(lines, questionLines(sub, subTopic)...)
			}
		case block.IsChart():
			lines = append(lines, chartLine(block.Type, counters))
		default:
			lines = append(lines, questionLines(block, topicName)...)
		}

		lines = append(lines, fmt.Sprintf("--- SECTION %d END ---\n", idx))
	}

	return strings.Join(lines, "\n"), totalQuestions(blocks)
}

// resolveTopicName picks the display name for a block: syllabus lookup by
// subtopic id first, then the explicit topic name, then the fallback. A
// subtopic id that cannot be resolved, including when doc is nil, always
// yields the fallback rather than the literal topic name.
func resolveTopicName(doc *domain.SyllabusDocument, block domain.QuestionBlock) string {
	if block.SubtopicID != "" {
		if doc != nil {
			if sub, ok := doc.FindSubtopic(block.SubtopicID); ok {
				return sub.Name
			}
		}
		return fallbackTopicName
	}
	if block.TopicName != "" {
		return block.TopicName
	}
	return fallbackTopicName
}

// chartLine emits the rendering instruction for one chart/table element,
// allocating a distinct id for pie and line charts.
func chartLine(chartType string, counters *chartCounters) string {
	switch chartType {
	case domain.TypeBarChart:
		return "Output: CSS bar chart (5 bars)"
	case domain.TypePieChart:
		return fmt.Sprintf("Output: Google pie chart with id='%s' (4 items)", counters.nextPieID())
	case domain.TypeLineChart:
		return fmt.Sprintf("Output: Google line chart with id='%s' (5 days)", counters.nextLineID())
	default: // data_table
		return "Output: Data table (4 rows)"
	}
}

// questionLines emits the instruction pair for one independent question
// block: an exact-count demand and a stop instruction.
func questionLines(block domain.QuestionBlock, topicName string) []string {
	count := block.Count
	if count <= 0 {
		count = 1
	}

	var desc string
	if count == 1 {
		desc = fmt.Sprintf("Output EXACTLY ONE %s question", block.Type)
	} else {
		desc = fmt.Sprintf("Output EXACTLY %d %s question(s)", count, block.Type)
	}
	desc += fmt.Sprintf(" about '%s'", topicName)

	// These types drift into word problems without an explicit reminder.
	if block.Type == "draw_time" || block.Type == "tell_time" {
		desc += fmt.Sprintf(" - USE ONLY THE %s FORMAT, NO WORD PROBLEMS", strings.ToUpper(block.Type))
	}
	if block.Options > 0 {
		desc += fmt.Sprintf(" (%d options)", block.Options)
	}
	if block.Difficulty != "" {
		desc += fmt.Sprintf(" [difficulty: %s]", block.Difficulty)
	}

	return []string{
		"Output: " + desc,
		fmt.Sprintf("STOP AFTER %d QUESTION(S) - DO NOT ADD MORE", count),
	}
}

// continuousLines renders a block whose sub-blocks share one generated
// context: exactly one shared-context instruction, one instruction per
// sub-block against that context, and a single stop instruction using the
// sum of all sub-block counts.
func continuousLines(doc *domain.SyllabusDocument, block domain.QuestionBlock, topicName string, counters *chartCounters) []string {
	var lines []string

	if block.IsChart() {
		lines = append(lines, chartLine(block.Type, counters))
		lines = append(lines, "All questions below refer to the chart above")
	} else {
		lines = append(lines, fmt.Sprintf(
			"Output: ONE shared %s context about '%s' - all questions below refer to it",
			block.Type, topicName))
	}

	total := 0
	for _, sub := range block.SubBlocks {
		count := sub.Count
		if count <= 0 {
			count = 1
		}
		total += count

		desc := fmt.Sprintf("Output EXACTLY %d %s question(s) about the shared context", count, sub.Type)
		if count == 1 {
			desc = fmt.Sprintf("Output EXACTLY ONE %s question about the shared context", sub.Type)
		}
		if sub.Options > 0 {
			desc += fmt.Sprintf(" (%d options)", sub.Options)
		}
		if sub.Difficulty != "" {
			desc += fmt.Sprintf(" [difficulty: %s]", sub.Difficulty)
		}
		lines = append(lines, "Output: "+desc)
	}

	lines = append(lines, fmt.Sprintf("STOP AFTER %d QUESTION(S) IN THIS SECTION - DO NOT ADD MORE", total))
	return lines
}

// totalQuestions sums the expected question count across all blocks,
// skipping chart/table types and descending into sub-blocks. The value is
// surfaced for point totals; it is never verified against model output.
func totalQuestions(blocks []domain.QuestionBlock) int {
	total := 0
	for _, block := range blocks {
		if len(block.SubBlocks) > 0 {
			for _, sub := range block.SubBlocks {
				if !sub.IsChart() {
					total += sub.Count
				}
			}
			continue
		}
		if !block.IsChart() {
			total += block.Count
		}
	}
	return total
}
