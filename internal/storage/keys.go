package storage

import (
	"fmt"
	"strings"
	"unicode"
)

// SyllabusKey derives the storage key for a grade/subject pair. The
// subject is case-folded for the key only; documents keep it verbatim.
func SyllabusKey(grade int, subject string) string {
	return fmt.Sprintf("%s/syllabus_grade%d_%s.json",
		NamespaceSyllabus, grade, strings.ToLower(subject))
}

// WorksheetKey derives the storage key for a generated worksheet.
func WorksheetKey(grade int, title string) string {
	return fmt.Sprintf("%s/grade%d_%s.html", NamespaceWorksheets, grade, SanitizeTitle(title))
}

// ResultKey derives the storage key for one grading result. The timestamp
// comes from the caller so results are never overwritten; collisions
// within the same second are accepted as a low-probability risk.
func ResultKey(studentName, timestamp string) string {
	return fmt.Sprintf("%s/grade_%s_%s.json", NamespaceResults, SanitizeStudentName(studentName), timestamp)
}

// SanitizeTitle maps every character outside alphanumerics, space, hyphen
// and underscore to underscore, then lowercases and replaces spaces with
// underscores.
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.ToLower(strings.ReplaceAll(b.String(), " ", "_"))
}

// SanitizeStudentName keeps alphanumerics and maps everything else to
// underscore.
func SanitizeStudentName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
