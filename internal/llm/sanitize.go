package llm

import "strings"

// StripFence removes a leading/trailing triple-backtick code fence from a
// model response, skipping a language tag (json, html, ...) on the opening
// fence. Input without a fence is returned trimmed but otherwise intact.
func StripFence(raw string) string {
	content := strings.TrimSpace(raw)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	lines := strings.Split(content, "\n")
	if strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ExtractJSONObject narrows a sanitized response to the substring from the
// first '{' to the last '}', tolerating surrounding prose. It does not
// validate that the result parses; ok is false only when no braced region
// exists at all.
func ExtractJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// SanitizeJSON runs both stages: fence strip then brace-bounded extraction.
func SanitizeJSON(raw string) (string, bool) {
	return ExtractJSONObject(StripFence(raw))
}
