package parser

import (
	"regexp"
	"strings"
)

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// extractJSON pulls a JSON object out of free-form model output: the raw
// text itself, a markdown-fenced block, or the first balanced object found
// in surrounding prose.
func extractJSON(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", false
	}
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		return trimmed, true
	}
	if matches := fencedJSONRe.FindStringSubmatch(trimmed); len(matches) > 1 {
		candidate := strings.TrimSpace(matches[1])
		if strings.HasPrefix(candidate, "{") {
			return candidate, true
		}
	}
	if start := strings.Index(trimmed, "{"); start >= 0 {
		if obj := balancedObject(trimmed[start:]); obj != "" {
			return obj, true
		}
	}
	return "", false
}

// balancedObject returns the prefix of input up to the brace that closes
// the opening one, honoring strings and escapes.
func balancedObject(input string) string {
	depth := 0
	inString := false
	escape := false
	for i, ch := range input {
		if escape {
			escape = false
			continue
		}
		switch ch {
		case '\\':
			escape = true
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return input[:i+1]
				}
			}
		}
	}
	return ""
}
