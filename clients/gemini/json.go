package gemini

import (
	"fmt"
	"strings"
)

// ExtractJSON pulls the JSON payload out of a model response. Responses are
// usually clean JSON but occasionally arrive wrapped in a markdown fence or
// with stray prose around the payload.
func ExtractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	text = strings.TrimSpace(text)

	open, closing, start := delimiters(text)
	if start < 0 {
		return "", fmt.Errorf("no JSON payload found")
	}

	// Walk the payload counting delimiters outside of strings so a brace
	// inside a string value cannot end the scan early.
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			escaped = true
		case '"':
			inString = !inString
		case open:
			if !inString {
				depth++
			}
		case closing:
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], nil
				}
			}
		}
	}
	return "", fmt.Errorf("truncated JSON payload")
}

// delimiters decides whether the payload is an array or an object and
// returns the position of its opening delimiter.
func delimiters(text string) (open, closing byte, start int) {
	arr := strings.IndexByte(text, '[')
	obj := strings.IndexByte(text, '{')
	switch {
	case arr >= 0 && (obj < 0 || arr < obj):
		return '[', ']', arr
	case obj >= 0:
		return '{', '}', obj
	default:
		return 0, 0, -1
	}
}
