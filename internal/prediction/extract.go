// Package prediction turns raw model output into structured extractions.
// Nothing here returns an error for malformed output: a response that
// cannot be read decodes to an empty prediction and scores zero.
package prediction

import (
	"encoding/json"
	"strings"
)

// ExtractJSON finds a JSON object embedded in free text and parses it. The
// first balanced {...} span that parses wins; failing that, the span from the
// first '{' to the last '}' is tried. Returns false when nothing parses.
func ExtractJSON(text string) (map[string]any, bool) {
	for start := strings.IndexByte(text, '{'); start >= 0; {
		// An unclosed '{' may still contain a balanced object further on.
		if end := matchBrace(text, start); end >= 0 {
			if obj, ok := parseObject(text[start : end+1]); ok {
				return obj, true
			}
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}

	first := strings.IndexByte(text, '{')
	last := strings.LastIndexByte(text, '}')
	if first < 0 || last < first {
		return nil, false
	}
	return parseObject(text[first : last+1])
}

// matchBrace returns the index of the '}' closing the '{' at start, skipping
// braces inside JSON strings, or -1 when the object never closes.
func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func parseObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}
