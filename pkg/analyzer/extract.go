package analyzer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// extractJSON coerces raw model output to a JSON object. Three stages:
// parse the whole text, then the contents of a fenced code block, then the
// first top-level {...} span found in the text.
func extractJSON(text string, out any) error {
	trimmed := strings.TrimSpace(text)

	if err := json.Unmarshal([]byte(trimmed), out); err == nil {
		return nil
	}

	if m := fencedBlockRe.FindStringSubmatch(trimmed); m != nil {
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), out); err == nil {
			return nil
		}
	}

	if span, ok := firstObjectSpan(trimmed); ok {
		if err := json.Unmarshal([]byte(span), out); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no JSON object found in model output")
}

// firstObjectSpan returns the first brace-balanced {...} span in s. Braces
// inside JSON string literals are skipped.
func firstObjectSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
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
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
