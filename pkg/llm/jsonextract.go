package llm

import (
	"errors"
	"strings"
)

// ErrNoJSON indicates that no parseable JSON object was found in the model
// output. For the strategy and draft steps this is a per-keyword fatal error.
var ErrNoJSON = errors.New("no json object found in response")

// ExtractJSON returns the first balanced {...} span in s. Models wrap their
// payload in prose or markdown fences more often than not, so this is a
// best-effort recovery step, not validation - the caller still unmarshals
// the span and handles failure.
func ExtractJSON(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", ErrNoJSON
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
				return s[start : i+1], nil
			}
		}
	}

	return "", ErrNoJSON
}
