package services

import (
	"encoding/json"
	"strings"

	"github.com/pulsefit/pulsefit-backend/internal/svcerr"
)

// ExtractGeneratedPlan pulls a single JSON object out of raw model output,
// which may arrive bare, inside a fenced code block, or buried in prose.
// It returns ErrNoJSON when no object can be located and ErrBadJSON when
// the located object fails to parse.
func ExtractGeneratedPlan(raw string) (*GeneratedPlan, error) {
	candidate := extractJSONObject(raw)
	if candidate == "" {
		return nil, svcerr.ErrNoJSON
	}

	var plan GeneratedPlan
	dec := json.NewDecoder(strings.NewReader(candidate))
	if err := dec.Decode(&plan); err != nil {
		// The candidate is untrusted model output; keep it out of any
		// printf format string.
		msg := "malformed JSON in model response: " + err.Error() + " (head: " + truncate(candidate, 200) + ")"
		return nil, svcerr.ErrBadJSON.WithMessage(msg).WithCause(err)
	}
	return &plan, nil
}

// extractJSONObject prefers a ```json fenced block, then any fenced block,
// then the first balanced top-level object in the text. The balance scan is
// string-aware so braces inside JSON strings do not confuse it.
func extractJSONObject(raw string) string {
	if block := fencedBlock(raw); block != "" {
		if obj := balancedObject(block); obj != "" {
			return obj
		}
	}
	return balancedObject(raw)
}

func fencedBlock(raw string) string {
	for _, marker := range []string{"```json", "```"} {
		start := strings.Index(raw, marker)
		if start < 0 {
			continue
		}
		rest := raw[start+len(marker):]
		end := strings.Index(rest, "```")
		if end < 0 {
			// Truncated responses often lose the closing fence; scan
			// whatever follows the opening one.
			return rest
		}
		return rest[:end]
	}
	return ""
}

func balancedObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
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
				return s[start : i+1]
			}
		}
	}
	// Unbalanced: return the fragment so the parser can report exactly
	// where it breaks.
	return s[start:]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
