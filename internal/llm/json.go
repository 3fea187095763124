package llm

import (
	"encoding/json"
	"log"
	"strings"
)

// ParseJSONResponse recovers a JSON object from an LLM response. It makes two
// ordered attempts: a strict parse after stripping markdown code fences, then
// a best-effort extraction of the first balanced object from surrounding
// prose. A nil result means both attempts failed and the caller should use
// its fixed fallback.
func ParseJSONResponse(text string) map[string]any {
	text = stripCodeFence(strings.TrimSpace(text))
	if text == "" {
		return nil
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(text), &result); err == nil {
		return result
	}

	if extracted := extractObject(text); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), &result); err == nil {
			return result
		}
	}

	log.Printf("Failed to parse LLM response as JSON")
	return nil
}

// stripCodeFence removes a wrapping markdown code fence, with or without a
// language tag.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	endIdx := len(lines) - 1
	for i := len(lines) - 1; i > 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			endIdx = i
			break
		}
	}
	return strings.Join(lines[1:endIdx], "\n")
}

// extractObject returns the first balanced top-level {...} in text, or ""
// if none exists. Braces inside JSON strings are skipped.
func extractObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

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
				return text[start : i+1]
			}
		}
	}
	return ""
}
