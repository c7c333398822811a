package ai

import "strings"

// Sanitize strips a single leading and trailing markdown code fence from a
// model response. Models wrap JSON in ```json blocks despite instructions
// not to; everything downstream assumes this has run. Idempotent, so
// already-clean text passes through unchanged.
func Sanitize(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	if strings.HasPrefix(text, "```") {
		// Drop the fence line including any language tag (```json, ```JSON).
		if idx := strings.IndexByte(text, '\n'); idx >= 0 {
			text = text[idx+1:]
		} else {
			text = strings.TrimPrefix(text, "```json")
			text = strings.TrimPrefix(text, "```")
		}
	}
	if strings.HasSuffix(strings.TrimSpace(text), "```") {
		text = strings.TrimSpace(text)
		text = strings.TrimSuffix(text, "```")
	}

	return strings.TrimSpace(text)
}

// ExtractJSONObject salvages a JSON object from prose-wrapped text by
// scanning for the outermost braces. Returns "" when no object is present.
func ExtractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// ExtractJSONArray does the same for a top-level JSON array.
func ExtractJSONArray(text string) string {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
