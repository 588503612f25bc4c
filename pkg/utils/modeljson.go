package utils

import (
	"encoding/json"
	"strings"
)

// StripCodeFences removes an optional markdown code-fence wrapper (``` or ```json)
// from generated model output. Models frequently fence JSON even when asked not to,
// so every stage that parses structured output goes through this first.
func StripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// UnmarshalModelJSON strips code fences and unmarshals the remaining text into v.
// If the payload still fails to parse, it retries on the substring between the
// first '{' and the last '}' to tolerate leading or trailing prose.
func UnmarshalModelJSON(raw string, v any) error {
	s := StripCodeFences(raw)
	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return json.Unmarshal([]byte(s[start:end+1]), v)
	}
	return json.Unmarshal([]byte(s), v)
}
