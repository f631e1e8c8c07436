package brain

import (
	"encoding/json"
	"strings"
)

// stripFences removes a surrounding markdown code fence from a model
// response. Models wrap JSON in ```json ... ``` often enough that every
// parse site has to tolerate it.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// decodeResponse parses a model response into v, tolerating code fences.
// Failures come back as *ParseError tagged with the tier.
func decodeResponse(tier Tier, raw string, v any) error {
	if err := json.Unmarshal([]byte(stripFences(raw)), v); err != nil {
		return &ParseError{Tier: tier, Err: err}
	}
	return nil
}
