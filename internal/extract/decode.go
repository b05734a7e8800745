package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"invodex/internal/domain"
)

// DecodeFields parses a backend's text response as the single JSON object of
// the seven-field contract. Anything that is not a JSON object is an error;
// field-level garbage is tolerated and left for the sanitizer.
func DecodeFields(text string) (*domain.ExtractedFields, error) {
	trimmed := strings.TrimSpace(text)

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &probe); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w (raw: %s)", err, truncate(trimmed, 300))
	}
	if probe == nil {
		return nil, fmt.Errorf("response is JSON null, expected an object")
	}

	var fields domain.ExtractedFields
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return nil, fmt.Errorf("decoding extracted fields: %w", err)
	}
	return &fields, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
