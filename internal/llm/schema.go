package llm

import "github.com/joseph-ayodele/room-measurements/internal/common"

// BuildClassifyJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a generic map.
// We pass this to the model as a structured output constraint and also use it locally
// to validate. The answer must have exactly one boolean per candidate.
func BuildClassifyJSONSchema(n int) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"is_room": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "boolean"},
				"minItems": n,
				"maxItems": n,
			},
		},
		"required": []string{"is_room"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	return common.ValidateJSONAgainstSchema(schemaMap, data)
}
