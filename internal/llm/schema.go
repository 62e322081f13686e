package llm

import "github.com/joseph-ayodele/resume-intake/constants"

// BuildResumeJSONSchema returns the shape gate for decoded model output as a
// JSON-Schema (draft 2020-12 subset) generic map: a JSON object whose
// canonical fields, when present, are scalar values. Models occasionally emit
// CGPA as a bare number, so scalars other than strings are tolerated here and
// coerced during decoding; structured values (objects, arrays) are rejected
// so a mangled candidate falls through to the next strategy.
func BuildResumeJSONSchema() map[string]any {
	props := make(map[string]any, len(constants.CanonicalFields))
	for _, field := range constants.CanonicalFields {
		props[field] = map[string]any{
			"type": []string{"string", "number", "integer", "boolean", "null"},
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
	}
}
