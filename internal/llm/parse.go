package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/resume-intake/constants"
)

// The decode chain recovers a field mapping from a free-text model response.
// Strategies are pure functions tried in order; the first that yields a
// mapping wins. Keeping them as a tagged list makes each one testable in
// isolation from the model call.

type decodeStrategy struct {
	name string
	fn   func(string) (map[string]string, bool)
}

var decodeStrategies = []decodeStrategy{
	{name: "direct_json", fn: decodeDirect},
	{name: "fenced_json", fn: decodeFenced},
	{name: "brace_scan", fn: decodeBraceScan},
	{name: "manual_fields", fn: decodeManual},
}

var (
	reFenceJSON  = regexp.MustCompile("(?i)```json\\s*")
	reFenceOpen  = regexp.MustCompile("^```\\s*")
	reFenceClose = regexp.MustCompile("```\\s*$")

	// Balanced-brace object candidates, tolerating one level of nesting.
	reJSONObject = regexp.MustCompile(`\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)
)

// DecodeFieldsResponse runs the strategy chain over a raw model response.
// Returns the recovered mapping, the name of the strategy that produced it,
// and whether any strategy succeeded.
func DecodeFieldsResponse(raw string) (map[string]string, string, bool) {
	for _, s := range decodeStrategies {
		if m, ok := s.fn(raw); ok {
			return m, s.name, true
		}
	}
	return nil, "", false
}

// decodeDirect parses a response that is already a bare JSON object.
func decodeDirect(raw string) (map[string]string, bool) {
	t := strings.TrimSpace(raw)
	if !strings.HasPrefix(t, "{") || !strings.HasSuffix(t, "}") {
		return nil, false
	}
	return decodeObject([]byte(t))
}

// decodeFenced strips markdown code-fence markers and retries direct parsing.
func decodeFenced(raw string) (map[string]string, bool) {
	return decodeDirect(stripFences(raw))
}

// decodeBraceScan scans the cleaned text for balanced-brace object
// candidates and keeps the first one that parses.
func decodeBraceScan(raw string) (map[string]string, bool) {
	for _, candidate := range reJSONObject.FindAllString(stripFences(raw), -1) {
		if m, ok := decodeObject([]byte(candidate)); ok {
			return m, true
		}
	}
	return nil, false
}

// decodeManual greps for `"Field": value` shapes per canonical field,
// case-insensitively, taking the dequoted value up to the next comma or line
// break. A partial mapping is acceptable; an empty one is a failure.
func decodeManual(raw string) (map[string]string, bool) {
	cleaned := stripFences(raw)
	out := make(map[string]string)
	for _, field := range constants.CanonicalFields {
		re := regexp.MustCompile(`(?i)["']?` + regexp.QuoteMeta(field) + `["']?\s*:\s*["']?([^",\n]+)["']?`)
		if m := re.FindStringSubmatch(cleaned); m != nil {
			if v := strings.Trim(strings.TrimSpace(m[1]), `"'`); v != "" {
				out[field] = v
			}
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func stripFences(raw string) string {
	t := strings.TrimSpace(raw)
	t = reFenceJSON.ReplaceAllString(t, "")
	t = reFenceOpen.ReplaceAllString(t, "")
	t = reFenceClose.ReplaceAllString(t, "")
	return strings.TrimSpace(t)
}

// decodeObject parses candidate bytes into a string mapping. The candidate
// must be a JSON object whose canonical fields, if present, are scalars;
// that shape gate is enforced by schema before any coercion.
func decodeObject(data []byte) (map[string]string, bool) {
	if err := ValidateJSONAgainstSchema(BuildResumeJSONSchema(), data); err != nil {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case string:
			out[k] = t
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(t)
		case nil:
			// treated as absent; normalization fills the sentinel
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out, true
}
