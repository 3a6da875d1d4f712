package ai

import (
	"encoding/json"
	"strings"
	"unicode"
)

// DecodeJSONResponse unmarshals a model's JSON answer into v. Markdown code
// fences are stripped and keys missing their opening quote are repaired
// before decoding.
func DecodeJSONResponse(text string, v any) error {
	text = StripCodeFences(text)
	return json.Unmarshal([]byte(RepairJSON(text)), v)
}

// StripCodeFences removes a surrounding ``` or ```json fence.
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// RepairJSON inserts the opening quote of object keys that small models
// tend to drop, turning `{keywords": [...]}` into `{"keywords": [...]}`.
// Well-formed input is returned unchanged.
func RepairJSON(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in)+8)
	inString := false

	for i := 0; i < len(in); i++ {
		ch := in[i]
		out = append(out, ch)

		if ch == '"' && (i == 0 || in[i-1] != '\\') {
			inString = !inString
			continue
		}
		if inString || (ch != '{' && ch != ',') {
			continue
		}

		j := i + 1
		for j < len(in) && unicode.IsSpace(in[j]) {
			j++
		}
		k := j
		for k < len(in) && (unicode.IsLetter(in[k]) || in[k] == '_') {
			k++
		}
		if k > j && k+1 < len(in) && in[k] == '"' && in[k+1] == ':' {
			out = append(out, in[i+1:j]...)
			out = append(out, '"')
			out = append(out, in[j:k]...)
			inString = true
			i = k - 1
		}
	}
	return string(out)
}
