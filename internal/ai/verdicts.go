package ai

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNoVerdicts is returned when a response holds no usable verdicts.
var ErrNoVerdicts = errors.New("no verdicts in response")

// ParseVerdicts reads verdicts from a model response. Code fences are stripped,
// a single object is treated as a one-element list and objects wrapping the
// list under "verdicts" or "results" are unwrapped.
func ParseVerdicts(raw string) ([]Verdict, error) {
	cleaned := extractJSON(raw)
	if !gjson.Valid(cleaned) {
		return nil, ErrNoVerdicts
	}

	doc := gjson.Parse(cleaned)
	if doc.IsObject() {
		for _, key := range []string{"verdicts", "results", "items"} {
			if inner := doc.Get(key); inner.IsArray() {
				doc = inner
				break
			}
		}
	}

	var items []gjson.Result
	switch {
	case doc.IsArray():
		items = doc.Array()
	case doc.IsObject():
		items = []gjson.Result{doc}
	default:
		return nil, ErrNoVerdicts
	}

	verdicts := make([]Verdict, 0, len(items))
	for _, item := range items {
		if !item.IsObject() {
			continue
		}
		index := item.Get("index")
		if !index.Exists() {
			continue
		}
		verdicts = append(verdicts, Verdict{
			Index:    int(index.Int()),
			Relevant: coerceBool(firstOf(item, "relevant", "is_relevant")),
			Reason:   strings.TrimSpace(firstOf(item, "reason", "justification").String()),
		})
	}

	if len(verdicts) == 0 {
		return nil, ErrNoVerdicts
	}
	return verdicts, nil
}

func firstOf(item gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := item.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceBool(v gjson.Result) bool {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		lower := strings.ToLower(strings.TrimSpace(v.Str))
		return lower == "true" || lower == "yes" || lower == "relevant" || lower == "예"
	default:
		return false
	}
}
