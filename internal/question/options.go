package question

import (
	"sort"
	"strings"
)

// Option is the canonical list-form multiple-choice option. Correctness is
// a boolean internally; the "TRUE"/"FALSE" string literals some source data
// carries are converted at this boundary and only rendered back as strings
// where an export format requires them.
type Option struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Options normalizes a record's options field to list-form. Two source
// shapes are accepted: a mapping from option text to a correctness marker,
// and a list of {text, correct} objects. Mapping-form entries are ordered
// by text, since the decoded map carries no insertion order.
func Options(r Record) []Option {
	return normalizeOptions(r["options"])
}

func normalizeOptions(v any) []Option {
	switch t := v.(type) {
	case []any:
		out := make([]Option, 0, len(t))
		for _, item := range t {
			opt := Object(item)
			if opt == nil {
				continue
			}
			out = append(out, Option{Text: opt.String("text"), Correct: opt.Bool("correct")})
		}
		return out
	case map[string]any:
		texts := make([]string, 0, len(t))
		for text := range t {
			texts = append(texts, text)
		}
		sort.Strings(texts)
		out := make([]Option, 0, len(t))
		for _, text := range texts {
			out = append(out, Option{Text: text, Correct: truthy(t[text])})
		}
		return out
	}
	return nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true")
	}
	return false
}

// CanonicalizeOptions rewrites mapping-form options into list-form in
// place. Applied to generated records on ingest and before any option
// mutation; list-form is canonical after the first edit.
func CanonicalizeOptions(r Record) {
	if r == nil {
		return
	}
	if _, isMap := r["options"].(map[string]any); !isMap {
		return
	}
	opts := normalizeOptions(r["options"])
	list := make([]any, 0, len(opts))
	for _, opt := range opts {
		list = append(list, map[string]any{"text": opt.Text, "correct": opt.Correct})
	}
	r["options"] = list
}
