// Package question holds the in-memory question model: the loosely
// schematized Record, the group/collection structure built from imported
// JSON, and the projection/reconciliation logic that keeps the flat editor
// fields and the nested source structure in sync.
package question

import (
	"strings"

	"github.com/mohae/deepcopy"
)

// Record is one question's full nested JSON structure. Every field is
// optional; accessors degrade to zero values on any missing or mistyped
// segment so arbitrary real-world shapes stay editable.
type Record map[string]any

// Object coerces a decoded JSON value to a Record, returning nil for
// anything that is not an object.
func Object(v any) Record {
	m, _ := v.(map[string]any)
	return m
}

// Clone returns a deep copy sharing no structure with the receiver.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return deepcopy.Copy(map[string]any(r)).(map[string]any)
}

// String reads a top-level string field, empty when absent or mistyped.
func (r Record) String(key string) string {
	if r == nil {
		return ""
	}
	s, _ := r[key].(string)
	return s
}

// List reads a top-level array field, nil when absent or mistyped.
func (r Record) List(key string) []any {
	if r == nil {
		return nil
	}
	l, _ := r[key].([]any)
	return l
}

// Bool reads a top-level boolean field. The string literals "TRUE"/"true"
// count as true; source data is inconsistent about which form it uses.
func (r Record) Bool(key string) bool {
	if r == nil {
		return false
	}
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}

// putString writes v verbatim, except that an empty value never fabricates
// a key the record did not already have. Keeps a project/reconcile round
// trip with no edits structurally identical to the source.
func putString(r Record, key, v string) {
	if v == "" {
		if _, ok := r[key]; !ok {
			return
		}
	}
	r[key] = v
}

// putBool is putString's counterpart for flags: false never fabricates a
// missing key.
func putBool(r Record, key string, v bool) {
	if !v {
		if _, ok := r[key]; !ok {
			return
		}
	}
	r[key] = v
}
