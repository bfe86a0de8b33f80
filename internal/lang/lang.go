// Package lang maps the backend language enumeration codes to the display
// names shown in the editor. Both directions pass unknown values through
// unchanged so source data carrying a language this build does not know yet
// keeps round-tripping.
package lang

var displayNames = map[string]string{
	"PYTHON39":   "Python",
	"JAVA":       "Java",
	"CPP":        "C++",
	"C":          "C",
	"JAVASCRIPT": "JavaScript",
	"GO":         "Go",
	"RUST":       "Rust",
	"C_SHARP":    "C#",
}

var codes = map[string]string{
	"Python":     "PYTHON39",
	"Java":       "JAVA",
	"C++":        "CPP",
	"C":          "C",
	"JavaScript": "JAVASCRIPT",
	"Go":         "GO",
	"Rust":       "RUST",
	"C#":         "C_SHARP",
}

// DisplayName converts an enumeration code to its display name.
func DisplayName(code string) string {
	if name, ok := displayNames[code]; ok {
		return name
	}
	return code
}

// Code converts a display name back to its enumeration code.
func Code(displayName string) string {
	if code, ok := codes[displayName]; ok {
		return code
	}
	return displayName
}
