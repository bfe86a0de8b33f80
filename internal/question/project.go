package question

import (
	"qforge/internal/codec"
	"qforge/internal/lang"
)

// EditableFields is the flat, editor-facing projection of one record. It is
// derived state: the record inside the collection stays the source of
// truth, and every field change is reconciled straight back into it.
type EditableFields struct {
	ShortText        string     `json:"short_text"`
	ProblemText      string     `json:"problem_text"`
	SelectedLanguage string     `json:"selected_language"`
	PrefilledCode    string     `json:"prefilled_code"`
	MakeDefault      bool       `json:"make_default"`
	SolutionCode     string     `json:"solution_code"`
	BackendCode      string     `json:"backend_code"`
	TestCases        []TestCase `json:"test_cases"`
}

// defaultLanguages is offered when a record carries no code_metadata at
// all, so the language picker is never empty.
var defaultLanguages = []string{"Python", "JavaScript", "Java", "C++", "Go", "Rust", "C#"}

// Project derives the flat field set from a record. Pure and total: a nil
// record projects the zero field set (the reset path on deselection), and
// every missing nested path independently falls back to its default.
func Project(r Record) EditableFields {
	var f EditableFields
	if r == nil {
		return f
	}

	f.ShortText = r.String("short_text")
	f.ProblemText = r.String("question_text")

	if meta := defaultCodeMeta(r.List("code_metadata")); meta != nil {
		f.SelectedLanguage = lang.DisplayName(meta.String("language"))
		f.PrefilledCode = meta.String("code_data")
		f.MakeDefault = meta.Bool("default_code")
	}

	f.SolutionCode = solutionCode(r)
	f.BackendCode = BackendCode(r, f.SelectedLanguage)
	f.TestCases = testCasesOf(r)
	return f
}

// ProjectLanguage derives the field set with the language picker forced to
// a display language, reading that language's code_metadata entry instead
// of the default-flagged one. An empty language falls back to Project.
func ProjectLanguage(r Record, displayLanguage string) EditableFields {
	if r == nil || displayLanguage == "" {
		return Project(r)
	}
	f := Project(r)
	f.SelectedLanguage = displayLanguage
	f.PrefilledCode = ""
	f.MakeDefault = false
	for _, m := range r.List("code_metadata") {
		meta := Object(m)
		if lang.DisplayName(meta.String("language")) == displayLanguage {
			f.PrefilledCode = meta.String("code_data")
			f.MakeDefault = meta.Bool("default_code")
			break
		}
	}
	f.BackendCode = BackendCode(r, displayLanguage)
	return f
}

// defaultCodeMeta picks the entry flagged default_code, falling back to the
// first entry. Several default flags may coexist in loose data; the first
// one wins for selection but all are preserved in the record.
func defaultCodeMeta(metas []any) Record {
	for _, m := range metas {
		if meta := Object(m); meta.Bool("default_code") {
			return meta
		}
	}
	if len(metas) > 0 {
		return Object(metas[0])
	}
	return nil
}

func solutionCode(r Record) string {
	sols := r.List("solutions")
	if len(sols) == 0 {
		return ""
	}
	details := Object(sols[0]).List("code_details")
	if len(details) == 0 {
		return ""
	}
	return Object(details[0]).String("code_content")
}

// BackendCode resolves the decoded first repository file for a display
// language: the language_code_repository_details entry whose language
// matches, its code_repository[0].file_content, base64-decoded. Empty if
// any link in the chain is absent.
func BackendCode(r Record, displayLanguage string) string {
	if r == nil || displayLanguage == "" {
		return ""
	}
	code := lang.Code(displayLanguage)
	for _, d := range r.List("language_code_repository_details") {
		detail := Object(d)
		if detail.String("language") != code {
			continue
		}
		repo := detail.List("code_repository")
		if len(repo) == 0 {
			return ""
		}
		return codec.DecodeBase64(Object(repo[0]).String("file_content"))
	}
	return ""
}

// Languages lists the display names offered by a record's code_metadata, in
// order, falling back to the built-in set when the record has none.
func Languages(r Record) []string {
	metas := r.List("code_metadata")
	if len(metas) == 0 {
		return defaultLanguages
	}
	out := make([]string, 0, len(metas))
	for _, m := range metas {
		out = append(out, lang.DisplayName(Object(m).String("language")))
	}
	return out
}
