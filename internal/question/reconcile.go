package question

import (
	"qforge/internal/codec"
	"qforge/internal/lang"
)

// Reconcile merges edited flat fields back into the record's nested
// structure and returns the result as a new record; the input is never
// mutated, so callers can compare or revert. Each rule applies
// independently and degrades to a no-op when its target path is absent —
// the reconciler never fabricates structure and never grows arrays.
//
// Reconciling an unmodified projection is a structural identity:
// Reconcile(r, Project(r)) equals r.
func Reconcile(r Record, f EditableFields) Record {
	if r == nil {
		return nil
	}
	out := r.Clone()

	putString(out, "short_text", f.ShortText)
	putString(out, "question_text", f.ProblemText)

	reconcileCodeMetadata(out, f)
	reconcileSolution(out, f.SolutionCode)
	reconcileBackendCode(out, f)
	reconcileTestCases(out, f.TestCases)

	return out
}

// reconcileCodeMetadata writes the selected language's code and default
// flag, and enforces at-most-one-default: when the edited entry is flagged
// default, every other entry's flag is forced false. When it is not, other
// entries keep whatever flags they had.
func reconcileCodeMetadata(out Record, f EditableFields) {
	if f.SelectedLanguage == "" {
		return
	}
	for _, m := range out.List("code_metadata") {
		meta := Object(m)
		if meta == nil {
			continue
		}
		if lang.DisplayName(meta.String("language")) == f.SelectedLanguage {
			putString(meta, "code_data", f.PrefilledCode)
			putBool(meta, "default_code", f.MakeDefault)
		} else if f.MakeDefault {
			putBool(meta, "default_code", false)
		}
	}
}

// reconcileSolution writes solutions[0].code_details[0].code_content, only
// when that path already exists.
func reconcileSolution(out Record, solutionCode string) {
	sols := out.List("solutions")
	if len(sols) == 0 {
		return
	}
	details := Object(sols[0]).List("code_details")
	if len(details) == 0 {
		return
	}
	if d := Object(details[0]); d != nil {
		putString(d, "code_content", solutionCode)
	}
}

// reconcileBackendCode re-encodes the backend file into the repository
// entry matching the selected language. Skipped entirely when the edited
// code is empty: an empty editor buffer is indistinguishable from a
// suppressed decode and must not wipe the stored file.
func reconcileBackendCode(out Record, f EditableFields) {
	if f.BackendCode == "" || f.SelectedLanguage == "" {
		return
	}
	code := lang.Code(f.SelectedLanguage)
	for _, d := range out.List("language_code_repository_details") {
		detail := Object(d)
		if detail == nil || detail.String("language") != code {
			continue
		}
		repo := detail.List("code_repository")
		if len(repo) == 0 {
			continue
		}
		if file := Object(repo[0]); file != nil {
			file["file_content"] = codec.EncodeBase64(f.BackendCode)
		}
	}
}

// reconcileTestCases merges edited cases index-wise into
// input_output[0].input. Edits beyond the existing array length are
// dropped; growth is not a supported operation here.
func reconcileTestCases(out Record, cases []TestCase) {
	ios := out.List("input_output")
	if len(ios) == 0 {
		return
	}
	existing := Object(ios[0]).List("input")
	for i, tc := range cases {
		if i >= len(existing) {
			break
		}
		cur := Object(existing[i])
		if cur == nil {
			continue
		}
		putString(cur, "input", tc.Input)
		putString(cur, "output", tc.Output)
		putString(cur, "testcase_type", tc.Type)
		putBool(cur, "is_hidden", tc.Hidden)
	}
}
