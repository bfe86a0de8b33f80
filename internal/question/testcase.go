package question

import "encoding/json"

// Well-known testcase_type values. The field is free text; these are the
// ones the testing platform recognizes.
const (
	CaseNormal = "NORMAL_CASE"
	CaseEdge   = "EDGE_CASE"
	CaseCorner = "CORNER_CASE"
)

// TestCase is the editable view of one input/output pair. Visible is the
// derived inverse of Hidden and must never diverge from it; mutate Hidden
// through SetHidden.
type TestCase struct {
	ID      any    `json:"id"`
	Input   string `json:"input"`
	Output  string `json:"output"`
	Type    string `json:"type"`
	Visible bool   `json:"visible"`
	Hidden  bool   `json:"is_hidden"`
}

// SetHidden updates Hidden and keeps Visible consistent in the same step.
func (t *TestCase) SetHidden(hidden bool) {
	t.Hidden = hidden
	t.Visible = !hidden
}

// UnmarshalJSON resolves the visible/is_hidden pair absence-aware: an
// explicit is_hidden wins, an omitted one falls back to !visible, and a
// payload carrying neither decodes as visible. Both flags always land
// consistent, whatever the payload sent.
func (t *TestCase) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID      any    `json:"id"`
		Input   string `json:"input"`
		Output  string `json:"output"`
		Type    string `json:"type"`
		Visible *bool  `json:"visible"`
		Hidden  *bool  `json:"is_hidden"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	t.ID = wire.ID
	t.Input = wire.Input
	t.Output = wire.Output
	t.Type = wire.Type
	switch {
	case wire.Hidden != nil:
		t.SetHidden(*wire.Hidden)
	case wire.Visible != nil:
		t.SetHidden(!*wire.Visible)
	default:
		t.SetHidden(false)
	}
	return nil
}

// testCasesOf maps input_output[0].input 1:1 into editable test cases,
// preserving order. Missing structure yields nil.
func testCasesOf(r Record) []TestCase {
	ios := r.List("input_output")
	if len(ios) == 0 {
		return nil
	}
	input := Object(ios[0]).List("input")
	if input == nil {
		return nil
	}
	out := make([]TestCase, 0, len(input))
	for i, v := range input {
		tc := Object(v)
		id := any(i + 1)
		if raw, ok := tc["t_id"]; ok && raw != nil {
			id = raw
		}
		hidden := tc.Bool("is_hidden")
		out = append(out, TestCase{
			ID:      id,
			Input:   tc.String("input"),
			Output:  tc.String("output"),
			Type:    tc.String("testcase_type"),
			Visible: !hidden,
			Hidden:  hidden,
		})
	}
	return out
}
