package question

import (
	"encoding/json"
	"testing"
)

func TestTestCaseUnmarshalResolvesHiddenFlags(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantHidden bool
	}{
		{name: "explicit_hidden", payload: `{"input":"1 2","is_hidden":true}`, wantHidden: true},
		{name: "explicit_not_hidden", payload: `{"input":"1 2","is_hidden":false,"visible":false}`, wantHidden: false},
		{name: "omitted_falls_back_to_not_visible", payload: `{"input":"1 2","output":"3","visible":false}`, wantHidden: true},
		{name: "omitted_visible_true", payload: `{"input":"1 2","visible":true}`, wantHidden: false},
		{name: "both_omitted", payload: `{"input":"1 2"}`, wantHidden: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got TestCase
			if err := json.Unmarshal([]byte(tc.payload), &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Hidden != tc.wantHidden {
				t.Fatalf("hidden = %v, want %v", got.Hidden, tc.wantHidden)
			}
			if got.Visible == got.Hidden {
				t.Fatalf("visible/is_hidden diverged: %+v", got)
			}
		})
	}
}

func TestReconcileHidesCaseWhenOnlyVisibleSent(t *testing.T) {
	r := Record{
		"input_output": []any{map[string]any{"input": []any{
			map[string]any{"t_id": any(1), "input": "1 2", "output": "3", "is_hidden": false},
		}}},
	}

	var edited TestCase
	if err := json.Unmarshal([]byte(`{"input":"1 2","output":"3","visible":false}`), &edited); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	f := Project(r)
	f.TestCases = []TestCase{edited}

	out := Reconcile(r, f)
	cur := Object(Object(out.List("input_output")[0]).List("input")[0])
	if got := cur.Bool("is_hidden"); !got {
		t.Fatalf("is_hidden = %v, want true when the payload sends visible:false alone", got)
	}
}
