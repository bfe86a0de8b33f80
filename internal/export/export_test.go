package export

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"qforge/internal/codec"
	"qforge/internal/question"
)

func collectionFrom(t *testing.T, text string) *question.Collection {
	t.Helper()
	v, err := codec.Parse(text)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	c, err := question.FromParsedValue(v)
	if err != nil {
		t.Fatalf("build collection: %v", err)
	}
	return c
}

func mcqRecord(t *testing.T) question.Record {
	t.Helper()
	v, err := codec.Parse(`{
		"question_text": "What does print(1) output?",
		"answer_explanation_content": "It writes 1.",
		"difficulty_level": "EASY",
		"code_data": "print(1)",
		"options": [
			{"text": "1", "correct": true},
			{"text": "2", "correct": false},
			{"text": "an error", "correct": false}
		]
	}`)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return question.Object(v)
}

func TestJSONGroupsBaseImport(t *testing.T) {
	c := collectionFrom(t, `[{"short_text":"Q1","question_text":"Sum two numbers","code_metadata":[{"language":"PYTHON39","code_data":"print(1)","default_code":true}]}]`)

	groups, err := JSONGroups(c)
	if err != nil {
		t.Fatalf("JSONGroups: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected one group, got %d", len(groups))
	}
	text, ok := groups[question.BaseGroupKey]
	if !ok {
		t.Fatalf("missing base group")
	}
	v, err := codec.Parse(text)
	if err != nil {
		t.Fatalf("exported JSON must reparse: %v", err)
	}
	items, ok := v.([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected a one-element array, got %T", v)
	}
	if question.Object(items[0]).String("short_text") != "Q1" {
		t.Fatalf("record content lost in export")
	}
	if !strings.Contains(text, "\n  ") {
		t.Fatalf("expected 2-space indentation")
	}
}

func TestZipArchiveLayout(t *testing.T) {
	c := collectionFrom(t, `[{"short_text":"Q1"}]`)
	c.MergeGeneratedGroup("Question1", []question.Record{{"short_text": "G1"}})

	blob, err := ZipArchive(c)
	if err != nil {
		t.Fatalf("ZipArchive: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		t.Fatalf("reopen archive: %v", err)
	}

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	want := []string{"Coding Questions/Base_Question.json", "Coding Questions/Question1.json"}
	if len(names) != 2 || names[0] != want[0] || names[1] != want[1] {
		t.Fatalf("archive layout %v, want %v", names, want)
	}

	rc, err := zr.File[1].Open()
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if !strings.Contains(string(body), `"G1"`) {
		t.Fatalf("generated group content missing: %s", body)
	}
}

func TestFlatCSVShape(t *testing.T) {
	orig := newID
	newID = func() string { return "fixed-id" }
	defer func() { newID = orig }()

	rec := mcqRecord(t)
	out := FlatCSV([]question.Record{rec}, "Python", "TOPIC_PYTHON_MCQ", "SUB_TOPIC_LOOPS")

	lines := strings.Split(out, "\n")
	if lines[0] != strings.Join(flatHeader, ",") {
		t.Fatalf("header mismatch: %s", lines[0])
	}
	if len(flatHeader) != 19 {
		t.Fatalf("expected 19 columns, got %d", len(flatHeader))
	}

	if !strings.HasPrefix(lines[1], `fixed-id,CODE_ANALYSIS_MULTIPLE_CHOICE,"",`) {
		t.Fatalf("row prefix mismatch: %s", lines[1])
	}
	if !strings.Contains(out, `"OPTION : 1"`) {
		t.Fatalf("correct option prefix missing")
	}
	if !strings.Contains(out, "OPTION: 2\nOPTION: an error") {
		t.Fatalf("wrong options missing or misjoined")
	}
	if !strings.Contains(out, "DIFFICULTY_EASY") || !strings.Contains(out, "SOURCE_GPT") {
		t.Fatalf("tag block incomplete")
	}
	if !strings.Contains(out, "fixed-id\nSOURCE_GPT") && !strings.Contains(out, "IS_PUBLIC\nfixed-id") {
		t.Fatalf("generated id missing from tag block")
	}
}

func TestFlatCSVEscapesQuotes(t *testing.T) {
	if got := escapeField(`say "hi"`); got != `"say ""hi"""` {
		t.Fatalf("escapeField: %s", got)
	}
}

func TestFlatCSVFreshIDsPerRow(t *testing.T) {
	orig := newID
	n := 0
	newID = func() string { n++; return "id-" + strings.Repeat("x", n) }
	defer func() { newID = orig }()

	out := FlatCSV([]question.Record{mcqRecord(t), mcqRecord(t)}, "Python", "T", "S")
	if !strings.Contains(out, "id-x,") || !strings.Contains(out, "id-xx,") {
		t.Fatalf("each row must get a fresh id:\n%s", out)
	}
}

func TestMCQCSV(t *testing.T) {
	out, err := MCQCSV([]question.Record{mcqRecord(t)}, "TOPIC_PYTHON_MCQ", "SUB_TOPIC_LOOPS")
	if err != nil {
		t.Fatalf("MCQCSV: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != strings.Join(mcqHeader, ",") {
		t.Fatalf("header mismatch: %s", lines[0])
	}
	if len(mcqHeader) != 13 {
		t.Fatalf("expected 13 columns, got %d", len(mcqHeader))
	}
	if !strings.Contains(lines[1], ",1,2,an error,,A,") {
		t.Fatalf("options/answer mismatch: %s", lines[1])
	}
	if !strings.HasSuffix(lines[1], ",EASY,TOPIC_PYTHON_MCQ,SUB_TOPIC_LOOPS") {
		t.Fatalf("tail columns mismatch: %s", lines[1])
	}
}

func TestMCQFilename(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	if got := MCQFilename("Python", now); got != "Python_2026-08-31_mcq.csv" {
		t.Fatalf("got %s", got)
	}
	if got := MCQFilename("", now); got != "questions_2026-08-31_mcq.csv" {
		t.Fatalf("got %s", got)
	}
}

func TestQuestionsExcel(t *testing.T) {
	c := collectionFrom(t, `[{"short_text":"Q1","question_text":"Sum two numbers"}]`)
	c.MergeGeneratedGroup("Question1", []question.Record{{"short_text": "G1"}})

	blob, err := QuestionsExcel(c)
	if err != nil {
		t.Fatalf("QuestionsExcel: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != question.BaseGroupKey || sheets[1] != "Question1" {
		t.Fatalf("sheet layout %v", sheets)
	}
	rows, err := f.GetRows(question.BaseGroupKey)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "Q1" || rows[1][1] != "Sum two numbers" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}
