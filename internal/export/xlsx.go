package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"qforge/internal/question"
)

// XLSXFilename is the download name for the review workbook.
const XLSXFilename = "questions.xlsx"

// QuestionsExcel renders the collection into a review workbook, one sheet
// per group, one row per record. Options are flattened to "text [correct]"
// lines in a single cell.
func QuestionsExcel(c *question.Collection) ([]byte, error) {
	f := excelize.NewFile()
	headers := []string{"short_text", "question_text", "difficulty_level", "options", "explanation", "languages"}

	for gi, g := range c.Groups() {
		sheet := g.Key
		if gi == 0 {
			defaultSheet := f.GetSheetName(0)
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("add sheet %s: %w", sheet, err)
			}
		}

		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			_ = f.SetCellValue(sheet, cell, h)
		}
		for i, rec := range g.Records {
			row := i + 2
			values := []any{
				rec.String("short_text"),
				rec.String("question_text"),
				rec.String("difficulty_level"),
				optionsCell(rec),
				rec.String("answer_explanation_content"),
				strings.Join(question.Languages(rec), ", "),
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				_ = f.SetCellValue(sheet, cell, v)
			}
		}
		_ = f.SetColWidth(sheet, "A", "F", 30)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func optionsCell(rec question.Record) string {
	opts := question.Options(rec)
	lines := make([]string, 0, len(opts))
	for _, opt := range opts {
		marker := " "
		if opt.Correct {
			marker = "x"
		}
		lines = append(lines, fmt.Sprintf("[%s] %s", marker, opt.Text))
	}
	return strings.Join(lines, "\n")
}
