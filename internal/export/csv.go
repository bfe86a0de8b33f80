package export

import (
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"qforge/internal/question"
)

// FlatCSVFilename is the download name for the code-analysis variant.
const FlatCSVFilename = "questions.csv"

// newID generates the per-export question ids. Swapped out in tests.
var newID = uuid.NewString

var flatHeader = []string{
	"question_id",
	"question_type",
	"short_text",
	"question_text",
	"question_key",
	"content_type",
	"multimedia_count",
	"multimedia_format",
	"multimedia_url",
	"thumbnail_url",
	"tag_names",
	"c_options",
	"w_options",
	"options_content_type",
	"code_data",
	"code_language",
	"explanation",
	"explanation_content_type",
	"toughness",
}

// escapeField wraps a textual field in double quotes unconditionally,
// doubling embedded quotes. The ingestion pipeline downstream expects every
// textual column quoted, so this deliberately does not match encoding/csv's
// minimal quoting.
func escapeField(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// FlatCSV flattens code-analysis multiple-choice records into the fixed
// 19-column ingestion format. Question ids are generated fresh on every
// export; correct options carry the "OPTION : " prefix and wrong options
// "OPTION: ".
func FlatCSV(records []question.Record, technology, topicTag, subTopicTag string) string {
	rows := []string{strings.Join(flatHeader, ",")}

	for i, rec := range records {
		id := newID()
		difficulty := rec.String("difficulty_level")

		tagNames := joinTags([]string{
			"POOL_1",
			strings.ToUpper(topicTag),
			strings.ToUpper(subTopicTag),
			"DIFFICULTY_" + strings.ToUpper(difficulty),
			"SOURCE_GPT",
			"IN_OFFLINE_EXAM",
			"COMPANY_UNKNOWN",
			"IS_PUBLIC",
			id,
		})

		var correct, wrong []string
		for _, opt := range question.Options(rec) {
			if opt.Correct {
				correct = append(correct, "OPTION : "+opt.Text)
			} else {
				wrong = append(wrong, "OPTION: "+opt.Text)
			}
		}

		row := []string{
			id,
			"CODE_ANALYSIS_MULTIPLE_CHOICE",
			escapeField(""),
			escapeField(rec.String("question_text")),
			strconv.Itoa(i),
			"HTML",
			"0",
			"",
			"",
			"",
			escapeField(tagNames),
			escapeField(strings.Join(correct, "\n")),
			escapeField(strings.Join(wrong, "\n")),
			"MARKDOWN",
			escapeField(rec.String("code_data")),
			escapeField(technology),
			escapeField(rec.String("answer_explanation_content")),
			"MARKDOWN",
			difficulty,
		}
		rows = append(rows, strings.Join(row, ","))
	}
	return strings.Join(rows, "\n")
}

func joinTags(tags []string) string {
	kept := tags[:0]
	for _, t := range tags {
		if t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, "\n")
}

var mcqHeader = []string{
	"Question", "OptionA", "OptionB", "OptionC", "OptionD", "Answer",
	"explanation", "HTML code", "CSS code", "JS code", "toughness",
	"topic", "Sub_topic",
}

// MCQCSV renders theoretical multiple-choice records into the 13-column
// review sheet. Options are padded to four; the answer letter reflects the
// (last) correct option.
func MCQCSV(records []question.Record, topicTag, subTopicTag string) (string, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)
	if err := w.Write(mcqHeader); err != nil {
		return "", err
	}

	for _, rec := range records {
		opts := question.Options(rec)
		for len(opts) < 4 {
			opts = append(opts, question.Option{})
		}

		answer := ""
		letters := [4]string{"A", "B", "C", "D"}
		for i, opt := range opts {
			if opt.Correct && i < len(letters) {
				answer = letters[i]
			}
		}

		row := []string{
			rec.String("question_text"),
			opts[0].Text,
			opts[1].Text,
			opts[2].Text,
			opts[3].Text,
			answer,
			rec.String("answer_explanation_content"),
			"",
			"",
			"",
			rec.String("difficulty_level"),
			topicTag,
			subTopicTag,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MCQFilename builds the dated download name for the theoretical variant,
// falling back to "questions" when no technology is chosen.
func MCQFilename(technology string, now time.Time) string {
	if technology == "" {
		technology = "questions"
	}
	return technology + "_" + now.Format("2006-01-02") + "_mcq.csv"
}
