package generate

import "strings"

// PromptValues are the user-supplied fillers for a prompt template.
type PromptValues struct {
	Technology        string
	Topic             string
	NumberOfQuestions string
	Difficulty        string
	TopicTag          string
	SubTopicTag       string
	Syllabus          string
}

// processNames maps a display technology to its backend generation process.
var processNames = map[string]string{
	"CPP":        "ca_mcq_cpp",
	"Python":     "theory_mcq_python",
	"Java":       "ca_mcq_java",
	"C":          "ca_mcq_c",
	"Javascript": "ca_mcq_javascript",
	"Sql":        "ca_mcq_sql",
	"HTML_CSS":   "theory_mcq_html_css",
}

// ProcessName resolves the generation process for a technology. The empty
// string marks an unsupported technology.
func ProcessName(technology string) string {
	return processNames[technology]
}

// FillPrompt substitutes {{placeholder}} markers in a prompt template.
// Placeholders with no value stay in place so the user can see what is
// still missing.
func FillPrompt(template string, vals PromptValues) string {
	replacements := map[string]string{
		"{{technology}}":       vals.Technology,
		"{{topic}}":            vals.Topic,
		"{{no_of_questions}}":  vals.NumberOfQuestions,
		"{{difficulty_level}}": vals.Difficulty,
		"{{topic_tag}}":        vals.TopicTag,
		"{{sub_topic_tag}}":    vals.SubTopicTag,
		"{{syllabus_details}}": vals.Syllabus,
	}
	out := template
	for marker, val := range replacements {
		if val == "" {
			continue
		}
		out = strings.ReplaceAll(out, marker, val)
	}
	return out
}
