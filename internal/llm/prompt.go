package llm

import (
	_ "embed"
	"strings"
)

//go:embed prompts/analyze.txt
var analyzePrompt string

// BuildPrompt renders the analysis prompt for one resume excerpt and job
// description pair.
func BuildPrompt(jobDescription, resumeExcerpt string) string {
	replacer := strings.NewReplacer(
		"{{JOB_DESCRIPTION}}", strings.TrimSpace(jobDescription),
		"{{RESUME_EXCERPT}}", strings.TrimSpace(resumeExcerpt),
	)
	return replacer.Replace(analyzePrompt)
}
