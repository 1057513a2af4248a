package analyses

import (
	"time"
	"unicode/utf8"
)

// Sentinels keep every result field displayable when parsing recovers
// nothing for it.
const (
	ScoreNotAvailable  = "N/A"
	SkillsNotSpecified = "Not specified"
	NoSuggestionsFound = "No suggestions found."
)

const (
	maxMissingSkills = 3
	maxSuggestions   = 5
)

// maxExcerptPreviewChars caps the excerpt echoed back in responses.
const maxExcerptPreviewChars = 700

// AnalysisResult is the structured form of one screening reply.
type AnalysisResult struct {
	Score         string   `json:"score"`
	MissingSkills []string `json:"missingSkills"`
	Suggestions   []string `json:"suggestions"`
}

// Session holds the latest screening for one client session. A new analysis
// under the same session replaces the previous one.
type Session struct {
	ID             string         `json:"sessionId"`
	AnalysisDone   bool           `json:"analysisDone"`
	FileName       string         `json:"fileName"`
	JobDescription string         `json:"jobDescription"`
	Excerpt        string         `json:"-"`
	Result         AnalysisResult `json:"result"`
	Provider       string         `json:"provider"`
	Model          string         `json:"model"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// ExcerptPreview returns the stored excerpt capped for display.
func (s Session) ExcerptPreview() string {
	if s.Excerpt == "" {
		return ""
	}
	if len(s.Excerpt) <= maxExcerptPreviewChars {
		return s.Excerpt + "..."
	}
	cut := s.Excerpt[:maxExcerptPreviewChars]
	for len(cut) > 0 {
		r, size := utf8.DecodeLastRuneInString(cut)
		if r != utf8.RuneError || size > 1 {
			break
		}
		cut = cut[:len(cut)-1]
	}
	return cut + "..."
}
