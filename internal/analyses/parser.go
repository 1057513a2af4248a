package analyses

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// scorePattern matches standalone 1-3 digit runs. Longer runs such as
	// years never match because \b cannot fall between two digits.
	scorePattern = regexp.MustCompile(`\b(\d{1,3})\b`)

	// skillSplitPattern separates list items on commas and the word "and".
	skillSplitPattern = regexp.MustCompile(`(?i),|\band\b`)
)

// skillLineMarkers mark the reply line that carries the missing skills list.
var skillLineMarkers = []string{
	"missing skills",
	"skills missing",
	"lacking skills",
	"required skills",
	"skill gaps",
}

// suggestionHeaderMarkers mark the header that opens the suggestion list.
var suggestionHeaderMarkers = []string{
	"suggestion",
	"recommend",
	"advice",
	"improvement",
}

// skillTrimCutset strips bullet markers and stray punctuation from list items.
const skillTrimCutset = "-•* \t.,;:!?\"'()"

// Parse extracts a structured result from a free-form model reply. It never
// fails: any field that cannot be recovered falls back to its sentinel.
func Parse(raw string) AnalysisResult {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return AnalysisResult{
		Score:         parseScore(raw),
		MissingSkills: parseMissingSkills(raw),
		Suggestions:   parseSuggestions(raw),
	}
}

// parseScore returns the first standalone 1-3 digit token valued 0-100.
// Tokens like "150" are skipped, not treated as terminal, so a reply such as
// "ranked 150 of 400. Score: 75/100" still yields 75.
func parseScore(raw string) string {
	for _, match := range scorePattern.FindAllStringSubmatch(raw, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if n <= 100 {
			return match[1]
		}
	}
	return ScoreNotAvailable
}

// parseMissingSkills splits the first marked line into at most three skills.
// Only the text after the last colon counts, so prefixes like
// "Note: missing skills:" do not leak into the list.
func parseMissingSkills(raw string) []string {
	for _, line := range strings.Split(raw, "\n") {
		if !containsAny(strings.ToLower(line), skillLineMarkers) {
			continue
		}
		tail := line[strings.LastIndex(line, ":")+1:]
		skills := make([]string, 0, maxMissingSkills)
		for _, part := range skillSplitPattern.Split(tail, -1) {
			cleaned := strings.Trim(part, skillTrimCutset)
			if cleaned == "" {
				continue
			}
			skills = append(skills, cleaned)
			if len(skills) == maxMissingSkills {
				break
			}
		}
		if len(skills) == 0 {
			break
		}
		return skills
	}
	return []string{SkillsNotSpecified}
}

type suggestionState int

const (
	suggestionSearching suggestionState = iota
	suggestionCollecting
	suggestionDone
)

// parseSuggestions collects up to five bullet lines after the first header
// that mentions suggestions. The first blank line after the header ends the
// list; prose lines between bullets are skipped.
func parseSuggestions(raw string) []string {
	suggestions := make([]string, 0, maxSuggestions)
	state := suggestionSearching
	for _, line := range strings.Split(raw, "\n") {
		switch state {
		case suggestionSearching:
			if containsAny(strings.ToLower(line), suggestionHeaderMarkers) {
				state = suggestionCollecting
			}
		case suggestionCollecting:
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				state = suggestionDone
				break
			}
			if !strings.HasPrefix(trimmed, "-") && !strings.HasPrefix(trimmed, "•") {
				continue
			}
			text := strings.TrimSpace(strings.TrimLeft(trimmed, "-• \t"))
			if idx := strings.Index(text, "."); idx != -1 {
				text = text[:idx]
			}
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			suggestions = append(suggestions, text)
			if len(suggestions) == maxSuggestions {
				state = suggestionDone
			}
		}
		if state == suggestionDone {
			break
		}
	}
	if len(suggestions) == 0 {
		return []string{NoSuggestionsFound}
	}
	return suggestions
}

func containsAny(line string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}
