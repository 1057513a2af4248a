package extract

import (
	"strings"
	"unicode/utf8"
)

// anchorKeywords are probed in this order, not by position in the text.
var anchorKeywords = []string{"experience", "skills", "education", "project", "achievement"}

const (
	windowBefore = 50
	windowAfter  = 150
	windowJoiner = "..."
)

// Excerpt condenses page texts into a string of at most maxLen bytes.
//
// Pages with no text are skipped and the rest joined with a newline. A short
// enough result is returned verbatim. Otherwise a window around the first
// occurrence of each anchor keyword is collected and the windows are joined
// with "..."; with no keyword hit at all, the leading maxLen bytes are used.
func Excerpt(pages []string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	kept := make([]string, 0, len(pages))
	for _, p := range pages {
		if p == "" {
			continue
		}
		kept = append(kept, p)
	}
	full := strings.Join(kept, "\n")
	if len(full) <= maxLen {
		return full
	}

	var windows []string
	for _, kw := range anchorKeywords {
		idx := indexFold(full, kw)
		if idx < 0 {
			continue
		}
		start := idx - windowBefore
		if start < 0 {
			start = 0
		}
		end := idx + len(kw) + windowAfter
		if end > len(full) {
			end = len(full)
		}
		windows = append(windows, full[start:end])
	}

	if len(windows) == 0 {
		return truncate(full, maxLen)
	}
	return truncate(strings.Join(windows, windowJoiner), maxLen)
}

// indexFold reports the first case-insensitive occurrence of an ASCII substr.
// Offsets stay valid for slicing s, which strings.ToLower cannot guarantee.
func indexFold(s, substr string) int {
	n := len(substr)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(s); i++ {
		if equalFoldASCII(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

func equalFoldASCII(a, b string) bool {
	for i := 0; i < len(a); i++ {
		ca, cb := lowerASCII(a[i]), lowerASCII(b[i])
		if ca != cb {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// truncate cuts s to at most n bytes, backing off a split trailing rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	for len(cut) > 0 {
		r, size := utf8.DecodeLastRuneInString(cut)
		if r != utf8.RuneError || size > 1 {
			break
		}
		cut = cut[:len(cut)-1]
	}
	return cut
}
