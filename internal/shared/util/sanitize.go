package util

import (
	"path"
	"strings"
)

// CleanFileName reduces an uploaded file name to a display-safe base name.
// The result is only ever rendered or logged, never used as a storage path.
func CleanFileName(name string) string {
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "\\", "/")
	s = path.Base(s)
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	if s == "." || s == "/" || s == "" {
		return "resume"
	}
	return s
}
