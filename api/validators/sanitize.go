package validators

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SanitizeString trims input and cuts it to maxLen bytes without splitting a
// UTF-8 sequence.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 || len(trimmed) <= maxLen {
		return trimmed
	}
	cut := trimmed[:maxLen]
	for !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}

// SanitizeFileName keeps the base name of an uploaded file, drops control
// characters and path separators, and caps its length.
func SanitizeFileName(name string, maxLen int) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == '/' {
			return -1
		}
		return r
	}, name)
	return SanitizeString(name, maxLen)
}
