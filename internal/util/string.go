package util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Capitalize upper-cases the first rune and leaves the rest untouched.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// FirstNonEmpty returns the first value that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// CloneStrings copies a slice, returning an empty non-nil slice for nil input.
func CloneStrings(src []string) []string {
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// CloneStringMap copies a map, returning an empty non-nil map for nil input.
func CloneStringMap(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
