package lineitems

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	whitespace  = regexp.MustCompile(`\s+`)
	labelPrefix = regexp.MustCompile(`(?i)^(item|product|service):\s*`)
	nonNumeric  = regexp.MustCompile(`[^\d.\-]`)
)

func cleanDescription(s string) string {
	s = strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
	s = labelPrefix.ReplaceAllString(s, "")
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// parseAmount keeps digits, dots and minus signs and parses the rest.
// Anything unparseable is 0.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(nonNumeric.ReplaceAllString(s, ""), 64)
	if err != nil {
		return 0
	}
	return v
}
