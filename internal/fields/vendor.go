package fields

import (
	"regexp"
	"strings"
	"unicode"
)

const headerLines = 10

var (
	headerSkipWords = []string{"invoice", "bill", "receipt", "tax", "date", "number", "page"}

	// Matched as substrings, so "Telco" counts as a company line.
	companyIndicators = []string{"inc", "llc", "corp", "ltd", "co", "company", "corporation", "limited", "pvt", "private"}

	vendorStrip = regexp.MustCompile(`[^A-Za-z0-9 &.,\-]`)
)

// VendorResolver finds the issuing company name. It looks at the document
// header first, since vendor names rarely follow one shape, and only then
// falls back to patterns.
type VendorResolver struct{}

// Resolve returns the vendor name found in text.
func (VendorResolver) Resolve(text string) (string, bool) {
	if name, ok := scanHeader(text); ok {
		return name, true
	}
	return firstCapture(text, vendorPatterns)
}

func scanHeader(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	if len(lines) > headerLines {
		lines = lines[:headerLines]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) < 3 || hasSkipWord(line) {
			continue
		}
		if !hasCompanyIndicator(line) && !looksLikeName(line) {
			continue
		}
		cleaned := strings.TrimSpace(vendorStrip.ReplaceAllString(line, ""))
		if len(cleaned) > 3 {
			return cleaned, true
		}
	}
	return "", false
}

func hasSkipWord(line string) bool {
	lower := strings.ToLower(line)
	for _, w := range headerSkipWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func hasCompanyIndicator(line string) bool {
	lower := strings.ToLower(line)
	for _, w := range companyIndicators {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func looksLikeName(line string) bool {
	if len(line) <= 5 {
		return false
	}
	first := []rune(line)[0]
	if !unicode.IsUpper(first) {
		return false
	}
	for _, r := range line {
		if !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			return true
		}
	}
	return false
}
