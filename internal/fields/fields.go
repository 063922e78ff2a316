// Package fields pulls individual header values out of recovered invoice
// text using ordered pattern cascades. The first pattern in a cascade that
// yields a non-empty capture wins; later patterns are never consulted.
package fields

import (
	"regexp"
	"strings"
)

// Extractor finds single field values. The zero value is ready to use and
// safe for concurrent use.
type Extractor struct {
	vendor VendorResolver
}

// NewExtractor returns an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the value of field in text. ok is false when no pattern
// matched or the field is unknown.
func (e *Extractor) Extract(text string, field Field) (string, bool) {
	if field == Vendor {
		return e.vendor.Resolve(text)
	}
	c, known := cascades[field]
	if !known {
		return "", false
	}
	if c.lower {
		text = strings.ToLower(text)
	}
	return firstCapture(text, c.patterns)
}

// Patterns returns the ordered expressions tried for field.
func (e *Extractor) Patterns(field Field) []string {
	var res []*regexp.Regexp
	if field == Vendor {
		res = vendorPatterns
	} else {
		res = cascades[field].patterns
	}
	out := make([]string, len(res))
	for i, re := range res {
		out[i] = re.String()
	}
	return out
}

func firstCapture(text string, patterns []*regexp.Regexp) (string, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		if v := strings.TrimSpace(m[1]); v != "" {
			return v, true
		}
	}
	return "", false
}
