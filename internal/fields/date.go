package fields

import (
	"regexp"
	"strings"
	"time"
)

const isoLayout = "2006-01-02"

var (
	separators = strings.NewReplacer("-", "/", ".", "/")
	isoDate    = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)

	// Month-first before day-first; ambiguous dates resolve as month-first.
	dateLayouts = []string{
		"1/2/2006",
		"2/1/2006",
		"1/2/06",
		"2/1/06",
	}
)

// NormalizeDate converts a captured date to YYYY-MM-DD. ok is false when
// raw could not be parsed; callers usually keep raw in that case.
func NormalizeDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if isoDate.MatchString(raw) {
		if t, err := time.Parse("2006-1-2", raw); err == nil {
			return t.Format(isoLayout), true
		}
		return "", false
	}

	value := separators.Replace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(isoLayout), true
		}
	}
	return "", false
}
