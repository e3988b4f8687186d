package model

import (
	"strings"
	"time"
)

// DisplayDateLayout is the dd/mm/yyyy layout used for announcement dates.
const DisplayDateLayout = "02/01/2006"

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	DisplayDateLayout,
}

// NormalizeDate parses a date-like string. Blank or unparsable input yields the current time.
func NormalizeDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Now()
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Now()
}

// NormalizeTime returns *t, or the current time when t is nil or zero.
func NormalizeTime(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return time.Now()
	}
	return *t
}

// FormatDisplayDate renders t the way announcements show their date.
func FormatDisplayDate(t time.Time) string {
	return t.Format(DisplayDateLayout)
}

// ParseDisplayDate parses a dd/mm/yyyy string; ok is false when it does not match.
func ParseDisplayDate(value string) (time.Time, bool) {
	t, err := time.Parse(DisplayDateLayout, strings.TrimSpace(value))
	return t, err == nil
}

func cloneTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// foldEnum lower-cases value and strips the Portuguese accents used by enum labels.
func foldEnum(value string) string {
	r := strings.NewReplacer("ã", "a", "á", "a", "â", "a", "í", "i", "é", "e", "ê", "e", "ó", "o", "ô", "o", "ú", "u", "ç", "c")
	return r.Replace(strings.ToLower(strings.TrimSpace(value)))
}
