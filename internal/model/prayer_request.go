package model

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// AnonymousInitials signs prayer requests submitted without a name.
const AnonymousInitials = "Anônimo"

// PrayerRequest is an append-only prayer submitted by anyone.
type PrayerRequest struct {
	ID        int64     `json:"id"`
	Initials  string    `json:"initials"`
	Request   string    `json:"request"`
	Timestamp time.Time `json:"timestamp"`
}

// Clone returns a copy of p.
func (p PrayerRequest) Clone() PrayerRequest { return p }

// Initials takes the upper-cased first letter of up to three words of name.
func Initials(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return AnonymousInitials
	}
	if len(words) > 3 {
		words = words[:3]
	}
	var b strings.Builder
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
