package models

import (
	"strings"
	"unicode/utf8"
)

// Placeholder substitutes any field that arrives empty, missing, or malformed.
// Normalization is total: a Country never carries an empty string.
const Placeholder = "N/A"

// Country is one catalog entry. Plain comparable struct, value semantics:
// two countries are equal iff all four fields are equal. Immutable after
// construction; a changed record is a new Country.
type Country struct {
	Name    string `json:"name"`
	Region  string `json:"region"`
	Code    string `json:"code"`
	Capital string `json:"capital"`
}

// NewCountry normalizes four raw inputs into a Country. Fields are trimmed;
// empty inputs become the placeholder, and a code outside 2-3 characters is
// replaced rather than rejected. Never fails.
func NewCountry(name, region, code, capital string) Country {
	return Country{
		Name:    normalize(name),
		Region:  normalize(region),
		Code:    normalizeCode(code),
		Capital: normalize(capital),
	}
}

// FallbackSentinel is the single entry served when even the bundled dataset
// is unusable, so a completed load never leaves the list blank.
func FallbackSentinel() Country {
	return Country{
		Name:    "No data available",
		Region:  Placeholder,
		Code:    Placeholder,
		Capital: Placeholder,
	}
}

func normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Placeholder
	}
	return s
}

func normalizeCode(s string) string {
	s = strings.TrimSpace(s)
	if n := utf8.RuneCountInString(s); n < 2 || n > 3 {
		return Placeholder
	}
	return s
}
