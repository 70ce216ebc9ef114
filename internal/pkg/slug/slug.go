package slug

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// SuffixLength is the length of the disambiguating suffix.
const SuffixLength = 8

// whitespace matches Unicode whitespace, not only the ASCII set of \s.
const whitespace = `\s\v\p{Z}\x{1c}-\x{1f}\x{85}`

var (
	invalidChars = regexp.MustCompile(`[^a-z0-9` + whitespace + `-]`)
	separators   = regexp.MustCompile(`[` + whitespace + `-]+`)
)

// Slugify lower-cases the title, drops everything outside [a-z0-9], whitespace
// and hyphen, collapses whitespace/hyphen runs into one hyphen and trims
// hyphens at both ends.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = invalidChars.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Suffix returns the first SuffixLength characters of a random UUID.
func Suffix() string {
	return uuid.NewString()[:SuffixLength]
}

// WithSuffix appends a fresh suffix to base. An empty base yields the
// suffix alone so the slug never becomes empty.
func WithSuffix(base string) string {
	if base == "" {
		return Suffix()
	}
	return base + "-" + Suffix()
}
