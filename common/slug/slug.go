// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// InvalidSlugError means a name reduced to an empty slug
type InvalidSlugError struct {
	Name string
}

func (e *InvalidSlugError) Error() string {
	return fmt.Sprintf("name %q produces an empty slug", e.Name)
}

// stripMarks decomposes characters and removes combining marks (é→e, ñ→n)
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Sanitize turns a display name into a slug: lowercase ASCII letters,
// digits and single hyphens, no leading or trailing hyphen. Whitespace and
// underscores become hyphens, everything else outside [a-z0-9-] is dropped.
// Returns InvalidSlugError when nothing survives.
func Sanitize(name string) (string, error) {
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		// Malformed input still gets a best-effort pass
		folded = name
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))

	lastHyphen := true // suppress leading hyphens
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r), r == '_', r == '-':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return "", &InvalidSlugError{Name: name}
	}

	return out, nil
}

// Candidate returns the nth probe for a base slug: the base itself for
// n = 0, then "base-1", "base-2", ...
func Candidate(base string, n int) string {
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
