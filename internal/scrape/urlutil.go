package scrape

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// RemoveQuery strips everything from the first '?' on. Article dedup keys
// depend on this being a plain cut, not a parse/re-encode round trip, so
// stored URLs keep their original byte form.
func RemoveQuery(url string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		return url[:i]
	}
	return url
}

// Slugify folds a display name to a URL-safe identifier: accents stripped,
// lowercased, non-alphanumeric runs collapsed to single hyphens.
func Slugify(name string) string {
	decomposed := norm.NFD.String(name)

	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark from the decomposition, drop it
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

var titleCaser = cases.Title(language.English)

// Title renders a display name in title case ("mobile apps" -> "Mobile Apps").
func Title(name string) string {
	return titleCaser.String(strings.ToLower(name))
}
