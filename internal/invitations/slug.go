package invitations

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLength = 60

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify folds accents, lowercases and joins words with hyphens.
// "José & María" becomes "jose-maria".
func Slugify(value string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), value)
	if err != nil {
		folded = value
	}
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(folded), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	return slug
}

// coupleSlug derives the default slug from the partner names.
func coupleSlug(one, two string) string {
	parts := []string{}
	for _, name := range []string{one, two} {
		if s := Slugify(name); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "invitation"
	}
	return strings.Join(parts, "-and-")
}

// IsValidSlug reports whether a caller supplied slug is already in canonical form.
func IsValidSlug(slug string) bool {
	return len(slug) <= maxSlugLength && slugPattern.MatchString(slug)
}

func withSuffix(slug string) string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return slug + "-" + strings.Repeat("x", 6)
	}
	suffix := hex.EncodeToString(buf)
	if len(slug)+len(suffix)+1 > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength-len(suffix)-1], "-")
	}
	return slug + "-" + suffix
}
