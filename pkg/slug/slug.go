package slug

import (
	"regexp"
	"strings"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize turns a category path segment into its canonical slug form.
// Category segments arrive URL-decoded and may contain spaces, underscores
// or mixed case ("Mens Kurta" → "mens-kurta").
func Normalize(segment string) string {
	s := strings.ToLower(strings.TrimSpace(segment))

	s = slugRegexp.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}

	return s
}
