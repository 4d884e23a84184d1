package hashnode

import (
	"regexp"
	"strings"
)

var invalidSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
var repeatedHyphens = regexp.MustCompile(`-+`)

// Slugify converts a tag into the slug form the platform accepts, which is
// lowercase letters, digits and hyphens, at most 250 characters.
func Slugify(tag string) string {
	slug := strings.ToLower(tag)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = invalidSlugChars.ReplaceAllString(slug, "-")
	slug = repeatedHyphens.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 250 {
		slug = slug[:250]
	}
	return slug
}
