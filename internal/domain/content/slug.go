package content

import (
	"regexp"
	"strings"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug lowercases s and collapses every run of characters outside
// [a-z0-9] into a single hyphen. "Hello, World!" becomes "hello-world".
func GenerateSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlugRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
