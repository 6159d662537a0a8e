package pkg

import (
	"strings"
)

// Slugify lowercases name and joins its whitespace-separated words with
// single hyphens: "Movie Night" -> "movie-night".
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
