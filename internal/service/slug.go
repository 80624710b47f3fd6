package service

import (
	"fmt"

	"github.com/gosimple/slug"
)

// maxSlugAttempts bounds the collision retry loop during form creation.
const maxSlugAttempts = 100

// slugBase derives the URL-safe base slug for a form title: lowercased,
// non-alphanumeric runs collapsed to single hyphens, trimmed. Titles with no
// usable characters fall back to "form".
func slugBase(title string) string {
	base := slug.Make(title)
	if base == "" {
		base = "form"
	}
	return base
}

// slugCandidate returns the n-th candidate for a base slug: the base itself,
// then base-1, base-2, and so on. Uniqueness is not checked here; the unique
// index on forms.slug is the authority, and the caller retries on a duplicate
// key error from the insert.
func slugCandidate(base string, attempt int) string {
	if attempt == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, attempt)
}
