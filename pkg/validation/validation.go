package validation

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	email = strings.TrimSpace(strings.ToLower(email))
	return emailRegex.MatchString(email)
}

// ValidateRating checks a star rating is a whole number of stars in range
func ValidateRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// ValidateSlug validates a CMS content slug (lowercase, digits, hyphens)
func ValidateSlug(slug string) bool {
	if len(slug) == 0 || len(slug) > 128 {
		return false
	}
	matched, _ := regexp.MatchString("^[a-z0-9][a-z0-9-]*$", slug)
	return matched
}

// SanitizeString removes potentially harmful characters
func SanitizeString(input string) string {
	// Basic sanitization
	input = strings.TrimSpace(input)
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")
	return input
}

// SanitizeHeader strips CR and LF so a value is safe to interpolate into a
// mail header line.
func SanitizeHeader(input string) string {
	input = strings.NewReplacer("\r", "", "\n", " ").Replace(input)
	return strings.TrimSpace(input)
}
