package sanitizer

import (
	"regexp"
	"strings"
)

var dotRegex = regexp.MustCompile(`\.{2,}`)

// NormalizeEmail case-folds and trims an email address, preserving the
// original string for inputs that are not shaped like an address.
// Consecutive dots in the local part are consolidated since they cause
// delivery issues with some providers.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	local := dotRegex.ReplaceAllString(parts[0], ".")
	local = strings.Trim(local, ".")

	return local + "@" + parts[1]
}

// EmailLocalPart returns the lower-cased part before the '@', or "" when the
// input is not shaped like an address. Used by the password policy to reject
// passwords containing the user's own mailbox name.
func EmailLocalPart(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return ""
	}
	return parts[0]
}

// Trim collapses surrounding whitespace. Convenience alias kept for pipeline
// composition with NormalizeEmail.
func Trim(s string) string {
	return strings.TrimSpace(s)
}
