package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/authkit/pkg/sanitizer"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "User@Example.COM", "user@example.com"},
		{"trims whitespace", "  user@example.com  ", "user@example.com"},
		{"consolidates dots", "first..last@example.com", "first.last@example.com"},
		{"strips edge dots", ".user.@example.com", "user@example.com"},
		{"preserves plus tags", "User+Tag@Example.com", "user+tag@example.com"},
		{"leaves non-addresses alone", "not-an-email", "not-an-email"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, sanitizer.NormalizeEmail(tc.input))
		})
	}
}

func TestEmailLocalPart(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "alice", sanitizer.EmailLocalPart("Alice@example.com"))
	assert.Equal(t, "", sanitizer.EmailLocalPart("no-at-sign"))
	assert.Equal(t, "", sanitizer.EmailLocalPart("a@b@c"))
}
