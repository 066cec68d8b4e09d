package guard

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrymomot/authkit/pkg/sanitizer"
)

var (
	uppercaseRegex   = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex   = regexp.MustCompile(`[a-z]`)
	digitRegex       = regexp.MustCompile(`[0-9]`)
	specialCharRegex = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?~` + "`" + `]`)

	// Frequently compromised passwords. Checked case-insensitively.
	commonPasswords = map[string]bool{
		"password": true, "password1": true, "password123": true, "password!": true,
		"123456": true, "1234567890": true, "12345678": true, "123456789": true,
		"1234": true, "12345": true, "123123": true, "111111": true, "000000": true,
		"qwerty": true, "qwerty123": true, "qwertyuiop": true, "asdfghjkl": true,
		"zxcvbnm": true, "1q2w3e4r": true, "1qaz2wsx": true, "abc123": true,
		"abcd1234": true, "letmein": true, "welcome": true, "monkey": true,
		"dragon": true, "sunshine": true, "iloveyou": true, "princess": true,
		"football": true, "baseball": true, "basketball": true, "superman": true,
		"batman": true, "trustno1": true, "admin": true, "admin123": true,
		"administrator": true, "root": true, "toor": true, "guest": true,
		"test": true, "testing": true, "user": true, "login": true, "pass": true,
		"master": true, "secret": true, "shadow": true, "michael": true,
		"jennifer": true, "charlie": true, "freedom": true, "internet": true,
		"computer": true, "654321": true, "987654321": true, "123qwe": true,
		"qwe123": true, "a1b2c3": true, "aa123456": true,
	}
)

// PasswordPolicy is the configurable password acceptance rule set.
type PasswordPolicy struct {
	MinLength        int  `env:"GUARD_PASSWORD_MIN_LENGTH" envDefault:"8"`
	MaxLength        int  `env:"GUARD_PASSWORD_MAX_LENGTH" envDefault:"128"`
	RequireUppercase bool `env:"GUARD_PASSWORD_REQUIRE_UPPERCASE" envDefault:"true"`
	RequireLowercase bool `env:"GUARD_PASSWORD_REQUIRE_LOWERCASE" envDefault:"true"`
	RequireDigits    bool `env:"GUARD_PASSWORD_REQUIRE_DIGITS" envDefault:"true"`
	RequireSpecial   bool `env:"GUARD_PASSWORD_REQUIRE_SPECIAL" envDefault:"true"`
}

// DefaultPasswordPolicy returns the production defaults: 8-128 characters,
// all four character classes required.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:        8,
		MaxLength:        128,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireDigits:    true,
		RequireSpecial:   true,
	}
}

// UserInfo carries account attributes a password must not contain.
type UserInfo struct {
	Email string
	Name  string
}

// PasswordStrength is the outcome of a policy check. Valid is strictly
// len(Errors) == 0; Score is a 0..100 heuristic for UI meters and never gates
// acceptance on its own.
type PasswordStrength struct {
	Valid  bool
	Errors []string
	Score  int
}

// Check validates the password against the policy and scores it.
func (p PasswordPolicy) Check(password string, user UserInfo) PasswordStrength {
	var errs []string

	if len(password) < p.MinLength {
		errs = append(errs, fmt.Sprintf("password must be at least %d characters", p.MinLength))
	}
	if p.MaxLength > 0 && len(password) > p.MaxLength {
		errs = append(errs, fmt.Sprintf("password must be at most %d characters", p.MaxLength))
	}

	hasUpper := uppercaseRegex.MatchString(password)
	hasLower := lowercaseRegex.MatchString(password)
	hasDigit := digitRegex.MatchString(password)
	hasSpecial := specialCharRegex.MatchString(password)

	if p.RequireUppercase && !hasUpper {
		errs = append(errs, "password must contain at least one uppercase letter")
	}
	if p.RequireLowercase && !hasLower {
		errs = append(errs, "password must contain at least one lowercase letter")
	}
	if p.RequireDigits && !hasDigit {
		errs = append(errs, "password must contain at least one digit")
	}
	if p.RequireSpecial && !hasSpecial {
		errs = append(errs, "password must contain at least one special character")
	}

	common := commonPasswords[strings.ToLower(password)]
	if common {
		errs = append(errs, "password is too common")
	}

	containsUserInfo := passwordContainsUserInfo(password, user)
	if containsUserInfo {
		errs = append(errs, "password must not contain your email or name")
	}

	score := 0
	score += min(len(password)*3, 40)
	for _, present := range []bool{hasUpper, hasLower, hasDigit, hasSpecial} {
		if present {
			score += 10
		}
	}
	if len(password) > 0 {
		score += int(uniqueRatio(password) * 20)
	}
	if hasRepeatedRun(password, 3) {
		score -= 15
	}
	if common {
		score -= 40
	}
	if containsUserInfo {
		score -= 30
	}
	score = max(0, min(100, score))

	return PasswordStrength{
		Valid:  len(errs) == 0,
		Errors: errs,
		Score:  score,
	}
}

func passwordContainsUserInfo(password string, user UserInfo) bool {
	lower := strings.ToLower(password)

	if local := sanitizer.EmailLocalPart(user.Email); len(local) >= 3 && strings.Contains(lower, local) {
		return true
	}
	if name := strings.ToLower(strings.TrimSpace(user.Name)); len(name) >= 3 && strings.Contains(lower, name) {
		return true
	}
	return false
}

func uniqueRatio(password string) float64 {
	seen := make(map[rune]bool, len(password))
	total := 0
	for _, r := range password {
		seen[r] = true
		total++
	}
	if total == 0 {
		return 0
	}
	return float64(len(seen)) / float64(total)
}

// hasRepeatedRun reports whether the password contains n or more identical
// consecutive characters.
func hasRepeatedRun(password string, n int) bool {
	run := 0
	var prev rune = -1
	for _, r := range password {
		if r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}
