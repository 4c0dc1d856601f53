package account

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrInvalidEmail is returned by ValidateEmail.
var ErrInvalidEmail = errors.New("please enter a valid email address")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MinCredentialLength is the shortest credential CheckStrength accepts.
const MinCredentialLength = 8

// credentialSymbols lists the characters that satisfy the symbol rule.
const credentialSymbols = `!@#$%^&*(),.?":{}|<>`

// ValidateEmail is the form-level email check run before Signup and Login.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// CheckStrength reports whether credential has at least eight characters
// and contains a lowercase letter, an uppercase letter, a digit and one of
// the symbols !@#$%^&*(),.?":{}|<>. The error wraps ErrWeakCredential and
// names every rule that failed.
func CheckStrength(credential string) error {
	var lower, upper, digit, symbol bool
	for _, r := range credential {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(credentialSymbols, r):
			symbol = true
		}
	}

	var missing []string
	if utf8.RuneCountInString(credential) < MinCredentialLength {
		missing = append(missing, fmt.Sprintf("at least %d characters", MinCredentialLength))
	}
	if !lower {
		missing = append(missing, "a lowercase letter")
	}
	if !upper {
		missing = append(missing, "an uppercase letter")
	}
	if !digit {
		missing = append(missing, "a number")
	}
	if !symbol {
		missing = append(missing, "a special character")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: needs %s", ErrWeakCredential, strings.Join(missing, ", "))
	}
	return nil
}
