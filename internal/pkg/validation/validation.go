package validation

import (
	"regexp"
	"time"
	"unicode"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Phone: digits only, 6 to 14 characters (national number without calling code).
var phoneRe = regexp.MustCompile(`^\d{6,14}$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func IsValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

// IsValidPassword requires at least 8 characters with a letter, a digit and a
// special character.
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter, hasDigit, hasSpecial := false, false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	return hasLetter && hasDigit && hasSpecial
}

// IsAtLeastYearsOld reports whether birthDate is at least years before now.
func IsAtLeastYearsOld(birthDate time.Time, years int) bool {
	return !birthDate.After(time.Now().AddDate(-years, 0, 0))
}

// FieldErrors accumulates per-field Arabic validation messages.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

func (f FieldErrors) Empty() bool {
	return len(f) == 0
}
