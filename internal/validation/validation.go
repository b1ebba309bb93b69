// Package validation holds the structural checks that gate writes before any
// encryption or persistence happens. All checks are pure and synchronous:
// they report false instead of returning errors, and the caller translates a
// failure into common.ErrValidation.
package validation

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

const (
	minPasswordLen = 8
	maxNicknameLen = 20
)

var (
	emailRe  = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	postalRe = regexp.MustCompile(`^[0-9]{5}$`)
)

// PostalCode reports whether code is a well-formed 5-digit postal code.
// Format only; no lookup against a postal registry.
func PostalCode(code string) bool {
	return postalRe.MatchString(code)
}

// Email reports whether addr looks like an e-mail address.
func Email(addr string) bool {
	return emailRe.MatchString(addr)
}

// Nickname reports whether name is non-empty and at most 20 runes.
func Nickname(name string) bool {
	n := utf8.RuneCountInString(name)
	return n > 0 && n <= maxNicknameLen
}

// Password reports whether pw satisfies the minimum policy: at least eight
// characters containing at least one letter and one digit.
func Password(pw string) bool {
	if utf8.RuneCountInString(pw) < minPasswordLen {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// Signup checks the required registration fields together.
func Signup(email, nickname, password string) bool {
	return Email(email) && Nickname(nickname) && Password(password)
}

// Update applies the signup rules to whichever fields are present in a
// partial update. Nil means "not supplied" and is always acceptable.
func Update(email, nickname, password *string) bool {
	if email != nil && !Email(*email) {
		return false
	}
	if nickname != nil && !Nickname(*nickname) {
		return false
	}
	if password != nil && !Password(*password) {
		return false
	}
	return true
}
