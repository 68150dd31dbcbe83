package core

// validate.go holds the shared format rules record kinds compose their
// validators from. Each kind declares which rules apply; the helpers here
// only know how to check one thing each.

import (
	"fmt"
	"regexp"
	"strings"
)

// pinRe matches exactly four digits, nothing more.
var pinRe = regexp.MustCompile(`^\d{4}$`)

// MinPasswordLen is the minimum password length after trimming.
const MinPasswordLen = 6

// RequireFields appends a missing-field entry to verr for every named
// field whose resolved value is empty after trimming. displayNames maps
// logical field names to the header text shown in error messages.
func RequireFields(verr *ValidationError, fields ResolvedFields, displayNames map[string]string, names ...string) {
	for _, n := range names {
		if strings.TrimSpace(fields[n]) == "" {
			display := displayNames[n]
			if display == "" {
				display = n
			}
			verr.Missing = append(verr.Missing, display)
		}
	}
}

// CheckPIN appends a format error unless pin is exactly 4 digits.
// Empty pins are handled by RequireFields, not here.
func CheckPIN(verr *ValidationError, pin string, line int) {
	if pin == "" {
		return
	}
	if !pinRe.MatchString(pin) {
		verr.Format = append(verr.Format,
			fmt.Sprintf("Invalid PIN on line %d: must be exactly 4 digits (0-9)", line))
	}
}

// CheckPassword appends a format error when the trimmed password is
// shorter than MinPasswordLen. Empty passwords are a missing-field case.
func CheckPassword(verr *ValidationError, password string, line int) {
	trimmed := strings.TrimSpace(password)
	if trimmed == "" {
		return
	}
	if len(trimmed) < MinPasswordLen {
		verr.Format = append(verr.Format,
			fmt.Sprintf("Password must be at least %d characters on line %d", MinPasswordLen, line))
	}
}
