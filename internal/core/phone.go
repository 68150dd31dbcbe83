package core

// phone.go normalizes raw phone cells into E.164-ish canonical form.
//
// The branch order is load-bearing: an already-international value must be
// recognized before the digit-length heuristics run, and anything
// unrecognized still passes through verbatim so the remote service gets a
// chance to accept it.

import (
	"regexp"
	"strings"
)

var (
	nonDigitRe  = regexp.MustCompile(`\D+`)
	intlPhoneRe = regexp.MustCompile(`^\+\d{8,15}$`)
	regionRe    = regexp.MustCompile(`^\+(\d{1,3})`)
)

// NormalizePhone converts a raw phone string to canonical form.
// Returns nil for empty input, meaning no phone fields are attached
// downstream. The result is best-effort: unrecognized formats come back
// with the trimmed raw value and no country code.
func NormalizePhone(raw string) *NormalizedPhone {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	// Already in international form: keep it, lift the region prefix.
	if intlPhoneRe.MatchString(s) {
		cc := ""
		if m := regionRe.FindStringSubmatch(s); m != nil {
			cc = m[1]
		}
		return &NormalizedPhone{E164: s, CountryCode: cc}
	}

	digits := nonDigitRe.ReplaceAllString(s, "")

	// 10 digits: assume a domestic US number.
	if len(digits) == 10 {
		return &NormalizedPhone{E164: "+1" + digits, CountryCode: "1"}
	}

	// 11 digits with leading 1: US number with country code spelled out.
	if len(digits) == 11 && strings.HasPrefix(digits, "1") {
		return &NormalizedPhone{E164: "+" + digits, CountryCode: "1"}
	}

	// Unrecognized: pass through, the server may still accept it.
	return &NormalizedPhone{E164: s, CountryCode: ""}
}
