package server

import (
	"fmt"
	"strings"
	"unicode"
)

// passwordValidator checks one named password policy. It returns an
// empty string when the password passes. Username and email are in for
// the similarity check; the others ignore them.
type passwordValidator struct {
	name  string
	check func(password, username, email string) string
}

var passwordValidators = []passwordValidator{
	{name: "min-length", check: checkMinLength},
	{name: "similarity", check: checkUserAttributeSimilarity},
	{name: "not-common", check: checkNotCommon},
	{name: "not-numeric", check: checkNotNumeric},
}

// validatePassword runs every validator and collects the failures, so
// a rejected registration reports all policy violations at once.
func validatePassword(password, username, email string) []string {
	var msgs []string
	for _, v := range passwordValidators {
		if msg := v.check(password, username, email); msg != "" {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func checkMinLength(password, _, _ string) string {
	if len(password) < minPasswordLength {
		return fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength)
	}
	return ""
}

func checkNotNumeric(password, _, _ string) string {
	for _, r := range password {
		if !unicode.IsDigit(r) {
			return ""
		}
	}
	return "This password is entirely numeric."
}

func checkNotCommon(password, _, _ string) string {
	if commonPasswords[strings.ToLower(password)] {
		return "This password is too common."
	}
	return ""
}

// checkUserAttributeSimilarity rejects passwords that are near copies
// of the username or the email's local part. Containment either way is
// close enough for this policy.
func checkUserAttributeSimilarity(password, username, email string) string {
	p := strings.ToLower(password)

	if tooSimilar(p, strings.ToLower(username)) {
		return "The password is too similar to the username."
	}

	local := strings.ToLower(email)
	if at := strings.IndexByte(local, '@'); at > 0 {
		local = local[:at]
	}
	if tooSimilar(p, local) {
		return "The password is too similar to the email address."
	}
	return ""
}

func tooSimilar(password, attr string) bool {
	if len(attr) < 3 {
		return false
	}
	return strings.Contains(password, attr) || strings.Contains(attr, password)
}

var commonPasswords = map[string]bool{
	"password":   true,
	"password1":  true,
	"passw0rd":   true,
	"qwerty":     true,
	"qwerty123":  true,
	"qwertyuiop": true,
	"letmein":    true,
	"welcome":    true,
	"welcome1":   true,
	"iloveyou":   true,
	"admin":      true,
	"login":      true,
	"abc123":     true,
	"monkey":     true,
	"dragon":     true,
	"sunshine":   true,
	"princess":   true,
	"football":   true,
	"baseball":   true,
	"superman":   true,
	"batman":     true,
	"master":     true,
	"shadow":     true,
	"trustno1":   true,
	"starwars":   true,
	"whatever":   true,
	"freedom":    true,
	"hello123":   true,
	"1q2w3e4r":   true,
	"zaq12wsx":   true,
}
