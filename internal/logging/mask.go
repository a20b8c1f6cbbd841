package logging

import "strings"

// MaskEmail hides the local part of an address for log output, keeping
// its first and last character. Extracted addresses are user data and
// never reach logs unmasked.
//
//	"user@example.com" -> "u**r@example.com"
//	"ab@example.com"   -> "a*@example.com"
//	"u@example.com"    -> "u@example.com"
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}

	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return maskToken(email)
	}

	local := []rune(email[:at])
	domain := email[at:] // includes '@'
	switch len(local) {
	case 1:
		return string(local) + domain
	case 2:
		return string(local[0]) + "*" + domain
	}

	var b strings.Builder
	b.Grow(len(email))
	b.WriteRune(local[0])
	for i := 1; i < len(local)-1; i++ {
		b.WriteByte('*')
	}
	b.WriteRune(local[len(local)-1])
	b.WriteString(domain)
	return b.String()
}

// maskToken masks a non-address token keeping first and last rune.
func maskToken(s string) string {
	runes := []rune(s)
	n := len(runes)
	if n == 1 {
		return s
	}
	if n == 2 {
		return string(runes[0]) + "*"
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteRune(runes[0])
	for i := 1; i < n-1; i++ {
		b.WriteByte('*')
	}
	b.WriteRune(runes[n-1])
	return b.String()
}
