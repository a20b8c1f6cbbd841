package cleaner

import (
	"regexp"
	"strings"
)

// maxEmailLength caps accepted addresses at the RFC 5321 path limit.
const maxEmailLength = 254

// validRe is the anchored defensive re-check applied after normalization.
var validRe = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)

// deobfPatterns rewrite textual obfuscations to real separators, applied
// in order. The word forms require surrounding whitespace or brackets so
// that "data" never turns into "d@a".
var deobfPatterns = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)\s*\(\s*at\s*\)\s*`), "@"},
	{regexp.MustCompile(`(?i)\s*\[\s*at\s*\]\s*`), "@"},
	{regexp.MustCompile(`(?i)\s+at\s+`), "@"},
	{regexp.MustCompile(`(?i)\s*\(\s*dot\s*\)\s*`), "."},
	{regexp.MustCompile(`(?i)\s*\[\s*dot\s*\]\s*`), "."},
	{regexp.MustCompile(`(?i)\s+dot\s+`), "."},
	{regexp.MustCompile(`\s+@\s*|\s*@\s+`), "@"},
	{regexp.MustCompile(`\s+\.\s*|\s*\.\s+`), "."},
}

// Normalize lowercases a candidate and trims surrounding whitespace.
// The extraction pattern cannot produce edge whitespace, but callers may
// feed addresses from other sources.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Deobfuscate rewrites "(at)", "[dot]", spaced-out words and stray spaces
// around separators so that obfuscated addresses become extractable.
// It operates on whole scan strings, before extraction.
func Deobfuscate(s string) string {
	for _, p := range deobfPatterns {
		s = p.re.ReplaceAllString(s, p.repl)
	}
	return s
}

// Valid is the structural re-check applied to a normalized candidate.
// It rejects shapes the extraction pattern can still let through:
// consecutive dots, a dot at either end of the local part, empty or
// oversized domain labels, labels starting or ending with '-', and
// addresses over the length cap.
func Valid(email string) bool {
	if email == "" || len(email) > maxEmailLength {
		return false
	}
	if !validRe.MatchString(email) {
		return false
	}
	if strings.Contains(email, "..") {
		return false
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return false
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return false
	}
	for _, label := range strings.Split(domain, ".") {
		if label == "" || len(label) > 63 {
			return false
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
	}
	return true
}
