package cleaner

import (
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// domainMatchCutoff is the minimum similarity ratio for a fuzzy domain
// correction. Below it the domain is kept as typed.
const domainMatchCutoff = 0.78

// CommonDomains lists providers eligible for fuzzy correction. Mostly US
// and German consumer mail hosts; corrections never invent domains outside
// this list.
var CommonDomains = []string{
	"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "icloud.com",
	"aol.com", "comcast.net", "verizon.net", "msn.com", "live.com",
	"protonmail.com", "zoho.com", "fastmail.com", "mail.com",
	"web.de", "gmx.de", "t-online.de", "freenet.de", "posteo.de",
	"online.de", "arcor.de", "email.de", "outlook.de", "hotmail.de",
	"gmx.net", "protonmail.de", "tutanota.com",
}

// tldTypos fixes frequent last-label typos before fuzzy matching.
var tldTypos = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`\.(con|cim|cm|c0m)$`), ".com"},
	{regexp.MustCompile(`\.(deu|d)$`), ".de"},
}

// RepairDomain fixes the domain part of a normalized address: first the
// TLD typo table, then a fuzzy match against CommonDomains. Addresses
// without exactly one '@' are returned unchanged; so are domains with no
// close enough match.
func RepairDomain(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return email
	}
	for _, t := range tldTypos {
		domain = t.re.ReplaceAllString(domain, t.repl)
	}
	if fixed, ok := closestDomain(domain); ok {
		domain = fixed
	}
	return local + "@" + domain
}

// closestDomain returns the best CommonDomains entry with similarity
// ratio >= domainMatchCutoff, mirroring difflib.get_close_matches(n=1).
// The quick-ratio upper bounds skip the quadratic match cheaply.
func closestDomain(domain string) (string, bool) {
	m := difflib.NewMatcher(nil, chars(domain))

	var best string
	bestScore := domainMatchCutoff
	found := false
	for _, known := range CommonDomains {
		if known == domain {
			return domain, true
		}
		m.SetSeq1(chars(known))
		if m.RealQuickRatio() < bestScore || m.QuickRatio() < bestScore {
			continue
		}
		if score := m.Ratio(); score > bestScore || (!found && score == bestScore) {
			best, bestScore, found = known, score, true
		}
	}
	return best, found
}

// chars splits a string into one-rune elements for character-level
// sequence matching.
func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
