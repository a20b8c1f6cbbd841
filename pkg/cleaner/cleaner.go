// Package cleaner extracts, normalizes, and deduplicates email addresses
// from pasted text and tabular input.
//
// The extraction pattern is deliberately simple and documented here rather
// than RFC-complete: a candidate is one or more of [a-z0-9._%+-], an '@',
// then dot-separated domain labels of [a-z0-9-] ending in a top-level label
// of at least two letters. Matching is case-insensitive and non-overlapping.
// Candidates are lowercased, re-checked structurally (no consecutive dots,
// no dot at either end of the local part, no label starting or ending with
// '-', at most 254 characters), and deduplicated case-insensitively in
// first-seen order.
//
// Internationalized domains and quoted local parts are out of scope; they
// never match the pattern and are silently skipped, not counted as invalid.
package cleaner

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// candidateRe matches email-shaped substrings inside arbitrary text.
var candidateRe = regexp.MustCompile(`(?i)[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}`)

// Options toggles the optional repair stages. The zero value runs the
// plain extract/normalize/validate/dedup pipeline.
type Options struct {
	// Deobfuscate rewrites common address obfuscations ("(at)", "[dot]",
	// spaced-out separators) before extraction. Aggressive on prose;
	// intended for inputs that are known to be address lists.
	Deobfuscate bool
	// RepairDomains fixes well-known TLD typos and fuzzy-corrects the
	// domain against a list of common providers. A repaired address is
	// validated and deduplicated under its repaired form.
	RepairDomains bool
	// SortByDomain orders the output by (domain, local part) instead of
	// first appearance.
	SortByDomain bool
}

// Result is the outcome of one cleaning run.
type Result struct {
	// Emails holds the unique normalized addresses. First-seen order
	// unless Options.SortByDomain was set.
	Emails []string
	// Found counts every candidate matched by the extraction pattern,
	// valid or not.
	Found int
	// Duplicates counts valid candidates dropped as repeats, so that
	// len(Emails) + Duplicates + Invalid == Found.
	Duplicates int
	// Invalid counts candidates rejected by the structural re-check.
	Invalid int
}

// Unique returns the number of addresses in the output.
func (r Result) Unique() int {
	return len(r.Emails)
}

// Empty reports whether the run produced no addresses.
func (r Result) Empty() bool {
	return len(r.Emails) == 0
}

// File renders the plain-text output format: one address per line with a
// trailing newline, empty for an empty result.
func (r Result) File() []byte {
	if len(r.Emails) == 0 {
		return nil
	}
	var buf bytes.Buffer
	for _, e := range r.Emails {
		buf.WriteString(e)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Summary renders the human-readable four-count summary.
func (r Result) Summary() string {
	return fmt.Sprintf("%d unique emails (%d found, %d duplicates removed, %d invalid rejected)",
		r.Unique(), r.Found, r.Duplicates, r.Invalid)
}

// Clean runs the full pipeline over one input: flatten, extract,
// normalize, validate, deduplicate, summarize. It is a pure function;
// concurrent callers need no synchronization.
func Clean(in Input, opts Options) Result {
	var res Result
	seen := make(map[string]struct{})

	for _, chunk := range in.strings() {
		if chunk == "" {
			continue
		}
		if opts.Deobfuscate {
			chunk = Deobfuscate(chunk)
		}
		for _, cand := range candidateRe.FindAllString(chunk, -1) {
			res.Found++

			email := Normalize(cand)
			if opts.RepairDomains {
				email = RepairDomain(email)
			}
			if !Valid(email) {
				res.Invalid++
				continue
			}
			if _, dup := seen[email]; dup {
				res.Duplicates++
				continue
			}
			seen[email] = struct{}{}
			res.Emails = append(res.Emails, email)
		}
	}

	if opts.SortByDomain {
		sortByDomain(res.Emails)
	}
	return res
}

// sortByDomain orders addresses by (domain, local part).
func sortByDomain(emails []string) {
	sort.Slice(emails, func(i, j int) bool {
		li, di, _ := strings.Cut(emails[i], "@")
		lj, dj, _ := strings.Cut(emails[j], "@")
		if di != dj {
			return di < dj
		}
		return li < lj
	})
}
