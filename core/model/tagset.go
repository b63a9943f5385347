package model

import (
	"sort"
	"strings"
)

// TagSet is a normalized set of comma-separated tokens such as skills,
// certifications or drone capabilities. Tokens are lowercased and
// whitespace-trimmed on parse so "Thermal, Mapping" and "thermal,mapping"
// compare equal.
type TagSet map[string]struct{}

// ParseTagSet splits raw on commas and normalizes every token. Empty tokens
// are dropped, so both "" and ", ," parse to an empty set.
func ParseTagSet(raw string) TagSet {
	set := TagSet{}
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}

// Contains reports whether the normalized form of tok is in the set.
// The whole token must match, not a substring.
func (s TagSet) Contains(tok string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(tok))]
	return ok
}

// ContainsAll reports whether every token of req is present in s.
// An empty req is trivially satisfied.
func (s TagSet) ContainsAll(req TagSet) bool {
	for tok := range req {
		if _, ok := s[tok]; !ok {
			return false
		}
	}
	return true
}

// Diff returns the tokens of s missing from other, sorted for deterministic
// output.
func (s TagSet) Diff(other TagSet) []string {
	var missing []string
	for tok := range s {
		if _, ok := other[tok]; !ok {
			missing = append(missing, tok)
		}
	}
	sort.Strings(missing)
	return missing
}

// Tokens returns the sorted token list.
func (s TagSet) Tokens() []string {
	toks := make([]string, 0, len(s))
	for tok := range s {
		toks = append(toks, tok)
	}
	sort.Strings(toks)
	return toks
}

// String renders the set as a comma-separated list.
func (s TagSet) String() string { return strings.Join(s.Tokens(), ",") }

// Clone returns an independent copy so snapshot readers never alias store
// state.
func (s TagSet) Clone() TagSet {
	out := make(TagSet, len(s))
	for tok := range s {
		out[tok] = struct{}{}
	}
	return out
}

// EqualText compares two strings after trimming and case folding. Used for
// location matching.
func EqualText(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
