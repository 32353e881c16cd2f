// Package glob implements whole-string wildcard matching where '*' matches
// any run of characters, path separators included.
package glob

import (
	"regexp"
	"strings"
)

// Matcher is a compiled wildcard pattern.
type Matcher struct {
	pattern string
	re      *regexp.Regexp
}

// Compile turns pattern into a Matcher. Every character except '*' is literal
// and matching is case-sensitive and anchored at both ends.
func Compile(pattern string) *Matcher {
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return &Matcher{
		pattern: pattern,
		re:      regexp.MustCompile(`\A` + strings.Join(parts, `.*`) + `\z`),
	}
}

// Match reports whether s matches the pattern in full.
func (m *Matcher) Match(s string) bool {
	if m.pattern == s {
		return true
	}
	return m.re.MatchString(s)
}

// String returns the source pattern.
func (m *Matcher) String() string { return m.pattern }

// HasWildcard reports whether pattern contains '*'.
func HasWildcard(pattern string) bool { return strings.Contains(pattern, "*") }

// Match is a convenience for one-off matches.
func Match(pattern, s string) bool { return Compile(pattern).Match(s) }
