package router

import (
	"fmt"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/glob"
)

// DefaultKey is the reserved routing key for files no pattern matches.
// Builders may declare it to receive those files; it is never matched against paths.
const DefaultKey = "__default"

// Kind tells how a pattern is matched.
type Kind int

const (
	KindGlob Kind = iota
	KindRegex
	KindDefault
)

func (k Kind) String() string {
	switch k {
	case KindRegex:
		return "regex"
	case KindDefault:
		return "default"
	default:
		return "glob"
	}
}

// Pattern is a compiled routing pattern. The raw string is the routing key.
type Pattern struct {
	raw   string
	kind  Kind
	glob  *glob.Matcher
	regex *regexp.Regexp
}

// regexFlags maps delimiter flags onto RE2 inline flags. 'u' is accepted
// because RE2 is always UTF-8 aware.
var regexFlags = map[rune]string{
	'i': "i",
	'm': "m",
	's': "s",
	'U': "U",
	'u': "",
}

// ParsePattern classifies and compiles raw. Patterns starting with '/' are
// delimited regular expressions ("/body/flags"); anything else is a wildcard
// glob matched against the whole path.
func ParsePattern(raw string) (Pattern, error) {
	switch {
	case raw == "":
		return Pattern{}, fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	case raw == DefaultKey:
		return Pattern{raw: raw, kind: KindDefault}, nil
	case strings.HasPrefix(raw, "/"):
		re, err := compileDelimited(raw)
		if err != nil {
			return Pattern{}, err
		}
		return Pattern{raw: raw, kind: KindRegex, regex: re}, nil
	default:
		return Pattern{raw: raw, kind: KindGlob, glob: glob.Compile(raw)}, nil
	}
}

func compileDelimited(raw string) (*regexp.Regexp, error) {
	end := strings.LastIndex(raw, "/")
	if end == 0 {
		return nil, fmt.Errorf("%w: %q has no closing delimiter", ErrInvalidPattern, raw)
	}
	body, flags := raw[1:end], raw[end+1:]

	var inline strings.Builder
	for _, f := range flags {
		mapped, ok := regexFlags[f]
		if !ok {
			return nil, fmt.Errorf("%w: %q has unsupported flag %q", ErrInvalidPattern, raw, f)
		}
		inline.WriteString(mapped)
	}
	expr := body
	if inline.Len() > 0 {
		expr = "(?" + inline.String() + ")" + body
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, raw, err)
	}
	return re, nil
}

// String returns the raw pattern.
func (p Pattern) String() string { return p.raw }

// Kind reports how the pattern matches.
func (p Pattern) Kind() Kind { return p.kind }

// Match reports whether relPath is routed by this pattern. Regex patterns
// search anywhere in the path; globs must cover it entirely. The default
// pattern matches nothing.
func (p Pattern) Match(relPath string) bool {
	switch p.kind {
	case KindRegex:
		return p.regex.MatchString(relPath)
	case KindGlob:
		return p.glob.Match(relPath)
	default:
		return false
	}
}
