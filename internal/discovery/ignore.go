package discovery

import (
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/glob"
)

// ignoreRule excludes files whose canonical path matches a wildcard pattern
// or lies beneath a literal path prefix.
type ignoreRule struct {
	raw      string
	resolved string
	matcher  *glob.Matcher
}

func (r ignoreRule) matches(canonical string) bool {
	if r.matcher.Match(canonical) {
		return true
	}
	if glob.HasWildcard(r.resolved) {
		return false
	}
	return strings.HasPrefix(canonical, r.resolved+string(os.PathSeparator))
}

// resolveRule anchors rule at the canonical base. Absolute rules written
// against the non-canonical base are rebased so symlinked bases still match.
func (d *Discovery) resolveRule(rule string) ignoreRule {
	resolved := rule
	switch {
	case !filepath.IsAbs(rule):
		resolved = filepath.Join(d.canonicalBase, rule)
	case d.base != "" && (rule == d.base || strings.HasPrefix(rule, d.base+string(os.PathSeparator))):
		resolved = filepath.Join(d.canonicalBase, strings.TrimPrefix(rule, d.base))
	default:
		resolved = filepath.Clean(rule)
	}
	if !glob.HasWildcard(resolved) {
		if real, err := d.fs.EvalSymlinks(resolved); err == nil {
			resolved = real
		}
	}
	return ignoreRule{raw: rule, resolved: resolved, matcher: glob.Compile(resolved)}
}
