// Package discovery enumerates the source files a build operates on.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/events"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/fsys"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// PhaseName is the phase label attached to discovery errors and events.
const PhaseName = "discover"

// Options configures a Discovery.
type Options struct {
	BaseDir    string   // anchor for relative roots, rules and RelativePath
	Roots      []string // directories or single files, in priority order
	Ignore     []string // path prefixes or '*' wildcards
	SkipHidden bool     // skip dot-files and files under dot-directories
	FS         fsys.FS
	Sink       events.Sink
}

// Skipped records a file excluded by an ignore rule.
type Skipped struct {
	File string
	Rule string
}

// Result is the outcome of one discovery pass.
type Result struct {
	Files        []SourceFile
	Ignored      []Skipped
	Duplicates   []string
	Hidden       []string
	MissingRoots []string
}

// Discovery handles source file discovery.
type Discovery struct {
	fs            fsys.FS
	sink          events.Sink
	base          string
	canonicalBase string
	roots         []string
	rawRules      []string
	skipHidden    bool
}

// New creates a discovery instance. Missing FS/Sink default to the OS and a no-op sink.
func New(opts Options) *Discovery {
	d := &Discovery{
		fs:         opts.FS,
		sink:       opts.Sink,
		roots:      opts.Roots,
		rawRules:   opts.Ignore,
		skipHidden: opts.SkipHidden,
	}
	if d.fs == nil {
		d.fs = fsys.OS{}
	}
	if d.sink == nil {
		d.sink = events.NoopSink{}
	}
	base := opts.BaseDir
	if base == "" {
		base = "."
	}
	if abs, err := filepath.Abs(base); err == nil {
		base = abs
	}
	d.base = base
	d.canonicalBase = base
	if real, err := d.fs.EvalSymlinks(base); err == nil {
		d.canonicalBase = real
	}
	return d
}

// Discover walks every root in order and returns the selected files. Missing
// roots are skipped; ignored and duplicate files are reported, never fatal.
// Filesystem failures abort with a classified filesystem error.
func (d *Discovery) Discover(ctx context.Context) (*Result, error) {
	rules := make([]ignoreRule, 0, len(d.rawRules))
	for _, r := range d.rawRules {
		rules = append(rules, d.resolveRule(r))
	}

	res := &Result{}
	seen := make(map[string]struct{})

	for _, root := range d.roots {
		abs := root
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(d.base, abs)
		}
		abs = filepath.Clean(abs)

		exists, err := d.fs.Exists(abs)
		if err != nil {
			return nil, cannotRead(abs, err)
		}
		if !exists {
			res.MissingRoots = append(res.MissingRoots, abs)
			d.sink.Emit(ctx, events.Event{Type: events.RootMissing, Phase: PhaseName, File: abs})
			continue
		}

		candidates, walkRoot, err := d.enumerate(abs)
		if err != nil {
			return nil, err
		}

		for _, p := range candidates {
			real, err := d.fs.EvalSymlinks(p)
			if err != nil {
				return nil, cannotRead(p, err)
			}
			rel := d.relative(real)

			if d.skipHidden && isHidden(walkRoot, p) {
				res.Hidden = append(res.Hidden, rel)
				continue
			}

			if rule, ok := firstMatch(rules, real); ok {
				res.Ignored = append(res.Ignored, Skipped{File: rel, Rule: rule.raw})
				d.sink.Emit(ctx, events.Event{Type: events.FileIgnored, Phase: PhaseName, File: rel, Rule: rule.raw})
				continue
			}

			if _, dup := seen[real]; dup {
				res.Duplicates = append(res.Duplicates, rel)
				d.sink.Emit(ctx, events.Event{Type: events.FileDuplicate, Phase: PhaseName, File: rel})
				continue
			}
			seen[real] = struct{}{}

			res.Files = append(res.Files, SourceFile{
				Path:         p,
				RealPath:     real,
				RelativePath: rel,
				Root:         abs,
			})
			d.sink.Emit(ctx, events.Event{Type: events.FileSelected, Phase: PhaseName, File: rel})
		}
	}

	slog.Info("Source discovery complete",
		logfields.Files(len(res.Files)),
		slog.Int("ignored", len(res.Ignored)),
		slog.Int("duplicates", len(res.Duplicates)),
		slog.Int("missing_roots", len(res.MissingRoots)))
	return res, nil
}

// enumerate lists a directory root recursively or returns a file root alone.
// The returned walk root is the directory the listed paths are relative to.
func (d *Discovery) enumerate(root string) ([]string, string, error) {
	info, err := d.fs.Stat(root)
	if err != nil {
		return nil, "", cannotRead(root, err)
	}
	if !info.IsDir() {
		return []string{root}, filepath.Dir(root), nil
	}

	// Walk the resolved directory so a symlinked root is still traversed.
	walkRoot := root
	if real, err := d.fs.EvalSymlinks(root); err == nil {
		walkRoot = real
	}
	files, err := d.fs.AllFiles(walkRoot)
	if err != nil {
		return nil, "", cannotRead(root, err)
	}
	slog.Debug("Enumerated source root", logfields.Root(root), logfields.Files(len(files)))
	return files, walkRoot, nil
}

// relative expresses a canonical path relative to the base directory using
// forward slashes. Paths outside the base keep their absolute form without
// the leading separator.
func (d *Discovery) relative(canonical string) string {
	rel, err := filepath.Rel(d.canonicalBase, canonical)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		trimmed := strings.TrimPrefix(canonical, filepath.VolumeName(canonical))
		return strings.TrimLeft(filepath.ToSlash(trimmed), "/")
	}
	return filepath.ToSlash(rel)
}

func firstMatch(rules []ignoreRule, canonical string) (ignoreRule, bool) {
	for _, r := range rules {
		if r.matches(canonical) {
			return r, true
		}
	}
	return ignoreRule{}, false
}

// isHidden reports whether any path segment below root starts with a dot.
func isHidden(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == "." {
		return strings.HasPrefix(filepath.Base(p), ".")
	}
	for _, seg := range strings.Split(rel, string(os.PathSeparator)) {
		if strings.HasPrefix(seg, ".") && seg != "." && seg != ".." {
			return true
		}
	}
	return false
}

func cannotRead(path string, err error) error {
	return ferrors.FileSystemError("cannot read path").
		WithCause(fmt.Errorf("%w: %s: %w", ErrCannotReadPath, path, err)).
		InPhase(PhaseName).
		WithContext(ferrors.KeyPath, path).
		Build()
}
