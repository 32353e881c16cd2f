package generator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/fsys"
)

// ErrUnsafeOutputDirectory is returned when cleaning the output directory
// would delete sources.
var ErrUnsafeOutputDirectory = errors.New("unsafe output directory")

// OutputDirPerm is the mode used when creating the output directory.
const OutputDirPerm os.FileMode = 0o755

// OutputTarget names the directory to prepare and the paths it must never contain.
type OutputTarget struct {
	Dir       string
	BaseDir   string
	Protected []string // typically the source roots
}

// PrepareOutput makes Dir exist and be empty. It refuses to clean the
// filesystem root, the base directory or any ancestor of a protected path.
func PrepareOutput(fs fsys.FS, t OutputTarget) error {
	dir, err := filepath.Abs(t.Dir)
	if err != nil || strings.TrimSpace(t.Dir) == "" {
		return unsafeOutput(t.Dir, "output directory is not a usable path")
	}
	if err := checkOutputSafety(fs, dir, t); err != nil {
		return err
	}

	if err := fs.MakeDirectory(dir, OutputDirPerm); err != nil {
		return outputFailure(dir, "cannot create output directory", err)
	}
	if err := fs.CleanDirectory(dir); err != nil {
		return outputFailure(dir, "cannot clean output directory", err)
	}
	return nil
}

func checkOutputSafety(fs fsys.FS, dir string, t OutputTarget) error {
	canon := canonical(fs, dir)
	if canon == filepath.VolumeName(canon)+string(os.PathSeparator) {
		return unsafeOutput(dir, "output directory is the filesystem root")
	}
	if t.BaseDir != "" {
		base, err := filepath.Abs(t.BaseDir)
		if err == nil && canonical(fs, base) == canon {
			return unsafeOutput(dir, "output directory is the base directory")
		}
	}
	for _, p := range t.Protected {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if within(canonical(fs, abs), canon) {
			return unsafeOutput(dir, "output directory contains source root "+p)
		}
	}
	return nil
}

// canonical resolves symlinks in the longest existing prefix of p.
func canonical(fs fsys.FS, p string) string {
	p = filepath.Clean(p)
	var rest []string
	for cur := p; ; {
		if real, err := fs.EvalSymlinks(cur); err == nil {
			return filepath.Join(append([]string{real}, rest...)...)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return p
		}
		rest = append([]string{filepath.Base(cur)}, rest...)
		cur = parent
	}
}

// within reports whether p equals dir or lies beneath it.
func within(p, dir string) bool {
	if p == dir {
		return true
	}
	prefix := dir
	if !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}
	return strings.HasPrefix(p, prefix)
}

func unsafeOutput(dir, reason string) error {
	return ferrors.ConfigError(reason).
		WithCause(fmt.Errorf("%w: %w", ErrOutputPreparation, ErrUnsafeOutputDirectory)).
		InPhase(string(PhasePrepareOutput)).
		WithContext(ferrors.KeyPath, dir).
		Build()
}

func outputFailure(dir, msg string, err error) error {
	return ferrors.OutputError(msg).
		WithCause(fmt.Errorf("%w: %w", ErrOutputPreparation, err)).
		InPhase(string(PhasePrepareOutput)).
		WithContext(ferrors.KeyPath, dir).
		Build()
}
