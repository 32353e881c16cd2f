package discovery

import (
	"path"
	"strings"
)

// SourceFile is a discovered input file. It is an immutable value: nothing
// downstream of discovery mutates it.
type SourceFile struct {
	Path         string // Absolute path as enumerated from its root
	RealPath     string // Canonical, symlink-resolved absolute path; the file's identity
	RelativePath string // RealPath relative to the base directory, slash-separated
	Root         string // Absolute source root the file was found under
}

// Key returns the identity used for deduplication.
func (f SourceFile) Key() string { return f.RealPath }

// Name returns the base file name.
func (f SourceFile) Name() string { return path.Base(f.RelativePath) }

// Ext returns the file extension including the dot.
func (f SourceFile) Ext() string { return path.Ext(f.RelativePath) }

// Stem returns the file name without extension.
func (f SourceFile) Stem() string { return strings.TrimSuffix(f.Name(), f.Ext()) }

// Dir returns the slash-separated directory part of RelativePath ("" at the base).
func (f SourceFile) Dir() string {
	d := path.Dir(f.RelativePath)
	if d == "." {
		return ""
	}
	return d
}

// RelativePaths lists the RelativePath of each file, preserving order.
func RelativePaths(files []SourceFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelativePath
	}
	return out
}
