// Package fsys abstracts the filesystem operations the build pipeline needs.
//
// The core only depends on the FS interface; OS is the production
// implementation and Retrying decorates any FS with transient-error retries.
package fsys

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FS is the filesystem collaborator used by discovery, output preparation and builders.
type FS interface {
	// Exists reports whether path exists. Errors other than "not exist" are returned.
	Exists(path string) (bool, error)
	// Stat follows symlinks.
	Stat(path string) (fs.FileInfo, error)
	// EvalSymlinks returns the canonical, symlink-free path.
	EvalSymlinks(path string) (string, error)
	// MakeDirectory creates path and any missing parents.
	MakeDirectory(path string, perm fs.FileMode) error
	// CleanDirectory removes every entry inside path, keeping path itself.
	CleanDirectory(path string) error
	// AllFiles lists files beneath root recursively, in lexical walk order.
	AllFiles(root string) ([]string, error)
}

// OS implements FS on the host filesystem.
type OS struct{}

var _ FS = OS{}

func (OS) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (OS) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

func (OS) EvalSymlinks(path string) (string, error) { return filepath.EvalSymlinks(path) }

func (OS) MakeDirectory(path string, perm fs.FileMode) error { return os.MkdirAll(path, perm) }

func (OS) CleanDirectory(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(path, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// AllFiles walks root without following directory symlinks. Symlinks that
// resolve to regular files are listed; dangling links are skipped.
func (OS) AllFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			info, statErr := os.Stat(path)
			if statErr != nil || !info.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
