package fsys

import (
	"context"
	"errors"
	"io/fs"
	"syscall"

	"git.home.luguber.info/inful/sitegen/internal/retry"
)

// Retrying decorates an FS so that transient IO errors are retried under a policy.
// Permission and not-exist errors are returned immediately.
type Retrying struct {
	inner   FS
	retrier *retry.Retrier
	ctx     context.Context
}

var _ FS = (*Retrying)(nil)

// NewRetrying wraps inner. ctx bounds the time spent waiting between attempts.
func NewRetrying(ctx context.Context, inner FS, policy retry.Policy) *Retrying {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Retrying{inner: inner, retrier: retry.NewRetrier(policy, IsTransient), ctx: ctx}
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist) {
		return false
	}
	return errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.EINTR) ||
		errors.Is(err, syscall.ETIMEDOUT)
}

func (r *Retrying) Exists(path string) (bool, error) {
	var ok bool
	err := r.retrier.Do(r.ctx, "exists", func() error {
		var err error
		ok, err = r.inner.Exists(path)
		return err
	})
	return ok, err
}

func (r *Retrying) Stat(path string) (fs.FileInfo, error) {
	var info fs.FileInfo
	err := r.retrier.Do(r.ctx, "stat", func() error {
		var err error
		info, err = r.inner.Stat(path)
		return err
	})
	return info, err
}

func (r *Retrying) EvalSymlinks(path string) (string, error) {
	var out string
	err := r.retrier.Do(r.ctx, "eval_symlinks", func() error {
		var err error
		out, err = r.inner.EvalSymlinks(path)
		return err
	})
	return out, err
}

func (r *Retrying) MakeDirectory(path string, perm fs.FileMode) error {
	return r.retrier.Do(r.ctx, "make_directory", func() error { return r.inner.MakeDirectory(path, perm) })
}

func (r *Retrying) CleanDirectory(path string) error {
	return r.retrier.Do(r.ctx, "clean_directory", func() error { return r.inner.CleanDirectory(path) })
}

func (r *Retrying) AllFiles(root string) ([]string, error) {
	var files []string
	err := r.retrier.Do(r.ctx, "all_files", func() error {
		var err error
		files, err = r.inner.AllFiles(root)
		return err
	})
	return files, err
}
