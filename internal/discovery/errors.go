package discovery

import "errors"

// ErrCannotReadPath indicates the filesystem refused to stat, resolve or list
// a path. It is wrapped with the path and carried as the cause of a classified
// filesystem error.
var ErrCannotReadPath = errors.New("cannot read path")
