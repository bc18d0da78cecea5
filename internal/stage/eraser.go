package stage

import (
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/zoro11031/treestage/internal/system"
)

// Eraser deletes files and directory trees depth-first
type Eraser struct {
	fs  system.PathAccess
	log zerolog.Logger
}

// NewEraser creates a new Eraser instance
func NewEraser(fs system.PathAccess, logger zerolog.Logger) *Eraser {
	return &Eraser{
		fs:  fs,
		log: logger,
	}
}

// EraseRecursive removes path and, if it is a directory, everything below it.
// Children are erased first and their failures are only logged; the returned
// error is the result of removing path itself. An absent path returns nil.
func (e *Eraser) EraseRecursive(path string) error {
	if !e.fs.Exists(path) {
		return nil
	}

	if e.fs.IsDirectory(path) {
		for _, child := range e.fs.ListChildren(path) {
			if err := e.EraseRecursive(child); err != nil {
				e.log.Debug().Err(err).Str("path", child).Msg("failed to erase child")
			}
		}
	}

	return e.fs.Remove(path)
}

// EraseChildren removes everything inside the directory at path but keeps
// the directory. It does nothing when path is absent or not a directory.
// A child that cannot be removed is logged and skipped.
func (e *Eraser) EraseChildren(path string) {
	if !e.fs.IsDirectory(path) {
		return
	}

	for _, child := range e.fs.ListChildren(path) {
		if err := e.EraseRecursive(child); err != nil {
			e.log.Warn().Err(err).Str("path", child).Msg("failed to erase child, continuing")
		}
	}
}

// EraseSiblings removes every entry next to the kept paths. The parent
// directory is taken from the first kept path; kept paths living under a
// different parent are not consulted for listing. Entries are matched by
// absolute, cleaned path. Failures are logged and skipped.
func (e *Eraser) EraseSiblings(keep ...string) {
	if len(keep) == 0 {
		return
	}

	parent, ok := ParentOf(keep[0])
	if !ok {
		return
	}

	kept := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		kept[resolvePath(k)] = struct{}{}
	}

	for _, child := range e.fs.ListChildren(parent) {
		if _, keepIt := kept[resolvePath(child)]; keepIt {
			continue
		}
		if err := e.EraseRecursive(child); err != nil {
			e.log.Warn().Err(err).Str("path", child).Msg("failed to erase sibling, continuing")
		}
	}
}

// resolvePath returns the identity used to compare paths
func resolvePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
