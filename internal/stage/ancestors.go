package stage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zoro11031/treestage/internal/system"
)

// AncestorMaterializer creates the missing parent directories of a path
type AncestorMaterializer struct {
	fs system.PathAccess
}

// NewAncestorMaterializer creates a new AncestorMaterializer instance
func NewAncestorMaterializer(fs system.PathAccess) *AncestorMaterializer {
	return &AncestorMaterializer{fs: fs}
}

// Materialize ensures every ancestor directory of target exists and has full
// access. Directories are created from the topmost missing one downward.
// The target itself is not touched.
func (a *AncestorMaterializer) Materialize(target string) error {
	var missing []string

	parent, ok := ParentOf(target)
	for ok && !a.fs.Exists(parent) {
		missing = append(missing, parent)
		parent, ok = ParentOf(parent)
	}

	for i := len(missing) - 1; i >= 0; i-- {
		dir := missing[i]
		if err := a.fs.CreateDirectory(dir); err != nil {
			// Someone else may have created it in the meantime
			if !a.fs.IsDirectory(dir) {
				return fmt.Errorf("failed to materialize ancestors of %s: %w", target, err)
			}
			continue
		}
		a.fs.GrantFullAccess(dir)
	}

	return nil
}

// ParentOf returns the parent directory of path. A path without any
// separator has no parent, and neither does the filesystem root.
func ParentOf(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	clean := filepath.Clean(path)
	dir := filepath.Dir(clean)
	if dir == clean {
		return "", false
	}
	if dir == "." && !strings.ContainsRune(path, filepath.Separator) {
		return "", false
	}
	return dir, true
}
