package cli

import (
	"errors"
	"fmt"

	"github.com/zoro11031/treestage/internal/stage"
)

// Erase removes each path, or only its children when children is set.
// All paths are attempted; the returned error joins the failures.
func (c *StageContext) Erase(paths []string, children, force bool) error {
	if err := c.Guard(force, paths...); err != nil {
		return err
	}

	var errs []error
	for _, p := range paths {
		if children {
			c.Stager.Eraser().EraseChildren(p)
			c.UI.Successf("Cleared %s", p)
			continue
		}
		if err := c.Stager.Eraser().EraseRecursive(p); err != nil {
			c.UI.Errorf("Failed to erase %s: %v", p, err)
			errs = append(errs, err)
			continue
		}
		c.UI.Successf("Erased %s", p)
	}
	return errors.Join(errs...)
}

// EraseSiblings removes everything next to the kept paths. The directory
// cleared is the parent of the first kept path.
func (c *StageContext) EraseSiblings(keep []string, force bool) error {
	if len(keep) == 0 {
		return fmt.Errorf("at least one path to keep is required")
	}

	parent, ok := stage.ParentOf(keep[0])
	if !ok {
		return fmt.Errorf("cannot determine parent directory of %s", keep[0])
	}
	if err := c.Guard(force, parent); err != nil {
		return err
	}

	c.Stager.Eraser().EraseSiblings(keep...)
	c.UI.Successf("Cleared %s except %d kept path(s)", parent, len(keep))
	return nil
}

// Prepare creates the missing ancestors of path
func (c *StageContext) Prepare(path string) error {
	if err := c.Stager.Ancestors().Materialize(path); err != nil {
		return fmt.Errorf("failed to prepare %s: %w", path, err)
	}
	c.UI.Successf("Prepared parents of %s", path)
	return nil
}
