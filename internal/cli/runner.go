package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/zoro11031/treestage/internal/common"
	"github.com/zoro11031/treestage/internal/config"
	"github.com/zoro11031/treestage/internal/stage"
	"github.com/zoro11031/treestage/internal/system"
)

var (
	// ErrCriticalPath is returned when an operation would wipe a protected system directory
	ErrCriticalPath = errors.New("refusing to modify critical system path")
	// ErrNestedDestination is returned when a destination is its own source or lies inside it
	ErrNestedDestination = errors.New("destination is inside source")
)

// StageOptions controls a staging run
type StageOptions struct {
	// ClearParent removes every entry in the destination's parent first
	ClearParent bool
	// Force skips the critical path guard and the clear-parent confirmation
	Force bool
	// Lock holds the destination lock while staging; the lock setting also enables it
	Lock bool

	confirmed bool
}

// Guard returns ErrCriticalPath if any of paths is a critical system
// directory, unless force is set.
func (c *StageContext) Guard(force bool, paths ...string) error {
	if force {
		return nil
	}
	for _, p := range paths {
		if common.IsCriticalPath(p) {
			return fmt.Errorf("%w: %s (use --force to override)", ErrCriticalPath, p)
		}
	}
	return nil
}

// checkNesting rejects staging a tree into itself
func checkNesting(src, dst string) error {
	if err := common.ValidateOutside(src, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrNestedDestination, err)
	}
	return nil
}

// affectedPaths lists the directories a stage of dst may wipe
func affectedPaths(dst string, clearParent bool) []string {
	paths := []string{dst}
	if parent, ok := stage.ParentOf(dst); ok && clearParent {
		paths = append(paths, parent)
	}
	return paths
}

// confirmClear asks before clearing dst's parent. Non-interactive runs
// treat the flag itself as consent.
func (c *StageContext) confirmClear(dst string, opts StageOptions) (bool, error) {
	if !opts.ClearParent || opts.Force || opts.confirmed || c.UI.IsNonInteractive() {
		return true, nil
	}
	parent, ok := stage.ParentOf(dst)
	if !ok {
		return true, nil
	}
	return c.UI.PromptYesNo(fmt.Sprintf("Remove everything in %s before staging?", parent), false)
}

// withLock runs fn while holding the lock for dst when locking is enabled
func (c *StageContext) withLock(ctx context.Context, dst string, enabled bool, fn func() error) error {
	if !enabled && !c.Config.GetBool(config.KeyLock) {
		return fn()
	}

	lockPath := system.LockPath(c.Config.LockDir(), dst)
	c.Logger.Debug().Str("destination", dst).Str("lock", lockPath).Msg("acquiring destination lock")
	fl, err := system.AcquireLock(ctx, lockPath)
	if err != nil {
		return err
	}
	defer system.ReleaseLock(c.Logger, fl)

	return fn()
}

// StagePaths stages src to dst after the guard, confirmation and lock
func (c *StageContext) StagePaths(ctx context.Context, src, dst string, opts StageOptions) error {
	if err := c.Guard(opts.Force, affectedPaths(dst, opts.ClearParent)...); err != nil {
		return err
	}
	if err := checkNesting(src, dst); err != nil {
		return err
	}

	ok, err := c.confirmClear(dst, opts)
	if err != nil {
		return err
	}
	if !ok {
		c.UI.Info("Staging cancelled")
		return nil
	}

	return c.withLock(ctx, dst, opts.Lock, func() error {
		return c.Stager.Stage(src, dst, opts.ClearParent)
	})
}

// StageStream writes r to the file at dst. r is always closed.
func (c *StageContext) StageStream(ctx context.Context, r io.ReadCloser, dst string, opts StageOptions) error {
	if err := c.Guard(opts.Force, dst); err != nil {
		if r != nil {
			_ = r.Close()
		}
		return err
	}

	err := c.withLock(ctx, dst, opts.Lock, func() error {
		err := c.Stager.StageFromStream(r, dst)
		r = nil
		return err
	})
	if r != nil {
		_ = r.Close()
	}
	return err
}

// RunProfile stages a configured profile and records a completion marker.
// A profile whose source is missing is skipped and left unmarked.
func (c *StageContext) RunProfile(ctx context.Context, p config.Profile, opts StageOptions) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if !c.FS.Exists(p.Source) {
		c.UI.Warningf("Profile %s: source %s does not exist, skipping", p.Name, p.Source)
		return nil
	}

	opts.ClearParent = p.ClearParent
	c.UI.Infof("Staging %s: %s -> %s", p.Name, p.Source, p.Destination)
	if err := c.StagePaths(ctx, p.Source, p.Destination, opts); err != nil {
		return err
	}

	if err := c.Markers.Create(p.Name); err != nil {
		c.UI.Warningf("Profile %s staged but marker could not be written: %v", p.Name, err)
	}
	c.UI.Successf("Profile %s staged", p.Name)
	return nil
}

// footprint is the directory a profile may wipe: its destination, or the
// destination's parent when the profile clears it.
func footprint(p config.Profile) string {
	paths := affectedPaths(p.Destination, p.ClearParent)
	return paths[len(paths)-1]
}

// validateConcurrent checks that no profile wipes what another profile
// writes or reads.
func validateConcurrent(profiles []config.Profile) error {
	footprints := make([]string, 0, len(profiles))
	for _, p := range profiles {
		footprints = append(footprints, footprint(p))
	}
	if err := common.ValidateNoOverlap(footprints); err != nil {
		return err
	}

	for i, wiper := range profiles {
		for j, reader := range profiles {
			if i == j {
				continue
			}
			overlap, err := common.Overlaps(footprints[i], reader.Source)
			if err != nil {
				return err
			}
			if overlap {
				return fmt.Errorf("profile %s replaces %s, which overlaps the source %s of profile %s",
					wiper.Name, footprints[i], reader.Source, reader.Name)
			}
		}
	}
	return nil
}

// selectProfiles returns the named profiles in the given order, or all
// configured profiles when names is empty.
func (c *StageContext) selectProfiles(names []string) ([]config.Profile, error) {
	all, err := c.Config.Profiles()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no profiles configured in %s", c.Config.FilePath())
	}
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]config.Profile, len(all))
	for _, p := range all {
		byName[p.Name] = p
	}

	selected := make([]config.Profile, 0, len(names))
	for _, name := range names {
		p, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("profile not found: %s", name)
		}
		selected = append(selected, p)
	}
	return selected, nil
}

// Apply stages the named profiles, or all of them, using up to the
// configured parallelism. Every profile is attempted; the returned error
// joins the failures.
func (c *StageContext) Apply(ctx context.Context, names []string, opts StageOptions) error {
	profiles, err := c.selectProfiles(names)
	if err != nil {
		return err
	}

	for _, p := range profiles {
		if err := c.Guard(opts.Force, affectedPaths(p.Destination, p.ClearParent)...); err != nil {
			return fmt.Errorf("profile %s: %w", p.Name, err)
		}
		if err := checkNesting(p.Source, p.Destination); err != nil {
			return fmt.Errorf("profile %s: %w", p.Name, err)
		}
	}

	parallelism := c.Config.GetInt(config.KeyParallelism, 1)
	if parallelism < 1 {
		parallelism = 1
	}
	if parallelism > 1 && len(profiles) > 1 {
		if err := validateConcurrent(profiles); err != nil {
			return fmt.Errorf("profiles cannot be staged concurrently: %w", err)
		}
	}

	if !opts.Force && !c.UI.IsNonInteractive() {
		var clearing []string
		for _, p := range profiles {
			if parent, ok := stage.ParentOf(p.Destination); ok && p.ClearParent {
				clearing = append(clearing, parent)
			}
		}
		if len(clearing) > 0 {
			ok, err := c.UI.PromptYesNo(fmt.Sprintf("Remove everything in %s before staging?", strings.Join(clearing, ", ")), false)
			if err != nil {
				return err
			}
			if !ok {
				c.UI.Info("Apply cancelled")
				return nil
			}
		}
	}
	opts.confirmed = true

	c.Logger.Debug().Int("profiles", len(profiles)).Int("parallelism", parallelism).Msg("applying profiles")

	p := pool.New().WithMaxGoroutines(parallelism).WithContext(ctx)
	for _, prof := range profiles {
		p.Go(func(ctx context.Context) error {
			if err := c.RunProfile(ctx, prof, opts); err != nil {
				c.UI.Errorf("Profile %s failed: %v", prof.Name, err)
				return fmt.Errorf("profile %s: %w", prof.Name, err)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return err
	}

	c.UI.Successf("Applied %d profile(s)", len(profiles))
	return nil
}
