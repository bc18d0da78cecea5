package cli

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/zoro11031/treestage/internal/config"
)

// ProfileStatus describes a configured profile and its last staging
type ProfileStatus struct {
	Profile  config.Profile
	Staged   bool
	StagedAt time.Time
}

// Status reports every configured profile with its marker state
func (c *StageContext) Status() ([]ProfileStatus, error) {
	profiles, err := c.Config.Profiles()
	if err != nil {
		return nil, err
	}

	statuses := make([]ProfileStatus, 0, len(profiles))
	for _, p := range profiles {
		st := ProfileStatus{Profile: p}
		exists, err := c.Markers.Exists(p.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			st.Staged = true
			if at, err := c.Markers.StagedAt(p.Name); err == nil {
				st.StagedAt = at
			} else {
				c.Logger.Debug().Err(err).Str("profile", p.Name).Msg("unreadable marker")
			}
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// OrphanedMarkers returns markers that no configured profile owns, such as
// those left behind by a profile removed from the config file by hand.
func (c *StageContext) OrphanedMarkers() ([]string, error) {
	profiles, err := c.Config.Profiles()
	if err != nil {
		return nil, err
	}
	names, err := c.Markers.List()
	if err != nil {
		return nil, err
	}

	owned := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		owned[p.Name] = true
	}

	var orphans []string
	for _, name := range names {
		if !owned[name] {
			orphans = append(orphans, name)
		}
	}
	sort.Strings(orphans)
	return orphans, nil
}

// PrintStatus writes the staging status of all profiles
func (c *StageContext) PrintStatus() error {
	statuses, err := c.Status()
	if err != nil {
		return err
	}

	c.UI.Header("Staging Status")

	if len(statuses) == 0 {
		c.UI.Info("No profiles configured")
	}

	stagedCount := 0
	for _, st := range statuses {
		if st.Staged {
			stagedCount++
			if st.StagedAt.IsZero() {
				c.UI.Successf("%s: %s -> %s", st.Profile.Name, st.Profile.Source, st.Profile.Destination)
			} else {
				c.UI.Successf("%s: %s -> %s (staged %s)", st.Profile.Name, st.Profile.Source, st.Profile.Destination,
					st.StagedAt.Local().Format(time.DateTime))
			}
			continue
		}
		c.UI.Infof("%s: %s -> %s (not staged)", st.Profile.Name, st.Profile.Source, st.Profile.Destination)
	}

	orphans, err := c.OrphanedMarkers()
	if err != nil {
		return err
	}
	for _, name := range orphans {
		c.UI.Warningf("Marker %s has no matching profile (clear it with 'treestage reset')", name)
	}

	c.UI.Print("")
	c.UI.Separator()
	c.UI.Infof("Progress: %d/%d profiles staged", stagedCount, len(statuses))
	c.UI.Separator()
	c.UI.Print("")

	// Show configuration file location
	if _, err := os.Stat(c.Config.FilePath()); err == nil {
		c.UI.Infof("Configuration file: %s", c.Config.FilePath())
	}

	// Show marker directory
	if _, err := os.Stat(c.Markers.Dir()); err == nil {
		c.UI.Infof("Marker directory: %s", c.Markers.Dir())
	}

	return nil
}

// Reset clears all completion markers and, when deleteConfig is set, the
// configuration file.
func (c *StageContext) Reset(deleteConfig bool) error {
	c.UI.Info("Removing completion markers...")
	if err := c.Markers.RemoveAll(); err != nil {
		return fmt.Errorf("failed to remove markers: %w", err)
	}
	c.UI.Success("Completion markers cleared")

	if deleteConfig {
		c.UI.Info("Removing configuration file...")
		configPath := c.Config.FilePath()
		if err := os.Remove(configPath); err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove config file: %w", err)
			}
			c.UI.Info("  (Config file did not exist)")
		} else {
			c.UI.Successf("Configuration file deleted: %s", configPath)
		}
	}

	return nil
}
