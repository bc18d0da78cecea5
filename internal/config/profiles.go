package config

import (
	"fmt"

	"github.com/zoro11031/treestage/internal/common"
)

// Profile is a named staging job: copy Source to Destination
type Profile struct {
	Name        string `mapstructure:"name" yaml:"name"`
	Source      string `mapstructure:"source" yaml:"source"`
	Destination string `mapstructure:"destination" yaml:"destination"`
	ClearParent bool   `mapstructure:"clear_parent" yaml:"clear_parent"`
}

// Validate checks that the profile can be staged
func (p Profile) Validate() error {
	if err := common.ValidateProfileName(p.Name); err != nil {
		return err
	}
	if err := common.ValidateNotEmpty(p.Source); err != nil {
		return fmt.Errorf("profile %s: source: %w", p.Name, err)
	}
	if err := common.ValidateNotEmpty(p.Destination); err != nil {
		return fmt.Errorf("profile %s: destination: %w", p.Name, err)
	}
	// Stored profiles run from any working directory
	if err := common.ValidatePath(p.Source); err != nil {
		return fmt.Errorf("profile %s: source: %w", p.Name, err)
	}
	if err := common.ValidatePath(p.Destination); err != nil {
		return fmt.Errorf("profile %s: destination: %w", p.Name, err)
	}
	return nil
}

// Profiles returns the configured staging profiles in file order
func (c *Config) Profiles() ([]Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var profiles []Profile
	if err := c.v.UnmarshalKey(KeyProfiles, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}

	seen := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate profile name: %s", p.Name)
		}
		seen[p.Name] = true
	}

	return profiles, nil
}

// Profile returns the profile called name
func (c *Config) Profile(name string) (Profile, error) {
	profiles, err := c.Profiles()
	if err != nil {
		return Profile{}, err
	}
	for _, p := range profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("profile not found: %s", name)
}

// SetProfile adds p or replaces the profile with the same name, then saves
func (c *Config) SetProfile(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	profiles, err := c.Profiles()
	if err != nil {
		return err
	}

	replaced := false
	for i := range profiles {
		if profiles[i].Name == p.Name {
			profiles[i] = p
			replaced = true
		}
	}
	if !replaced {
		profiles = append(profiles, p)
	}

	return c.Set(KeyProfiles, profilesToSettings(profiles))
}

// RemoveProfile deletes the profile called name, then saves
func (c *Config) RemoveProfile(name string) error {
	profiles, err := c.Profiles()
	if err != nil {
		return err
	}

	kept := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		if p.Name != name {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(profiles) {
		return fmt.Errorf("profile not found: %s", name)
	}

	return c.Set(KeyProfiles, profilesToSettings(kept))
}

// profilesToSettings converts profiles to the generic form viper writes out
func profilesToSettings(profiles []Profile) []map[string]any {
	out := make([]map[string]any, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, map[string]any{
			"name":         p.Name,
			"source":       p.Source,
			"destination":  p.Destination,
			"clear_parent": p.ClearParent,
		})
	}
	return out
}
