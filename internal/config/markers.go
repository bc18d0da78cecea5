package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Markers manages per-profile completion marker files. A marker records
// when a profile was last staged successfully.
type Markers struct {
	dir string
}

// NewMarkers creates a new Markers instance
func NewMarkers(dir string) *Markers {
	if dir == "" {
		dir = filepath.Join(DefaultStateDir(), "markers")
	}

	return &Markers{
		dir: dir,
	}
}

// validateMarkerName ensures the marker name is safe and doesn't contain path traversal characters
func validateMarkerName(name string) error {
	if name == "" {
		return fmt.Errorf("marker name cannot be empty")
	}
	if strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf("marker name cannot contain path separators: %s", name)
	}
	if name == ".." || name == "." {
		return fmt.Errorf("marker name cannot be '.' or '..': %s", name)
	}
	return nil
}

// Create writes the marker for name, replacing any previous one
func (m *Markers) Create(name string) error {
	if err := validateMarkerName(name); err != nil {
		return err
	}

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("failed to create marker directory: %w", err)
	}

	markerPath := filepath.Join(m.dir, name)
	stamp := time.Now().UTC().Format(time.RFC3339) + "\n"
	if err := os.WriteFile(markerPath, []byte(stamp), 0644); err != nil {
		return fmt.Errorf("failed to create marker file: %w", err)
	}

	return nil
}

// Exists checks if a marker file exists
// Returns (exists, error) where error indicates a problem checking (e.g., permission denied)
// If error is not nil, the exists value should not be trusted
func (m *Markers) Exists(name string) (bool, error) {
	if err := validateMarkerName(name); err != nil {
		return false, err
	}

	markerPath := filepath.Join(m.dir, name)
	_, err := os.Stat(markerPath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check marker existence: %w", err)
}

// StagedAt returns the time recorded in the marker for name
func (m *Markers) StagedAt(name string) (time.Time, error) {
	if err := validateMarkerName(name); err != nil {
		return time.Time{}, err
	}

	data, err := os.ReadFile(filepath.Join(m.dir, name))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read marker: %w", err)
	}

	stamp, err := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid marker content for %s: %w", name, err)
	}
	return stamp, nil
}

// Remove deletes a marker file
func (m *Markers) Remove(name string) error {
	if err := validateMarkerName(name); err != nil {
		return err
	}

	markerPath := filepath.Join(m.dir, name)
	err := os.Remove(markerPath)
	if os.IsNotExist(err) {
		return nil // Not an error if it doesn't exist
	}
	return err
}

// RemoveAll removes all marker files
func (m *Markers) RemoveAll() error {
	if _, err := os.Stat(m.dir); os.IsNotExist(err) {
		return nil // Directory doesn't exist, nothing to remove
	}

	return os.RemoveAll(m.dir)
}

// List returns all marker names
func (m *Markers) List() ([]string, error) {
	if _, err := os.Stat(m.dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read marker directory: %w", err)
	}

	var markers []string
	for _, entry := range entries {
		if !entry.IsDir() {
			markers = append(markers, entry.Name())
		}
	}

	return markers, nil
}

// Dir returns the marker directory path
func (m *Markers) Dir() string {
	return m.dir
}
