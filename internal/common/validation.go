package common

import (
	"fmt"
	"path/filepath"
	"strings"
)

// criticalPaths are directories the CLI refuses to erase or clear without --force
var criticalPaths = []string{
	"/",
	"/bin",
	"/boot",
	"/dev",
	"/etc",
	"/home",
	"/lib",
	"/lib64",
	"/proc",
	"/root",
	"/sbin",
	"/sys",
	"/usr",
	"/var",
}

// ValidatePath validates that a path is absolute
func ValidatePath(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %s", path)
	}
	return nil
}

// ValidateNotEmpty validates that a string is not empty
func ValidateNotEmpty(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("value cannot be empty")
	}
	return nil
}

// ValidateProfileName validates a staging profile name. Names double as
// marker file names, so they are limited to letters, digits, '.', '_' and '-'.
func ValidateProfileName(name string) error {
	if name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}

	if len(name) > 64 {
		return fmt.Errorf("profile name too long (max 64 characters): %s", name)
	}

	if name == "." || name == ".." {
		return fmt.Errorf("profile name cannot be '.' or '..'")
	}

	for _, c := range name {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '-' || c == '.') {
			return fmt.Errorf("profile name contains invalid character: %s", name)
		}
	}

	return nil
}

// IsCriticalPath reports whether path is, after cleaning and resolving to an
// absolute path, one of the system directories that must never be wiped.
func IsCriticalPath(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	for _, critical := range criticalPaths {
		if abs == critical {
			return true
		}
	}
	return false
}

// Overlaps reports whether a and b are equal or one contains the other
func Overlaps(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, fmt.Errorf("failed to resolve %s: %w", a, err)
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, fmt.Errorf("failed to resolve %s: %w", b, err)
	}
	return contains(absA, absB) || contains(absB, absA), nil
}

// ValidateNoOverlap returns an error if any two paths are equal or one
// contains the other.
func ValidateNoOverlap(paths []string) error {
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			overlap, err := Overlaps(paths[i], paths[j])
			if err != nil {
				return err
			}
			if overlap {
				return fmt.Errorf("paths overlap: %s and %s", paths[i], paths[j])
			}
		}
	}
	return nil
}

// ValidateOutside returns an error if path is dir itself or lies below it
func ValidateOutside(dir, path string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if contains(absDir, absPath) {
		return fmt.Errorf("%s is inside %s", path, dir)
	}
	return nil
}

// contains reports whether child is parent or lies below it
func contains(parent, child string) bool {
	if parent == child {
		return true
	}
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
