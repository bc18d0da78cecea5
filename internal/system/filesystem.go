package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// FullAccess is the permission applied to every entry the stager creates:
// read, write and execute for owner, group and others.
const FullAccess os.FileMode = 0o777

// FileSystem handles single-entry path operations on top of an afero.Fs.
// Queries never cache: every call looks at the filesystem again.
type FileSystem struct {
	fs  afero.Fs
	log zerolog.Logger
}

// NewFileSystem creates a FileSystem on the host OS filesystem
func NewFileSystem(logger zerolog.Logger) *FileSystem {
	return NewFileSystemWithFs(afero.NewOsFs(), logger)
}

// NewFileSystemWithFs creates a FileSystem backed by fs (useful for testing)
func NewFileSystemWithFs(fs afero.Fs, logger zerolog.Logger) *FileSystem {
	return &FileSystem{
		fs:  fs,
		log: logger,
	}
}

// Exists reports whether path exists. Stat errors other than "not exist"
// are treated as absent.
func (f *FileSystem) Exists(path string) bool {
	exists, err := afero.Exists(f.fs, path)
	if err != nil {
		f.log.Debug().Err(err).Str("path", path).Msg("existence check failed")
		return false
	}
	return exists
}

// IsDirectory reports whether path exists and is a directory
func (f *FileSystem) IsDirectory(path string) bool {
	isDir, err := afero.IsDir(f.fs, path)
	if err != nil {
		return false
	}
	return isDir
}

// ListChildren returns the full paths of the immediate children of path.
// It returns an empty slice when path is absent, not a directory, or cannot be read.
func (f *FileSystem) ListChildren(path string) []string {
	if !f.IsDirectory(path) {
		return []string{}
	}

	entries, err := afero.ReadDir(f.fs, path)
	if err != nil {
		f.log.Debug().Err(err).Str("path", path).Msg("failed to list directory")
		return []string{}
	}

	children := make([]string, 0, len(entries))
	for _, entry := range entries {
		children = append(children, filepath.Join(path, entry.Name()))
	}
	return children
}

// CreateDirectory creates a single directory. Missing ancestors are not created.
func (f *FileSystem) CreateDirectory(path string) error {
	if err := f.fs.Mkdir(path, FullAccess); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// CreateFile creates a new empty file, failing if path already exists
func (f *FileSystem) CreateFile(path string) error {
	file, err := f.fs.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, FullAccess)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close new file %s: %w", path, err)
	}
	return nil
}

// Remove deletes a single file or empty directory
func (f *FileSystem) Remove(path string) error {
	if err := f.fs.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// GrantFullAccess sets read, write and execute for everyone on path.
// Failures are logged and otherwise ignored.
func (f *FileSystem) GrantFullAccess(path string) {
	if err := f.fs.Chmod(path, FullAccess); err != nil {
		f.log.Warn().Err(err).Str("path", path).Msg("failed to grant full access")
	}
}

// GetPermissions returns the permission bits of a file or directory
func (f *FileSystem) GetPermissions(path string) (os.FileMode, error) {
	info, err := f.fs.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info.Mode().Perm(), nil
}

// Open opens path for reading
func (f *FileSystem) Open(path string) (afero.File, error) {
	file, err := f.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return file, nil
}

// OpenForWrite opens an existing file for writing and truncates it
func (f *FileSystem) OpenForWrite(path string) (afero.File, error) {
	file, err := f.fs.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s for writing: %w", path, err)
	}
	return file, nil
}
