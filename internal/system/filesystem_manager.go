package system

import (
	"io"
	"os"
)

// PathAccess defines the single-entry operations the stager needs.
// This allows for swapping the filesystem in tests.
type PathAccess interface {
	Exists(path string) bool
	IsDirectory(path string) bool
	ListChildren(path string) []string
	CreateDirectory(path string) error
	CreateFile(path string) error
	Remove(path string) error
	GrantFullAccess(path string)
	GetPermissions(path string) (os.FileMode, error)
	OpenReader(path string) (io.ReadCloser, error)
	OpenWriter(path string) (io.WriteCloser, error)
}

var _ PathAccess = (*FileSystem)(nil)

// OpenReader is Open narrowed to io.ReadCloser
func (f *FileSystem) OpenReader(path string) (io.ReadCloser, error) {
	return f.Open(path)
}

// OpenWriter is OpenForWrite narrowed to io.WriteCloser
func (f *FileSystem) OpenWriter(path string) (io.WriteCloser, error) {
	return f.OpenForWrite(path)
}
