package system

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// FaultyFs wraps an afero.Fs and fails selected operations for testing purposes.
// Paths are compared after filepath.Clean.
type FaultyFs struct {
	afero.Fs
	mu         sync.Mutex
	failRemove map[string]error
	failChmod  map[string]error
	failWrite  map[string]error
}

// NewFaultyFs creates a FaultyFs over base
func NewFaultyFs(base afero.Fs) *FaultyFs {
	return &FaultyFs{
		Fs:         base,
		failRemove: make(map[string]error),
		failChmod:  make(map[string]error),
		failWrite:  make(map[string]error),
	}
}

// FailRemove makes Remove(path) return err
func (m *FaultyFs) FailRemove(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failRemove[filepath.Clean(path)] = err
}

// FailChmod makes Chmod(path) return err
func (m *FaultyFs) FailChmod(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failChmod[filepath.Clean(path)] = err
}

// FailWrite makes every write to a file opened at path return err
func (m *FaultyFs) FailWrite(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrite[filepath.Clean(path)] = err
}

func (m *FaultyFs) lookup(table map[string]error, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return table[filepath.Clean(path)]
}

// Remove fails for registered paths and delegates otherwise
func (m *FaultyFs) Remove(name string) error {
	if err := m.lookup(m.failRemove, name); err != nil {
		return &os.PathError{Op: "remove", Path: name, Err: err}
	}
	return m.Fs.Remove(name)
}

// Chmod fails for registered paths and delegates otherwise
func (m *FaultyFs) Chmod(name string, mode os.FileMode) error {
	if err := m.lookup(m.failChmod, name); err != nil {
		return &os.PathError{Op: "chmod", Path: name, Err: err}
	}
	return m.Fs.Chmod(name, mode)
}

// OpenFile returns a file whose writes fail when name is registered with FailWrite
func (m *FaultyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	file, err := m.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	if werr := m.lookup(m.failWrite, name); werr != nil {
		return &faultyFile{File: file, err: werr}, nil
	}
	return file, nil
}

type faultyFile struct {
	afero.File
	err error
}

func (f *faultyFile) Write(p []byte) (int, error) {
	return 0, &os.PathError{Op: "write", Path: f.Name(), Err: f.err}
}
