package system

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

func TestFileSystemExistsAndIsDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	fs := NewFileSystem(zerolog.Nop())

	tests := []struct {
		name   string
		path   string
		exists bool
		isDir  bool
	}{
		{"directory", tmpDir, true, true},
		{"file", file, true, false},
		{"missing", filepath.Join(tmpDir, "missing"), false, false},
		{"below a file", filepath.Join(file, "child"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fs.Exists(tt.path); got != tt.exists {
				t.Errorf("Exists() = %v, want %v", got, tt.exists)
			}
			if got := fs.IsDirectory(tt.path); got != tt.isDir {
				t.Errorf("IsDirectory() = %v, want %v", got, tt.isDir)
			}
		})
	}
}

func TestFileSystemListChildren(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"b", "a", "c"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), nil, 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}

	fs := NewFileSystem(zerolog.Nop())

	got := fs.ListChildren(tmpDir)
	want := []string{filepath.Join(tmpDir, "a"), filepath.Join(tmpDir, "b"), filepath.Join(tmpDir, "c")}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("ListChildren() = %v, want %v", got, want)
	}

	if got := fs.ListChildren(filepath.Join(tmpDir, "missing")); len(got) != 0 {
		t.Errorf("ListChildren() on missing path = %v, want empty", got)
	}
	if got := fs.ListChildren(filepath.Join(tmpDir, "a")); len(got) != 0 {
		t.Errorf("ListChildren() on file = %v, want empty", got)
	}
}

func TestFileSystemCreateDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	fs := NewFileSystem(zerolog.Nop())

	dir := filepath.Join(tmpDir, "dir")
	if err := fs.CreateDirectory(dir); err != nil {
		t.Fatalf("CreateDirectory() error = %v", err)
	}
	if !fs.IsDirectory(dir) {
		t.Error("CreateDirectory() did not create a directory")
	}

	if err := fs.CreateDirectory(dir); err == nil {
		t.Error("CreateDirectory() on existing directory error = nil, want error")
	}

	nested := filepath.Join(tmpDir, "missing", "dir")
	if err := fs.CreateDirectory(nested); err == nil {
		t.Error("CreateDirectory() created missing ancestors")
	}
}

func TestFileSystemCreateFile(t *testing.T) {
	tmpDir := t.TempDir()
	fs := NewFileSystem(zerolog.Nop())

	file := filepath.Join(tmpDir, "new.txt")
	if err := fs.CreateFile(file); err != nil {
		t.Fatalf("CreateFile() error = %v", err)
	}
	info, err := os.Stat(file)
	if err != nil {
		t.Fatalf("stat new file: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("new file size = %d, want 0", info.Size())
	}

	if err := fs.CreateFile(file); !errors.Is(err, os.ErrExist) {
		t.Errorf("CreateFile() on existing file error = %v, want ErrExist", err)
	}
}

func TestFileSystemRemove(t *testing.T) {
	tmpDir := t.TempDir()
	fs := NewFileSystem(zerolog.Nop())

	dir := filepath.Join(tmpDir, "dir")
	if err := os.MkdirAll(filepath.Join(dir, "child"), 0755); err != nil {
		t.Fatalf("Failed to create test directory: %v", err)
	}

	if err := fs.Remove(dir); err == nil {
		t.Error("Remove() on non-empty directory error = nil, want error")
	}
	if err := fs.Remove(filepath.Join(dir, "child")); err != nil {
		t.Errorf("Remove() error = %v", err)
	}
	if err := fs.Remove(dir); err != nil {
		t.Errorf("Remove() error = %v", err)
	}
	if err := fs.Remove(dir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Remove() on missing path error = %v, want ErrNotExist", err)
	}
}

func TestFileSystemGrantFullAccess(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(file, nil, 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	fs := NewFileSystem(zerolog.Nop())
	fs.GrantFullAccess(file)

	perms, err := fs.GetPermissions(file)
	if err != nil {
		t.Fatalf("GetPermissions() error = %v", err)
	}
	if perms != FullAccess {
		t.Errorf("permissions = %o, want %o", perms, FullAccess)
	}

	// Missing paths are ignored.
	fs.GrantFullAccess(filepath.Join(tmpDir, "missing"))
}

func TestFileSystemOpenForWriteTruncates(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(file, []byte("old content"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	fs := NewFileSystem(zerolog.Nop())
	w, err := fs.OpenWriter(file)
	if err != nil {
		t.Fatalf("OpenWriter() error = %v", err)
	}
	if _, err := io.WriteString(w, "new"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r, err := fs.OpenReader(file)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer r.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("content = %q, want %q", got, "new")
	}

	if _, err := fs.OpenWriter(filepath.Join(tmpDir, "missing")); err == nil {
		t.Error("OpenWriter() created a missing file")
	}
}

func TestFileSystemInMemory(t *testing.T) {
	mem := afero.NewMemMapFs()
	fs := NewFileSystemWithFs(mem, zerolog.Nop())

	if err := mem.MkdirAll("/stage/in", 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := fs.CreateFile("/stage/in/a"); err != nil {
		t.Fatalf("CreateFile() error = %v", err)
	}
	if got := fs.ListChildren("/stage/in"); len(got) != 1 || got[0] != "/stage/in/a" {
		t.Errorf("ListChildren() = %v", got)
	}
}

func TestFaultyFsFailsRegisteredPaths(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	faulty := NewFaultyFs(afero.NewOsFs())
	faulty.FailRemove(file, syscall.EBUSY)
	fs := NewFileSystemWithFs(faulty, zerolog.Nop())

	if err := fs.Remove(file); !errors.Is(err, syscall.EBUSY) {
		t.Errorf("Remove() error = %v, want EBUSY", err)
	}
	if !fs.Exists(file) {
		t.Error("file removed despite injected failure")
	}
}

func TestLockPathIsStable(t *testing.T) {
	a := LockPath("/locks", "/srv/data/current")
	b := LockPath("/locks", "/srv/data/../data/current")
	if a != b {
		t.Errorf("LockPath() differs for equivalent paths: %s vs %s", a, b)
	}
	if filepath.Dir(a) != "/locks" {
		t.Errorf("LockPath() = %s, want it inside /locks", a)
	}
	if a == LockPath("/locks", "/srv/data/other") {
		t.Error("LockPath() collides for different destinations")
	}
}

func TestAcquireLockExclusive(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "locks", "dest.lock")

	fl, err := AcquireLock(context.Background(), lockPath)
	if err != nil {
		t.Fatalf("AcquireLock() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	if _, err := AcquireLock(ctx, lockPath); err == nil {
		t.Error("second AcquireLock() succeeded while lock was held")
	}

	ReleaseLock(zerolog.Nop(), fl)

	fl2, err := AcquireLock(context.Background(), lockPath)
	if err != nil {
		t.Fatalf("AcquireLock() after release error = %v", err)
	}
	ReleaseLock(zerolog.Nop(), fl2)
}
