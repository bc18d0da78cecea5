package stage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStager(t *testing.T) *Stager {
	t.Helper()
	return New(newTestFS(t), zerolog.Nop())
}

func TestStage_DirectoryScenario(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	src := filepath.Join(base, "src")
	dst := filepath.Join(base, "dst")
	writeFile(t, filepath.Join(src, "a.txt"), "hello")
	writeFile(t, filepath.Join(src, "sub", "b.txt"), "world")

	require.NoError(t, newTestStager(t).Stage(src, dst, false))

	assert.Equal(t, "hello", readFile(t, filepath.Join(dst, "a.txt")))
	assert.Equal(t, "world", readFile(t, filepath.Join(dst, "sub", "b.txt")))
	for _, rel := range []string{"a.txt", "sub", "sub/b.txt"} {
		assert.Equal(t, os.FileMode(0o777), perm(t, filepath.Join(dst, rel)), "permissions of %q", rel)
	}
}

func TestStage_ReplacesFileWithDirectory(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	src := filepath.Join(base, "src")
	dst := filepath.Join(base, "dst")
	buildTree(t, src)
	writeFile(t, dst, "stale file")

	require.NoError(t, newTestStager(t).Stage(src, dst, false))

	assert.DirExists(t, dst)
	assert.Equal(t, snapshot(t, src), snapshot(t, dst))
}

func TestStage_ReplacesDirectoryWithFile(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	src := filepath.Join(base, "in.txt")
	dst := filepath.Join(base, "dst")
	writeFile(t, src, "file content")
	buildTree(t, dst)

	require.NoError(t, newTestStager(t).Stage(src, dst, false))

	assert.Equal(t, "file content", readFile(t, dst))
}

func TestStage_RemovesStaleEntriesInDestination(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	src := filepath.Join(base, "src")
	dst := filepath.Join(base, "dst")
	writeFile(t, filepath.Join(src, "keep.txt"), "fresh")
	writeFile(t, filepath.Join(dst, "keep.txt"), "old")
	writeFile(t, filepath.Join(dst, "stale", "gone.txt"), "old")

	require.NoError(t, newTestStager(t).Stage(src, dst, false))

	assert.Equal(t, snapshot(t, src), snapshot(t, dst))
}

func TestStage_Idempotent(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	src := filepath.Join(base, "src")
	dst := filepath.Join(base, "nested", "dst")
	buildTree(t, src)

	s := newTestStager(t)
	require.NoError(t, s.Stage(src, dst, false))
	first := snapshot(t, dst)
	require.NoError(t, s.Stage(src, dst, false))

	assert.Equal(t, first, snapshot(t, dst))
	assert.Equal(t, snapshot(t, src), snapshot(t, dst))
}

func TestStage_MaterializesAncestors(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	src := filepath.Join(base, "in.txt")
	dst := filepath.Join(base, "x", "y", "out.txt")
	writeFile(t, src, "data")

	require.NoError(t, newTestStager(t).Stage(src, dst, false))

	assert.Equal(t, "data", readFile(t, dst))
	assert.Equal(t, os.FileMode(0o777), perm(t, filepath.Join(base, "x")))
	assert.Equal(t, os.FileMode(0o777), perm(t, filepath.Join(base, "x", "y")))
}

func TestStage_AbsentSourceIsNoOp(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	dst := filepath.Join(base, "dst")
	writeFile(t, filepath.Join(dst, "existing.txt"), "untouched")
	writeFile(t, filepath.Join(base, "sibling.txt"), "untouched")

	require.NoError(t, newTestStager(t).Stage(filepath.Join(base, "nonexistent"), dst, true))

	assert.Equal(t, "untouched", readFile(t, filepath.Join(dst, "existing.txt")))
	assert.Equal(t, "untouched", readFile(t, filepath.Join(base, "sibling.txt")))
}

func TestStage_ClearParentWipesSiblings(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	src := filepath.Join(base, "incoming", "pkg")
	parent := filepath.Join(base, "live")
	dst := filepath.Join(parent, "current")
	writeFile(t, filepath.Join(src, "index.html"), "v2")
	writeFile(t, filepath.Join(parent, "previous", "index.html"), "v1")
	writeFile(t, filepath.Join(parent, "notes.txt"), "old")

	require.NoError(t, newTestStager(t).Stage(src, dst, true))

	assert.Equal(t, []string{"current"}, childNames(t, parent))
	assert.Equal(t, "v2", readFile(t, filepath.Join(dst, "index.html")))
}

func TestStage_ClearParentWithoutParentDirectory(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	src := filepath.Join(base, "in.txt")
	dst := filepath.Join(base, "new", "out.txt")
	writeFile(t, src, "data")

	require.NoError(t, newTestStager(t).Stage(src, dst, true))
	assert.Equal(t, "data", readFile(t, dst))
}

func TestStage_SourceInsideClearedParent(t *testing.T) {
	t.Parallel()
	parent := t.TempDir()
	src := filepath.Join(parent, "src.txt")
	writeFile(t, src, "data")

	err := newTestStager(t).Stage(src, filepath.Join(parent, "dst.txt"), true)
	require.Error(t, err)
	assert.Empty(t, childNames(t, parent))
}

func TestStage_InvalidArguments(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	existing := filepath.Join(base, "in.txt")
	writeFile(t, existing, "data")

	tests := []struct {
		name string
		src  string
		dst  string
	}{
		{"empty source", "", filepath.Join(base, "out")},
		{"empty destination", existing, ""},
		{"both empty", "", ""},
	}

	s := newTestStager(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Stage(tt.src, tt.dst, true)
			assert.True(t, errors.Is(err, ErrInvalidArgument), "error = %v", err)
		})
	}
	assert.Equal(t, []string{"in.txt"}, childNames(t, base))
}

func TestStage_CopyFailureIsReturned(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	src := filepath.Join(base, "src")
	dst := filepath.Join(base, "dst")
	writeFile(t, filepath.Join(src, "a.txt"), "a")

	fs, faulty := newFaultyFS(t)
	faulty.FailWrite(filepath.Join(dst, "a.txt"), syscall.EIO)

	err := New(fs, zerolog.Nop()).Stage(src, dst, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, syscall.EIO), "error = %v", err)
}

func TestStage_ClearParentFailureIsBestEffort(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	src := filepath.Join(base, "src.txt")
	parent := filepath.Join(base, "live")
	dst := filepath.Join(parent, "out.txt")
	writeFile(t, src, "new")
	writeFile(t, filepath.Join(parent, "locked.txt"), "busy")
	writeFile(t, filepath.Join(parent, "other.txt"), "old")

	fs, faulty := newFaultyFS(t)
	faulty.FailRemove(filepath.Join(parent, "locked.txt"), syscall.EBUSY)

	require.NoError(t, New(fs, zerolog.Nop()).Stage(src, dst, true))
	assert.Equal(t, []string{"locked.txt", "out.txt"}, childNames(t, parent))
	assert.Equal(t, "new", readFile(t, dst))
}

func TestStage_PermissionFailureIsBestEffort(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	src := filepath.Join(base, "src.txt")
	dst := filepath.Join(base, "out.txt")
	writeFile(t, src, "data")

	fs, faulty := newFaultyFS(t)
	faulty.FailChmod(dst, syscall.EPERM)

	require.NoError(t, New(fs, zerolog.Nop()).Stage(src, dst, false))
	assert.Equal(t, "data", readFile(t, dst))
}

func TestStageFromStream_WritesFile(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	dst := filepath.Join(base, "a", "b", "out.txt")
	src := &trackingReader{r: strings.NewReader("streamed")}

	require.NoError(t, newTestStager(t).StageFromStream(src, dst))

	assert.Equal(t, "streamed", readFile(t, dst))
	assert.Equal(t, os.FileMode(0o777), perm(t, dst))
	assert.Equal(t, os.FileMode(0o777), perm(t, filepath.Join(base, "a")))
	assert.Equal(t, 1, src.closed)
}

func TestStageFromStream_ReplacesDirectory(t *testing.T) {
	t.Parallel()
	dst := filepath.Join(t.TempDir(), "dst")
	buildTree(t, dst)

	require.NoError(t, newTestStager(t).StageFromStream(io.NopCloser(strings.NewReader("flat")), dst))
	assert.Equal(t, "flat", readFile(t, dst))
}

func TestStageFromStream_InvalidArguments(t *testing.T) {
	t.Parallel()
	s := newTestStager(t)

	err := s.StageFromStream(nil, filepath.Join(t.TempDir(), "out"))
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	src := &trackingReader{r: strings.NewReader("data")}
	err = s.StageFromStream(src, "")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, 1, src.closed)
}

func TestStage_DanglingSymlinkDestinationIsNotReplaced(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	src := filepath.Join(root, "src.txt")
	dst := filepath.Join(root, "dst.txt")
	writeFile(t, src, "data")
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), dst))

	// The link reads as absent, so it is not erased and the exclusive create fails
	err := newTestStager(t).Stage(src, dst, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrExist), "want EEXIST, got %v", err)

	info, lerr := os.Lstat(dst)
	require.NoError(t, lerr)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)
}
