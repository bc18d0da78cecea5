package stage

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/zoro11031/treestage/internal/system"
)

func newTestFS(t *testing.T) *system.FileSystem {
	t.Helper()
	return system.NewFileSystem(zerolog.Nop())
}

func newFaultyFS(t *testing.T) (*system.FileSystem, *system.FaultyFs) {
	t.Helper()
	faulty := system.NewFaultyFs(afero.NewOsFs())
	return system.NewFileSystemWithFs(faulty, zerolog.Nop()), faulty
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is test-controlled
	require.NoError(t, err)
	return string(data)
}

func perm(t *testing.T, path string) os.FileMode {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.Mode().Perm()
}

// snapshot returns every relative path under root mapped to its file content
// ("" with a trailing slash key for directories).
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			out[rel+"/"] = ""
			return nil
		}
		out[rel] = readFile(t, path)
		return nil
	})
	require.NoError(t, err)
	return out
}

func childNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}
