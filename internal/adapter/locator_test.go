package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "nxsort.dev/pkg/nxsort/internal/model"
)

func touch(t *testing.T, dir string, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o700))

	return path
}

func TestFixedPathLocator_LocateToolDirect(t *testing.T) {
	toolsDir := t.TempDir()
	want := touch(t, toolsDir, "nsz")

	locator := NewFixedPathLocator(m.Path(toolsDir))

	path, ok := locator.LocateTool("nsz")
	require.True(t, ok)
	assert.Equal(t, m.Path(want), path)
}

func TestFixedPathLocator_LocateToolExeSuffix(t *testing.T) {
	toolsDir := t.TempDir()
	want := touch(t, toolsDir, "hactoolnet.exe")

	locator := NewFixedPathLocator(m.Path(toolsDir))

	path, ok := locator.LocateTool("hactoolnet")
	require.True(t, ok)
	assert.Equal(t, m.Path(want), path)
}

func TestFixedPathLocator_LocateToolInSubdirectory(t *testing.T) {
	toolsDir := t.TempDir()
	want := touch(t, toolsDir, "nsz-4.6.1/nsz")

	locator := NewFixedPathLocator(m.Path(toolsDir))

	path, ok := locator.LocateTool("nsz")
	require.True(t, ok)
	assert.Equal(t, m.Path(want), path)
}

func TestFixedPathLocator_DirectBinaryWinsOverSubdirectory(t *testing.T) {
	toolsDir := t.TempDir()
	touch(t, toolsDir, "aaa-archive/nsz")
	want := touch(t, toolsDir, "nsz")

	locator := NewFixedPathLocator(m.Path(toolsDir))

	path, ok := locator.LocateTool("nsz")
	require.True(t, ok)
	assert.Equal(t, m.Path(want), path)
}

func TestFixedPathLocator_LocateToolMissing(t *testing.T) {
	locator := NewFixedPathLocator(m.Path(t.TempDir()))

	_, ok := locator.LocateTool("nsz")
	assert.False(t, ok)
}

func TestFixedPathLocator_LocateToolIgnoresDirectories(t *testing.T) {
	toolsDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(toolsDir, "nsz"), 0o755))

	locator := NewFixedPathLocator(m.Path(toolsDir))

	_, ok := locator.LocateTool("nsz")
	assert.False(t, ok)
}

func TestFixedPathLocator_LocateKeysFindsExistingCandidate(t *testing.T) {
	toolsDir := t.TempDir()
	touch(t, toolsDir, "keys.txt")

	locator := NewFixedPathLocator(m.Path(toolsDir))

	path, ok := locator.LocateKeys()
	require.True(t, ok)

	// Earlier candidates (cwd, home) may legitimately exist on the host, so
	// only require that the returned path is a real file from the list.
	assert.Contains(t, locator.KeyCandidates(), path)

	info, err := os.Stat(string(path))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestFixedPathLocator_KeyCandidatesOrder(t *testing.T) {
	toolsDir := t.TempDir()
	locator := NewFixedPathLocator(m.Path(toolsDir))

	candidates := locator.KeyCandidates()
	require.NotEmpty(t, candidates)

	assert.Equal(t, m.Path("prod.keys"), candidates[0])
	assert.Equal(t, m.Path(filepath.Join(toolsDir, "keys.txt")), candidates[len(candidates)-1])
}
