package domain

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nxsort.dev/pkg/nxsort/internal/adapter"
	m "nxsort.dev/pkg/nxsort/internal/model"
)

func writeFixture(t *testing.T, root string, name string, size int) string {
	t.Helper()

	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o600))

	return path
}

func newTestScanner(t *testing.T, excludePatterns []string) *Scanner {
	t.Helper()

	scanner, err := NewScanner(
		adapter.NewLocalLibraryFSAdapter(),
		NewClassifier(m.KindUpdate),
		excludePatterns,
	)
	require.NoError(t, err)

	return scanner
}

func TestScanner_ClassifiesRecognizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "Foo.xci", 300)
	writeFixture(t, root, "nested/deeper/Foo_v1.1.0.nsp", 120)
	writeFixture(t, root, "Foo_DLC1.nsp", 40)

	result, err := newTestScanner(t, nil).Scan([]m.Path{m.Path(root)})
	require.NoError(t, err)

	require.Len(t, result.Descriptors, 3)
	assert.Empty(t, result.Unrecognized)

	kinds := map[m.ContentKind]int{}
	for _, desc := range result.Descriptors {
		kinds[desc.ContentKind]++
		assert.True(t, filepath.IsAbs(string(desc.Path)))
		assert.NotZero(t, desc.Size)
	}

	assert.Equal(t, 1, kinds[m.KindBase])
	assert.Equal(t, 1, kinds[m.KindUpdate])
	assert.Equal(t, 1, kinds[m.KindDLC])
}

func TestScanner_CollectsUnrecognizedExtensions(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "Foo.xci", 10)
	notes := writeFixture(t, root, "notes.txt", 5)

	result, err := newTestScanner(t, nil).Scan([]m.Path{m.Path(root)})
	require.NoError(t, err)

	require.Len(t, result.Descriptors, 1)
	require.Len(t, result.Unrecognized, 1)
	assert.Equal(t, m.Path(notes), result.Unrecognized[0])
}

func TestScanner_HonorsExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "keep/Foo.xci", 10)
	writeFixture(t, root, "backup/Bar.xci", 10)

	result, err := newTestScanner(t, []string{`backup/`}).Scan([]m.Path{m.Path(root)})
	require.NoError(t, err)

	require.Len(t, result.Descriptors, 1)
	assert.Contains(t, string(result.Descriptors[0].Path), "keep")
}

func TestScanner_ResultIsPathSorted(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "z.xci", 10)
	writeFixture(t, root, "a.xci", 10)
	writeFixture(t, root, "m/b.xci", 10)

	result, err := newTestScanner(t, nil).Scan([]m.Path{m.Path(root)})
	require.NoError(t, err)

	require.Len(t, result.Descriptors, 3)
	for i := 1; i < len(result.Descriptors); i++ {
		assert.Less(t, result.Descriptors[i-1].Path, result.Descriptors[i].Path)
	}
}

func TestScanner_SkipsUnreadableSubtree(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on Windows")
	}

	if os.Getuid() == 0 {
		t.Skip("root bypasses permission checks")
	}

	root := t.TempDir()
	writeFixture(t, root, "Foo.xci", 10)
	writeFixture(t, root, "locked/Bar.xci", 10)

	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	result, err := newTestScanner(t, nil).Scan([]m.Path{m.Path(root)})
	require.NoError(t, err, "an unreadable subtree must not abort the scan")

	require.Len(t, result.Descriptors, 1)
	assert.Contains(t, string(result.Descriptors[0].Path), "Foo.xci")
}

func TestScanner_MissingRootFails(t *testing.T) {
	_, err := newTestScanner(t, nil).Scan([]m.Path{"does/not/exist"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan root")
}

func TestNewScanner_RejectsInvalidExcludePattern(t *testing.T) {
	_, err := NewScanner(
		adapter.NewLocalLibraryFSAdapter(),
		NewClassifier(m.KindUpdate),
		[]string{`[unclosed`},
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid exclude pattern")
}
