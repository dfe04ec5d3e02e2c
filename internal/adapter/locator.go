package adapter

import (
	"os"
	"path/filepath"
	"sort"

	m "nxsort.dev/pkg/nxsort/internal/model"
)

// ToolLocator finds key material and external executables at well-known
// search paths. Absence is reported, not treated as an error: the caller
// decides which collaborators are mandatory for the requested operation.
type ToolLocator interface {
	// LocateKeys returns the first key-material file found in the ordered
	// candidate list.
	LocateKeys() (m.Path, bool)

	// LocateTool returns the path of the named executable under the tools
	// directory, searching one level of subdirectories for portable-archive
	// layouts.
	LocateTool(name string) (m.Path, bool)

	// KeyCandidates returns the ordered key-material search list, for
	// diagnostics when nothing is found.
	KeyCandidates() []m.Path
}

// FixedPathLocator searches the conventional locations used by Switch
// tooling: prod.keys next to the binary or under the user's home, and
// executables inside a tools directory.
type FixedPathLocator struct {
	toolsDir m.Path
	home     string
}

// NewFixedPathLocator constructs a locator rooted at toolsDir. The home
// directory is resolved once at construction.
func NewFixedPathLocator(toolsDir m.Path) *FixedPathLocator {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}

	return &FixedPathLocator{
		toolsDir: toolsDir,
		home:     home,
	}
}

// KeyCandidates returns the ordered key-material search list.
func (l *FixedPathLocator) KeyCandidates() []m.Path {
	candidates := []m.Path{"prod.keys"}

	if l.home != "" {
		candidates = append(candidates,
			m.Path(filepath.Join(l.home, ".switch", "prod.keys")),
			m.Path(filepath.Join(l.home, "switch", "prod.keys")),
		)
	}

	return append(candidates, m.Path(filepath.Join(string(l.toolsDir), "keys.txt")))
}

// LocateKeys returns the first existing key-material file; first match wins.
func (l *FixedPathLocator) LocateKeys() (m.Path, bool) {
	for _, candidate := range l.KeyCandidates() {
		if info, err := os.Stat(string(candidate)); err == nil && !info.IsDir() {
			return candidate, true
		}
	}

	return "", false
}

// LocateTool searches toolsDir and its immediate subdirectories for the
// named executable, accepting both bare and .exe-suffixed binaries.
func (l *FixedPathLocator) LocateTool(name string) (m.Path, bool) {
	// A binary directly under toolsDir wins over one inside an unpacked
	// archive subdirectory.
	for _, direct := range []string{name, name + ".exe"} {
		candidate := filepath.Join(string(l.toolsDir), direct)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return m.Path(candidate), true
		}
	}

	var matches []string

	for _, pattern := range []string{
		filepath.Join(string(l.toolsDir), "*", name),
		filepath.Join(string(l.toolsDir), "*", name+".exe"),
	} {
		found, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}

		for _, match := range found {
			if info, err := os.Stat(match); err == nil && !info.IsDir() {
				matches = append(matches, match)
			}
		}
	}

	if len(matches) == 0 {
		return "", false
	}

	// Deterministic choice when an archive ships duplicates.
	sort.Strings(matches)

	return m.Path(matches[0]), true
}
