package domain

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"nxsort.dev/pkg/nxsort/internal/adapter"
	m "nxsort.dev/pkg/nxsort/internal/model"
)

// ScanResult is the outcome of walking the input roots.
type ScanResult struct {
	// Descriptors are the classified files with a recognized extension,
	// sorted by path.
	Descriptors []m.FileDescriptor

	// Unrecognized lists files skipped for an unrecognized extension. They
	// never enter grouping and surface only in the unclassified report.
	Unrecognized []m.Path
}

// Scanner recursively walks input roots, filters by the recognized
// container extensions, and delegates naming to the classifier. Sizes come
// from metadata only; file contents are never read.
type Scanner struct {
	fs         adapter.LibraryFSAdapter
	classifier *Classifier
	exclude    []*regexp.Regexp
}

// NewScanner constructs a Scanner. excludePatterns are regular expressions
// matched against full paths; matching files are skipped.
func NewScanner(fs adapter.LibraryFSAdapter, classifier *Classifier, excludePatterns []string) (*Scanner, error) {
	exclude := make([]*regexp.Regexp, 0, len(excludePatterns))

	for _, pattern := range excludePatterns {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		exclude = append(exclude, compiled)
	}

	return &Scanner{
		fs:         fs,
		classifier: classifier,
		exclude:    exclude,
	}, nil
}

// Scan walks every root to arbitrary depth. Unreadable subtrees are logged
// as warnings and skipped; the scan itself does not abort. Re-running
// against an unchanged tree yields an identical, path-sorted result.
func (s *Scanner) Scan(roots []m.Path) (ScanResult, error) {
	var result ScanResult

	for _, root := range roots {
		if err := s.scanRoot(root, &result); err != nil {
			return ScanResult{}, err
		}
	}

	sort.Slice(result.Descriptors, func(i, j int) bool {
		return result.Descriptors[i].Path < result.Descriptors[j].Path
	})
	sort.Slice(result.Unrecognized, func(i, j int) bool {
		return result.Unrecognized[i] < result.Unrecognized[j]
	})

	return result, nil
}

func (s *Scanner) scanRoot(root m.Path, result *ScanResult) error {
	if _, err := s.fs.FileInfo(root); err != nil {
		return fmt.Errorf("scan root %s: %w", root, err)
	}

	return s.fs.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable path", "path", path, "error", err)

			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if info.IsDir() {
			return nil
		}

		if s.excluded(path) {
			slog.Debug("excluded by pattern", "path", path)
			return nil
		}

		if !m.ParseExtension(filepath.Ext(path)).Recognized() {
			result.Unrecognized = append(result.Unrecognized, absPath(path))
			return nil
		}

		desc := s.classifier.Classify(filepath.Base(path))
		desc.Path = absPath(path)
		desc.Size = info.Size()

		slog.Debug("classified file",
			"path", desc.Path,
			"kind", desc.ContentKind,
			"title", desc.Title,
			"version", desc.VersionHint,
		)

		result.Descriptors = append(result.Descriptors, desc)

		return nil
	})
}

func (s *Scanner) excluded(path string) bool {
	for _, pattern := range s.exclude {
		if pattern.MatchString(path) {
			return true
		}
	}

	return false
}

func absPath(path string) m.Path {
	abs, err := filepath.Abs(path)
	if err != nil {
		return m.Path(path)
	}

	return m.Path(abs)
}
