// Package adapter contains filesystem and external-tool adapters for the nxsort CLI.
package adapter

import (
	"io"
	"os"
	"path/filepath"

	m "nxsort.dev/pkg/nxsort/internal/model"
)

// LibraryFSAdapter abstracts filesystem operations the domain layer relies
// on when scanning game libraries and building output layouts. It hides
// direct `os` access so the grouping and layout logic can be tested without
// touching the disk.
type LibraryFSAdapter interface {
	// Walk traverses the provided root recursively.
	Walk(root m.Path, fn FilepathWalkFunc) error

	// FileInfo returns metadata for a path so the domain can check
	// existence or read sizes without opening files.
	FileInfo(path m.Path) (os.FileInfo, error)

	// CopyFile copies a single file, creating parent directories as needed.
	// The source is never mutated.
	CopyFile(src, dst m.Path) error

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path m.Path) error

	// CreateTempDirIn creates a temporary directory under dir. An empty dir
	// falls back to the system temp location.
	CreateTempDirIn(dir m.Path, pattern string) (m.Path, error)

	// RemoveAll removes a directory and all its contents.
	RemoveAll(path m.Path) error

	// Rename atomically moves a file or directory into place.
	Rename(oldPath, newPath m.Path) error

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalLibraryFSAdapter is the production implementation backed by the os
// package.
type LocalLibraryFSAdapter struct{}

// NewLocalLibraryFSAdapter constructs a LocalLibraryFSAdapter ready to be
// wired into the workflow.
func NewLocalLibraryFSAdapter() *LocalLibraryFSAdapter {
	return &LocalLibraryFSAdapter{}
}

// Walk iterates over all files under root, descending into subdirectories.
func (a *LocalLibraryFSAdapter) Walk(root m.Path, fn FilepathWalkFunc) error {
	return filepath.Walk(string(root), func(path string, info os.FileInfo, err error) error {
		return fn(path, info, err)
	})
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalLibraryFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// CopyFile copies src to dst, creating parent directories as needed.
func (a *LocalLibraryFSAdapter) CopyFile(src, dst m.Path) error {
	// #nosec G304 - src is a scanned library path, not arbitrary user input
	sourceFile, err := os.Open(string(src))
	if err != nil {
		return err
	}

	defer func() { _ = sourceFile.Close() }()

	info, err := sourceFile.Stat()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(string(dst)), 0o750); err != nil {
		return err
	}

	// #nosec G304 - dst is an internal destination path, not user input
	destFile, err := os.Create(string(dst))
	if err != nil {
		return err
	}

	defer func() { _ = destFile.Close() }()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return os.Chmod(string(dst), info.Mode())
}

// MkdirAll creates a directory and any missing parents.
func (a *LocalLibraryFSAdapter) MkdirAll(path m.Path) error {
	return os.MkdirAll(string(path), 0o750)
}

// CreateTempDirIn creates a temporary directory under dir.
func (a *LocalLibraryFSAdapter) CreateTempDirIn(dir m.Path, pattern string) (m.Path, error) {
	tmpDir, err := os.MkdirTemp(string(dir), pattern)
	if err != nil {
		return "", err
	}

	return m.Path(tmpDir), nil
}

// RemoveAll removes a directory and all its contents.
func (a *LocalLibraryFSAdapter) RemoveAll(path m.Path) error {
	return os.RemoveAll(string(path))
}

// Rename moves a file or directory into place.
func (a *LocalLibraryFSAdapter) Rename(oldPath, newPath m.Path) error {
	return os.Rename(string(oldPath), string(newPath))
}

// JoinPath joins path elements into a single path.
func (a *LocalLibraryFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
