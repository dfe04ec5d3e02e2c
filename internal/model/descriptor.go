// Package model defines the data structures for organizing a Switch game library.
package model

import "strings"

// Path represents a file system path.
type Path string

// Extension identifies one of the four recognized container formats.
type Extension string

const (
	// ExtXCI is the uncompressed base-image format.
	ExtXCI Extension = ".xci"
	// ExtXCZ is the compressed base-image format.
	ExtXCZ Extension = ".xcz"
	// ExtNSP is the uncompressed content-package format (updates and DLC).
	ExtNSP Extension = ".nsp"
	// ExtNSZ is the compressed content-package format.
	ExtNSZ Extension = ".nsz"
)

// ParseExtension normalizes a filename extension. Unrecognized extensions
// are returned as-is and report Recognized() == false.
func ParseExtension(ext string) Extension {
	return Extension(strings.ToLower(ext))
}

// Recognized reports whether the extension is one of the four container formats.
func (e Extension) Recognized() bool {
	switch e {
	case ExtXCI, ExtXCZ, ExtNSP, ExtNSZ:
		return true
	}

	return false
}

// Compressed reports whether the extension is a compressed container variant.
func (e Extension) Compressed() bool {
	return e == ExtXCZ || e == ExtNSZ
}

// BaseImage reports whether the extension is a base-image format.
func (e Extension) BaseImage() bool {
	return e == ExtXCI || e == ExtXCZ
}

// Uncompressed returns the sibling format a compressed variant decompresses
// to. Uncompressed extensions map to themselves.
func (e Extension) Uncompressed() Extension {
	switch e {
	case ExtXCZ:
		return ExtXCI
	case ExtNSZ:
		return ExtNSP
	}

	return e
}

// ContentKind classifies what a file contributes to a title.
type ContentKind string

const (
	// KindBase is the primary game image.
	KindBase ContentKind = "base"
	// KindUpdate is an update or patch package.
	KindUpdate ContentKind = "update"
	// KindDLC is a downloadable-content package.
	KindDLC ContentKind = "dlc"
	// KindUnknown marks files that could not be classified. They are
	// excluded from grouping but retained for reporting.
	KindUnknown ContentKind = "unknown"
)

// FileDescriptor describes one physical input file. Path and Size come from
// the scanner; the remaining fields come from the filename classifier.
type FileDescriptor struct {
	Path        Path
	Size        int64
	Extension   Extension
	Title       string
	VersionHint string
	TitleID     string
	ContentKind ContentKind
}
