package domain

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"nxsort.dev/pkg/nxsort/internal/adapter"
	m "nxsort.dev/pkg/nxsort/internal/model"
)

// Normalizer materializes the uncompressed sibling of compressed container
// variants through the external decompressor. Uncompressed descriptors pass
// through untouched.
type Normalizer struct {
	dec     adapter.Decompressor
	fs      adapter.LibraryFSAdapter
	workDir m.Path
}

// NewNormalizer constructs a Normalizer that writes decompressed siblings
// into workDir. The caller owns workDir's lifetime and releases it after
// the run.
func NewNormalizer(dec adapter.Decompressor, fs adapter.LibraryFSAdapter, workDir m.Path) *Normalizer {
	return &Normalizer{
		dec:     dec,
		fs:      fs,
		workDir: workDir,
	}
}

// Normalize converts one descriptor. Already-uncompressed input is a no-op
// returning the descriptor unchanged. Failures come back as a
// *NormalizationError carrying the offending path and tool diagnostics.
func (n *Normalizer) Normalize(ctx context.Context, desc m.FileDescriptor) (m.FileDescriptor, error) {
	if !desc.Extension.Compressed() {
		return desc, nil
	}

	if n.dec == nil {
		return desc, &NormalizationError{
			Path: desc.Path,
			Err:  &ToolMissingError{Tool: "nsz"},
		}
	}

	output, err := n.dec.Decompress(ctx, desc.Path, n.workDir)
	if err != nil {
		return desc, &NormalizationError{
			Path:   desc.Path,
			Output: output,
			Err:    err,
		}
	}

	base := filepath.Base(string(desc.Path))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	normalized := desc
	normalized.Extension = desc.Extension.Uncompressed()
	normalized.Path = n.fs.JoinPath(string(n.workDir), stem+string(normalized.Extension))

	info, err := n.fs.FileInfo(normalized.Path)
	if err != nil {
		return desc, &NormalizationError{
			Path:   desc.Path,
			Output: output,
			Err:    err,
		}
	}

	normalized.Size = info.Size()

	slog.Info("normalized compressed container",
		"input", desc.Path,
		"output", normalized.Path,
	)

	return normalized, nil
}

// NormalizeBatch converts every compressed descriptor, isolating failures
// per file: a corrupt input is reported and left in its compressed form
// while the rest of the batch proceeds.
func (n *Normalizer) NormalizeBatch(ctx context.Context, descs []m.FileDescriptor) ([]m.FileDescriptor, []error) {
	normalized := make([]m.FileDescriptor, 0, len(descs))

	var errs []error

	for _, desc := range descs {
		result, err := n.Normalize(ctx, desc)
		if err != nil {
			slog.Warn("normalization failed, keeping compressed form",
				"path", desc.Path,
				"error", err,
			)

			errs = append(errs, err)
			normalized = append(normalized, desc)

			continue
		}

		normalized = append(normalized, result)
	}

	return normalized, errs
}
