package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"

	"nxsort.dev/pkg/nxsort/internal/adapter"
	m "nxsort.dev/pkg/nxsort/internal/model"
)

// UpdateSubdir and DLCSubdir name the per-title output subdirectories.
const (
	UpdateSubdir = "UPDATE"
	DLCSubdir    = "DLC"
)

var unsafeNameChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// LayoutBuilder writes the canonical per-title output tree for a finalized
// Game. Input files are copied, never mutated or deleted. The tree is built
// in a temporary sibling directory and renamed into place so a cancelled or
// failed build never publishes a partial layout.
type LayoutBuilder struct {
	fs        adapter.LibraryFSAdapter
	repack    adapter.Repackager
	keys      m.Path
	overwrite bool
}

// NewLayoutBuilder constructs a LayoutBuilder. repack may be nil and keys
// empty; the builder then degrades to the copy/organize step and skips the
// optional repack artifact.
func NewLayoutBuilder(fs adapter.LibraryFSAdapter, repack adapter.Repackager, keys m.Path, overwrite bool) *LayoutBuilder {
	return &LayoutBuilder{
		fs:        fs,
		repack:    repack,
		keys:      keys,
		overwrite: overwrite,
	}
}

// Build writes outputRoot/<Title>/ with the canonical base renamed to
// <Title>.<ext>, the selected update under UPDATE/, and all DLC under DLC/.
// When emitArtifact is set and the repackager is available it additionally
// emits a base-only image next to the title directory. Failures come back
// as *LayoutError so the caller can continue with the next game.
func (b *LayoutBuilder) Build(ctx context.Context, game *m.Game, outputRoot m.Path, emitArtifact bool) (m.Path, error) {
	if game.SelectedBase == nil {
		return "", &LayoutError{Title: game.Title, Err: fmt.Errorf("no base image selected")}
	}

	title := SanitizeName(game.Title)
	dest := b.fs.JoinPath(string(outputRoot), title)

	if _, err := b.fs.FileInfo(dest); err == nil && !b.overwrite {
		return "", &LayoutError{Title: game.Title, Err: fmt.Errorf("destination %s already exists (use overwrite to replace)", dest)}
	}

	if err := b.fs.MkdirAll(outputRoot); err != nil {
		return "", &LayoutError{Title: game.Title, Err: err}
	}

	staging, err := b.fs.CreateTempDirIn(outputRoot, ".nxsort-"+title+"-*")
	if err != nil {
		return "", &LayoutError{Title: game.Title, Err: err}
	}

	defer func() {
		if err := b.fs.RemoveAll(staging); err != nil {
			slog.Error("failed to clean staging directory", "path", staging, "error", err)
		}
	}()

	if err := b.stage(ctx, game, staging, title); err != nil {
		return "", &LayoutError{Title: game.Title, Err: err}
	}

	if b.overwrite {
		if err := b.fs.RemoveAll(dest); err != nil {
			return "", &LayoutError{Title: game.Title, Err: err}
		}
	}

	if err := b.fs.Rename(staging, dest); err != nil {
		return "", &LayoutError{Title: game.Title, Err: err}
	}

	slog.Info("built game layout", "title", game.Title, "dest", dest)

	if emitArtifact {
		b.emitBaseArtifact(ctx, game, dest, outputRoot, title)
	}

	return dest, nil
}

// stage copies the canonical members into the staging directory.
func (b *LayoutBuilder) stage(ctx context.Context, game *m.Game, staging m.Path, title string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	base := game.SelectedBase
	canonical := b.fs.JoinPath(string(staging), title+string(base.Extension))

	if err := b.fs.CopyFile(base.Path, canonical); err != nil {
		return fmt.Errorf("copy base image: %w", err)
	}

	if update := game.SelectedUpdate; update != nil {
		dst := b.fs.JoinPath(string(staging), UpdateSubdir, filepath.Base(string(update.Path)))
		if err := b.fs.CopyFile(update.Path, dst); err != nil {
			return fmt.Errorf("copy update: %w", err)
		}
	}

	for _, dlc := range game.DLCFiles {
		if err := ctx.Err(); err != nil {
			return err
		}

		dst := b.fs.JoinPath(string(staging), DLCSubdir, filepath.Base(string(dlc.Path)))
		if err := b.fs.CopyFile(dlc.Path, dst); err != nil {
			return fmt.Errorf("copy dlc %s: %w", dlc.Path, err)
		}
	}

	return nil
}

// emitBaseArtifact drives the repackager to produce a flat base-only image
// named <Title>_v<version>_<N>DLC.xci. The artifact contains only the base
// content; updates and DLC still need a separate install. A missing
// repackager or key file degrades to skipping the artifact, and a tool
// failure is logged without failing the already-built layout.
func (b *LayoutBuilder) emitBaseArtifact(ctx context.Context, game *m.Game, dest, outputRoot m.Path, title string) {
	if b.repack == nil {
		slog.Warn("repackager unavailable, skipping base artifact", "title", game.Title)
		return
	}

	if b.keys == "" {
		slog.Warn("key material unavailable, skipping base artifact", "title", game.Title)
		return
	}

	name := title

	if game.SelectedUpdate != nil && game.SelectedUpdate.VersionHint != "" {
		name += "_v" + game.SelectedUpdate.VersionHint
	}

	if len(game.DLCFiles) > 0 {
		name += fmt.Sprintf("_%dDLC", len(game.DLCFiles))
	}

	base := b.fs.JoinPath(string(dest), title+string(game.SelectedBase.Extension))
	artifact := b.fs.JoinPath(string(outputRoot), name+string(m.ExtXCI))

	output, err := b.repack.Repack(ctx, base, b.keys, artifact)
	if err != nil {
		slog.Error("repack failed, layout kept without artifact",
			"title", game.Title,
			"error", err,
			"tool_output", output,
		)

		return
	}

	slog.Info("emitted base-only artifact", "title", game.Title, "artifact", artifact)
}

// SanitizeName strips characters that are unsafe in directory names.
func SanitizeName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "")
}
