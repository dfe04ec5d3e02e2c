package domain

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"nxsort.dev/pkg/nxsort/internal/adapter"
	"nxsort.dev/pkg/nxsort/internal/controller"
	m "nxsort.dev/pkg/nxsort/internal/model"
)

// ReportFileName is the run summary written next to the organized output.
const ReportFileName = "nxsort-report.yaml"

// ScanArgs configures the scan-only pipeline.
type ScanArgs struct {
	Roots                []m.Path
	Exclude              []string
	AmbiguousPackageKind m.ContentKind
	TitleFilter          string
}

// OrganizeArgs configures a full organizing run.
type OrganizeArgs struct {
	ScanArgs

	Output    m.Path
	Parallel  int
	Repack    bool
	Overwrite bool
}

// Workflow wires the scanner, grouping engine, normalizer, and layout
// builder into the two user-facing operations.
type Workflow interface {
	// Scan performs scanner+classifier+grouping and renders the result
	// without writing any output.
	Scan(ctx context.Context, args ScanArgs) error

	// Organize runs the full pipeline and returns the run summary. The
	// summary is valid even when individual games failed; the error is
	// non-nil only for run-level failures (missing mandatory
	// collaborators, unusable roots).
	Organize(ctx context.Context, args OrganizeArgs) (m.RunSummary, error)
}

type workflow struct {
	fs      adapter.LibraryFSAdapter
	locator adapter.ToolLocator
	store   adapter.ReportStore
	ui      controller.UI
}

// NewWorkflow constructs a Workflow backed by the provided adapters.
func NewWorkflow(
	fs adapter.LibraryFSAdapter,
	locator adapter.ToolLocator,
	store adapter.ReportStore,
	ui controller.UI,
) Workflow {
	return &workflow{
		fs:      fs,
		locator: locator,
		store:   store,
		ui:      ui,
	}
}

func (w *workflow) Scan(ctx context.Context, args ScanArgs) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	scan, library, err := w.scanAndGroup(args)
	if err != nil {
		return err
	}

	return w.ui.DisplayLibrary(ctx, library, scan.Unrecognized)
}

func (w *workflow) Organize(ctx context.Context, args OrganizeArgs) (m.RunSummary, error) {
	scan, _, err := w.scanAndGroup(args.ScanArgs)
	if err != nil {
		return m.RunSummary{}, err
	}

	tools, err := w.locateCollaborators(args, scan.Descriptors)
	if err != nil {
		return m.RunSummary{}, err
	}

	workDir, err := w.fs.CreateTempDirIn("", "nxsort-work-*")
	if err != nil {
		return m.RunSummary{}, fmt.Errorf("create normalization work area: %w", err)
	}

	defer func() {
		if err := w.fs.RemoveAll(workDir); err != nil {
			slog.Error("failed to release work area", "path", workDir, "error", err)
		}
	}()

	descriptors := w.normalize(ctx, scan.Descriptors, tools.decompressor, workDir)

	library := NewGrouper().Group(descriptors)
	games := w.filterGames(library, args.TitleFilter)

	if err := w.fs.MkdirAll(args.Output); err != nil {
		return m.RunSummary{}, fmt.Errorf("create output root: %w", err)
	}

	summary := w.buildAll(ctx, args, games, tools)
	summary.Unclassified = unclassifiedPaths(scan, library)

	reportPath := w.fs.JoinPath(string(args.Output), ReportFileName)
	if err := w.store.SaveSummary(reportPath, summary); err != nil {
		slog.Error("failed to save run summary", "path", reportPath, "error", err)
	}

	if err := w.ui.DisplaySummary(ctx, summary); err != nil {
		return summary, err
	}

	return summary, nil
}

// collaborators are the resolved external tools for one run.
type collaborators struct {
	decompressor adapter.Decompressor
	repackager   adapter.Repackager
	keys         m.Path
}

// locateCollaborators resolves external tools and enforces the mandatory
// preconditions: a decompressor must exist when only compressed inputs are
// present, and an explicit repack request needs both the repackager and key
// material.
func (w *workflow) locateCollaborators(args OrganizeArgs, descriptors []m.FileDescriptor) (collaborators, error) {
	var tools collaborators

	if nszPath, ok := w.locator.LocateTool("nsz"); ok {
		tools.decompressor = adapter.NewNSZTool(nszPath)
		slog.Info("found decompression tool", "path", nszPath)
	}

	if keysPath, ok := w.locator.LocateKeys(); ok {
		tools.keys = keysPath
		slog.Info("found key material", "path", keysPath)
	}

	if tools.decompressor == nil && !decompressionOptional(descriptors) {
		return tools, &ToolMissingError{Tool: "nsz"}
	}

	if !args.Repack {
		return tools, nil
	}

	hactoolnetPath, ok := w.locator.LocateTool("hactoolnet")
	if !ok {
		return tools, &ToolMissingError{Tool: "hactoolnet"}
	}

	tools.repackager = adapter.NewHactoolnetTool(hactoolnetPath)
	slog.Info("found repackaging tool", "path", hactoolnetPath)

	if tools.keys == "" {
		return tools, &KeyMaterialMissingError{Searched: w.locator.KeyCandidates()}
	}

	return tools, nil
}

// decompressionOptional reports whether the run can proceed without a
// decompressor: either no compressed inputs exist, or uncompressed base
// images are present so a degraded run still produces layouts.
func decompressionOptional(descriptors []m.FileDescriptor) bool {
	hasCompressed := false
	hasUncompressedBase := false

	for _, desc := range descriptors {
		if desc.Extension.Compressed() {
			hasCompressed = true
		} else if desc.ContentKind == m.KindBase {
			hasUncompressedBase = true
		}
	}

	return !hasCompressed || hasUncompressedBase
}

func (w *workflow) scanAndGroup(args ScanArgs) (ScanResult, m.Library, error) {
	kind := args.AmbiguousPackageKind
	if kind == "" {
		kind = m.KindUpdate
	}

	scanner, err := NewScanner(w.fs, NewClassifier(kind), args.Exclude)
	if err != nil {
		return ScanResult{}, m.Library{}, err
	}

	scan, err := scanner.Scan(args.Roots)
	if err != nil {
		return ScanResult{}, m.Library{}, err
	}

	library := NewGrouper().Group(scan.Descriptors)

	if args.TitleFilter != "" {
		library = filterLibrary(library, args.TitleFilter)
	}

	return scan, library, nil
}

// normalize decompresses compressed descriptors into the scoped work area.
// Per-file failures are logged inside the batch and the file keeps its
// compressed form.
func (w *workflow) normalize(ctx context.Context, descriptors []m.FileDescriptor, dec adapter.Decompressor, workDir m.Path) []m.FileDescriptor {
	normalizer := NewNormalizer(dec, w.fs, workDir)

	normalized, errs := normalizer.NormalizeBatch(ctx, descriptors)
	for _, normErr := range errs {
		slog.Warn("normalization error", "error", normErr)
	}

	return normalized
}

func (w *workflow) filterGames(library m.Library, filter string) []*m.Game {
	filtered := filterLibrary(library, filter)
	keys := make([]string, 0, len(filtered.Games))

	for key := range filtered.Games {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	games := make([]*m.Game, 0, len(keys))
	for _, key := range keys {
		games = append(games, filtered.Games[key])
	}

	return games
}

// filterLibrary restricts the library to titles partially matching filter,
// compared on normalized keys so punctuation and casing do not matter.
func filterLibrary(library m.Library, filter string) m.Library {
	if filter == "" {
		return library
	}

	needle := NormalizeTitle(filter)
	filtered := m.Library{
		Games:        map[string]*m.Game{},
		Unclassified: library.Unclassified,
	}

	for key, game := range library.Games {
		if strings.Contains(key, needle) {
			filtered.Games[key] = game
		}
	}

	return filtered
}

// buildAll fans the per-game layout builds out over a bounded worker pool.
// Games are independent once grouping completes: each build touches a
// disjoint destination, so workers share no mutable state beyond the result
// slice. Cancellation stops dispatching new games; in-flight builds finish
// or abort on their own context checks.
func (w *workflow) buildAll(ctx context.Context, args OrganizeArgs, games []*m.Game, tools collaborators) m.RunSummary {
	builder := NewLayoutBuilder(w.fs, tools.repackager, tools.keys, args.Overwrite)

	workers := args.Parallel
	if workers < 1 {
		workers = 1
	}

	if err := w.ui.Start(ctx, len(games)); err != nil {
		slog.Error("failed to start UI", "error", err)
	}

	defer w.ui.Close(ctx)

	var (
		mu      sync.Mutex
		results []m.GameResult
	)

	var group errgroup.Group

	group.SetLimit(workers)

	record := func(result m.GameResult) {
		mu.Lock()
		results = append(results, result)
		mu.Unlock()

		w.ui.DisplayGameResult(ctx, result)
	}

	for _, game := range games {
		game := game

		if ctx.Err() != nil {
			record(skippedResult(game, "run cancelled"))
			continue
		}

		group.Go(func() error {
			record(w.buildOne(ctx, builder, game, args))
			return nil
		})
	}

	_ = group.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].Title < results[j].Title
	})

	summary := m.RunSummary{Games: results}

	for _, result := range results {
		switch result.Status {
		case m.StatusBuilt:
			summary.Processed++
		case m.StatusSkipped:
			summary.Skipped++
		case m.StatusFailed:
			summary.Failed++
		}
	}

	return summary
}

func (w *workflow) buildOne(ctx context.Context, builder *LayoutBuilder, game *m.Game, args OrganizeArgs) m.GameResult {
	if game.SelectedBase == nil {
		slog.Warn("skipping game without base image", "title", game.Title)
		return skippedResult(game, "no base image")
	}

	if err := ctx.Err(); err != nil {
		return skippedResult(game, "run cancelled")
	}

	dest, err := builder.Build(ctx, game, args.Output, args.Repack)
	if err != nil {
		slog.Error("game build failed", "title", game.Title, "error", err)

		return m.GameResult{
			Title:   game.Title,
			Status:  m.StatusFailed,
			Reason:  err.Error(),
			Updates: len(game.UpdateCandidates),
			DLC:     len(game.DLCFiles),
		}
	}

	return m.GameResult{
		Title:   game.Title,
		Status:  m.StatusBuilt,
		Output:  dest,
		Updates: len(game.UpdateCandidates),
		DLC:     len(game.DLCFiles),
	}
}

func skippedResult(game *m.Game, reason string) m.GameResult {
	return m.GameResult{
		Title:   game.Title,
		Status:  m.StatusSkipped,
		Reason:  reason,
		Updates: len(game.UpdateCandidates),
		DLC:     len(game.DLCFiles),
	}
}

func unclassifiedPaths(scan ScanResult, library m.Library) []m.Path {
	paths := make([]m.Path, 0, len(scan.Unrecognized)+len(library.Unclassified))

	for _, desc := range library.Unclassified {
		paths = append(paths, desc.Path)
	}

	paths = append(paths, scan.Unrecognized...)
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	return paths
}
