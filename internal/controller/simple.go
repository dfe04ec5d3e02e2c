package controller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/olekukonko/tablewriter"
	m "nxsort.dev/pkg/nxsort/internal/model"
)

// SimpleUI renders plain-text tables to the given writer.
type SimpleUI struct {
	output io.Writer
}

// NewSimpleUI creates a SimpleUI writing to output.
func NewSimpleUI(output io.Writer) *SimpleUI {
	return &SimpleUI{output: output}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, total int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("Organizing %d game(s)\n", total)

	return nil
}

// Close finalizes the UI (no-op for SimpleUI).
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayLibrary renders one row per game with its canonical selections.
func (s *SimpleUI) DisplayLibrary(_ context.Context, library m.Library, unrecognized []m.Path) error {
	keys := sortedKeys(library.Games)

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Title", "Base", "Update", "DLC"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
	})

	for _, key := range keys {
		game := library.Games[key]
		table.Append([]string{
			game.Title,
			baseCell(game),
			updateCell(game),
			fmt.Sprintf("%d", len(game.DLCFiles)),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", len(keys)),
		"", "",
		fmt.Sprintf("%d", totalDLC(library)),
	})
	table.Render()

	s.printf("\n%s", tableBuffer.String())

	if n := len(library.Unclassified) + len(unrecognized); n > 0 {
		s.printf("\nUnclassified files (%d):\n", n)

		for _, desc := range library.Unclassified {
			s.printf("  %s\n", desc.Path)
		}

		for _, path := range unrecognized {
			s.printf("  %s\n", path)
		}
	}

	return nil
}

// DisplayGameResult reports one finished game.
func (s *SimpleUI) DisplayGameResult(ctx context.Context, result m.GameResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	switch result.Status {
	case m.StatusBuilt:
		s.printf("  ✓ %s -> %s\n", result.Title, result.Output)
	case m.StatusSkipped:
		s.printf("  - %s skipped: %s\n", result.Title, result.Reason)
	case m.StatusFailed:
		s.printf("  ✗ %s failed: %s\n", result.Title, result.Reason)
	}
}

// DisplaySummary renders the final per-run counts.
func (s *SimpleUI) DisplaySummary(_ context.Context, summary m.RunSummary) error {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Title", "Status", "Detail"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for _, result := range summary.Games {
		detail := string(result.Output)
		if result.Reason != "" {
			detail = result.Reason
		}

		table.Append([]string{result.Title, string(result.Status), detail})
	}

	table.Render()

	s.printf("\n%s", tableBuffer.String())
	s.printf("\nProcessed: %d | Skipped: %d | Failed: %d | Unclassified: %d\n",
		summary.Processed, summary.Skipped, summary.Failed, len(summary.Unclassified))

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.output, format, args...)
}

func sortedKeys(games map[string]*m.Game) []string {
	keys := make([]string, 0, len(games))
	for key := range games {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

func baseCell(game *m.Game) string {
	if game.SelectedBase == nil {
		return "-"
	}

	return fileName(game.SelectedBase.Path)
}

func updateCell(game *m.Game) string {
	if game.SelectedUpdate == nil {
		return "-"
	}

	cell := fileName(game.SelectedUpdate.Path)
	if game.SelectedUpdate.VersionHint != "" {
		cell += " (v" + game.SelectedUpdate.VersionHint + ")"
	}

	return cell
}

func fileName(path m.Path) string {
	return filepath.Base(string(path))
}

func totalDLC(library m.Library) int {
	total := 0
	for _, game := range library.Games {
		total += len(game.DLCFiles)
	}

	return total
}
