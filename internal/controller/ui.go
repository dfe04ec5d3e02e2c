// Package controller provides output front ends for scan and run results.
package controller

import (
	"context"
	"os"

	"golang.org/x/term"
	m "nxsort.dev/pkg/nxsort/internal/model"
)

// UI is the display surface for organizer runs. Implementations can use
// different output methods (simple text, TUI).
type UI interface {
	// Start initializes the UI for a run over total games.
	Start(ctx context.Context, total int) error

	// Close finalizes the UI.
	Close(ctx context.Context)

	// DisplayLibrary renders the grouped scan view plus unrecognized files.
	DisplayLibrary(ctx context.Context, library m.Library, unrecognized []m.Path) error

	// DisplayGameResult reports one finished game during a run.
	DisplayGameResult(ctx context.Context, result m.GameResult)

	// DisplaySummary renders the final run summary.
	DisplaySummary(ctx context.Context, summary m.RunSummary) error
}

// IsTTY reports whether the file is an interactive terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewUI picks the TUI when the output is an interactive terminal and the
// simple text UI otherwise.
func NewUI(out *os.File) UI {
	if IsTTY(out) {
		return NewTUI(out)
	}

	return NewSimpleUI(out)
}
