package controller

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	m "nxsort.dev/pkg/nxsort/internal/model"
)

var (
	tuiTitleStyle  = lipgloss.NewStyle().Bold(true)
	tuiBuiltStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	tuiFailedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	tuiSkipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// maxVisibleResults bounds the rolling result list in the progress view.
const maxVisibleResults = 8

// TUI shows a live progress view during a run. Static views (scan table,
// final summary) are delegated to the simple renderer.
type TUI struct {
	output  *os.File
	static  *SimpleUI
	program *tea.Program
}

// NewTUI creates a TUI writing to output.
func NewTUI(output *os.File) *TUI {
	return &TUI{
		output: output,
		static: NewSimpleUI(output),
	}
}

// Start launches the progress program for a run over total games.
func (t *TUI) Start(ctx context.Context, total int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	model := newRunModel(total)
	t.program = tea.NewProgram(model, tea.WithOutput(t.output), tea.WithContext(ctx))

	go func() {
		_, _ = t.program.Run()
	}()

	return nil
}

// Close stops the progress program if one is running.
func (t *TUI) Close(_ context.Context) {
	if t.program == nil {
		return
	}

	t.program.Quit()
	t.program.Wait()
	t.program = nil
}

// DisplayLibrary renders the grouped scan view (static, no live program).
func (t *TUI) DisplayLibrary(ctx context.Context, library m.Library, unrecognized []m.Path) error {
	return t.static.DisplayLibrary(ctx, library, unrecognized)
}

// DisplayGameResult feeds one finished game into the progress view.
func (t *TUI) DisplayGameResult(ctx context.Context, result m.GameResult) {
	if ctx.Err() != nil || t.program == nil {
		return
	}

	t.program.Send(gameResultMsg(result))
}

// DisplaySummary renders the final counts after the progress view closed.
func (t *TUI) DisplaySummary(ctx context.Context, summary m.RunSummary) error {
	return t.static.DisplaySummary(ctx, summary)
}

type gameResultMsg m.GameResult

// runModel is the bubbletea model for the run progress view.
type runModel struct {
	total   int
	done    int
	bar     progress.Model
	results []m.GameResult
}

func newRunModel(total int) runModel {
	return runModel{
		total: total,
		bar:   progress.New(progress.WithDefaultGradient()),
	}
}

func (r runModel) Init() tea.Cmd {
	return nil
}

func (r runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.bar.Width = msg.Width - 4
		return r, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return r, tea.Quit
		}

		return r, nil

	case gameResultMsg:
		r.done++

		r.results = append(r.results, m.GameResult(msg))
		if len(r.results) > maxVisibleResults {
			r.results = r.results[len(r.results)-maxVisibleResults:]
		}

		percent := 1.0
		if r.total > 0 {
			percent = float64(r.done) / float64(r.total)
		}

		return r, r.bar.SetPercent(percent)

	case progress.FrameMsg:
		bar, cmd := r.bar.Update(msg)
		if updated, ok := bar.(progress.Model); ok {
			r.bar = updated
		}

		return r, cmd
	}

	return r, nil
}

func (r runModel) View() string {
	var b strings.Builder

	b.WriteString(tuiTitleStyle.Render("nxsort"))
	b.WriteString(fmt.Sprintf("  %d/%d games\n\n", r.done, r.total))
	b.WriteString(r.bar.View())
	b.WriteString("\n\n")

	for _, result := range r.results {
		switch result.Status {
		case m.StatusBuilt:
			b.WriteString(tuiBuiltStyle.Render("✓ " + result.Title))
		case m.StatusFailed:
			b.WriteString(tuiFailedStyle.Render("✗ " + result.Title + ": " + result.Reason))
		case m.StatusSkipped:
			b.WriteString(tuiSkipStyle.Render("- " + result.Title + ": " + result.Reason))
		}

		b.WriteString("\n")
	}

	return b.String()
}
