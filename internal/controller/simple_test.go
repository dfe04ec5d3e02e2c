package controller

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "nxsort.dev/pkg/nxsort/internal/model"
)

func TestSimpleUI_DisplayLibrary(t *testing.T) {
	var buf bytes.Buffer
	ui := NewSimpleUI(&buf)

	library := m.Library{
		Games: map[string]*m.Game{
			"foo": {
				Title:          "Foo",
				SelectedBase:   &m.FileDescriptor{Path: "roms/Foo.xci", Extension: m.ExtXCI},
				SelectedUpdate: &m.FileDescriptor{Path: "roms/Foo_v1.1.0.nsp", VersionHint: "1.1.0"},
				DLCFiles: []m.FileDescriptor{
					{Path: "roms/Foo_DLC1.nsp"},
				},
			},
			"bar": {Title: "Bar"},
		},
		Unclassified: []m.FileDescriptor{{Path: "roms/notes.bin"}},
	}

	err := ui.DisplayLibrary(context.Background(), library, []m.Path{"roms/readme.txt"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Foo")
	assert.Contains(t, out, "Foo.xci")
	assert.Contains(t, out, "Foo_v1.1.0.nsp (v1.1.0)")
	assert.Contains(t, out, "Total 2")
	assert.Contains(t, out, "Unclassified files (2):")
	assert.Contains(t, out, "roms/notes.bin")
	assert.Contains(t, out, "roms/readme.txt")
}

func TestSimpleUI_DisplayLibraryWithoutSelections(t *testing.T) {
	var buf bytes.Buffer
	ui := NewSimpleUI(&buf)

	library := m.Library{
		Games: map[string]*m.Game{
			"bar": {Title: "Bar", DLCFiles: []m.FileDescriptor{{Path: "a.nsp"}, {Path: "b.nsp"}}},
		},
	}

	require.NoError(t, ui.DisplayLibrary(context.Background(), library, nil))

	out := buf.String()
	assert.Contains(t, out, "Bar")
	assert.NotContains(t, out, "Unclassified files")
}

func TestSimpleUI_DisplayGameResult(t *testing.T) {
	var buf bytes.Buffer
	ui := NewSimpleUI(&buf)
	ctx := context.Background()

	ui.DisplayGameResult(ctx, m.GameResult{Title: "Foo", Status: m.StatusBuilt, Output: "OUTPUT/Foo"})
	ui.DisplayGameResult(ctx, m.GameResult{Title: "Bar", Status: m.StatusSkipped, Reason: "no base image"})
	ui.DisplayGameResult(ctx, m.GameResult{Title: "Baz", Status: m.StatusFailed, Reason: "copy failed"})

	out := buf.String()
	assert.Contains(t, out, "✓ Foo -> OUTPUT/Foo")
	assert.Contains(t, out, "- Bar skipped: no base image")
	assert.Contains(t, out, "✗ Baz failed: copy failed")
}

func TestSimpleUI_DisplaySummary(t *testing.T) {
	var buf bytes.Buffer
	ui := NewSimpleUI(&buf)

	summary := m.RunSummary{
		Processed: 1,
		Failed:    1,
		Games: []m.GameResult{
			{Title: "Foo", Status: m.StatusBuilt, Output: "OUTPUT/Foo"},
			{Title: "Bar", Status: m.StatusFailed, Reason: "destination exists"},
		},
		Unclassified: []m.Path{"notes.txt"},
	}

	require.NoError(t, ui.DisplaySummary(context.Background(), summary))

	out := buf.String()
	assert.Contains(t, out, "OUTPUT/Foo")
	assert.Contains(t, out, "destination exists")
	assert.Contains(t, out, "Processed: 1 | Skipped: 0 | Failed: 1 | Unclassified: 1")
}

func TestSimpleUI_StartRespectsCancelledContext(t *testing.T) {
	var buf bytes.Buffer
	ui := NewSimpleUI(&buf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, ui.Start(ctx, 3))
	assert.Empty(t, buf.String())
}
