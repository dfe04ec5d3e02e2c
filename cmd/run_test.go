package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nxsort.dev/pkg/nxsort/internal/domain"
	m "nxsort.dev/pkg/nxsort/internal/model"
)

// stubWorkflow records the arguments commands pass into the pipeline.
type stubWorkflow struct {
	scanArgs     *domain.ScanArgs
	organizeArgs *domain.OrganizeArgs
	summary      m.RunSummary
	err          error
}

func (w *stubWorkflow) Scan(_ context.Context, args domain.ScanArgs) error {
	w.scanArgs = &args
	return w.err
}

func (w *stubWorkflow) Organize(_ context.Context, args domain.OrganizeArgs) (m.RunSummary, error) {
	w.organizeArgs = &args
	return w.summary, w.err
}

func swapWorkflow(t *testing.T, stub *stubWorkflow) {
	t.Helper()

	original := workflowFactory
	workflowFactory = func() domain.Workflow { return stub }
	t.Cleanup(func() { workflowFactory = original })
}

func TestRunCmd_PassesArgs(t *testing.T) {
	stub := &stubWorkflow{}
	swapWorkflow(t, stub)

	cmd := newRootCmd()
	cmd.AddCommand(newRunCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{"run", "--parallel", "4", "--title", "zelda", "--repack", "roms"})
	require.NoError(t, cmd.Execute())

	require.NotNil(t, stub.organizeArgs)
	assert.Equal(t, []m.Path{"roms"}, stub.organizeArgs.Roots)
	assert.Equal(t, 4, stub.organizeArgs.Parallel)
	assert.Equal(t, "zelda", stub.organizeArgs.TitleFilter)
	assert.True(t, stub.organizeArgs.Repack)
	assert.False(t, stub.organizeArgs.Overwrite)
	assert.Equal(t, m.Path(defaultOutputDir), stub.organizeArgs.Output)
}

func TestRunCmd_FailedGamesSetExitError(t *testing.T) {
	stub := &stubWorkflow{summary: m.RunSummary{Processed: 1, Failed: 2}}
	swapWorkflow(t, stub)

	cmd := newRootCmd()
	cmd.AddCommand(newRunCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{"run", "roms"})
	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 game(s) failed")
}

func TestNewRunCmd(t *testing.T) {
	cmd := newRunCmd()

	assert.Equal(t, "run [roots...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, runLongDescription, cmd.Long)

	assert.NotNil(t, cmd.Flags().Lookup(parallelFlagName))
	assert.NotNil(t, cmd.Flags().Lookup(titleFlagName))
	assert.NotNil(t, cmd.Flags().Lookup(repackFlagName))
	assert.NotNil(t, cmd.Flags().Lookup(overwriteFlagName))
}

func TestScanCmd_PassesArgs(t *testing.T) {
	stub := &stubWorkflow{}
	swapWorkflow(t, stub)

	cmd := newRootCmd()
	cmd.AddCommand(newScanCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{"scan", "-t", "mario", "a", "b"})
	require.NoError(t, cmd.Execute())

	require.NotNil(t, stub.scanArgs)
	assert.Equal(t, []m.Path{"a", "b"}, stub.scanArgs.Roots)
	assert.Equal(t, "mario", stub.scanArgs.TitleFilter)
	assert.Equal(t, m.KindUpdate, stub.scanArgs.AmbiguousPackageKind)
}

func TestInitSharedDependencies(t *testing.T) {
	assert.NotNil(t, fsAdapter)
	assert.NotNil(t, reportStore)
	assert.NotNil(t, ui)
}
