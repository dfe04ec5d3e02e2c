// Package cmd provides the root command and CLI setup for nxsort.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"nxsort.dev/pkg/nxsort/internal/adapter"
	"nxsort.dev/pkg/nxsort/internal/controller"
	"nxsort.dev/pkg/nxsort/internal/domain"
	m "nxsort.dev/pkg/nxsort/internal/model"
)

var fsAdapter adapter.LibraryFSAdapter
var reportStore adapter.ReportStore
var ui controller.UI

// outputDirFlag is a root-level flag shared by commands that write output.
var outputDirFlag string

// toolsDirFlag points at the directory holding the external executables.
var toolsDirFlag string

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

// verboseFlag raises the log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalLibraryFSAdapter()
	reportStore = adapter.NewYAMLReportStore()
	ui = controller.NewUI(os.Stdout)
}

// newWorkflow wires a Workflow from the shared adapters and the tools
// directory resolved at command time, after flags and config are bound.
func newWorkflow() domain.Workflow {
	locator := adapter.NewFixedPathLocator(m.Path(viper.GetString(toolsDirConfigKey)))

	return domain.NewWorkflow(fsAdapter, locator, reportStore, ui)
}

// workflowFactory is swapped in tests.
var workflowFactory = newWorkflow

const rootLongDescription = `nxsort organizes a directory of Switch game files (.xci/.xcz/.nsp/.nsz)
into one clean folder per title: the authoritative base image, the newest
update under UPDATE/, and every DLC under DLC/. Compressed variants are
decompressed through the external nsz tool before organizing.

Roots default to the rom/ subdirectory when it exists, otherwise the
current directory.`

const scanLongDescription = `Scan and classify game files, then print the grouped result without
writing any output. Use it to verify classification and duplicate
resolution before an organizing run.`

const runLongDescription = `Run the full pipeline: locate tools, scan the roots, decompress
compressed variants, group files per title, and build one output folder
per game. Originals are copied, never modified.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nxsort",
		Short: "Switch game library organizer",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger("", viper.GetBool(logVerboseKey) || verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&outputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for organized games",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringVar(&toolsDirFlag, toolsDirFlagName, viper.GetString(toolsDirConfigKey), "directory holding the nsz and hactoolnet executables")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(toolsDirFlagName), toolsDirConfigKey)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log per-file decisions at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

// resolveRoots turns command arguments into scan roots. With no arguments
// the rom/ subdirectory is used when present, otherwise the current
// directory.
func resolveRoots(args []string) []m.Path {
	if len(args) > 0 {
		roots := make([]m.Path, 0, len(args))
		for _, arg := range args {
			roots = append(roots, m.Path(arg))
		}

		return roots
	}

	if info, err := os.Stat("rom"); err == nil && info.IsDir() {
		return []m.Path{"rom"}
	}

	return []m.Path{"."}
}

// ambiguousPackageKind reads the configured fallback for package files that
// match no classification rule.
func ambiguousPackageKind() m.ContentKind {
	if viper.GetString(ambiguousConfigKey) == "dlc" {
		return m.KindDLC
	}

	return m.KindUpdate
}
