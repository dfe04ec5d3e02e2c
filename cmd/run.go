package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nxsort.dev/pkg/nxsort/internal/domain"
	m "nxsort.dev/pkg/nxsort/internal/model"
)

var runParallelFlag int
var runTitleFlag string
var runRepackFlag bool
var runOverwriteFlag bool

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [roots...]",
		Short: "Organize the game library",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := workflowFactory().Organize(cmd.Context(), domain.OrganizeArgs{
				ScanArgs: domain.ScanArgs{
					Roots:                resolveRoots(args),
					Exclude:              viper.GetStringSlice(excludeConfigKey),
					AmbiguousPackageKind: ambiguousPackageKind(),
					TitleFilter:          runTitleFlag,
				},
				Output:    m.Path(viper.GetString(outputFlagName)),
				Parallel:  viper.GetInt(parallelConfigKey),
				Repack:    viper.GetBool(repackConfigKey),
				Overwrite: viper.GetBool(overwriteConfigKey),
			})
			if err != nil {
				return err
			}

			if summary.Failed > 0 {
				return fmt.Errorf("%d game(s) failed to build", summary.Failed)
			}

			return nil
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runParallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of parallel workers for game builds")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)

	cmd.Flags().StringVarP(&runTitleFlag, titleFlagName, "t", "", "restrict the run to titles matching this name (partial match)")

	cmd.Flags().BoolVar(&runRepackFlag, repackFlagName, viper.GetBool(repackConfigKey), "additionally emit a base-only image per game via hactoolnet")
	bindFlagToConfig(cmd.Flags().Lookup(repackFlagName), repackConfigKey)

	cmd.Flags().BoolVar(&runOverwriteFlag, overwriteFlagName, viper.GetBool(overwriteConfigKey), "replace existing game directories in the output root")
	bindFlagToConfig(cmd.Flags().Lookup(overwriteFlagName), overwriteConfigKey)
}
