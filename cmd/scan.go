package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nxsort.dev/pkg/nxsort/internal/domain"
)

var scanTitleFlag string

// scanCmd represents the scan command.
var scanCmd = newScanCmd()

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [roots...]",
		Short: "Scan and classify without writing output",
		Long:  scanLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflowFactory().Scan(cmd.Context(), domain.ScanArgs{
				Roots:                resolveRoots(args),
				Exclude:              viper.GetStringSlice(excludeConfigKey),
				AmbiguousPackageKind: ambiguousPackageKind(),
				TitleFilter:          scanTitleFlag,
			})
		},
	}

	cmd.Flags().StringVarP(&scanTitleFlag, titleFlagName, "t", "", "restrict the listing to titles matching this name (partial match)")

	return cmd
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
