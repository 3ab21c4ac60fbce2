// drakkar run [release] [flags]
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [release]",
	Short: "Build and run the project",
	Long:  `Build the project in the current directory, then execute the produced binary.`,
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		proj, opts, err := buildOptions(cmd, args)
		if err != nil {
			exitForBuildError(err)
			return
		}
		_, exitCode, err := proj.BuildAndRun(opts, nil)
		if err != nil {
			exitForBuildError(err)
			return
		}
		os.Exit(exitCode)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addBuildFlags(runCmd)
}
