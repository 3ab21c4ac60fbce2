// drakkar build [release] [flags]
package cmd

import (
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [release]",
	Short: "Compile and link the project",
	Long:  `Compile whatever is stale and link the project in the current directory.`,
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		proj, opts, err := buildOptions(cmd, args)
		if err != nil {
			exitForBuildError(err)
			return
		}
		if _, err := proj.Build(opts); err != nil {
			exitForBuildError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	addBuildFlags(buildCmd)
}
