// drakkar create <name>
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zeozeozeo/drakkar/internal/msg"
	"github.com/zeozeozeo/drakkar/internal/scaffold"
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new project skeleton",
	Long:  `Write a new project directory with src/, out/, target/, config.txt and README.md. Refuses if the directory already exists.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := scaffold.Create(args[0]); err != nil {
			msg.Fatal("%v", err)
		}
		msg.Info("created %s", args[0])
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
}
