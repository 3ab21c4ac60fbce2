// drakkar stats
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zeozeozeo/drakkar/internal/cache"
	"github.com/zeozeozeo/drakkar/internal/config"
	"github.com/zeozeozeo/drakkar/internal/msg"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a summary of the last build",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load("config.txt")
		if err != nil {
			msg.Fatal("%v", err)
		}
		summary, err := cache.Read(filepath.Join(".", cfg.TempDir))
		if err != nil {
			msg.Fatal("%v", err)
		}
		fmt.Printf("profile:        %s\n", summary.Profile)
		fmt.Printf("jobs compiled:  %d\n", summary.JobsCompiled)
		fmt.Printf("linked:         %t\n", summary.Linked)
		fmt.Printf("duration:       %.2fs\n", summary.DurationSecs)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
