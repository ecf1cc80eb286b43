// cmd/langbench/config.go
package langbench

import (
	"github.com/spf13/cobra"
)

// configCmd represents the 'config' command group.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Group commands for inspecting configuration",
	Long:  `The 'config' command groups subcommands that inspect the resolved configuration. It performs no action on its own.`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
