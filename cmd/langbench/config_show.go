// cmd/langbench/config_show.go
package langbench

import (
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
)

// configShowCmd implements 'config show', which dumps the configuration
// after defaults, file, environment and flags have been applied.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	Long:  `The 'show' subcommand prints the configuration a run would use: built-in defaults overlaid by the config file, LANGBENCH_* environment variables and flags.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			pp.ColoringEnabled = false
			defer func() { pp.ColoringEnabled = true }()
		}
		_, err = pp.Fprintln(cmd.OutOrStdout(), cfg)
		return err
	},
}

func init() {
	configShowCmd.Flags().Bool("no-color", false, "disable colored output")
	configCmd.AddCommand(configShowCmd)
}
