// cmd/langbench/list_commands.go
package langbench

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// commandsCmd implements 'list commands'.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List every command with its flags",
	Long:  `The 'commands' subcommand prints a table of every langbench command: its full invocation, the flags it declares itself (persistent flags such as --config are omitted) and its short description.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listAllCommands(cmd.OutOrStdout(), rootCmd)
	},
}

func init() {
	listCmd.AddCommand(commandsCmd)
}

// generated commands added by cobra itself
var skipCommands = map[string]bool{"help": true, "completion": true}

func listAllCommands(w io.Writer, root *cobra.Command) {
	var rows [][]string
	walkCommands(root, func(c *cobra.Command, depth int) {
		rows = append(rows, []string{
			strings.Repeat("  ", depth) + c.CommandPath(),
			strings.Join(localFlags(c), " "),
			c.Short,
		})
	}, 0)
	fmt.Fprintln(w, renderTable([]string{"Command", "Flags", "Description"}, rows))
}

// walkCommands visits c and its subcommands depth first, in cobra's
// (alphabetical) order.
func walkCommands(c *cobra.Command, visit func(*cobra.Command, int), depth int) {
	if c.Hidden || skipCommands[c.Name()] {
		return
	}
	visit(c, depth)
	for _, sub := range c.Commands() {
		walkCommands(sub, visit, depth+1)
	}
}

func localFlags(c *cobra.Command) []string {
	var names []string
	c.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		names = append(names, "--"+f.Name)
	})
	sort.Strings(names)
	return names
}
