// cmd/langbench/list_tasks.go
package langbench

import (
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mwiater/langbench/internal/analysis"
	"github.com/mwiater/langbench/internal/tasks"
)

// listTasksCmd implements 'list tasks', which prints the configured
// benchmark tasks and the size of their sources.
var listTasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List the benchmarked tasks",
	Long:  `The 'tasks' subcommand prints every configured task: language, analysis, command, source file with its non-blank line count, and the implementation note.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, map[string]string{"source_dir": "source-dir"})
		if err != nil {
			return err
		}
		if err := tasks.Validate(cfg.Tasks); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(
			[]string{"Language", "Analysis", "Command", "Source", "Lines", "Observation"},
			taskRows(tasks.LineCounter{Dir: cfg.SourceDir, Builtin: analysis.Sources}, cfg.Tasks),
		))
		return nil
	},
}

func init() {
	listTasksCmd.Flags().String("source-dir", "", "directory task sources are relative to (default: working directory)")
	listCmd.AddCommand(listTasksCmd)
}

func taskRows(counter tasks.LineCounter, list []tasks.Task) [][]string {
	rows := make([][]string, 0, len(list))
	for _, t := range list {
		lines := "-"
		if t.Source != "" {
			if n, err := counter.Lines(t); err == nil {
				lines = strconv.Itoa(n)
			} else {
				log.WithField("source", t.Source).WithError(err).Debug("source not found")
			}
		}
		rows = append(rows, []string{t.Language, t.Analysis, t.Command, t.Source, lines, t.Observation})
	}
	return rows
}
