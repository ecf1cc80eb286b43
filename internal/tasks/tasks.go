// internal/tasks/tasks.go
// Package tasks describes the benchmarked commands: which language runs which
// analysis, how it is invoked, and where its source lives.
package tasks

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Task is one benchmarked command. The list of tasks is fixed for a run.
type Task struct {
	Language    string `mapstructure:"language" json:"language"`
	Analysis    string `mapstructure:"analysis" json:"analysis"`
	Command     string `mapstructure:"command" json:"command"`
	Source      string `mapstructure:"source" json:"source"`
	Observation string `mapstructure:"observation" json:"observation"`
}

// Key identifies a summary group.
type Key struct {
	Language string
	Analysis string
}

func (k Key) String() string {
	return k.Language + "/" + k.Analysis
}

// Key returns the (language, analysis) pair of the task.
func (t Task) Key() Key {
	return Key{Language: t.Language, Analysis: t.Analysis}
}

// Defaults returns the built-in task list: every runtime runs both analyses
// against the same data.csv.
func Defaults() []Task {
	return []Task{
		{Language: "R", Analysis: "Regression", Command: "Rscript regresion.R", Source: "regresion.R", Observation: "lm()"},
		{Language: "Python", Analysis: "Regression", Command: "python3 regresion.py", Source: "regresion.py", Observation: "statsmodels"},
		{Language: "Julia", Analysis: "Regression", Command: "julia regresion.jl", Source: "regresion.jl", Observation: "GLM.jl"},
		{Language: "Go", Analysis: "Regression", Command: "langbench analyze regression --data data.csv", Source: "regression.go", Observation: "gonum/mat"},
		{Language: "R", Analysis: "ANOVA", Command: "Rscript anova.R", Source: "anova.R", Observation: "aov()"},
		{Language: "Python", Analysis: "ANOVA", Command: "python3 anova.py", Source: "anova.py", Observation: "statsmodels"},
		{Language: "Julia", Analysis: "ANOVA", Command: "julia anova.jl", Source: "anova.jl", Observation: "GLM.jl"},
		{Language: "Go", Analysis: "ANOVA", Command: "langbench analyze anova --data data.csv", Source: "anova.go", Observation: "gonum/stat"},
	}
}

// Validate checks that every task is complete and that neither the
// (language, analysis) pair nor the command string repeats.
func Validate(list []Task) error {
	if len(list) == 0 {
		return errors.New("at least one task is required")
	}
	keys := make(map[Key]int, len(list))
	commands := make(map[string]int, len(list))
	for i, t := range list {
		switch {
		case strings.TrimSpace(t.Language) == "":
			return fmt.Errorf("task %d: language is required", i)
		case strings.TrimSpace(t.Analysis) == "":
			return fmt.Errorf("task %d: analysis is required", i)
		case strings.TrimSpace(t.Command) == "":
			return fmt.Errorf("task %d (%s): command is required", i, t.Key())
		}
		if j, dup := keys[t.Key()]; dup {
			return fmt.Errorf("task %d duplicates task %d: %s", i, j, t.Key())
		}
		keys[t.Key()] = i
		// hyperfine reports results keyed by the command string
		if j, dup := commands[t.Command]; dup {
			return fmt.Errorf("task %d reuses the command of task %d: %q", i, j, t.Command)
		}
		commands[t.Command] = i
	}
	return nil
}

// ByCommand indexes tasks by their command string.
func ByCommand(list []Task) map[string]Task {
	out := make(map[string]Task, len(list))
	for _, t := range list {
		out[t.Command] = t
	}
	return out
}

// Languages returns the distinct languages in first-seen order.
func Languages(list []Task) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range list {
		if !seen[t.Language] {
			seen[t.Language] = true
			out = append(out, t.Language)
		}
	}
	return out
}

// Analyses returns the distinct analysis labels in first-seen order.
func Analyses(list []Task) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range list {
		if !seen[t.Analysis] {
			seen[t.Analysis] = true
			out = append(out, t.Analysis)
		}
	}
	return out
}

// HasLanguage reports whether any task runs under the given language.
func HasLanguage(list []Task, language string) bool {
	for _, t := range list {
		if t.Language == language {
			return true
		}
	}
	return false
}

// CountLines returns the number of non-blank lines in the file at path.
func CountLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("count lines: %w", err)
	}
	defer f.Close()
	n, err := countLines(f)
	if err != nil {
		return 0, fmt.Errorf("count lines in %s: %w", path, err)
	}
	return n, nil
}

func countLines(r io.Reader) (int, error) {
	n := 0
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n, sc.Err()
}

// LineCounter locates task sources. Relative paths are resolved against
// Dir (the working directory when empty); sources missing on disk are
// looked up in Builtin, which holds the sources compiled into the binary.
type LineCounter struct {
	Dir     string
	Builtin fs.FS
}

// Lines returns the non-blank line count of the task's source. A task
// without a source counts 0.
func (c LineCounter) Lines(t Task) (int, error) {
	if t.Source == "" {
		return 0, nil
	}
	path := t.Source
	if c.Dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(c.Dir, path)
	}
	n, err := CountLines(path)
	if err == nil || c.Builtin == nil || !errors.Is(err, fs.ErrNotExist) {
		return n, err
	}

	f, ferr := c.Builtin.Open(filepath.ToSlash(filepath.Clean(t.Source)))
	if ferr != nil {
		return 0, err
	}
	defer f.Close()
	n, ferr = countLines(f)
	if ferr != nil {
		return 0, fmt.Errorf("count lines in built-in %s: %w", t.Source, ferr)
	}
	return n, nil
}
