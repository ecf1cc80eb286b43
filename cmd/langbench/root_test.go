package langbench

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mwiater/langbench/internal/harness"
	"github.com/mwiater/langbench/internal/results"
	"github.com/mwiater/langbench/internal/tasks"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRoot_SubcommandsPresent(t *testing.T) {
	want := map[string][]string{
		"run":       nil,
		"aggregate": nil,
		"analyze":   {"regression", "anova"},
		"list":      {"tasks", "commands"},
		"config":    {"show"},
	}
	have := map[string]*cobra.Command{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = c
	}
	for name, subs := range want {
		c, ok := have[name]
		if !ok {
			t.Fatalf("missing subcommand %s", name)
		}
		sub := map[string]bool{}
		for _, sc := range c.Commands() {
			sub[sc.Name()] = true
		}
		for _, s := range subs {
			if !sub[s] {
				t.Fatalf("%s subcommands missing %s: %v", name, s, sub)
			}
		}
	}
}

func TestCommands_HaveDescriptions(t *testing.T) {
	var check func(*cobra.Command)
	check = func(cmd *cobra.Command) {
		if cmd.Short == "" || cmd.Long == "" {
			t.Fatalf("command %s missing Short/Long", cmd.Name())
		}
		for _, sc := range cmd.Commands() {
			check(sc)
		}
	}
	check(rootCmd)
}

func TestListCommands_PrintsTree(t *testing.T) {
	var buf bytes.Buffer
	listAllCommands(&buf, rootCmd)
	out := buf.String()
	for _, want := range []string{"langbench run", "langbench analyze regression", "langbench list tasks", "--source-dir", "--memory-runs"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got: %s", want, out)
		}
	}
	for _, unwanted := range []string{"langbench help", "langbench completion"} {
		if strings.Contains(out, unwanted) {
			t.Fatalf("did not expect %q in output, got: %s", unwanted, out)
		}
	}
}

// fakeExecutor writes a hyperfine export and answers time(1) with a fixed
// peak resident set size.
type fakeExecutor struct {
	times map[string][]float64
}

func (f fakeExecutor) Run(ctx context.Context, name string, args ...string) (harness.Output, error) {
	if name == "hyperfine" {
		var export harness.HyperfineOutput
		var commands []string
		for i := 0; i < len(args); i++ {
			switch args[i] {
			case "--export-json":
				defer func(path string) {
					b, _ := json.Marshal(export)
					_ = os.WriteFile(path, b, 0o644)
				}(args[i+1])
				i++
			case "--warmup", "--runs", "--shell":
				i++
			default:
				commands = append(commands, args[i])
			}
		}
		for _, c := range commands {
			export.Results = append(export.Results, harness.HyperfineResult{Command: c, Times: f.times[c]})
		}
		return harness.Output{}, nil
	}
	return harness.Output{Stderr: []byte("Maximum resident set size (kbytes): 20480\n")}, nil
}

const testConfig = `
baseline: R
runs: 3
warmup: 0
memory_runs: 1
memory_timeout: 1s
output_dir: %s
chart: %t
tasks:
  - language: R
    analysis: ANOVA
    command: Rscript anova.R
    observation: aov()
  - language: Python
    analysis: ANOVA
    command: python3 anova.py
    observation: statsmodels
`

func writeConfig(t *testing.T, dir string, chart bool) string {
	t.Helper()
	path := filepath.Join(dir, "langbench.yaml")
	content := strings.Replace(testConfig, "%s", filepath.Join(dir, "out"), 1)
	content = strings.Replace(content, "%t", map[bool]string{true: "true", false: "false"}[chart], 1)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, true)

	orig := newExecutor
	defer func() { newExecutor = orig }()
	newExecutor = func() harness.Executor {
		return fakeExecutor{times: map[string][]float64{
			"Rscript anova.R":  {1, 2, 3},
			"python3 anova.py": {2, 4, 6},
		}}
	}

	out, err := executeCommand(t, "run", "--config", cfgPath)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out, "Python") || !strings.Contains(out, "+100.0%") {
		t.Fatalf("expected summary table in output, got: %s", out)
	}

	for _, name := range []string{timingsFile, replicasFile, summaryFile, reportFile, "time.png", "memory.png"} {
		if _, err := os.Stat(filepath.Join(dir, "out", name)); err != nil {
			t.Fatalf("expected %s to be written: %v", name, err)
		}
	}

	report, err := results.LoadReport(filepath.Join(dir, "out", reportFile))
	if err != nil {
		t.Fatal(err)
	}
	if report.Baseline != "R" || len(report.Summaries) != 2 || len(report.Replicas) != 6 {
		t.Fatalf("unexpected report: baseline=%s summaries=%d replicas=%d", report.Baseline, len(report.Summaries), len(report.Replicas))
	}
	if report.Summaries[0].MemoryMean != 20 {
		t.Fatalf("expected 20 MB baseline memory, got %v", report.Summaries[0].MemoryMean)
	}
}

const sourcesConfig = `
baseline: R
runs: 2
warmup: 0
memory_runs: 1
memory_timeout: 1s
output_dir: %s
chart: false
tasks:
  - language: R
    analysis: ANOVA
    command: Rscript anova.R
    source: anova.R
  - language: Go
    analysis: ANOVA
    command: langbench analyze anova --data data.csv
    source: anova.go
`

func TestRunCommand_CountsSourceLines(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "anova.R"), []byte("df <- read.csv('data.csv')\n\nsummary(aov(Y ~ GRUPO, df))\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "langbench.yaml")
	content := strings.Replace(sourcesConfig, "%s", filepath.Join(dir, "out"), 1)
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	orig := newExecutor
	defer func() { newExecutor = orig }()
	newExecutor = func() harness.Executor {
		return fakeExecutor{times: map[string][]float64{
			"Rscript anova.R":                         {1, 2},
			"langbench analyze anova --data data.csv": {0.1, 0.2},
		}}
	}
	defer func() {
		f := runCmd.Flags().Lookup("source-dir")
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}()

	if _, err := executeCommand(t, "run", "--config", cfgPath, "--source-dir", srcDir); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// anova.go is not in srcDir, so it is counted from the compiled-in copy.
	goLines, err := tasks.CountLines(filepath.Join("..", "..", "internal", "analysis", "anova.go"))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]int{"R": 2, "Go": goLines}

	report, err := results.LoadReport(filepath.Join(dir, "out", reportFile))
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Replicas) != 4 {
		t.Fatalf("expected 4 replicas, got %d", len(report.Replicas))
	}
	for _, r := range report.Replicas {
		if r.Lines == 0 || r.Lines != want[r.Language] {
			t.Fatalf("%s replica %d: lines = %d, want %d", r.Language, r.Replica, r.Lines, want[r.Language])
		}
	}

	fromCSV, err := results.LoadReplicas(filepath.Join(dir, "out", replicasFile))
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range fromCSV {
		if r.Lines != want[r.Language] {
			t.Fatalf("replicas.csv %s: lines = %d, want %d", r.Language, r.Lines, want[r.Language])
		}
	}
}

func TestRunCommand_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, false)
	if _, err := executeCommand(t, "run", "--config", cfgPath, "--runs", "1"); err == nil {
		t.Fatal("expected error for runs < 2")
	}
	f := runCmd.Flags().Lookup("runs")
	_ = f.Value.Set(f.DefValue)
	f.Changed = false
}

func TestAggregateCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, false)

	in := filepath.Join(dir, "replicas.csv")
	csv := "language,analysis,replica,time_s,memory_mb,lines,observation\n" +
		"R,ANOVA,1,0.5,40,4,aov()\n" +
		"R,ANOVA,2,0.5,60,4,aov()\n" +
		"Python,ANOVA,1,0.25,NA,9,statsmodels\n" +
		"Python,ANOVA,2,0.75,NA,9,statsmodels\n"
	if err := os.WriteFile(in, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := executeCommand(t, "aggregate", "--config", cfgPath, in); err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	first, err := os.ReadFile(filepath.Join(dir, "out", summaryFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(first), "Python,ANOVA,0.500000,0.353553,0.00,NA,NA,NA,9,statsmodels") {
		t.Fatalf("unexpected summary:\n%s", first)
	}

	if _, err := executeCommand(t, "aggregate", "--config", cfgPath, in); err != nil {
		t.Fatalf("second aggregate failed: %v", err)
	}
	second, _ := os.ReadFile(filepath.Join(dir, "out", summaryFile))
	if !bytes.Equal(first, second) {
		t.Fatal("aggregation is not idempotent")
	}
}

func TestAnalyzeCommands(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data.csv")
	csv := "Y,X1,X2,GRUPO\n" +
		"3.1,1,2,A\n4.9,2,1,A\n7.2,3,4,B\n8.8,4,3,B\n11.1,5,6,C\n12.9,6,5,C\n"
	if err := os.WriteFile(data, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	regOut := filepath.Join(dir, "reg.csv")
	out, err := executeCommand(t, "analyze", "regression", "--data", data, "--out", regOut)
	if err != nil {
		t.Fatalf("regression failed: %v", err)
	}
	if !strings.Contains(out, "PEAK_MEMORY:") || !strings.Contains(out, "Intercept") {
		t.Fatalf("unexpected regression output: %s", out)
	}
	b, err := os.ReadFile(regOut)
	if err != nil || !strings.HasPrefix(string(b), ",coef,std_err,pvalue\n") {
		t.Fatalf("unexpected regression file: %q %v", b, err)
	}

	anovaOut := filepath.Join(dir, "anova.csv")
	out, err = executeCommand(t, "analyze", "anova", "--data", data, "--out", anovaOut)
	if err != nil {
		t.Fatalf("anova failed: %v", err)
	}
	if !strings.Contains(out, "C(GRUPO)") || !strings.Contains(out, "PEAK_MEMORY:") {
		t.Fatalf("unexpected anova output: %s", out)
	}
	b, err = os.ReadFile(anovaOut)
	if err != nil || !strings.HasPrefix(string(b), ",sum_sq,df,F,PR(>F)\n") {
		t.Fatalf("unexpected anova file: %q %v", b, err)
	}
}

func TestListTasksAndConfigShow(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, false)

	out, err := executeCommand(t, "list", "tasks", "--config", cfgPath)
	if err != nil {
		t.Fatalf("list tasks failed: %v", err)
	}
	if !strings.Contains(out, "python3 anova.py") || !strings.Contains(out, "statsmodels") {
		t.Fatalf("unexpected task list: %s", out)
	}

	out, err = executeCommand(t, "config", "show", "--config", cfgPath, "--no-color")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "Baseline") || !strings.Contains(out, "MemoryTimeout") {
		t.Fatalf("unexpected config dump: %s", out)
	}
}
