// cmd/langbench/artifacts.go
package langbench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mwiater/langbench/internal/chart"
	"github.com/mwiater/langbench/internal/config"
	"github.com/mwiater/langbench/internal/publish"
	"github.com/mwiater/langbench/internal/results"
)

// Artifact file names inside the output directory.
const (
	timingsFile  = "timings.json"
	replicasFile = "replicas.csv"
	summaryFile  = "summary.csv"
	reportFile   = "report.json"
)

// writeArtifacts writes the tables, the JSON report and, when enabled, the
// charts. It returns every file present in the output directory that
// belongs to the run, in upload order.
func writeArtifacts(cfg config.Config, replicas []results.Replica, summaries []results.Summary, generatedAt time.Time) ([]string, error) {
	dir := cfg.OutputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var files []string
	if _, err := os.Stat(filepath.Join(dir, timingsFile)); err == nil {
		files = append(files, filepath.Join(dir, timingsFile))
	}

	path := filepath.Join(dir, replicasFile)
	if err := results.SaveReplicas(path, replicas); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	files = append(files, path)

	path = filepath.Join(dir, summaryFile)
	if err := results.SaveSummary(path, summaries); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	files = append(files, path)

	path = filepath.Join(dir, reportFile)
	report := results.Report{
		Baseline:    cfg.Baseline,
		Config:      cfg,
		Replicas:    replicas,
		Summaries:   summaries,
		GeneratedAt: generatedAt,
	}
	if err := results.SaveReport(path, report); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	files = append(files, path)

	if cfg.Chart {
		for _, m := range []chart.Metric{chart.Time, chart.Memory} {
			path := filepath.Join(dir, m.File())
			if err := chart.WriteBarChart(summaries, m, path); err != nil {
				return nil, fmt.Errorf("write %s: %w", path, err)
			}
			files = append(files, path)
		}
	}

	log.WithFields(log.Fields{"dir": dir, "files": len(files)}).Info("results written")
	return files, nil
}

// newUploader is replaced in tests.
var newUploader = func(ctx context.Context, cfg config.Upload) (*publish.Uploader, error) {
	return publish.NewUploader(ctx, cfg)
}

// publishArtifacts uploads files when a bucket is configured.
func publishArtifacts(ctx context.Context, cfg config.Config, files []string) ([]string, error) {
	if cfg.Upload.Bucket == "" {
		return nil, nil
	}
	u, err := newUploader(ctx, cfg.Upload)
	if err != nil {
		return nil, err
	}
	defer u.Close()
	return u.UploadFiles(ctx, files)
}
