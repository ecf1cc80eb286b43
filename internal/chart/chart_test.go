package chart

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/langbench/internal/results"
)

func summaries() []results.Summary {
	return []results.Summary{
		{Language: "R", Analysis: "Regression", TimeMean: 0.8, MemoryMean: 60},
		{Language: "Python", Analysis: "Regression", TimeMean: 1.2, MemoryMean: math.NaN()},
		{Language: "R", Analysis: "ANOVA", TimeMean: 0.5, MemoryMean: 40},
		{Language: "Python", Analysis: "ANOVA", TimeMean: math.NaN(), MemoryMean: 55},
	}
}

func TestWriteBarChart(t *testing.T) {
	dir := t.TempDir()
	for _, m := range []Metric{Time, Memory} {
		path := filepath.Join(dir, "charts", m.File())
		require.NoError(t, WriteBarChart(summaries(), m, path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "%s is not a PNG", path)
	}
}

func TestWriteBarChart_Errors(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, WriteBarChart(nil, Time, filepath.Join(dir, "x.png")))
	assert.Error(t, WriteBarChart(summaries(), Metric("cpu"), filepath.Join(dir, "x.png")))
}

func TestMetricValue(t *testing.T) {
	s := results.Summary{TimeMean: 1.5, MemoryMean: math.NaN()}
	assert.Equal(t, 1.5, Time.value(s))
	assert.Equal(t, 0.0, Memory.value(s))
	assert.Equal(t, "memory.png", Memory.File())
}
