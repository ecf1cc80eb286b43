package logging

import (
	"bytes"
	"io"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	var buf bytes.Buffer
	require.NoError(t, Setup("warn", &buf))
	assert.Equal(t, log.WarnLevel, log.GetLevel())

	log.Info("hidden")
	log.WithField("command", "Rscript anova.R").Warn("memory sample failed")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "memory sample failed")
	assert.Contains(t, out, `command="Rscript anova.R"`)

	assert.Error(t, Setup("loud", &buf))
}

func TestHold(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Setup("info", &out))
	defer log.SetOutput(io.Discard)

	release := Hold()
	log.Warn("memory sample timed out")
	assert.Empty(t, out.String())

	release()
	assert.Contains(t, out.String(), "memory sample timed out")

	release()
	assert.Equal(t, 1, strings.Count(out.String(), "memory sample timed out"))

	log.Info("after release")
	assert.Contains(t, out.String(), "after release")
}
