package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PROJECT_ID", "")
	t.Setenv("MODEL_ID", "")
	t.Setenv("AUTOML_ENDPOINT", "")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, DefaultDetector, cfg.Detector)
	assert.Equal(t, DefaultDPI, cfg.DPI)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Zero(t, cfg.Timeout)
	assert.Empty(t, cfg.ProjectID)
	assert.False(t, cfg.ContinueOnError)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("PROJECT_ID", "my-project")
	t.Setenv("MODEL_ID", "IOD123")
	t.Setenv("AUTOML_ENDPOINT", "http://127.0.0.1:9999")
	t.Setenv("AUTOML_SCORE_THRESHOLD", "0.35")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "my-project", cfg.ProjectID)
	assert.Equal(t, "IOD123", cfg.ModelID)
	assert.Equal(t, "http://127.0.0.1:9999", cfg.Endpoint)
	assert.InDelta(t, 0.35, cfg.ScoreThreshold, 1e-9)
}

func TestLoadConfigFileAndFlags(t *testing.T) {
	t.Setenv("PROJECT_ID", "")
	t.Setenv("MODEL_ID", "from-env")

	dir := t.TempDir()
	path := filepath.Join(dir, "censor.yaml")
	content := "project_id: from-file\nmodel_id: from-file\ntimeout: 30s\nscore_threshold: 0.6\ndpi: 200\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	flags := pflag.NewFlagSet("censor", pflag.ContinueOnError)
	flags.StringP("output", "o", "", "")
	flags.Int("dpi", DefaultDPI, "")
	flags.Bool("continue-on-error", false, "")
	require.NoError(t, flags.Parse([]string{"-o", "out.jpg", "--continue-on-error"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.ProjectID)
	// environment wins over the file
	assert.Equal(t, "from-env", cfg.ModelID)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.InDelta(t, 0.6, cfg.ScoreThreshold, 1e-9)
	// an unset flag does not shadow the file
	assert.Equal(t, 200, cfg.DPI)
	assert.Equal(t, "out.jpg", cfg.Output)
	assert.True(t, cfg.ContinueOnError)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}
