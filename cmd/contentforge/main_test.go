package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: "non-existent-config.yml"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "invalid-config.yml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("invalid: yaml: content: ["), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: tmpFile})
	require.Error(t, err)
	require.Contains(t, err.Error(), "load config")
}

// writeTestEnv lays out a minimal working data directory and returns the
// config file path
func writeTestEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	cfg := fmt.Sprintf(`
paths:
  keywords: %[1]s/keywords.txt
  credentials: %[1]s/credentials.txt
  articles: %[1]s/articles.json
  cache: %[1]s/cache.json
  progress: %[1]s/progress.json
  batch: %[1]s/batch.txt
llm:
  model: test-model
images:
  enabled: false
`, dir)

	cfgPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keywords.txt"), []byte("first keyword\nsecond keyword\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials.txt"), []byte("AIzaTestKey1\n"), 0o600))
	return cfgPath
}

func TestRun_Status(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: writeTestEnv(t), Status: true})
	require.NoError(t, err)
}

func TestRun_BackfillWithoutImages(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: writeTestEnv(t), BackfillImages: true})
	require.Error(t, err)
	require.Contains(t, err.Error(), "image search is disabled")
}

func TestSetupLog(t *testing.T) {
	t.Run("debug mode enabled", func(t *testing.T) {
		setupLog(true, false)
	})

	t.Run("debug mode disabled", func(t *testing.T) {
		setupLog(false, false)
	})

	t.Run("no color", func(t *testing.T) {
		setupLog(false, true)
	})

	t.Run("with secrets", func(t *testing.T) {
		setupLog(true, false, "secret1", "secret2")
	})
}
