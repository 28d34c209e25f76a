package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"go.uber.org/zap"

	"github.com/ginjaninja78/stock-movements/internal/config"
)

func testConfig(t *testing.T) *config.MainConfig {
	t.Helper()
	root := t.TempDir()

	cfg := config.Default()
	cfg.InputDir = filepath.Join(root, "input")
	cfg.OutputDir = filepath.Join(root, "output")
	cfg.InputArchiveDir = filepath.Join(root, "archive")
	cfg.Encoding = "utf-8"
	cfg.OutputEncoding = "utf-8"
	cfg.OutputNameFormat = "{name}"
	cfg.MaxConcurrency = 2
	assert.NoError(t, os.MkdirAll(cfg.InputDir, 0755))
	return cfg
}

func writeInput(t *testing.T, cfg *config.MainConfig, name, content string) string {
	t.Helper()
	path := filepath.Join(cfg.InputDir, name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestProcessFilesKeepsInputOrder(t *testing.T) {
	cfg := testConfig(t)
	a := writeInput(t, cfg, "a.csv", "Списанный товар;01.01.2023;A;1;Брак;1\n")
	b := writeInput(t, cfg, "b.csv", "Поступивший товар;02.02.2023;B;2;3,5;2\nbroken\n")
	c := writeInput(t, cfg, "c.csv", "")

	results := processFiles([]string{a, b, c}, cfg, zap.NewNop())
	assert.Equal(t, 3, len(results))
	assert.Equal(t, a, results[0].FilePath)
	assert.Equal(t, 1, results[0].Stats.WrittenOff)
	assert.Equal(t, b, results[1].FilePath)
	assert.Equal(t, 1, results[1].Stats.Incoming)
	assert.Equal(t, 1, results[1].Stats.Failures)
	assert.Equal(t, 0, results[2].Stats.Lines)

	for _, r := range results {
		assert.True(t, r.Success)
	}
	assert.True(t, fileExists(filepath.Join(cfg.OutputDir, "a.csv")))
}

func TestRunProcessReportsFailedFiles(t *testing.T) {
	cfg := testConfig(t)
	stop := false
	cfg.ContinueOnError = &stop
	writeInput(t, cfg, "ok.csv", "Списанный товар;01.01.2023;A;1;Брак;1\n")
	writeInput(t, cfg, "bad.csv", "Списанный товар;01.01.2023;A;-1;Брак;1\n")

	err := runProcess(cfg, zap.NewNop())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 file(s) failed")
	assert.True(t, fileExists(filepath.Join(cfg.OutputDir, "ok.csv")))
	assert.False(t, fileExists(filepath.Join(cfg.OutputDir, "bad.csv")))
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	prev := cfgFile
	t.Cleanup(func() { cfgFile = prev })
	cfgFile = filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := loadConfig(false)
	assert.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = loadConfig(true)
	assert.Error(t, err)
}

func TestRootCommandDoesNotPrintErrors(t *testing.T) {
	prev := cfgFile
	t.Cleanup(func() {
		cfgFile = prev
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	assert.NoError(t, os.WriteFile(configPath, []byte("encoding: utf-8\nlog_level: error\n"), 0644))
	input := filepath.Join(dir, "stock.csv")
	assert.NoError(t, os.WriteFile(input, []byte("broken\n"), 0644))

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"validate", input, "--config", configPath})

	err := rootCmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "1 invalid line(s)")
	assert.Contains(t, stdout.String(), "insufficient_fields")
	assert.Equal(t, "", stderr.String())
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
