package converter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/encoding/charmap"

	"github.com/ginjaninja78/stock-movements/internal/config"
	"github.com/ginjaninja78/stock-movements/internal/lineio"
	"github.com/ginjaninja78/stock-movements/internal/record"
)

const (
	validWrittenOff = "Списанный товар;01.01.2023;Товар A;10;Причина;123"
	validIncoming   = "Поступивший товар;02.02.2023;Товар B;20;100.5;456"
	unknownStatus   = "Новый товар;03.03.2023;Товар C;5;Причина;789"
)

func setup(t *testing.T, lines ...string) (*config.MainConfig, string) {
	t.Helper()
	root := t.TempDir()

	cfg := config.Default()
	cfg.InputDir = filepath.Join(root, "input")
	cfg.OutputDir = filepath.Join(root, "output")
	cfg.InputArchiveDir = filepath.Join(root, "archive")
	cfg.OutputNameFormat = "{name}_out"
	assert.NoError(t, os.MkdirAll(cfg.InputDir, 0755))

	encoded, err := charmap.Windows1251.NewEncoder().String(strings.Join(lines, "\r\n") + "\r\n")
	assert.NoError(t, err)

	path := filepath.Join(cfg.InputDir, "stock.csv")
	assert.NoError(t, os.WriteFile(path, []byte(encoded), 0644))
	return cfg, path
}

func TestRunWritesConfiguredFormats(t *testing.T) {
	cfg, path := setup(t, validWrittenOff, validIncoming)
	cfg.OutputFormats = []string{config.FormatCSV, config.FormatXML, config.FormatXLSX}

	result := New(path, cfg).Run()
	assert.NoError(t, result.Error)
	assert.True(t, result.Success)

	assert.Equal(t, []string{
		filepath.Join(cfg.OutputDir, "stock_out.csv"),
		filepath.Join(cfg.OutputDir, "stock_out.xml"),
		filepath.Join(cfg.OutputDir, "stock_out.xlsx"),
	}, result.OutputFiles)
	assert.Equal(t, ProcessingStats{
		Lines:          2,
		Records:        2,
		WrittenOff:     1,
		Incoming:       1,
		ProcessingTime: result.Stats.ProcessingTime,
	}, result.Stats)
	assert.Equal(t, "", result.ErrorLog)

	lines, err := lineio.ReadLines(result.OutputFiles[0], cfg.OutputEncoding)
	assert.NoError(t, err)
	assert.Equal(t, []string{validWrittenOff, "Поступивший товар;02.02.2023;Товар B;20;100.50;456"}, lines)

	xmlData, err := os.ReadFile(result.OutputFiles[1])
	assert.NoError(t, err)
	assert.Contains(t, string(xmlData), `source="stock.csv"`)

	fromWorkbook, err := ReadInput(result.OutputFiles[2], "")
	assert.NoError(t, err)
	assert.Equal(t, 3, len(fromWorkbook))
	assert.Equal(t, "Status;Date;Name;Quantity;Reason;Cost;ProductID", fromWorkbook[0])
}

func TestRunContinuesPastInvalidLines(t *testing.T) {
	cfg, path := setup(t, validWrittenOff, unknownStatus, validIncoming)

	result := New(path, cfg).Run()
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Stats.Lines)
	assert.Equal(t, 2, result.Stats.Records)
	assert.Equal(t, 1, result.Stats.Failures)
	assert.NotEqual(t, "", result.ErrorLog)

	logData, err := os.ReadFile(result.ErrorLog)
	assert.NoError(t, err)
	assert.Contains(t, string(logData), "  Line:       2\n")
	assert.Contains(t, string(logData), "unknown_status")
}

func TestRunStopsOnInvalidLinesWhenConfigured(t *testing.T) {
	cfg, path := setup(t, validWrittenOff, unknownStatus)
	stop := false
	cfg.ContinueOnError = &stop

	result := New(path, cfg).Run()
	assert.False(t, result.Success)
	assert.True(t, errors.Is(result.Error, ErrInvalidLines))
	assert.Equal(t, 0, len(result.OutputFiles))
	assert.NotEqual(t, "", result.ErrorLog)
}

func TestRunReportsUnwritableErrorLog(t *testing.T) {
	cfg, path := setup(t, unknownStatus)
	stop := false
	cfg.ContinueOnError = &stop
	assert.NoError(t, os.WriteFile(cfg.OutputDir, []byte("not a directory"), 0644))

	core, logs := observer.New(zap.WarnLevel)
	result := New(path, cfg, WithLogger(zap.New(core))).Run()

	assert.True(t, errors.Is(result.Error, ErrInvalidLines))
	assert.Equal(t, "", result.ErrorLog)
	assert.Equal(t, 1, logs.FilterMessage("failed to write error log").Len())
}

func TestRunDryRunWritesNothing(t *testing.T) {
	cfg, path := setup(t, validWrittenOff)

	result := New(path, cfg, WithDryRun(true)).Run()
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Stats.Records)
	assert.False(t, utilsExists(cfg.OutputDir))
}

func TestRunArchivesInput(t *testing.T) {
	cfg, path := setup(t, validIncoming)
	cfg.ArchiveInput = true

	result := New(path, cfg).Run()
	assert.True(t, result.Success)
	assert.Equal(t, filepath.Join(cfg.InputArchiveDir, "stock.csv"), result.ArchivedTo)
	assert.False(t, utilsExists(path))
}

func TestRunWrongEncoding(t *testing.T) {
	cfg, path := setup(t, validWrittenOff)
	cfg.Encoding = "utf-8"

	result := New(path, cfg).Run()
	assert.False(t, result.Success)
	assert.True(t, errors.Is(result.Error, lineio.ErrFileDecode))
	assert.True(t, result.Batch == nil)
}

func TestRunMissingFile(t *testing.T) {
	cfg, _ := setup(t)

	result := New(filepath.Join(cfg.InputDir, "missing.csv"), cfg).Run()
	assert.False(t, result.Success)
	assert.True(t, errors.Is(result.Error, lineio.ErrFileNotFound))
}

func TestErrorLogEntries(t *testing.T) {
	cfg, path := setup(t, unknownStatus)

	result := New(path, cfg, WithDryRun(true)).Run()
	entries := ErrorLogEntries(result.Batch.Failures)
	assert.Equal(t, 1, len(entries))
	assert.Equal(t, 1, entries[0].LineNumber)
	assert.Equal(t, "unknown_status", entries[0].ErrorType)
	assert.Equal(t, unknownStatus, entries[0].LineContent)
	assert.Equal(t, 0, result.Batch.Count(record.Incoming))
}

func utilsExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
