// =============================================================================
// Stock Movement Converter - Converter Module
// =============================================================================
//
// This module contains the per-file conversion pipeline. It takes one input
// file of movement lines from disk to the configured output formats.
//
// CONVERSION PIPELINE:
//   1. Read the input lines (text in the configured encoding, or an XLSX sheet)
//   2. Decode every line into a batch (valid records + rejected lines)
//   3. Stop if the file has rejected lines and continue_on_error is off
//   4. Write each configured output format (csv, xml, xlsx)
//   5. Write an error log for rejected lines
//   6. Archive the input file (optional)
//
// CONCURRENCY:
//   A Converter handles exactly one file and shares no mutable state, so
//   several converters may run in parallel.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ginjaninja78/stock-movements/internal/batch"
	"github.com/ginjaninja78/stock-movements/internal/config"
	"github.com/ginjaninja78/stock-movements/internal/lineio"
	"github.com/ginjaninja78/stock-movements/internal/report"
	"github.com/ginjaninja78/stock-movements/internal/xmlwriter"
	"github.com/ginjaninja78/stock-movements/pkg/utils"
)

// ErrInvalidLines is returned when a file has rejected lines and the
// configuration does not allow partial output.
var ErrInvalidLines = errors.New("file contains invalid lines")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFiles lists the generated files, one per output format.
	// This is empty if processing failed or was a dry run.
	OutputFiles []string

	// ErrorLog is the path of the rejected-lines log, if one was written.
	ErrorLog string

	// ArchivedTo is the new location of the input file, if it was archived.
	ArchivedTo string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Batch is the decoded content of the file. It is nil if the file could
	// not be read.
	Batch *batch.Batch

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// Lines is the number of input lines.
	Lines int

	// Records is the number of lines decoded into records.
	Records int

	// WrittenOff and Incoming split Records by kind.
	WrittenOff int
	Incoming   int

	// Failures is the number of rejected lines.
	Failures int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter handles the conversion of a single input file.
type Converter struct {
	inputPath string
	config    *config.MainConfig
	files     *utils.FileManager
	manager   *batch.Manager
	logger    *zap.Logger
	dryRun    bool
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDryRun makes Run decode the file without writing anything.
func WithDryRun(dryRun bool) Option {
	return func(c *Converter) {
		c.dryRun = dryRun
	}
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - inputPath: The path to the input file.
//   - cfg: The main application configuration.
//   - opts: Optional settings.
//
// RETURNS:
//   - A new Converter instance.
func New(inputPath string, cfg *config.MainConfig, opts ...Option) *Converter {
	c := &Converter{
		inputPath: inputPath,
		config:    cfg,
		files:     utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("file", filepath.Base(inputPath)))
	c.manager = batch.NewManager(batch.WithLogger(c.logger))
	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for the file.
//
// RETURNS:
//   - A Result struct containing the outcome of the processing.
func (c *Converter) Run() Result {
	startTime := time.Now()
	result := Result{
		FilePath: c.inputPath,
	}
	defer func() {
		result.Stats.ProcessingTime = time.Since(startTime)
	}()

	// =========================================================================
	// STEP 1: READ INPUT LINES
	// =========================================================================

	c.logger.Info("processing file", zap.String("path", c.inputPath))

	lines, err := ReadInput(c.inputPath, c.config.Encoding)
	if err != nil {
		result.Error = err
		c.logger.Error("failed to read input", zap.Error(err))
		return result
	}

	// =========================================================================
	// STEP 2: DECODE LINES
	// =========================================================================

	b := c.manager.DecodeAll(lines)
	result.Batch = b
	result.Stats = statsFor(b)

	// =========================================================================
	// STEP 3: APPLY THE ERROR POLICY
	// =========================================================================

	if b.HasFailures() && !c.config.ShouldContinueOnError() {
		result.Error = fmt.Errorf("%w: %d of %d", ErrInvalidLines, len(b.Failures), b.Total())
		if !c.dryRun {
			logPath, err := c.writeErrorLog(b)
			if err != nil {
				c.logger.Warn("failed to write error log", zap.Error(err))
			}
			result.ErrorLog = logPath
		}
		return result
	}

	if c.dryRun {
		result.Success = true
		return result
	}

	// =========================================================================
	// STEP 4: WRITE OUTPUTS
	// =========================================================================

	if err := os.MkdirAll(c.config.OutputDir, 0755); err != nil {
		result.Error = fmt.Errorf("failed to create output directory: %w", err)
		return result
	}

	outputs, err := c.writeOutputs(b)
	result.OutputFiles = outputs
	if err != nil {
		result.Error = err
		c.logger.Error("failed to write output", zap.Error(err))
		return result
	}

	// =========================================================================
	// STEP 5: WRITE ERROR LOG
	// =========================================================================

	if b.HasFailures() {
		logPath, err := c.writeErrorLog(b)
		if err != nil {
			c.logger.Warn("failed to write error log", zap.Error(err))
		}
		result.ErrorLog = logPath
	}

	// =========================================================================
	// STEP 6: ARCHIVE INPUT
	// =========================================================================

	if c.config.ArchiveInput {
		archived, err := c.files.ArchiveInputFile(c.inputPath)
		if err != nil {
			c.logger.Warn("failed to archive input", zap.Error(err))
		} else {
			result.ArchivedTo = archived
		}
	}

	result.Success = true
	c.logger.Info("file processed",
		zap.Int("records", result.Stats.Records),
		zap.Int("failures", result.Stats.Failures),
		zap.Strings("outputs", result.OutputFiles),
	)
	return result
}

// =============================================================================
// INPUT
// =============================================================================

// ReadInput reads the lines of an input file. Files with an .xlsx extension
// are read from their first sheet; everything else is text in encodingName.
func ReadInput(path, encodingName string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return report.ReadLines(path)
	}
	return lineio.ReadLines(path, encodingName)
}

func statsFor(b *batch.Batch) ProcessingStats {
	return ProcessingStats{
		Lines:      b.Total(),
		Records:    len(b.Records),
		WrittenOff: len(b.WrittenOff()),
		Incoming:   len(b.Incoming()),
		Failures:   len(b.Failures),
	}
}

// =============================================================================
// OUTPUT
// =============================================================================

// writeOutputs writes one file per configured format and returns their paths.
func (c *Converter) writeOutputs(b *batch.Batch) ([]string, error) {
	var outputs []string

	for _, format := range c.config.OutputFormats {
		path := c.outputPath(format)

		var err error
		switch format {
		case config.FormatCSV:
			err = lineio.WriteRecords(b.Records, path, c.config.OutputEncoding)
		case config.FormatXML:
			err = c.writeXML(b, path)
		case config.FormatXLSX:
			err = report.WriteWorkbook(b, path)
		default:
			err = fmt.Errorf("unsupported output format %q", format)
		}
		if err != nil {
			return outputs, fmt.Errorf("failed to write %s output: %w", format, err)
		}

		c.logger.Debug("wrote output", zap.String("format", format), zap.String("path", path))
		outputs = append(outputs, path)
	}

	return outputs, nil
}

func (c *Converter) writeXML(b *batch.Batch, path string) error {
	options := xmlwriter.DefaultGenerateOptions()
	options.RootAttributes["batch"] = b.ID.String()
	options.RootAttributes["source"] = filepath.Base(c.inputPath)

	data, err := xmlwriter.GenerateWithOptions(b.Records, options)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// outputPath builds the output file path for a format from the configured
// name format.
func (c *Converter) outputPath(format string) string {
	base := filepath.Base(c.inputPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	fileName := utils.GenerateOutputFileName(
		c.config.OutputNameFormat,
		map[string]string{"name": name},
		"."+format,
	)
	return filepath.Join(c.config.OutputDir, fileName)
}

func (c *Converter) writeErrorLog(b *batch.Batch) (string, error) {
	if err := os.MkdirAll(c.config.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return utils.WriteErrorLog(c.inputPath, ErrorLogEntries(b.Failures), c.config.OutputDir)
}

// ErrorLogEntries converts rejected lines into error log entries.
func ErrorLogEntries(failures []batch.Failure) []utils.ErrorLogEntry {
	entries := make([]utils.ErrorLogEntry, 0, len(failures))
	for _, f := range failures {
		entries = append(entries, utils.ErrorLogEntry{
			LineNumber:   f.Index + 1,
			ErrorType:    f.Err.Kind.String(),
			ErrorMessage: f.Err.Error(),
			LineContent:  f.Line,
		})
	}
	return entries
}
