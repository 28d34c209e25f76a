// =============================================================================
// Stock Movement Converter - Process Command
// =============================================================================
//
// This file defines the 'process' command, which converts movement files to
// the configured output formats.
//
// COMMAND USAGE:
//   movements process [flags]
//
// FLAGS:
//   --file        : Process a single file instead of the input directory
//   --dry-run     : Decode files without writing anything
//
// PROCESSING PIPELINE:
//   1. Discover input files (or take the one given with --file)
//   2. For each file (concurrently, at most max_concurrency at once):
//      a. Read the lines in the configured encoding
//      b. Decode every line; invalid lines are collected, not fatal
//      c. Write the configured outputs and an error log
//      d. Archive the input (optional)
//   3. Print and write a summary report
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/stock-movements/internal/config"
	"github.com/ginjaninja78/stock-movements/internal/converter"
	"github.com/ginjaninja78/stock-movements/pkg/logger"
	"github.com/ginjaninja78/stock-movements/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun decodes files without writing output files.
var dryRun bool

// filePath is the path to a specific file to process.
var filePath string

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Convert movement files to the configured output formats",
	Long: `The process command scans the input directory for files matching
input_pattern and converts each of them independently.

Every line of a file is decoded on its own. Valid lines become records and
are written to each configured output format (csv, xml, xlsx). Invalid lines
are written to an error log next to the outputs, with the line number and the
rule they violated.

With continue_on_error: false a file with any invalid line produces no
outputs and is reported as failed.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(appConfig, logger.Named(log, "process"))
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Decode files without writing output files",
	)

	processCmd.Flags().StringVar(
		&filePath,
		"file",
		"",
		"Path to a specific file to process",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess converts every input file and prints a summary.
func runProcess(cfg *config.MainConfig, log *zap.Logger) error {
	summary := utils.ProcessingSummary{StartTime: time.Now()}

	// =========================================================================
	// STEP 1: DISCOVER INPUT FILES
	// =========================================================================

	fmt.Println("=== Stock Movement Converter ===")

	files := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir)
	if !dryRun {
		if err := files.EnsureDirectories(); err != nil {
			return err
		}
	}

	var inputFiles []string
	if filePath != "" {
		inputFiles = []string{filePath}
	} else {
		fmt.Println("Discovering input files...")
		found, err := files.DiscoverInputFiles(cfg.InputPattern)
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
		inputFiles = found
	}

	if len(inputFiles) == 0 {
		fmt.Println("No input files found in the input directory.")
		return nil
	}

	fmt.Printf("Found %d file(s) to process\n", len(inputFiles))
	log.Debug("input files", zap.Strings("files", inputFiles))

	// =========================================================================
	// STEP 2: PROCESS FILES CONCURRENTLY
	// =========================================================================

	results := processFiles(inputFiles, cfg, log)

	// =========================================================================
	// STEP 3: COLLECT RESULTS
	// =========================================================================

	summary.TotalFiles = len(inputFiles)
	for _, result := range results {
		name := filepath.Base(result.FilePath)
		summary.TotalLines += result.Stats.Lines
		summary.TotalRecords += result.Stats.Records
		summary.InvalidLines += result.Stats.Failures

		if !result.Success {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    result.FilePath,
				ErrorMessage: result.Error.Error(),
			})
			fmt.Printf("  ✗ %s: %v\n", name, result.Error)
			continue
		}

		summary.SuccessfulFiles++
		summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:    result.FilePath,
			OutputFiles:  result.OutputFiles,
			Lines:        result.Stats.Lines,
			Records:      result.Stats.Records,
			InvalidLines: result.Stats.Failures,
			ProcessTime:  result.Stats.ProcessingTime,
		})
		fmt.Printf("  ✓ %s: %d record(s), %d invalid line(s)\n", name, result.Stats.Records, result.Stats.Failures)
		for _, out := range result.OutputFiles {
			fmt.Printf("      -> %s\n", out)
		}
	}

	// =========================================================================
	// STEP 4: PRINT SUMMARY
	// =========================================================================

	summary.EndTime = time.Now()
	fmt.Println("\n=== Processing Complete ===")
	fmt.Printf("Total files:     %d\n", summary.TotalFiles)
	fmt.Printf("Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Printf("Errors:          %d\n", summary.FailedFiles)
	fmt.Printf("Records:         %d\n", summary.TotalRecords)
	fmt.Printf("Invalid lines:   %d\n", summary.InvalidLines)
	fmt.Printf("Time elapsed:    %s\n", summary.EndTime.Sub(summary.StartTime))

	if !dryRun {
		summaryPath, err := utils.WriteSummaryLog(summary, cfg.OutputDir)
		if err != nil {
			log.Warn("failed to write summary", zap.Error(err))
		} else {
			fmt.Printf("Summary:         %s\n", summaryPath)
		}
	}

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d file(s) failed", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// processFiles runs one converter per file with at most cfg.MaxConcurrency
// running at once. Results are returned in input order.
func processFiles(inputFiles []string, cfg *config.MainConfig, log *zap.Logger) []converter.Result {
	results := make([]converter.Result, len(inputFiles))
	sem := make(chan struct{}, cfg.MaxConcurrency)

	var wg sync.WaitGroup
	for i, file := range inputFiles {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			conv := converter.New(path, cfg,
				converter.WithLogger(log),
				converter.WithDryRun(dryRun),
			)
			results[i] = conv.Run()
		}(i, file)
	}
	wg.Wait()

	return results
}
