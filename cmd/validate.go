// =============================================================================
// Stock Movement Converter - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It decodes files and reports
// their invalid lines without writing anything.
//
// COMMAND USAGE:
//   movements validate <file> [file...]
//
// EXIT STATUS:
//   Non-zero if any file cannot be read or contains an invalid line.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/stock-movements/internal/batch"
	"github.com/ginjaninja78/stock-movements/internal/converter"
	"github.com/ginjaninja78/stock-movements/internal/render"
	"github.com/ginjaninja78/stock-movements/pkg/logger"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate <file> [file...]",
	Short: "Report invalid lines of movement files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := batch.NewManager(batch.WithLogger(logger.Named(log, "validate")))

		var invalid int
		for _, path := range args {
			lines, err := converter.ReadInput(path, appConfig.Encoding)
			if err != nil {
				return err
			}

			b := manager.DecodeAll(lines)
			invalid += len(b.Failures)

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, render.Summary(b))
			fmt.Fprint(cmd.OutOrStdout(), render.Failures(b.Failures))
		}

		if invalid > 0 {
			return fmt.Errorf("%d invalid line(s)", invalid)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
