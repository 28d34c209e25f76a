// =============================================================================
// Stock Movement Converter - Show Command
// =============================================================================
//
// This file defines the 'show' command. It prints the records of a file,
// either as an aligned table or grouped by kind.
//
// COMMAND USAGE:
//   movements show <file> [--list]
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

// listing prints records grouped by kind instead of a table.
var listing bool

// showCmd represents the 'show' command.
var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print the records of a movement file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := converter.ReadInput(args[0], appConfig.Encoding)
		if err != nil {
			return err
		}

		b := batch.NewManager(batch.WithLogger(logger.Named(log, "show"))).DecodeAll(lines)

		out := cmd.OutOrStdout()
		if listing {
			fmt.Fprint(out, render.Listing(b))
		} else {
			fmt.Fprint(out, render.Table(b.Records))
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, render.Summary(b))
		if b.HasFailures() {
			fmt.Fprint(out, render.Failures(b.Failures))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolVar(
		&listing,
		"list",
		false,
		"Group records by kind instead of printing a table",
	)
}
