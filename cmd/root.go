// =============================================================================
// Stock Movement Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (movements)
//   ├── processCmd  (movements process)
//   ├── validateCmd (movements validate <file>...)
//   ├── showCmd     (movements show <file>)
//   └── versionCmd  (movements version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/stock-movements/internal/config"
	"github.com/ginjaninja78/stock-movements/pkg/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// appConfig and log are initialized before any subcommand runs.
var (
	appConfig *config.MainConfig
	log       *zap.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "movements",
	Short: "Stock Movement Converter - parse and convert stock movement files",
	Long: `Stock Movement Converter reads files of stock movement lines exported by
a warehouse system, validates every line and converts the valid ones to
CSV, XML or XLSX.

Each line has six ";"-separated fields:
  Списанный товар;<date>;<name>;<quantity>;<reason>;<product id>
  Поступивший товар;<date>;<name>;<quantity>;<cost>;<product id>

Invalid lines never stop a file: they are reported with the rule they
violated while the valid lines are kept.

Example Usage:
  movements process                     # Convert all files in the input directory
  movements process --file stock.csv    # Convert a single file
  movements validate stock.csv          # Report invalid lines only
  movements show stock.csv              # Print the records as a table`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		if verbose {
			cfg.LogLevel = "debug"
		}
		appConfig = cfg

		log, err = logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if log != nil {
		_ = log.Sync() // stderr may refuse fsync
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadConfig reads the configuration file. A missing file at the default
// location yields the defaults; a missing file named with --config is an
// error.
func loadConfig(explicit bool) (*config.MainConfig, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return config.Default(), nil
	}
	return nil, fmt.Errorf("failed to load main config: %w", err)
}
