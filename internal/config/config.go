// =============================================================================
// Stock Movement Converter - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a YAML file, applies
// defaults and validates the result.
//
// EXAMPLE (config.yaml):
//
//   input_dir: ./input
//   output_dir: ./output
//   encoding: windows-1251
//   output_formats: [csv, xlsx]
//   log_level: info
//
// Every key is optional. A missing config file at the default location means
// "use the defaults".
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/stock-movements/internal/lineio"
)

// Output formats.
const (
	FormatCSV  = "csv"
	FormatXML  = "xml"
	FormatXLSX = "xlsx"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for movement files by the process command.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives converted files and error logs.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives input files after processing when
	// ArchiveInput is set.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// InputPattern selects files inside InputDir (glob syntax).
	// Default: "*.csv"
	InputPattern string `yaml:"input_pattern"`

	// =========================================================================
	// ENCODING SETTINGS
	// =========================================================================

	// Encoding is the character encoding of input files. It must match what
	// the producer used; it is never auto-detected.
	// Default: "windows-1251"
	Encoding string `yaml:"encoding"`

	// OutputEncoding is the encoding of generated csv files.
	// Default: same as Encoding
	OutputEncoding string `yaml:"output_encoding"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFormats lists the files generated per input: "csv" (canonical
	// ";" file), "xml", "xlsx".
	// Default: ["csv"]
	OutputFormats []string `yaml:"output_formats"`

	// OutputNameFormat defines output file names, without extension.
	// Placeholders:
	//   {name}      - Input file name without extension
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	// Default: "{name}_{timestamp}"
	OutputNameFormat string `yaml:"output_name_format"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is an optional path for JSON log entries.
	// Default: "" (stderr only)
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files processed at once.
	// Each file is decoded as an independent batch.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError keeps the valid records of a file that has invalid
	// lines. When false, such a file produces no outputs and fails.
	// Default: true
	ContinueOnError *bool `yaml:"continue_on_error"`

	// ArchiveInput moves processed input files to InputArchiveDir.
	// Default: false
	ArchiveInput bool `yaml:"archive_input"`
}

// ShouldContinueOnError resolves ContinueOnError with its default.
func (c *MainConfig) ShouldContinueOnError() bool {
	return c.ContinueOnError == nil || *c.ContinueOnError
}

// HasFormat reports whether format is among the configured output formats.
func (c *MainConfig) HasFormat(format string) bool {
	for _, f := range c.OutputFormats {
		if f == format {
			return true
		}
	}
	return false
}

// =============================================================================
// LOADING
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	config := &MainConfig{}
	applyMainConfigDefaults(config)
	return config
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseMainConfig(data)
}

// ParseMainConfig parses, defaults and validates YAML configuration data.
func ParseMainConfig(data []byte) (*MainConfig, error) {
	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.InputPattern == "" {
		config.InputPattern = "*.csv"
	}
	if config.Encoding == "" {
		config.Encoding = lineio.DefaultEncoding
	}
	if config.OutputEncoding == "" {
		config.OutputEncoding = config.Encoding
	}
	if len(config.OutputFormats) == 0 {
		config.OutputFormats = []string{FormatCSV}
	}
	for i, f := range config.OutputFormats {
		config.OutputFormats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{name}_{timestamp}"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	if _, err := lineio.LookupEncoding(config.Encoding); err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	if _, err := lineio.LookupEncoding(config.OutputEncoding); err != nil {
		return fmt.Errorf("output_encoding: %w", err)
	}

	for _, f := range config.OutputFormats {
		switch f {
		case FormatCSV, FormatXML, FormatXLSX:
		default:
			return fmt.Errorf("output_formats: unsupported format %q", f)
		}
	}

	switch config.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unsupported level %q", config.LogLevel)
	}

	if config.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be positive, got %d", config.MaxConcurrency)
	}

	return nil
}
