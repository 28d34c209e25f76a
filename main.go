// =============================================================================
// Stock Movement Converter - Main Entry Point
// =============================================================================
//
// USAGE:
//   movements process       - Convert all movement files in the input directory
//   movements validate      - Report invalid lines of movement files
//   movements show          - Print the records of a movement file
//   movements version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Parsing, validation and conversion logic
//   - pkg/           : Logging and file management utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/stock-movements/cmd"
)

func main() {
	cmd.Execute()
}
