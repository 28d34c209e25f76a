// =============================================================================
// Stock Movement Converter - XLSX Workbooks
// =============================================================================
//
// This module exchanges batches with spreadsheet users.
//
// EXPORT (WriteWorkbook):
//   | Sheet    | Columns                                                   |
//   |----------|-----------------------------------------------------------|
//   | Records  | Status, Date, Name, Quantity, Reason, Cost, ProductID     |
//   | Failures | Line, Rule, Error, Content                                |
//
// IMPORT (ReadLines):
//   Some producers hand over an XLSX export instead of a text file. The first
//   sheet is read row by row and every row is joined with ";" so that it can
//   go through the same line decoder as text input.
//
// =============================================================================

package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/stock-movements/internal/batch"
	"github.com/ginjaninja78/stock-movements/internal/record"
)

// Sheet names of exported workbooks.
const (
	RecordsSheet  = "Records"
	FailuresSheet = "Failures"
)

var (
	recordHeaders  = []interface{}{"Status", "Date", "Name", "Quantity", "Reason", "Cost", "ProductID"}
	failureHeaders = []interface{}{"Line", "Rule", "Error", "Content"}
)

// =============================================================================
// EXPORT
// =============================================================================

// WriteWorkbook saves the batch as an XLSX workbook at path.
//
// PARAMETERS:
//   - b: The batch to export.
//   - path: The output file; it is overwritten.
//
// RETURNS:
//   - An error if the workbook cannot be built or saved.
func WriteWorkbook(b *batch.Batch, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RecordsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(FailuresSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	// Records sheet.
	if err := writeHeader(f, RecordsSheet, recordHeaders, bold); err != nil {
		return err
	}
	for i, r := range b.Records {
		row := []interface{}{r.Label(), r.Date(), r.Name(), r.Quantity(), nil, nil, r.ProductID()}
		switch r.Kind() {
		case record.WrittenOff:
			row[4] = r.Reason()
		case record.Incoming:
			row[5] = r.Cost()
		}
		if err := setRow(f, RecordsSheet, i+2, row); err != nil {
			return err
		}
	}

	// Failures sheet.
	if err := writeHeader(f, FailuresSheet, failureHeaders, bold); err != nil {
		return err
	}
	for i, fl := range b.Failures {
		row := []interface{}{fl.Index + 1, fl.Err.Kind.String(), fl.Err.Error(), fl.Line}
		if err := setRow(f, FailuresSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(RecordsSheet, "A", "C", 24); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(FailuresSheet, "C", "D", 48); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []interface{}, style int) error {
	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return fmt.Errorf("failed to resolve header range: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNumber int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return fmt.Errorf("failed to resolve row %d: %w", rowNumber, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", rowNumber, sheet, err)
	}
	return nil
}

// =============================================================================
// IMPORT
// =============================================================================

// ReadLines reads the first sheet of an XLSX file and returns one
// ";"-joined line per row.
//
// Rows shorter than the widest row are not padded: a row with five cells
// becomes a five-field line and is rejected by the decoder like any other
// short line. Completely empty rows are kept as empty lines.
func ReadLines(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = strings.Join(row, record.Separator)
	}
	return lines, nil
}
