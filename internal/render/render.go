// Package render formats batches for terminal output.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ginjaninja78/stock-movements/internal/batch"
	"github.com/ginjaninja78/stock-movements/internal/record"
)

// Column headers of the record table.
var tableHeaders = []string{"Статус", "Дата", "Наименование", "Количество", "Причина / Стоимость", "ID товара"}

// Table renders records as an aligned text table with a header row.
// Numeric columns are right-aligned.
func Table(records []record.Record) string {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, tableHeaders)
	for _, r := range records {
		rows = append(rows, []string{
			r.Label(),
			r.Date(),
			r.Name(),
			strconv.FormatInt(r.Quantity(), 10),
			r.Extra(),
			strconv.FormatInt(r.ProductID(), 10),
		})
	}

	widths := make([]int, len(tableHeaders))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	for n, row := range rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString(" | ")
			}
			if n > 0 && (i == 3 || i == 5) {
				sb.WriteString(runewidth.FillLeft(cell, widths[i]))
			} else if i == len(row)-1 {
				sb.WriteString(cell)
			} else {
				sb.WriteString(runewidth.FillRight(cell, widths[i]))
			}
		}
		sb.WriteString("\n")

		if n == 0 {
			for i, w := range widths {
				if i > 0 {
					sb.WriteString("-+-")
				}
				sb.WriteString(strings.Repeat("-", w))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Listing renders the batch the way operators are used to reading it:
// write-offs first, then incoming goods, one line per record.
func Listing(b *batch.Batch) string {
	var sb strings.Builder

	sb.WriteString("Списанные товары:\n")
	for _, r := range b.WrittenOff() {
		sb.WriteString(r.String())
		sb.WriteString("\n")
	}

	sb.WriteString("\nПоступившие товары:\n")
	for _, r := range b.Incoming() {
		sb.WriteString(r.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Failures renders one numbered entry per rejected line. Line numbers are
// 1-based, as editors show them.
func Failures(failures []batch.Failure) string {
	if len(failures) == 0 {
		return "No invalid lines.\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d invalid line(s):\n\n", len(failures))
	for i, f := range failures {
		fmt.Fprintf(&sb, "%d. line %d [%s]: %s\n", i+1, f.Index+1, f.Err.Kind, f.Err.Error())
		fmt.Fprintf(&sb, "   %s\n", f.Line)
	}
	return sb.String()
}

// Summary is a one-line count of what the batch contains.
func Summary(b *batch.Batch) string {
	return fmt.Sprintf("%d line(s): %d written off, %d incoming, %d invalid",
		b.Total(), b.Count(record.WrittenOff), b.Count(record.Incoming), len(b.Failures))
}
