// Package export renders shopping lists into spreadsheet files.
package export

import (
	"fmt"
	"io"
	"strings"

	"meal-planner/internal/shopping"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Zakupy"

var header = []interface{}{"Kategoria", "Produkt", "Ilość", "Jednostka", "Kupione", "Przepisy"}

// WriteXLSX writes the items as a single-sheet workbook, one row per item,
// in the order given.
func WriteXLSX(w io.Writer, items []shopping.Item) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}
	if err := sw.SetColWidth(1, 6, 18); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, it := range items {
		bought := ""
		if it.Checked {
			bought = "✓"
		}
		row := []interface{}{
			it.CategoryName, it.Name, it.Quantity, it.Unit, bought, strings.Join(it.RecipeSources, ", "),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2) // A2, A3, ...
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
