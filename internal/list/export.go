package list

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExportSheet is the sheet name used by WriteXLSX.
const ExportSheet = "Shopping List"

// WriteXLSX writes the list as a spreadsheet with one row per item.
func (l *List) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(ExportSheet)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}
	if err := sw.SetRow("A1", []interface{}{"count", "unit", "ingredient"}); err != nil {
		return err
	}
	for i, item := range l.Items() {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, []interface{}{item.Count, item.Unit, item.Ingredient}); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
