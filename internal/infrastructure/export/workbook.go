// Package export writes finance listings and summaries as xlsx workbooks
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// MoneyFormat is the custom number format applied to money columns
const MoneyFormat = `"£"#,##0.00`

// Column describes one sheet column
type Column struct {
	Header string
	Width  float64
	Money  bool
}

// Sheet is a titled table. Row values are written as typed cells.
type Sheet struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// Write renders sheets into one workbook and writes it to w. The first
// sheet is active; every header row is bold.
func Write(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("export: no sheets")
	}
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	moneyFormat := MoneyFormat
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFormat})
	if err != nil {
		return fmt.Errorf("failed to create money style: %w", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheet.Name, err)
		}
		if err := writeSheet(f, sheet, headerStyle, moneyStyle); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle, moneyStyle int) error {
	headers := make([]any, len(sheet.Columns))
	for i, col := range sheet.Columns {
		headers[i] = col.Header
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header of %q: %w", sheet.Name, err)
	}
	if len(sheet.Columns) == 0 {
		return nil
	}

	last, err := excelize.CoordinatesToCellName(len(sheet.Columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet.Name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header of %q: %w", sheet.Name, err)
	}

	for r, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", r+2, sheet.Name, err)
		}
	}

	for i, col := range sheet.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if col.Width > 0 {
			if err := f.SetColWidth(sheet.Name, name, name, col.Width); err != nil {
				return fmt.Errorf("failed to set column width: %w", err)
			}
		}
		if col.Money && len(sheet.Rows) > 0 {
			top := fmt.Sprintf("%s2", name)
			bottom := fmt.Sprintf("%s%d", name, len(sheet.Rows)+1)
			if err := f.SetCellStyle(sheet.Name, top, bottom, moneyStyle); err != nil {
				return fmt.Errorf("failed to style column %s: %w", name, err)
			}
		}
	}
	return f.SetPanes(sheet.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
