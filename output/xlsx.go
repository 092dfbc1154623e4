package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Cortexa-LLC/mcp/src/patentocr/pipeline"
)

// SheetName is the worksheet WriteXLSX fills.
const SheetName = "Patents"

// DescriptionColumn is appended when full text is exported.
const DescriptionColumn = "Description"

// maxCellChars is Excel's per-cell text limit.
const maxCellChars = 32767

// WriteXLSX writes results to a workbook at path. With withDescription set,
// a trailing column carries each file's raw acquired text.
func WriteXLSX(path string, results []pipeline.Result, withDescription bool) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := Rows(results)
	if withDescription {
		rows[0] = append(rows[0], DescriptionColumn)
		for i, r := range results {
			rows[i+1] = append(rows[i+1], truncateCell(r.Text))
		}
	}

	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("set %s: %w", cell, err)
			}
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx %s: %w", path, err)
	}
	return nil
}

func truncateCell(s string) string {
	r := []rune(s)
	if len(r) <= maxCellChars {
		return s
	}
	return string(r[:maxCellChars])
}
