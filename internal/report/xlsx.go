package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mmwwxz/website-scanner/pkg/types"
)

// SheetName is the single worksheet every report carries.
const SheetName = "Scan Results"

// statusFills maps a finding status to the solid fill of its Status cell.
var statusFills = map[types.Status]string{
	types.StatusOpen:    "00FF00",
	types.StatusError:   "FF0000",
	types.StatusWarning: "FFFF00",
}

// XLSXExporter serializes findings as a single-sheet spreadsheet, one row per
// finding in the exact order received.
type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

func (e *XLSXExporter) Name() string {
	return "xlsx"
}

func (e *XLSXExporter) FileExtension() string {
	return "xlsx"
}

func (e *XLSXExporter) Export(findings []types.Finding, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []interface{}{"Type", "Host", "Details", "Status"}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	styles := make(map[types.Status]int, len(statusFills))
	for status, color := range statusFills {
		styleID, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			return fmt.Errorf("failed to create %s fill style: %w", status, err)
		}
		styles[status] = styleID
	}

	for i, finding := range findings {
		rowNum := i + 2

		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", rowNum, err)
		}

		row := []interface{}{string(finding.Kind), finding.Host, finding.Detail, string(finding.Status)}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", rowNum, err)
		}

		if styleID, ok := styles[finding.Status]; ok {
			statusCell, err := excelize.CoordinatesToCellName(4, rowNum)
			if err != nil {
				return fmt.Errorf("failed to address status cell in row %d: %w", rowNum, err)
			}
			if err := f.SetCellStyle(SheetName, statusCell, statusCell, styleID); err != nil {
				return fmt.Errorf("failed to style row %d: %w", rowNum, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}
