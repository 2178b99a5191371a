package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/mmwwxz/website-scanner/pkg/types"
)

// CSVExporter serializes findings with the same columns as the spreadsheet
// exporter. It backs the CLI's --format csv; the engine pipeline itself
// always emits xlsx.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

func (e *CSVExporter) Name() string {
	return "csv"
}

func (e *CSVExporter) FileExtension() string {
	return "csv"
}

func (e *CSVExporter) Export(findings []types.Finding, w io.Writer) error {
	writer := csv.NewWriter(w)

	header := []string{"Type", "Host", "Details", "Status"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, finding := range findings {
		record := []string{
			string(finding.Kind),
			finding.Host,
			finding.Detail,
			string(finding.Status),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer flush failed: %w", err)
	}

	return nil
}
