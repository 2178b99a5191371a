package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmwwxz/website-scanner/internal/config"
	"github.com/mmwwxz/website-scanner/internal/core"
	"github.com/mmwwxz/website-scanner/internal/report"
	"github.com/mmwwxz/website-scanner/pkg/scanner"
	"github.com/mmwwxz/website-scanner/pkg/types"
)

var (
	scanOutput    string
	scanFormat    string
	scanWorkers   int
	scanOutputDir string
)

var scanCmd = &cobra.Command{
	Use:   "scan <target>",
	Short: "Run one reconnaissance scan against a host",
	Long: `Run the full check suite against a single host and print the findings.

The target may be a bare host, an IP, or a full URL; scheme, path and
query are stripped before scanning.

Example:
  webscan scan example.com
  webscan scan https://example.com/login --format csv
  webscan scan example.com -o tonight.xlsx --output-dir /tmp/reports`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "report filename (default <host>_scan_results.<ext>)")
	scanCmd.Flags().StringVar(&scanFormat, "format", "xlsx", "report format (xlsx, csv)")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "concurrent port probes (default from config)")
	scanCmd.Flags().StringVar(&scanOutputDir, "output-dir", "", "report directory (default from config)")
}

func runScan(cmd *cobra.Command, args []string) error {
	target := args[0]

	scannerCfg := cfg.Scanner
	if scanWorkers > 0 {
		scannerCfg.Workers = scanWorkers
	}

	checks, err := config.DefaultChecks()
	if err != nil {
		return fmt.Errorf("failed to load check catalog: %w", err)
	}

	var exporter core.Exporter
	switch scanFormat {
	case "xlsx":
		exporter = report.NewXLSXExporter()
	case "csv":
		exporter = report.NewCSVExporter()
	default:
		return fmt.Errorf("unsupported report format %q (want xlsx or csv)", scanFormat)
	}

	dir := cfg.Report.Directory
	if scanOutputDir != "" {
		dir = scanOutputDir
	}

	writer := report.NewWriter(dir, exporter, log)
	engine := scanner.NewEngine(scannerCfg, checks, writer, tel, log)

	color.Cyan("Scanning %s\n", target)
	fmt.Printf("  Ports: %d  Paths: %d  Workers: %d\n\n", len(checks.Ports), len(checks.Paths), scannerCfg.Workers)

	rep, err := engine.Scan(cmd.Context(), target, scanOutput)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	displayFindings(rep)
	return nil
}

func displayFindings(rep *types.ScanReport) {
	fmt.Println("═══ Findings ═══")
	for _, f := range rep.Findings {
		fmt.Printf("[%s] %-10s %s\n", colorFindingStatus(f.Status), f.Kind, f.Detail)
	}
	fmt.Println()

	summary := types.Summarize(rep.Findings)
	fmt.Printf("Total: %d  Open: %d  Warning: %d  Error: %d\n",
		summary.Total,
		summary.ByStatus[types.StatusOpen],
		summary.ByStatus[types.StatusWarning],
		summary.ByStatus[types.StatusError],
	)

	fmt.Println()
	fmt.Printf("✓ Scan complete in %s\n", rep.Duration.Round(time.Millisecond))
	fmt.Printf("  Scan ID: %s\n", rep.ScanID)
	fmt.Printf("  Report:  %s\n", rep.ReportPath)
}

func colorFindingStatus(status types.Status) string {
	switch status {
	case types.StatusOpen:
		return color.New(color.FgGreen).Sprint("OPEN   ")
	case types.StatusWarning:
		return color.New(color.FgYellow).Sprint("WARNING")
	case types.StatusError:
		return color.New(color.FgRed).Sprint("ERROR  ")
	default:
		return string(status)
	}
}
