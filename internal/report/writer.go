package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mmwwxz/website-scanner/internal/core"
	"github.com/mmwwxz/website-scanner/internal/logger"
	"github.com/mmwwxz/website-scanner/pkg/types"
)

// DefaultDir is the report directory used when configuration supplies none.
const DefaultDir = "document"

// Writer persists exported findings under a fixed report directory.
type Writer struct {
	dir      string
	exporter core.Exporter
	logger   *logger.Logger
}

func NewWriter(dir string, exporter core.Exporter, log *logger.Logger) *Writer {
	if dir == "" {
		dir = DefaultDir
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Writer{
		dir:      dir,
		exporter: exporter,
		logger:   log,
	}
}

// Dir returns the directory reports are written into.
func (w *Writer) Dir() string {
	return w.dir
}

// Extension returns the file extension of the configured exporter.
func (w *Writer) Extension() string {
	return w.exporter.FileExtension()
}

// Write serializes the findings to dir/filename, creating the directory if
// absent, and returns the full path written. The findings slice is not
// mutated.
func (w *Writer) Write(findings []types.Finding, filename string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory %s: %w", w.dir, err)
	}

	path := filepath.Join(w.dir, filename)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}

	if err := w.exporter.Export(findings, file); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to export findings: %w", err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to flush report file: %w", err)
	}

	w.logger.Infow("Report written",
		"path", path,
		"format", w.exporter.Name(),
		"findings", len(findings))

	return path, nil
}
