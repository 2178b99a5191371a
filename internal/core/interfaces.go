package core

import (
	"context"
	"io"

	"github.com/mmwwxz/website-scanner/pkg/types"
)

// Exporter serializes an ordered finding set into a report format. Exporters
// never reorder or mutate the findings they receive.
type Exporter interface {
	Name() string
	Export(findings []types.Finding, writer io.Writer) error
	FileExtension() string
}

// RateLimiter throttles outbound probe traffic per target host.
type RateLimiter interface {
	Wait(ctx context.Context, target string) error
	SetLimit(target string, requestsPerSecond int)
}

type Telemetry interface {
	RecordScan(host string, duration float64, success bool)
	RecordFinding(status types.Status)
	RecordProbes(kind types.CheckKind, count int)
	Close() error
}
