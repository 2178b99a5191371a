package scanner

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mmwwxz/website-scanner/internal/config"
	"github.com/mmwwxz/website-scanner/internal/core"
	"github.com/mmwwxz/website-scanner/internal/httpclient"
	"github.com/mmwwxz/website-scanner/internal/logger"
	"github.com/mmwwxz/website-scanner/internal/ratelimit"
	"github.com/mmwwxz/website-scanner/internal/report"
	"github.com/mmwwxz/website-scanner/internal/telemetry"
	"github.com/mmwwxz/website-scanner/pkg/normalize"
	"github.com/mmwwxz/website-scanner/pkg/scanner/portscan"
	"github.com/mmwwxz/website-scanner/pkg/scanner/sslcheck"
	"github.com/mmwwxz/website-scanner/pkg/scanner/webpath"
	"github.com/mmwwxz/website-scanner/pkg/types"
)

// Engine runs one full reconnaissance pass per Scan call: port probing and
// certificate inspection concurrently, then path classification over every
// open port, then report emission.
type Engine struct {
	cfg       config.ScannerConfig
	checks    config.Checks
	logger    *logger.Logger
	telemetry core.Telemetry
	writer    *report.Writer
	client    *http.Client
	limiter   *ratelimit.Limiter
	prober    *portscan.Prober
	inspector *sslcheck.Inspector
}

// NewEngine wires a reconnaissance engine. The checks carry the candidate
// port and path lists; the writer receives the finished findings.
func NewEngine(cfg config.ScannerConfig, checks config.Checks, writer *report.Writer, tel core.Telemetry, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNop()
	}
	if tel == nil {
		tel = telemetry.NewNop()
	}

	return &Engine{
		cfg:       cfg,
		checks:    checks,
		logger:    log.WithComponent("engine"),
		telemetry: tel,
		writer:    writer,
		client:    httpclient.NewProbeClient(cfg.HTTPTimeout),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerSecond: cfg.RequestsPerSecond,
			BurstSize:         cfg.BurstSize,
		}),
		prober:    portscan.NewProber(checks.Ports, cfg.PortTimeout, cfg.Workers, log),
		inspector: sslcheck.NewInspector(cfg.TLSTimeout, log),
	}
}

// WithHTTPClient replaces the classifier's HTTP client. Tests use it to trust
// locally generated certificates.
func (e *Engine) WithHTTPClient(client *http.Client) *Engine {
	e.client = client
	return e
}

// WithInspector replaces the certificate inspector.
func (e *Engine) WithInspector(inspector *sslcheck.Inspector) *Engine {
	e.inspector = inspector
	return e
}

// Scan normalizes rawTarget, probes it, and writes the report. Expected probe
// failures surface as findings inside the report; only target validation and
// report storage failures come back as errors.
func (e *Engine) Scan(ctx context.Context, rawTarget, outputFilename string) (*types.ScanReport, error) {
	host := normalize.Host(rawTarget)
	if host == "" {
		return nil, fmt.Errorf("no host in target %q", rawTarget)
	}

	scanID := uuid.New().String()
	start := time.Now()

	log := e.logger.WithScanID(scanID).WithTarget(host)

	ctx, span := log.StartSpan(ctx, "webscan.scan")
	defer span.End()
	log = log.WithContext(ctx)

	log.Infow("Scan started", "raw_target", rawTarget)

	// One classifier per scan: its URL cache must not outlive the scan.
	classifier := webpath.NewClassifier(webpath.Config{
		Client:             e.client,
		Limiter:            e.limiter,
		Logger:             log,
		Paths:              e.checks.Paths,
		TitleSignatures:    e.checks.TitleSignatures,
		NotFoundSignatures: e.checks.NotFoundSignatures,
		CacheSize:          e.cfg.CacheSize,
	})

	var (
		openPorts  []int
		sslFinding types.Finding
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		openPorts = e.prober.Probe(gCtx, host)
		return nil
	})
	g.Go(func() error {
		sslFinding = e.inspector.Inspect(gCtx, host)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.telemetry.RecordProbes(types.KindPortCheck, len(e.checks.Ports))
	e.telemetry.RecordProbes(types.KindSSLCheck, 1)

	var findings []types.Finding

	if len(openPorts) == 0 {
		log.Infow("No ports reachable, skipping path classification")
		findings = append(findings, types.Finding{
			Kind:   types.KindPortCheck,
			Host:   host,
			Detail: "No open ports found",
			Status: types.StatusError,
		})
	} else {
		log.Infow("Open ports discovered", "ports", openPorts)
		for _, port := range openPorts {
			findings = append(findings, classifier.CheckPort(ctx, host, port)...)
		}
		e.telemetry.RecordProbes(types.KindURLCheck, len(openPorts)*len(e.checks.Paths)*2)
	}

	findings = append(findings, sslFinding)

	for _, f := range findings {
		e.telemetry.RecordFinding(f.Status)
	}

	if outputFilename == "" {
		outputFilename = fmt.Sprintf("%s_scan_results.%s", host, e.writer.Extension())
	}

	path, err := e.writer.Write(findings, outputFilename)
	if err != nil {
		log.LogError(ctx, err, "report.write")
		e.telemetry.RecordScan(host, time.Since(start).Seconds(), false)
		return nil, err
	}

	duration := time.Since(start)
	e.telemetry.RecordScan(host, duration.Seconds(), true)

	log.Infow("Scan completed",
		"findings", len(findings),
		"open_ports", len(openPorts),
		"report", path,
		"duration", duration)

	return &types.ScanReport{
		ScanID:     scanID,
		Host:       host,
		Findings:   findings,
		ReportPath: path,
		StartedAt:  start,
		Duration:   duration,
	}, nil
}
