package scanner

import (
	"context"
	"crypto/x509"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmwwxz/website-scanner/internal/config"
	"github.com/mmwwxz/website-scanner/internal/logger"
	"github.com/mmwwxz/website-scanner/internal/report"
	"github.com/mmwwxz/website-scanner/pkg/scanner/sslcheck"
	"github.com/mmwwxz/website-scanner/pkg/types"
)

func testScannerConfig() config.ScannerConfig {
	return config.ScannerConfig{
		PortTimeout:       500 * time.Millisecond,
		TLSTimeout:        time.Second,
		HTTPTimeout:       2 * time.Second,
		Workers:           20,
		RequestsPerSecond: 1000,
		BurstSize:         100,
		CacheSize:         64,
	}
}

func testChecks(ports []int, paths []string) config.Checks {
	return config.Checks{
		Ports:              ports,
		Paths:              paths,
		TitleSignatures:    []string{"admin"},
		NotFoundSignatures: []string{"page not found"},
	}
}

// closedPort returns a loopback port that was just released, so connects to
// it are refused.
func closedPort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}

func failingInspector(t *testing.T) *sslcheck.Inspector {
	t.Helper()
	return sslcheck.NewInspector(time.Second, logger.NewNop()).WithPort(closedPort(t))
}

func TestScanNoOpenPorts(t *testing.T) {
	dir := t.TempDir()
	w := report.NewWriter(dir, report.NewXLSXExporter(), logger.NewNop())

	engine := NewEngine(testScannerConfig(), testChecks([]int{closedPort(t)}, []string{"/admin"}), w, nil, logger.NewNop()).
		WithInspector(failingInspector(t))

	rep, err := engine.Scan(context.Background(), "127.0.0.1", "")
	require.NoError(t, err)

	require.Len(t, rep.Findings, 2)

	assert.Equal(t, types.KindPortCheck, rep.Findings[0].Kind)
	assert.Equal(t, "No open ports found", rep.Findings[0].Detail)
	assert.Equal(t, types.StatusError, rep.Findings[0].Status)

	// Certificate inspection still reports even when nothing is reachable.
	assert.Equal(t, types.KindSSLCheck, rep.Findings[1].Kind)
	assert.Equal(t, types.StatusError, rep.Findings[1].Status)

	assert.Equal(t, "127.0.0.1", rep.Host)
	assert.NotEmpty(t, rep.ScanID)
	assert.Equal(t, filepath.Join(dir, "127.0.0.1_scan_results.xlsx"), rep.ReportPath)

	_, err = os.Stat(rep.ReportPath)
	assert.NoError(t, err)
}

func TestScanEndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><title>Admin Login</title></html>"))
	})

	server := httptest.NewTLSServer(mux)
	defer server.Close()

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	pool := x509.NewCertPool()
	pool.AddCert(server.Certificate())

	dir := t.TempDir()
	w := report.NewWriter(dir, report.NewXLSXExporter(), logger.NewNop())

	engine := NewEngine(testScannerConfig(), testChecks([]int{port}, []string{"/admin"}), w, nil, logger.NewNop()).
		WithHTTPClient(server.Client()).
		WithInspector(sslcheck.NewInspector(time.Second, logger.NewNop()).WithPort(port).WithRootCAs(pool))

	rep, err := engine.Scan(context.Background(), "https://"+host+"/ignored/path", "recon.xlsx")
	require.NoError(t, err)

	// Normalization strips scheme and path down to the bare host.
	assert.Equal(t, host, rep.Host)

	require.NotEmpty(t, rep.Findings)

	first := rep.Findings[0]
	assert.Equal(t, types.KindURLCheck, first.Kind)
	assert.Equal(t, types.StatusOpen, first.Status)
	assert.Contains(t, first.Detail, "Interesting page found at")
	assert.Contains(t, first.Detail, "Admin Login")

	last := rep.Findings[len(rep.Findings)-1]
	assert.Equal(t, types.KindSSLCheck, last.Kind)
	assert.Equal(t, types.StatusOpen, last.Status)
	assert.Contains(t, last.Detail, "days remaining.")

	assert.Equal(t, filepath.Join(dir, "recon.xlsx"), rep.ReportPath)
	info, err := os.Stat(rep.ReportPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestScanRejectsEmptyTarget(t *testing.T) {
	w := report.NewWriter(t.TempDir(), report.NewXLSXExporter(), logger.NewNop())
	engine := NewEngine(testScannerConfig(), testChecks([]int{closedPort(t)}, nil), w, nil, logger.NewNop())

	_, err := engine.Scan(context.Background(), "   ", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no host in target")
}

func TestScanPropagatesStorageFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	w := report.NewWriter(filepath.Join(blocker, "reports"), report.NewXLSXExporter(), logger.NewNop())

	engine := NewEngine(testScannerConfig(), testChecks([]int{closedPort(t)}, []string{"/admin"}), w, nil, logger.NewNop()).
		WithInspector(failingInspector(t))

	_, err := engine.Scan(context.Background(), "127.0.0.1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create report directory")
}

func TestScanDefaultFilenameFollowsExporter(t *testing.T) {
	dir := t.TempDir()
	w := report.NewWriter(dir, report.NewCSVExporter(), logger.NewNop())

	engine := NewEngine(testScannerConfig(), testChecks([]int{closedPort(t)}, nil), w, nil, logger.NewNop()).
		WithInspector(failingInspector(t))

	rep, err := engine.Scan(context.Background(), "127.0.0.1", "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "127.0.0.1_scan_results.csv"), rep.ReportPath)
}
