package sslcheck

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/mmwwxz/website-scanner/internal/logger"
	"github.com/mmwwxz/website-scanner/pkg/types"
)

// warnWithinDays is the expiry horizon that downgrades a certificate from
// OPEN to WARNING.
const warnWithinDays = 30

// Inspector reports the expiry of the TLS certificate a host serves.
type Inspector struct {
	timeout time.Duration
	port    int
	roots   *x509.CertPool
	logger  *logger.Logger
	now     func() time.Time
}

// NewInspector creates an inspector against the standard TLS port. A
// non-positive timeout falls back to 10s.
func NewInspector(timeout time.Duration, log *logger.Logger) *Inspector {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Inspector{
		timeout: timeout,
		port:    443,
		logger:  log,
		now:     time.Now,
	}
}

// WithPort overrides the port the handshake targets.
func (i *Inspector) WithPort(port int) *Inspector {
	i.port = port
	return i
}

// WithRootCAs overrides the pool used for chain verification. Tests hand the
// inspector locally generated certificates this way.
func (i *Inspector) WithRootCAs(pool *x509.CertPool) *Inspector {
	i.roots = pool
	return i
}

// Inspect performs one TLS handshake against the host and classifies the leaf
// certificate's expiry. It always returns exactly one Finding; dial,
// handshake, and verification failures become ERROR findings, never error
// returns.
func (i *Inspector) Inspect(ctx context.Context, host string) types.Finding {
	cert, err := i.fetchLeaf(ctx, host)
	if err != nil {
		i.logger.Debugw("SSL certificate check failed",
			"host", host,
			"port", i.port,
			"error", err)

		return types.Finding{
			Kind:   types.KindSSLCheck,
			Host:   host,
			Detail: fmt.Sprintf("Error checking SSL certificate for %s: %s", host, err),
			Status: types.StatusError,
		}
	}

	finding := classifyExpiry(host, cert.NotAfter, i.now())

	i.logger.Debugw("SSL certificate checked",
		"host", host,
		"not_after", cert.NotAfter,
		"status", finding.Status)

	return finding
}

func (i *Inspector) fetchLeaf(ctx context.Context, host string) (*x509.Certificate, error) {
	target := net.JoinHostPort(host, strconv.Itoa(i.port))

	dialer := &net.Dialer{Timeout: i.timeout}

	tcpConn, err := dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		return nil, err
	}

	tlsConn := tls.Client(tcpConn, &tls.Config{
		ServerName: host,
		RootCAs:    i.roots,
	})
	defer tlsConn.Close()

	tlsConn.SetDeadline(time.Now().Add(i.timeout))

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		return nil, err
	}

	certs := tlsConn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return nil, fmt.Errorf("no peer certificates presented")
	}

	return certs[0], nil
}

// classifyExpiry turns a leaf certificate expiry into a Finding. Pure so the
// boundary cases are testable without a handshake.
func classifyExpiry(host string, notAfter, now time.Time) types.Finding {
	notAfter = notAfter.UTC()
	days := int(notAfter.Sub(now).Hours() / 24)

	status := types.StatusOpen
	if days < warnWithinDays {
		status = types.StatusWarning
	}

	return types.Finding{
		Kind: types.KindSSLCheck,
		Host: host,
		Detail: fmt.Sprintf("SSL certificate expires on %s, %d days remaining.",
			notAfter.Format("2006-01-02 15:04:05"), days),
		Status: status,
	}
}
