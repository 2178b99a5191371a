package portscan

import (
	"context"
	"net"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/mmwwxz/website-scanner/internal/logger"
)

// Prober checks TCP reachability of a fixed candidate port set on one host.
type Prober struct {
	ports   []int
	timeout time.Duration
	workers int
	logger  *logger.Logger
}

// NewProber creates a prober for the given candidate ports. A non-positive
// timeout falls back to 1s, non-positive workers to 20.
func NewProber(ports []int, timeout time.Duration, workers int, log *logger.Logger) *Prober {
	if timeout <= 0 {
		timeout = time.Second
	}
	if workers <= 0 {
		workers = 20
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Prober{
		ports:   append([]int(nil), ports...),
		timeout: timeout,
		workers: workers,
		logger:  log,
	}
}

// Probe dials every candidate port and returns the open ones in ascending
// order. Connect failures count as closed; cancelling the context stops
// outstanding dials early.
func (p *Prober) Probe(ctx context.Context, host string) []int {
	start := time.Now()

	sem := make(chan struct{}, min(p.workers, len(p.ports)))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		open []int
	)

	for _, port := range p.ports {
		wg.Add(1)
		go func(port int) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
				defer func() { <-sem }()
			}

			if p.isOpen(ctx, host, port) {
				mu.Lock()
				open = append(open, port)
				mu.Unlock()
			}
		}(port)
	}

	wg.Wait()
	sort.Ints(open)

	p.logger.LogDuration(ctx, "portscan.Probe", start,
		"host", host,
		"open_ports", len(open))

	return open
}

func (p *Prober) isOpen(ctx context.Context, host string, port int) bool {
	target := net.JoinHostPort(host, strconv.Itoa(port))

	dialer := net.Dialer{Timeout: p.timeout}

	conn, err := dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
