// Package httpclient builds the HTTP clients used by outbound probes.
package httpclient

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"
)

type ClientConfig struct {
	Timeout         time.Duration
	FollowRedirects bool
	MaxRedirects    int
}

func DefaultConfig() ClientConfig {
	return ClientConfig{
		Timeout:         5 * time.Second,
		FollowRedirects: true,
		MaxRedirects:    10,
	}
}

// NewClient creates an HTTP client with pooled connections, an overall
// request timeout, and the configured redirect policy. No address filtering
// is applied: probing arbitrary hosts is this tool's purpose.
func NewClient(cfg ClientConfig) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,

		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}

	if !cfg.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	} else if cfg.MaxRedirects > 0 {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", cfg.MaxRedirects)
			}
			return nil
		}
	}

	return client
}

// NewProbeClient builds the client the path classifier probes with: short
// timeout, redirects followed.
func NewProbeClient(timeout time.Duration) *http.Client {
	return NewClient(ClientConfig{
		Timeout:         timeout,
		FollowRedirects: true,
		MaxRedirects:    10,
	})
}

// CloseBody drains and closes a response body. HTTP/1.1 connections return to
// the pool only after the body is fully read.
func CloseBody(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}

	_, _ = io.Copy(io.Discard, resp.Body)

	if err := resp.Body.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close HTTP response body: %v\n", err)
	}
}
