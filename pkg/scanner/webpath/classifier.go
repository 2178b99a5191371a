package webpath

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/singleflight"

	"github.com/mmwwxz/website-scanner/internal/core"
	"github.com/mmwwxz/website-scanner/internal/httpclient"
	"github.com/mmwwxz/website-scanner/internal/logger"
	"github.com/mmwwxz/website-scanner/internal/ratelimit"
	"github.com/mmwwxz/website-scanner/pkg/types"
)

// maxBodyBytes caps how much of a response body is handed to the HTML parser.
const maxBodyBytes = 1 << 20

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Config wires a Classifier.
type Config struct {
	Client             *http.Client
	Limiter            core.RateLimiter
	Logger             *logger.Logger
	Paths              []string
	TitleSignatures    []string
	NotFoundSignatures []string
	CacheSize          int
}

// Classifier probes candidate HTTP paths on a host and classifies each final
// response. One Classifier belongs to one scan; its URL cache is discarded
// with it.
type Classifier struct {
	client       *http.Client
	limiter      core.RateLimiter
	logger       *logger.Logger
	paths        []string
	titleSigs    []string
	notFoundSigs []string
	cache        *urlCache
	group        singleflight.Group
}

// NewClassifier builds a classifier for one scan. Candidate lists are copied
// so later mutation by the caller cannot skew an in-flight sweep.
func NewClassifier(cfg Config) *Classifier {
	client := cfg.Client
	if client == nil {
		client = httpclient.NewProbeClient(httpclient.DefaultConfig().Timeout)
	}

	limiter := cfg.Limiter
	if limiter == nil {
		limiter = ratelimit.NewLimiter(ratelimit.DefaultConfig())
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	return &Classifier{
		client:       client,
		limiter:      limiter,
		logger:       log,
		paths:        append([]string(nil), cfg.Paths...),
		titleSigs:    append([]string(nil), cfg.TitleSignatures...),
		notFoundSigs: append([]string(nil), cfg.NotFoundSignatures...),
		cache:        newURLCache(cfg.CacheSize),
	}
}

// CheckPort sweeps every candidate path against one open port. Each path is
// probed as two URL variants in order: with the explicit port, then without
// it. Non-nil findings are appended in probe order.
func (c *Classifier) CheckPort(ctx context.Context, host string, port int) []types.Finding {
	var findings []types.Finding

	for _, path := range c.paths {
		withPort := fmt.Sprintf("https://%s:%d%s", host, port, path)
		withoutPort := fmt.Sprintf("https://%s%s", host, path)

		for _, u := range []string{withPort, withoutPort} {
			if f := c.CheckURL(ctx, u, host); f != nil {
				findings = append(findings, *f)
			}
		}
	}

	c.logger.Debugw("Path sweep completed",
		"host", host,
		"port", port,
		"findings", len(findings))

	return findings
}

// CheckURL fetches and classifies one URL. A nil return means the response
// was deliberately not reported. Repeated calls for the same URL within the
// scan reuse the first outcome without refetching; concurrent callers for the
// same URL share a single fetch.
func (c *Classifier) CheckURL(ctx context.Context, rawURL, host string) *types.Finding {
	if f, ok := c.cache.get(rawURL); ok {
		return f
	}

	v, _, _ := c.group.Do(rawURL, func() (interface{}, error) {
		if f, ok := c.cache.get(rawURL); ok {
			return f, nil
		}

		f := c.fetch(ctx, rawURL, host)
		c.cache.set(rawURL, f)
		return f, nil
	})

	f, _ := v.(*types.Finding)
	return f
}

func (c *Classifier) fetch(ctx context.Context, rawURL, host string) *types.Finding {
	if err := c.limiter.Wait(ctx, host); err != nil {
		return transportError(rawURL, host, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return transportError(rawURL, host, err)
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debugw("Path probe failed", "url", rawURL, "error", err)
		return transportError(rawURL, host, err)
	}
	defer httpclient.CloseBody(resp)

	c.logger.LogHTTPRequest(ctx, http.MethodGet, rawURL, resp.StatusCode, time.Since(start))

	return c.classifyResponse(rawURL, host, resp)
}

// classifyResponse maps one final HTTP response to a Finding, or to nil for
// statuses that are deliberately not reported.
func (c *Classifier) classifyResponse(rawURL, host string, resp *http.Response) *types.Finding {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		title := extractTitle(resp.Body)
		status := types.StatusError
		if matchesAny(title, c.notFoundSigs) {
			// Custom 404 pages can leak framework details.
			status = types.StatusOpen
		}
		return &types.Finding{
			Kind:   types.KindURLCheck,
			Host:   host,
			Detail: fmt.Sprintf("Error 404 at %s", rawURL),
			Status: status,
		}

	case resp.StatusCode == http.StatusMovedPermanently || resp.StatusCode == http.StatusFound:
		return &types.Finding{
			Kind:   types.KindURLCheck,
			Host:   host,
			Detail: fmt.Sprintf("Redirected to %s", resp.Header.Get("Location")),
			Status: types.StatusOpen,
		}

	case resp.StatusCode == http.StatusOK:
		title := extractTitle(resp.Body)
		if matchesAny(title, c.titleSigs) {
			return &types.Finding{
				Kind:   types.KindURLCheck,
				Host:   host,
				Detail: fmt.Sprintf("Interesting page found at %s -> %s", rawURL, title),
				Status: types.StatusOpen,
			}
		}
		return &types.Finding{
			Kind:   types.KindURLCheck,
			Host:   host,
			Detail: fmt.Sprintf("Page available but not of special interest at %s -> %s", rawURL, title),
			Status: types.StatusWarning,
		}

	case resp.StatusCode >= http.StatusBadRequest:
		return &types.Finding{
			Kind:   types.KindURLCheck,
			Host:   host,
			Detail: fmt.Sprintf("Error accessing %s, status code %d", rawURL, resp.StatusCode),
			Status: types.StatusError,
		}
	}

	// 1xx, 2xx other than 200, and uncommon 3xx are deliberately not reported.
	return nil
}

func transportError(rawURL, host string, err error) *types.Finding {
	return &types.Finding{
		Kind:   types.KindURLCheck,
		Host:   host,
		Detail: fmt.Sprintf("Error checking %s: %s", rawURL, err),
		Status: types.StatusError,
	}
}

// extractTitle pulls the first <title> text out of an HTML body. Unparseable
// or title-less bodies yield the empty string, not a fault.
func extractTitle(body io.Reader) string {
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(doc.Find("title").First().Text())
}

func matchesAny(title string, signatures []string) bool {
	title = strings.ToLower(title)
	for _, sig := range signatures {
		if strings.Contains(title, sig) {
			return true
		}
	}
	return false
}
