// Package flag maps two-letter country codes to flag image URLs and keeps
// track of which images have been fetched.
package flag

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kapu/polyglot-connect-go/internal/constants"
	"github.com/kapu/polyglot-connect-go/internal/util"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Status is the preload state of one flag URL.
type Status string

const (
	StatusUnknown Status = ""
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusError   Status = "error"
)

type Config struct {
	CDNBaseURL     string
	FallbackURL    string
	Concurrency    int
	RequestTimeout time.Duration
}

type Provider struct {
	baseURL     string
	fallbackURL string
	concurrency int
	httpClient  *http.Client
	breaker     *util.CircuitBreaker
	logger      *zap.Logger

	mu    sync.Mutex
	cache map[string]Status
}

func NewProvider(cfg Config, httpClient *http.Client, logger *zap.Logger) *Provider {
	logger = util.OrNop(logger)

	if cfg.CDNBaseURL == "" {
		cfg.CDNBaseURL = constants.FlagConfig.CDNBaseURL
	}
	if cfg.FallbackURL == "" {
		cfg.FallbackURL = constants.FlagConfig.FallbackURL
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = constants.FlagConfig.PreloadConcurrency
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = constants.FlagConfig.RequestTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}

	return &Provider{
		baseURL:     strings.TrimRight(cfg.CDNBaseURL, "/"),
		fallbackURL: cfg.FallbackURL,
		concurrency: cfg.Concurrency,
		httpClient:  httpClient,
		breaker:     util.NewCircuitBreaker(constants.FlagConfig.BreakerThreshold, constants.FlagConfig.BreakerResetTimeout, logger),
		logger:      logger,
		cache:       make(map[string]Status),
	}
}

// URL returns the SVG URL for a two-letter code. Anything that is not
// exactly two characters after trimming gets the fallback image.
func (p *Provider) URL(code string) string {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if len([]rune(normalized)) != 2 {
		return p.fallbackURL
	}
	return p.baseURL + "/" + normalized + ".svg"
}

func (p *Provider) FallbackURL() string {
	return p.fallbackURL
}

// Preload fetches the flag image once. The fallback and URLs already
// attempted are skipped. Failures only show up in Status.
func (p *Provider) Preload(ctx context.Context, code string) {
	url := p.URL(code)
	if url == p.fallbackURL {
		return
	}

	p.mu.Lock()
	if _, seen := p.cache[url]; seen {
		p.mu.Unlock()
		return
	}
	p.cache[url] = StatusLoading
	p.mu.Unlock()

	status := StatusError
	if p.fetch(ctx, http.MethodGet, url) {
		status = StatusLoaded
	}

	p.mu.Lock()
	p.cache[url] = status
	p.mu.Unlock()

	if status == StatusError {
		p.logger.Debug("Flag preload failed", zap.String("code", code), zap.String("url", url))
	}
}

// PreloadAll preloads each distinct code with bounded concurrency.
func (p *Provider) PreloadAll(ctx context.Context, codes []string) {
	seen := make(map[string]struct{}, len(codes))
	workers := pool.New().WithMaxGoroutines(p.concurrency)

	for _, code := range codes {
		url := p.URL(code)
		if url == p.fallbackURL {
			continue
		}
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}

		code := code
		workers.Go(func() {
			p.Preload(ctx, code)
		})
	}

	workers.Wait()
}

// Exists reports whether the CDN answers a HEAD request for the flag with
// a 2xx status. Network errors count as missing.
func (p *Provider) Exists(ctx context.Context, code string) bool {
	url := p.URL(code)
	if url == p.fallbackURL {
		return false
	}
	return p.fetch(ctx, http.MethodHead, url)
}

func (p *Provider) Status(code string) Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cache[p.URL(code)]
}

func (p *Provider) fetch(ctx context.Context, method, url string) bool {
	if !p.breaker.CanExecute() {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return false
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.breaker.RecordFailure()
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		p.breaker.RecordFailure()
		return false
	}
	p.breaker.RecordSuccess()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
