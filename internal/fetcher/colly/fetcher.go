// Package collyfetcher implements crawler.Fetcher using gocolly.
package collyfetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/sbrennan/vapescout/internal/crawler"
	"github.com/sbrennan/vapescout/internal/retry"
)

const defaultTimeout = 5 * time.Second

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	Retry     retry.Policy
}

// Fetcher performs single-page HTTP GETs through a shared Colly collector.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
}

// New builds a Fetcher.
func New(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	c := colly.NewCollector(colly.UserAgent(cfg.UserAgent))
	// Deduplication is the crawler's job; robots compliance is out of scope.
	c.AllowURLRevisit = true
	c.IgnoreRobotsTxt = true
	c.SetRequestTimeout(cfg.Timeout)
	c.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          128,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		ForceAttemptHTTP2:     true,
	})

	return &Fetcher{cfg: cfg, baseCollector: c}
}

// Fetch retrieves a page, retrying per the configured policy. The returned
// error means the URL is unusable after exhausting retries.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte
	attempt := 0
	err := f.cfg.Retry.Do(ctx, func() error {
		if attempt > 0 {
			crawler.TotalRetries.Inc()
		}
		attempt++
		b, err := f.fetchOnce(ctx, rawURL)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	return body, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) ([]byte, error) {
	collector := f.baseCollector.Clone()

	var (
		body     []byte
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte{}, r.Body...)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown colly error")
		}
		fetchErr = err
	})

	if err := collector.Visit(rawURL); err != nil {
		return nil, err
	}
	collector.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	if body == nil {
		return nil, errors.New("no response received")
	}
	return body, nil
}
