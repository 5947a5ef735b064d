// Package scraper fetches product pages and persists their raw text for the
// attribute extraction stage.
package scraper

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sbrennan/vapescout/internal/crawler"
)

// Config controls the scraping stage.
type Config struct {
	OutputDir string
	Delay     time.Duration
}

// Product records one scraped product page.
type Product struct {
	URL      string
	Slug     string
	Site     string
	TextPath string
}

// Scraper walks a list of product URLs sequentially, pausing between
// requests.
type Scraper struct {
	fetcher crawler.Fetcher
	sink    *FileSink
	cfg     Config
	logger  *zap.Logger
}

// New constructs a Scraper writing under cfg.OutputDir.
func New(fetcher crawler.Fetcher, cfg Config, logger *zap.Logger) (*Scraper, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sink, err := NewFileSink(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	return &Scraper{
		fetcher: fetcher,
		sink:    sink,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// ScrapeURLs fetches each URL, extracts its raw text, and writes one file per
// product under the site's output directory. Per-URL failures are logged and
// skipped; a context error stops the walk and returns what has been scraped.
func (s *Scraper) ScrapeURLs(ctx context.Context, urls []string, siteName string) ([]Product, error) {
	log := s.logger.With(zap.String("site", siteName))
	products := make([]Product, 0, len(urls))

	for i, pageURL := range urls {
		if i > 0 {
			if err := pause(ctx, s.cfg.Delay); err != nil {
				return products, err
			}
		}
		if err := ctx.Err(); err != nil {
			return products, err
		}

		body, err := s.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			log.Warn("scrape fetch failed", zap.String("url", pageURL), zap.Error(err))
			continue
		}
		text, err := ExtractRawText(body)
		if err != nil {
			log.Warn("text extraction failed", zap.String("url", pageURL), zap.Error(err))
			continue
		}

		slug := Slug(pageURL)
		path, err := s.sink.SaveText(siteName, slug, pageURL, text)
		if err != nil {
			log.Warn("save text failed", zap.String("url", pageURL), zap.Error(err))
			continue
		}

		crawler.TotalPagesScraped.Inc()
		log.Debug("page scraped", zap.String("url", pageURL), zap.String("path", path))
		products = append(products, Product{
			URL:      pageURL,
			Slug:     slug,
			Site:     siteName,
			TextPath: path,
		})
	}
	return products, nil
}

// SiteDir exposes the directory text files are written to for a site.
func (s *Scraper) SiteDir(siteName string) string {
	return s.sink.SiteDir(siteName)
}

// Slug derives a filesystem-safe product key from the URL path.
func Slug(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "index"
	}
	slug := strings.Trim(u.Path, "/")
	if slug == "" {
		return "index"
	}
	return strings.ReplaceAll(slug, "/", "_")
}

func pause(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
