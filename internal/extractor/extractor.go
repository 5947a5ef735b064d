// Package extractor turns scraped product text into structured attribute
// records via an LLM chat-completion client.
package extractor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sbrennan/vapescout/internal/retry"
	"github.com/sbrennan/vapescout/internal/scraper"
)

// Client is the chat-completion dependency. Constructed explicitly by the
// caller; tests substitute fakes.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Config controls batching and file layout for the extraction stage.
type Config struct {
	BatchSize  int
	BatchPause time.Duration
	OutputDir  string
	Retry      retry.Policy
}

// Extractor batches product text files through the LLM client.
type Extractor struct {
	client Client
	cfg    Config
	sites  []string
	logger *zap.Logger
}

// New constructs an Extractor. siteNames is the configured registry, used for
// best-effort site guessing when a product carries no site tag.
func New(client Client, cfg Config, siteNames []string, logger *zap.Logger) *Extractor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		client: client,
		cfg:    cfg,
		sites:  siteNames,
		logger: logger,
	}
}

// ProcessProducts extracts attributes for every text file belonging to the
// products' sites. Extraction failures degrade to default ("N/A") records and
// never abort the run.
func (e *Extractor) ProcessProducts(ctx context.Context, products []scraper.Product) []Record {
	var records []Record
	for site, siteProducts := range e.groupBySite(products) {
		records = append(records, e.processSite(ctx, site, siteProducts)...)
	}
	return records
}

func (e *Extractor) groupBySite(products []scraper.Product) map[string][]scraper.Product {
	groups := make(map[string][]scraper.Product)
	for _, p := range products {
		site := e.resolveSite(p)
		groups[site] = append(groups[site], p)
	}
	return groups
}

// resolveSite prefers the explicit site tag; otherwise it guesses by matching
// a configured site name as a substring of the URL. Best effort only.
func (e *Extractor) resolveSite(p scraper.Product) string {
	if p.Site != "" {
		return p.Site
	}
	for _, name := range e.sites {
		if strings.Contains(p.URL, name) {
			return name
		}
	}
	return "unknown"
}

func (e *Extractor) processSite(ctx context.Context, site string, products []scraper.Product) []Record {
	log := e.logger.With(zap.String("site", site))
	siteDir := filepath.Join(e.cfg.OutputDir, site)

	entries, err := os.ReadDir(siteDir)
	if err != nil {
		// No text files on disk for this site: fall back to what the scrape
		// stage carried in memory.
		log.Warn("no text files found for site", zap.Error(err))
		records := make([]Record, 0, len(products))
		for _, p := range products {
			records = append(records, Record{
				Site:       site,
				Attributes: e.extractOne(ctx, log, p.Slug+".txt", fallbackContent(p)),
			})
		}
		return records
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".txt") {
			files = append(files, entry.Name())
		}
	}

	var records []Record
	for start := 0; start < len(files); start += e.cfg.BatchSize {
		if start > 0 {
			if err := sleep(ctx, e.cfg.BatchPause); err != nil {
				log.Warn("extraction interrupted", zap.Error(err))
				return records
			}
		}
		end := min(start+e.cfg.BatchSize, len(files))
		for _, name := range files[start:end] {
			content, err := os.ReadFile(filepath.Join(siteDir, name))
			if err != nil {
				log.Warn("read text file failed", zap.String("file", name), zap.Error(err))
				continue
			}
			records = append(records, Record{
				Site:       site,
				Attributes: e.extractOne(ctx, log, name, string(content)),
			})
		}
	}
	return records
}

// extractOne runs a single completion and parses the response. Any failure
// yields the default record.
func (e *Extractor) extractOne(ctx context.Context, log *zap.Logger, name, content string) Attributes {
	prompt := buildPrompt(content)

	var raw string
	err := e.cfg.Retry.Do(ctx, func() error {
		resp, err := e.client.Complete(ctx, systemPrompt, prompt)
		if err != nil {
			return err
		}
		raw = resp
		return nil
	})
	if err != nil {
		log.Warn("completion failed", zap.String("file", name), zap.Error(err))
		return defaultAttributes()
	}

	attrs, err := parseAttributes(raw)
	if err != nil {
		log.Warn("unusable completion response", zap.String("file", name), zap.Error(err))
		return defaultAttributes()
	}
	return attrs
}

func fallbackContent(p scraper.Product) string {
	return "URL: " + p.URL + "\n\nRaw Text Content:\n" + unknownValue
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
