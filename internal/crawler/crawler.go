package crawler

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Crawler discovers product URLs for configured sites. Each call to
// FindProductURLs is an independent single-tenant session; no state is shared
// between sessions.
type Crawler struct {
	sites   map[string]Site
	fetcher Fetcher
	cfg     Config
	logger  *zap.Logger
}

// New constructs a Crawler over the given site registry.
func New(sites map[string]Site, fetcher Fetcher, cfg Config, logger *zap.Logger) *Crawler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Crawler{
		sites:   sites,
		fetcher: fetcher,
		cfg:     cfg.withDefaults(),
		logger:  logger,
	}
}

// pageResult is owned by the worker that produced it until the collector loop
// merges it.
type pageResult struct {
	url string
	cls Classification
}

// FindProductURLs crawls siteName breadth-first until maxURLs product URLs
// are found or the frontier is exhausted. It returns between 0 and maxURLs
// URLs, each in-domain and matching the site's product pattern, with no
// duplicates. Fetch and parse failures never abort the crawl; whatever has
// accumulated is returned. A context error is returned alongside the partial
// result when the caller cancels mid-crawl.
func (c *Crawler) FindProductURLs(ctx context.Context, siteName string, maxURLs int) ([]string, error) {
	site, ok := c.sites[siteName]
	if !ok {
		return nil, fmt.Errorf("unknown site %q", siteName)
	}
	if maxURLs <= 0 {
		return nil, fmt.Errorf("max urls must be > 0, got %d", maxURLs)
	}
	base, err := url.Parse(site.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", site.BaseURL, err)
	}

	log := c.logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("site", siteName),
	)
	log.Info("starting product URL discovery", zap.Int("max_urls", maxURLs))

	visited := newVisitTracker()
	pending := newFrontier()
	pending.Add(site.BaseURL)
	found := make(map[string]struct{}, maxURLs)

	round := 0
	for pending.Len() > 0 && len(found) < maxURLs {
		if err := ctx.Err(); err != nil {
			break
		}
		batch := pending.Take(c.cfg.BatchSize)
		round++

		// Single collector loop: the only place found and pending mutate, so
		// two workers can never double-count toward the budget.
		for res := range c.dispatch(ctx, log, site, base, batch, visited) {
			for _, product := range res.cls.Products {
				if len(found) == maxURLs {
					break
				}
				if _, dup := found[product]; dup {
					continue
				}
				found[product] = struct{}{}
				TotalProductURLs.Inc()
			}
			if len(found) >= maxURLs {
				continue // budget met: drain remaining workers, enqueue nothing
			}
			for _, cand := range res.cls.Candidates {
				if !visited.Seen(cand) {
					pending.Add(cand)
				}
			}
		}

		log.Debug("batch complete",
			zap.Int("round", round),
			zap.Int("batch_size", len(batch)),
			zap.Int("found", len(found)),
			zap.Int("frontier", pending.Len()),
		)
	}

	urls := make([]string, 0, len(found))
	for u := range found {
		urls = append(urls, u)
	}
	log.Info("discovery finished",
		zap.Int("found", len(urls)),
		zap.Int("rounds", round),
	)
	return urls, ctx.Err()
}

// dispatch fans a batch out to at most cfg.Concurrency workers and returns a
// channel that yields one result per fetched URL, closing once every worker
// has finished.
func (c *Crawler) dispatch(
	ctx context.Context,
	log *zap.Logger,
	site Site,
	base *url.URL,
	batch []string,
	visited *visitTracker,
) <-chan pageResult {
	results := make(chan pageResult, len(batch))
	sem := make(chan struct{}, c.cfg.Concurrency)
	var wg sync.WaitGroup

	for _, pageURL := range batch {
		if !visited.MarkIfNew(pageURL) {
			continue
		}
		wg.Add(1)
		go func(pageURL string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results <- pageResult{
				url: pageURL,
				cls: c.processPage(ctx, log, site, base, pageURL, visited),
			}
		}(pageURL)
	}

	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}

// processPage fetches one page and classifies its outbound links. Failures
// yield an empty classification for this URL only.
func (c *Crawler) processPage(
	ctx context.Context,
	log *zap.Logger,
	site Site,
	base *url.URL,
	pageURL string,
	visited *visitTracker,
) Classification {
	TotalRequests.Inc()
	body, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		TotalRequestErrors.Inc()
		log.Warn("fetch failed", zap.String("url", pageURL), zap.Error(err))
		return Classification{}
	}

	links, err := ParseLinks(body, base)
	if err != nil {
		TotalParseErrors.Inc()
		log.Warn("link parse failed", zap.String("url", pageURL), zap.Error(err))
		return Classification{}
	}

	return Classify(links, site, base, visited.Seen)
}
