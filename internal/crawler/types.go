package crawler

import "context"

// Site describes one target store. Descriptors come from the configuration
// registry and are immutable for the process lifetime.
type Site struct {
	Name           string
	BaseURL        string
	ProductPattern string
}

// Fetcher retrieves a page body for a URL. Implementations own timeouts and
// retries; an error means the URL is unusable for this session.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Classification partitions a page's in-domain outbound links.
type Classification struct {
	Products   []string
	Candidates []string
}

// Config holds the settings for a crawl session.
type Config struct {
	Concurrency int
	BatchSize   int
}

const (
	defaultConcurrency = 20
	defaultBatchSize   = 50
)

func (c Config) withDefaults() Config {
	if c.Concurrency <= 0 {
		c.Concurrency = defaultConcurrency
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	return c
}
