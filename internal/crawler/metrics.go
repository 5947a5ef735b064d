package crawler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalRequests tracks the number of page fetches dispatched.
	TotalRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vapescout_requests_total",
		Help: "The total number of page fetches dispatched.",
	})
	// TotalRequestErrors tracks fetches that failed after exhausting retries.
	TotalRequestErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vapescout_request_errors_total",
		Help: "The total number of page fetches that failed after retries.",
	})
	// TotalRetries tracks individual fetch attempts beyond the first.
	TotalRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vapescout_request_retries_total",
		Help: "The total number of fetch retry attempts.",
	})
	// TotalParseErrors tracks pages whose markup could not be parsed.
	TotalParseErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vapescout_parse_errors_total",
		Help: "The total number of fetched pages that failed link parsing.",
	})
	// TotalProductURLs tracks product URLs admitted to the result set.
	TotalProductURLs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vapescout_product_urls_total",
		Help: "The total number of product URLs discovered.",
	})
	// TotalPagesScraped tracks product pages persisted by the scrape stage.
	TotalPagesScraped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vapescout_pages_scraped_total",
		Help: "The total number of product pages scraped and saved.",
	})
)
