package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubFetcher serves canned pages and counts fetches per URL.
type stubFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	calls map[string]int
}

func newStubFetcher(pages map[string]string) *stubFetcher {
	return &stubFetcher{pages: pages, calls: make(map[string]int)}
}

func (f *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.calls[url]++
	f.mu.Unlock()
	body, ok := f.pages[url]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return []byte(body), nil
}

func (f *stubFetcher) fetchCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func pageWithLinks(links ...string) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for _, l := range links {
		fmt.Fprintf(&sb, `<a href=%q>link</a>`, l)
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

var testSite = Site{
	Name:           "x",
	BaseURL:        "https://x.test",
	ProductPattern: "/products/",
}

func newTestCrawler(fetcher Fetcher) *Crawler {
	return New(
		map[string]Site{"x": testSite},
		fetcher,
		Config{Concurrency: 4, BatchSize: 10},
		zap.NewNop(),
	)
}

func TestFindProductURLsSeedScenario(t *testing.T) {
	t.Parallel()

	fetcher := newStubFetcher(map[string]string{
		"https://x.test":               pageWithLinks("/products/a", "/products/b", "/collections/c"),
		"https://x.test/collections/c": pageWithLinks("/products/d"),
	})
	c := newTestCrawler(fetcher)

	urls, err := c.FindProductURLs(context.Background(), "x", 2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"https://x.test/products/a",
		"https://x.test/products/b",
	}, urls)
	// Budget met on the seed page, so the collection link is never explored.
	assert.Zero(t, fetcher.fetchCount("https://x.test/collections/c"))
}

func TestFindProductURLsExploresCategoriesWhenShort(t *testing.T) {
	t.Parallel()

	fetcher := newStubFetcher(map[string]string{
		"https://x.test":               pageWithLinks("/products/a", "/collections/c"),
		"https://x.test/collections/c": pageWithLinks("/products/d", "/products/e"),
	})
	c := newTestCrawler(fetcher)

	urls, err := c.FindProductURLs(context.Background(), "x", 3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"https://x.test/products/a",
		"https://x.test/products/d",
		"https://x.test/products/e",
	}, urls)
	assert.Equal(t, 1, fetcher.fetchCount("https://x.test/collections/c"))
}

func TestFindProductURLsNeverExceedsBudget(t *testing.T) {
	t.Parallel()

	// A wide graph: every category page links to many distinct products.
	pages := map[string]string{}
	var catLinks []string
	for i := 0; i < 10; i++ {
		cat := fmt.Sprintf("/collections/c%d", i)
		catLinks = append(catLinks, cat)
		var prods []string
		for j := 0; j < 10; j++ {
			prods = append(prods, fmt.Sprintf("/products/p%d-%d", i, j))
		}
		pages["https://x.test"+cat] = pageWithLinks(prods...)
	}
	pages["https://x.test"] = pageWithLinks(catLinks...)

	c := newTestCrawler(newStubFetcher(pages))
	for _, budget := range []int{1, 7, 50, 1000} {
		urls, err := c.FindProductURLs(context.Background(), "x", budget)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(urls), budget)
		seen := make(map[string]struct{})
		for _, u := range urls {
			assert.Contains(t, u, "/products/")
			assert.True(t, strings.HasPrefix(u, "https://x.test"))
			_, dup := seen[u]
			assert.False(t, dup, "duplicate URL %s", u)
			seen[u] = struct{}{}
		}
	}
}

func TestFindProductURLsBudgetBoundary(t *testing.T) {
	t.Parallel()

	// One page produces found+k new product links where only m slots remain:
	// exactly m are admitted.
	fetcher := newStubFetcher(map[string]string{
		"https://x.test": pageWithLinks(
			"/products/a", "/products/b", "/products/c",
			"/products/d", "/products/e",
		),
	})
	c := newTestCrawler(fetcher)

	urls, err := c.FindProductURLs(context.Background(), "x", 3)
	require.NoError(t, err)
	assert.Len(t, urls, 3)
}

func TestFindProductURLsForeignDomainExcluded(t *testing.T) {
	t.Parallel()

	fetcher := newStubFetcher(map[string]string{
		"https://x.test": pageWithLinks(
			"https://other.test/products/z",
			"https://other.test/collections/c",
			"/products/a",
		),
	})
	c := newTestCrawler(fetcher)

	urls, err := c.FindProductURLs(context.Background(), "x", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://x.test/products/a"}, urls)
	assert.Zero(t, fetcher.fetchCount("https://other.test/collections/c"))
}

func TestFindProductURLsLinklessSeedTerminates(t *testing.T) {
	t.Parallel()

	fetcher := newStubFetcher(map[string]string{
		"https://x.test": "<html><body>nothing here</body></html>",
	})
	c := newTestCrawler(fetcher)

	urls, err := c.FindProductURLs(context.Background(), "x", 5)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestFindProductURLsFetchFailuresAreSilent(t *testing.T) {
	t.Parallel()

	// The seed links to two category pages; one of them always fails.
	fetcher := newStubFetcher(map[string]string{
		"https://x.test":                pageWithLinks("/collections/ok", "/collections/broken"),
		"https://x.test/collections/ok": pageWithLinks("/products/a"),
	})
	c := newTestCrawler(fetcher)

	urls, err := c.FindProductURLs(context.Background(), "x", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://x.test/products/a"}, urls)
	assert.Equal(t, 1, fetcher.fetchCount("https://x.test/collections/broken"))
}

func TestFindProductURLsFetchesEachURLOnce(t *testing.T) {
	t.Parallel()

	// Every category page links back to the seed and to each other, so each
	// URL is re-discovered on multiple paths.
	fetcher := newStubFetcher(map[string]string{
		"https://x.test":               pageWithLinks("/collections/a", "/collections/b"),
		"https://x.test/collections/a": pageWithLinks("/", "/collections/b", "/collections/c"),
		"https://x.test/collections/b": pageWithLinks("/", "/collections/a", "/collections/c"),
		"https://x.test/collections/c": pageWithLinks("/products/p"),
	})
	c := newTestCrawler(fetcher)

	urls, err := c.FindProductURLs(context.Background(), "x", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://x.test/products/p"}, urls)

	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	for url, count := range fetcher.calls {
		assert.LessOrEqual(t, count, 1, "URL %s fetched %d times", url, count)
	}
}

func TestFindProductURLsUnknownSite(t *testing.T) {
	t.Parallel()

	c := newTestCrawler(newStubFetcher(nil))
	_, err := c.FindProductURLs(context.Background(), "nope", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown site")
}

func TestFindProductURLsInvalidBudget(t *testing.T) {
	t.Parallel()

	c := newTestCrawler(newStubFetcher(nil))
	_, err := c.FindProductURLs(context.Background(), "x", 0)
	require.Error(t, err)
}

func TestFindProductURLsCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := newStubFetcher(map[string]string{
		"https://x.test": pageWithLinks("/products/a"),
	})
	c := newTestCrawler(fetcher)

	urls, err := c.FindProductURLs(ctx, "x", 5)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, urls)
}
