package scraper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	body, ok := f.pages[url]
	if !ok {
		return nil, errors.New("unreachable")
	}
	return []byte(body), nil
}

func TestScrapeURLsWritesFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://x.test/products/a": "<html><head><title>A</title></head><body></body></html>",
		"https://x.test/products/b": "<html><head><title>B</title></head><body></body></html>",
	}}
	s, err := New(fetcher, Config{OutputDir: dir}, zap.NewNop())
	require.NoError(t, err)

	products, err := s.ScrapeURLs(context.Background(), []string{
		"https://x.test/products/a",
		"https://x.test/products/b",
	}, "xsite")
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "products_a", products[0].Slug)
	assert.Equal(t, "xsite", products[0].Site)

	data, err := os.ReadFile(filepath.Join(dir, "xsite", "products_a.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "URL: https://x.test/products/a")
	assert.Contains(t, string(data), "Raw Text Content:")
	assert.Contains(t, string(data), "Title: A")
}

func TestScrapeURLsSkipsFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://x.test/products/ok": "<html><head><title>OK</title></head><body></body></html>",
	}}
	s, err := New(fetcher, Config{OutputDir: dir}, zap.NewNop())
	require.NoError(t, err)

	products, err := s.ScrapeURLs(context.Background(), []string{
		"https://x.test/products/broken",
		"https://x.test/products/ok",
	}, "xsite")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "https://x.test/products/ok", products[0].URL)

	_, err = os.Stat(filepath.Join(dir, "xsite", "products_broken.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestScrapeURLsStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := New(&fakeFetcher{}, Config{OutputDir: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)

	products, err := s.ScrapeURLs(ctx, []string{"https://x.test/products/a"}, "xsite")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, products)
}

func TestFileSinkSiteDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sink, err := NewFileSink(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "xsite"), sink.SiteDir("xsite"))
}
