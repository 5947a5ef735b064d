package scraper

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileSink persists raw product text under a per-site directory.
type FileSink struct {
	root string
}

// NewFileSink returns a sink rooted at dir.
func NewFileSink(root string) (*FileSink, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create sink dir %s: %w", root, err)
	}
	return &FileSink{root: root}, nil
}

// SaveText writes one text file per product, keyed by slug, and returns the
// written path.
func (s *FileSink) SaveText(site, slug, url, text string) (string, error) {
	dir := filepath.Join(s.root, site)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create site dir %s: %w", dir, err)
	}
	target := filepath.Join(dir, slug+".txt")
	payload := fmt.Sprintf("URL: %s\n\nRaw Text Content:\n%s\n", url, text)
	if err := os.WriteFile(target, []byte(payload), 0o600); err != nil {
		return "", fmt.Errorf("write text to %s: %w", target, err)
	}
	return target, nil
}

// SiteDir returns the directory holding a site's text files.
func (s *FileSink) SiteDir(site string) string {
	return filepath.Join(s.root, site)
}
