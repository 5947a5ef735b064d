package crawler

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// ParseLinks extracts all anchor targets from markup and resolves them to
// absolute URLs relative to base. Fragments are stripped and non-HTTP schemes
// are discarded. The result has set semantics.
func ParseLinks(markup []byte, base *url.URL) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	links := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		abs.Fragment = ""
		links[abs.String()] = struct{}{}
	})

	return setToSlice(links), nil
}
