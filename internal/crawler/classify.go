package crawler

import (
	"net/url"
	"strings"
)

// listingTerms mark in-domain links that are likely category or listing pages
// worth exploring for further product links. Anything else is dropped; missed
// category pages are an accepted trade-off for guaranteed termination.
var listingTerms = []string{"product", "collection", "category", "shop"}

// Classify partitions a page's outbound absolute links into product links and
// candidate category links for the given site. It is pure: seen reports
// already-visited URLs and is supplied by the caller.
//
// Links whose host differs from the site's base domain are discarded. An
// in-domain link is a product link iff the site's product pattern is a
// substring of it. Remaining links qualify as candidates only when unvisited
// and carrying a listing-indicator term.
func Classify(links []string, site Site, base *url.URL, seen func(string) bool) Classification {
	products := make(map[string]struct{})
	candidates := make(map[string]struct{})

	for _, link := range links {
		parsed, err := url.Parse(link)
		if err != nil {
			continue
		}
		if !strings.EqualFold(parsed.Hostname(), base.Hostname()) {
			continue
		}
		if strings.Contains(link, site.ProductPattern) {
			products[link] = struct{}{}
			continue
		}
		if seen != nil && seen(link) {
			continue
		}
		if hasListingTerm(link) {
			candidates[link] = struct{}{}
		}
	}

	return Classification{
		Products:   setToSlice(products),
		Candidates: setToSlice(candidates),
	}
}

func hasListingTerm(link string) bool {
	lower := strings.ToLower(link)
	for _, term := range listingTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func setToSlice(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	return out
}
