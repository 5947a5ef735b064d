package scraper

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var contentClass = regexp.MustCompile(`content|main|product`)

// ExtractRawText flattens a product page into a text block for the LLM
// stage: title, meta description, the main content container's prose, and
// specification tables. Scripts and styles are dropped.
func ExtractRawText(markup []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parse markup: %w", err)
	}
	doc.Find("script,style").Remove()

	var parts []string
	if title := squish(doc.Find("title").First().Text()); title != "" {
		parts = append(parts, "Title: "+title)
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		if desc = strings.TrimSpace(desc); desc != "" {
			parts = append(parts, "Meta Description: "+desc)
		}
	}

	if main := findMainContent(doc); main != nil {
		main.Find("p,h1,h2,h3,h4,h5,h6,li,td,th").Each(func(_ int, sel *goquery.Selection) {
			if text := squish(sel.Text()); text != "" {
				parts = append(parts, text)
			}
		})
	}

	doc.Find("table,dl").Each(func(_ int, sel *goquery.Selection) {
		if text := squish(sel.Text()); text != "" {
			parts = append(parts, "Specifications: "+text)
		}
	})

	return strings.Join(parts, "\n"), nil
}

func findMainContent(doc *goquery.Document) *goquery.Selection {
	if sel := doc.Find("main").First(); sel.Length() > 0 {
		return sel
	}
	if sel := doc.Find("article").First(); sel.Length() > 0 {
		return sel
	}
	sel := doc.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		return contentClass.MatchString(class)
	}).First()
	if sel.Length() > 0 {
		return sel
	}
	return nil
}

func squish(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
