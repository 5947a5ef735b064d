package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html>
<head>
	<title>  Cloud Bar 9000  </title>
	<meta name="description" content="Disposable vape, 9000 puffs.">
	<script>window.tracker = {};</script>
	<style>.x { color: red }</style>
</head>
<body>
	<div class="product-content">
		<h1>Cloud Bar 9000</h1>
		<p>Mixed berry flavor with a mesh coil.</p>
		<ul><li>Rechargeable</li></ul>
	</div>
	<table>
		<tr><th>Puffs</th><td>9000</td></tr>
		<tr><th>Battery</th><td>650mAh</td></tr>
	</table>
</body>
</html>`

func TestExtractRawText(t *testing.T) {
	t.Parallel()

	text, err := ExtractRawText([]byte(samplePage))
	require.NoError(t, err)

	assert.Contains(t, text, "Title: Cloud Bar 9000")
	assert.Contains(t, text, "Meta Description: Disposable vape, 9000 puffs.")
	assert.Contains(t, text, "Mixed berry flavor with a mesh coil.")
	assert.Contains(t, text, "Rechargeable")
	assert.Contains(t, text, "Specifications: Puffs 9000 Battery 650mAh")
	assert.NotContains(t, text, "window.tracker")
	assert.NotContains(t, text, "color: red")
}

func TestExtractRawTextPrefersMainElement(t *testing.T) {
	t.Parallel()

	page := `<html><body>
		<main><p>inside main</p></main>
		<div class="content"><p>inside div</p></div>
	</body></html>`
	text, err := ExtractRawText([]byte(page))
	require.NoError(t, err)
	assert.Contains(t, text, "inside main")
	assert.NotContains(t, text, "inside div")
}

func TestExtractRawTextNoContentContainer(t *testing.T) {
	t.Parallel()

	page := `<html><head><title>Bare</title></head><body><p>loose text</p></body></html>`
	text, err := ExtractRawText([]byte(page))
	require.NoError(t, err)
	assert.Equal(t, "Title: Bare", text)
}

func TestSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"https://x.test/products/cloud-bar", "products_cloud-bar"},
		{"https://x.test/products/cloud-bar/", "products_cloud-bar"},
		{"https://x.test/", "index"},
		{"https://x.test", "index"},
		{"://bad", "index"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Slug(tc.url), "url %s", tc.url)
	}
}
