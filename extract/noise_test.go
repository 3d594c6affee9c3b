package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestRemoveNoise(t *testing.T) {
	t.Parallel()

	t.Run("strips scripts styles and iframes", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body>
			<script>var x = 1;</script>
			<style>.a { color: red; }</style>
			<noscript>enable javascript</noscript>
			<iframe src="https://ads.example.com"></iframe>
			<p>real content</p>
		</body></html>`)

		RemoveNoise(doc)

		assert.Equal(t, 0, doc.Find("script, style, noscript, iframe").Length())
		assert.Equal(t, "real content", strings.TrimSpace(doc.Find("p").Text()))
	})

	t.Run("strips clutter by class and id substring", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body>
			<div class="cookie-notice">accept cookies</div>
			<div class="CookieBanner">accept cookies</div>
			<div id="newsletter-signup">subscribe</div>
			<div class="modal-backdrop">modal</div>
			<div class="popup-overlay">popup</div>
			<div aria-label="cookie policy">policy</div>
			<main><p>kept</p></main>
		</body></html>`)

		RemoveNoise(doc)

		assert.Equal(t, 1, doc.Find("body > *").Length())
		assert.Equal(t, "kept", strings.TrimSpace(doc.Find("main").Text()))
	})

	t.Run("strips hidden nodes", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<html><body>
			<div hidden>invisible</div>
			<div aria-hidden="true">also invisible</div>
			<p>visible</p>
		</body></html>`)

		RemoveNoise(doc)

		text := strings.TrimSpace(doc.Find("body").Text())
		assert.NotContains(t, text, "invisible")
		assert.Contains(t, text, "visible")
	})

	t.Run("all patterns compile", func(t *testing.T) {
		t.Parallel()

		assert.Len(t, noiseMatchers, len(noiseSelectors))
	})
}
