package extract

import "github.com/PuerkitoBio/goquery"

// RemoveNoise strips clutter nodes from the document in place: cookie and
// consent prompts, modals, popups, newsletter banners, scripts, styles,
// iframes, and hidden nodes. The mutated tree is what every downstream
// extraction step sees.
func RemoveNoise(doc *goquery.Document) {
	for _, m := range noiseMatchers {
		doc.FindMatcher(m).Remove()
	}
}
