package extract

import "github.com/andybalholm/cascadia"

// noiseSelectors is the ordered list of clutter patterns removed before any
// extraction: consent/modal/popup/newsletter/banner class and id substrings,
// non-content tags, and hidden nodes.
var noiseSelectors = []string{
	`[class*="cookie"]`, `[class*="Cookie"]`,
	`[class*="consent"]`, `[class*="Consent"]`,
	`[class*="modal"]`, `[class*="Modal"]`,
	`[class*="popup"]`, `[class*="Popup"]`,
	`[class*="newsletter"]`, `[class*="Newsletter"]`,
	`[class*="banner"]`, `[id*="cookie"]`,
	`[id*="consent"]`, `[id*="modal"]`,
	`[id*="popup"]`, `[id*="newsletter"]`,
	`[aria-label*="cookie"]`, `[aria-label*="consent"]`,
	`script`, `style`, `noscript`, `iframe`,
	`[hidden]`, `[aria-hidden="true"]`,
}

// noiseMatchers holds the precompiled form of noiseSelectors, in order.
var noiseMatchers = compileAll(noiseSelectors)

// compileAll compiles a selector table, skipping entries that fail to parse
// so a bad pattern never takes the whole filter down.
func compileAll(selectors []string) []cascadia.Selector {
	matchers := make([]cascadia.Selector, 0, len(selectors))
	for _, s := range selectors {
		m, err := cascadia.Compile(s)
		if err != nil {
			continue
		}
		matchers = append(matchers, m)
	}
	return matchers
}

// landmarkTags lists the structural tags scanned for sections. The scan
// visits tags in this order; matches within one tag keep document order.
var landmarkTags = []string{"header", "nav", "main", "section", "article", "aside", "footer"}

// baseTypeByTag maps a landmark tag to its default section type. Tags
// outside this map classify as "unknown".
var baseTypeByTag = map[string]string{
	"header":  "hero",
	"nav":     "nav",
	"footer":  "footer",
	"main":    "section",
	"section": "section",
	"article": "section",
	"aside":   "section",
}

// keywordGroup pairs a section type with the class/id substrings that
// select it.
type keywordGroup struct {
	Type     string
	Keywords []string
}

// typeKeywordGroups override the tag-based type by scanning the lowercased
// class and id attributes. Groups are tried in order; the first group with
// a matching keyword wins.
var typeKeywordGroups = []keywordGroup{
	{"hero", []string{"hero", "banner", "jumbotron", "splash"}},
	{"nav", []string{"nav", "menu", "navigation"}},
	{"footer", []string{"footer", "foot"}},
	{"faq", []string{"faq", "accordion", "question"}},
	{"pricing", []string{"price", "pricing", "plan"}},
	{"grid", []string{"grid", "cards", "gallery"}},
	{"list", []string{"list", "items"}},
}
