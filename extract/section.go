package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pagelens/pagelens/models"
)

// Extraction caps and truncation limits per section.
const (
	maxLinks      = 50
	maxImages     = 20
	maxLists      = 10
	maxTables     = 5
	maxTextFall   = 500 // chars of full element text when no <p> exists
	maxLabelLen   = 50
	maxLabelWords = 7
	maxRawHTMLLen = 1000
	rawHTMLMarker = "..."
)

// Sections scans the landmark elements of the document, extracts structured
// content from each, classifies it, and assigns "{type}-{n}" ids in document
// scan order. The per-type counters are local to this call.
//
// Landmark elements with no text, no headings, and no links are skipped.
// If the whole scan yields nothing, the <body> element is extracted as a
// single "body-0" section, exempt from the empty-content skip.
func Sections(doc *goquery.Document, pageURL string) []models.Section {
	sections := []models.Section{}
	counts := map[string]int{}

	for _, tag := range landmarkTags {
		doc.Find(tag).Each(func(_ int, el *goquery.Selection) {
			content := sectionContent(el, pageURL)
			if content.Text == "" && len(content.Headings) == 0 && len(content.Links) == 0 {
				return
			}

			typ := classify(tag, el)
			id := fmt.Sprintf("%s-%d", typ, counts[typ])
			counts[typ]++

			raw, truncated := serialize(el)
			sections = append(sections, models.Section{
				ID:        id,
				Type:      typ,
				Label:     label(el, content, tag),
				SourceURL: pageURL,
				Content:   content,
				RawHTML:   raw,
				Truncated: truncated,
			})
		})
	}

	if len(sections) == 0 {
		if body := doc.Find("body").First(); body.Length() > 0 {
			content := sectionContent(body, pageURL)
			raw, truncated := serialize(body)
			sections = append(sections, models.Section{
				ID:        "body-0",
				Type:      "unknown",
				Label:     label(body, content, "body"),
				SourceURL: pageURL,
				Content:   content,
				RawHTML:   raw,
				Truncated: truncated,
			})
		}
	}

	return sections
}

// sectionContent extracts headings, body text, links, images, list groups,
// and tables from one element, with hrefs and srcs resolved against pageURL.
func sectionContent(el *goquery.Selection, pageURL string) models.SectionContent {
	content := models.SectionContent{
		Headings: []string{},
		Links:    []models.LinkItem{},
		Images:   []models.ImageItem{},
		Lists:    [][]string{},
		Tables:   [][][]string{},
	}

	el.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, h *goquery.Selection) {
		if text := trimmedText(h); text != "" {
			content.Headings = append(content.Headings, text)
		}
	})

	var textParts []string
	el.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := trimmedText(p); text != "" {
			textParts = append(textParts, text)
		}
	})
	if len(textParts) == 0 {
		if all := trimmedText(el); all != "" {
			textParts = append(textParts, truncateRunes(all, maxTextFall))
		}
	}
	content.Text = strings.Join(textParts, " ")

	el.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if len(content.Links) >= maxLinks {
			return
		}
		href, _ := a.Attr("href")
		if href == "" || skipHref(href) {
			return
		}
		text := trimmedText(a)
		if text == "" {
			text = href
		}
		content.Links = append(content.Links, models.LinkItem{
			Text: text,
			Href: absoluteURL(pageURL, href),
		})
	})

	el.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		if len(content.Images) >= maxImages {
			return
		}
		src, _ := img.Attr("src")
		if src == "" {
			return
		}
		alt, _ := img.Attr("alt")
		content.Images = append(content.Images, models.ImageItem{
			Src: absoluteURL(pageURL, src),
			Alt: alt,
		})
	})

	el.Find("ul, ol").Each(func(_ int, list *goquery.Selection) {
		if len(content.Lists) >= maxLists {
			return
		}
		var items []string
		list.Find("li").Each(func(_ int, li *goquery.Selection) {
			if text := trimmedText(li); text != "" {
				items = append(items, text)
			}
		})
		if len(items) > 0 {
			content.Lists = append(content.Lists, items)
		}
	})

	el.Find("table").Each(func(_ int, table *goquery.Selection) {
		if len(content.Tables) >= maxTables {
			return
		}
		var rows [][]string
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var row []string
			tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				row = append(row, trimmedText(cell))
			})
			if len(row) > 0 {
				rows = append(rows, row)
			}
		})
		if len(rows) > 0 {
			content.Tables = append(content.Tables, rows)
		}
	})

	return content
}

// skipHref reports whether a link target is a fragment or a non-navigable
// scheme.
func skipHref(href string) bool {
	return strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:")
}

// classify determines the section type: the tag's base mapping, overridden
// by the first keyword group matching the element's lowercased class and id
// attributes.
func classify(tag string, el *goquery.Selection) string {
	base, ok := baseTypeByTag[tag]
	if !ok {
		base = "unknown"
	}

	class, _ := el.Attr("class")
	id, _ := el.Attr("id")
	combined := strings.ToLower(class + " " + id)

	for _, group := range typeKeywordGroups {
		for _, kw := range group.Keywords {
			if strings.Contains(combined, kw) {
				return group.Type
			}
		}
	}
	return base
}

// label generates a short human-readable label for a section: the first
// heading, the aria-label attribute, the first words of the extracted text,
// or a capitalized tag fallback.
func label(el *goquery.Selection, content models.SectionContent, tag string) string {
	if len(content.Headings) > 0 {
		return truncateRunes(content.Headings[0], maxLabelLen)
	}
	if aria, ok := el.Attr("aria-label"); ok && aria != "" {
		return truncateRunes(aria, maxLabelLen)
	}
	if content.Text != "" {
		return firstWords(content.Text, maxLabelWords)
	}
	return strings.ToUpper(tag[:1]) + tag[1:] + " Section"
}

// serialize renders the element's markup, truncated to maxRawHTMLLen runes
// with an ellipsis marker. The second return value reports whether the
// original exceeded the limit.
func serialize(el *goquery.Selection) (string, bool) {
	raw, err := goquery.OuterHtml(el)
	if err != nil {
		return "", false
	}
	runes := []rune(raw)
	if len(runes) > maxRawHTMLLen {
		return string(runes[:maxRawHTMLLen]) + rawHTMLMarker, true
	}
	return raw, false
}
