package extract

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/pagelens/pagelens/models"
)

// Metadata derives page metadata from head-level tags. The canonical link
// is resolved to an absolute URL against pageURL.
func Metadata(doc *goquery.Document, pageURL string) models.MetaData {
	meta := models.MetaData{}

	meta.Title = trimmedText(doc.Find("title").First())
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok && og != "" {
		meta.Title = og
	}

	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		meta.Description = desc
	}

	if lang, ok := doc.Find("html").First().Attr("lang"); ok {
		meta.Language = lang
	}

	if canonical, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok && canonical != "" {
		meta.Canonical = absoluteURL(pageURL, canonical)
	}

	return meta
}

// absoluteURL resolves href against base. If either side fails to parse,
// the href is returned unchanged.
func absoluteURL(base, href string) string {
	if href == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	resolved, err := baseURL.Parse(href)
	if err != nil {
		return href
	}
	return resolved.String()
}
