package models

// MetaData holds head-level page metadata. Each extraction pass produces a
// fresh value; fields default to empty strings.
type MetaData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Canonical   string `json:"canonical"`
}

// LinkItem is a hyperlink with its href resolved to an absolute URL.
type LinkItem struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// ImageItem is an image with its src resolved to an absolute URL.
type ImageItem struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// SectionContent is the structured content extracted from one landmark
// element. Slice fields keep document order and are capped at extraction
// time (links 50, images 20, lists 10, tables 5).
type SectionContent struct {
	Headings []string     `json:"headings"`
	Text     string       `json:"text"`
	Links    []LinkItem   `json:"links"`
	Images   []ImageItem  `json:"images"`
	Lists    [][]string   `json:"lists"`
	Tables   [][][]string `json:"tables"`
}

// Section is one classified landmark section. ID is "{type}-{n}" where n is
// the 0-based ordinal of that type within the extraction pass, assigned in
// document-scan order.
type Section struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Label     string         `json:"label"`
	SourceURL string         `json:"sourceUrl"`
	Content   SectionContent `json:"content"`
	RawHTML   string         `json:"rawHtml"`
	Truncated bool           `json:"truncated"`
}

// Interactions records what the render pass did to the page. Pages is seeded
// with the original URL before any pagination follows.
type Interactions struct {
	Clicks  []string `json:"clicks"`
	Scrolls int      `json:"scrolls"`
	Pages   []string `json:"pages"`
}

// NewInteractions returns an empty interactions log seeded with the
// original URL.
func NewInteractions(url string) Interactions {
	return Interactions{Clicks: []string{}, Pages: []string{url}}
}

// ScrapeResult is the externally visible aggregate for one scraped URL.
// It is assembled once per request and not mutated after the merge step.
type ScrapeResult struct {
	URL          string       `json:"url"`
	ScrapedAt    string       `json:"scrapedAt"`
	Meta         MetaData     `json:"meta"`
	Sections     []Section    `json:"sections"`
	Interactions Interactions `json:"interactions"`
	Errors       []ErrorItem  `json:"errors"`
}

// ScrapeRequest is the payload for POST /scrape.
type ScrapeRequest struct {
	// URL is the target page to scrape. Required.
	URL string `json:"url" binding:"required,url"`

	// MaxAgeMs enables the response cache for this request: a cached
	// result younger than MaxAgeMs milliseconds is returned instead of
	// scraping again. Zero (the default) bypasses the cache.
	MaxAgeMs int `json:"maxAgeMs,omitempty" binding:"omitempty,min=0"`
}

// ScrapeResponse is the response envelope for POST /scrape.
type ScrapeResponse struct {
	Result *ScrapeResult `json:"result,omitempty"`

	// Error is populated only when the request itself was rejected
	// (bad input, auth, rate limit). Scrape-level failures are reported
	// inside Result.Errors instead.
	Error *ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the response for GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
