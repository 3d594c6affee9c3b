package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/pagelens/pagelens/models"
)

// Interaction stage timing. Each wait is bounded; no stage blocks
// indefinitely.
const (
	maxTabClicks            = 3
	tabClickDelay           = 500 * time.Millisecond
	maxLoadMoreClicks       = 3
	loadMoreDelay           = time.Second
	scrollCount             = 3
	scrollDelay             = 1500 * time.Millisecond
	scrollIdleTimeout       = 3 * time.Second
	maxPageFollows          = 2
	paginationIdleTimeout   = 5 * time.Second
	paginationFallbackDelay = 2 * time.Second
	requestIdlePeriod       = 300 * time.Millisecond
)

// clickPattern locates clickable candidates: a CSS selector plus an optional
// visible-text substring filter for selectors that cannot express text.
type clickPattern struct {
	Selector string
	Text     string
}

// String renders the pattern the way it appears in the interactions log.
func (p clickPattern) String() string {
	if p.Text == "" {
		return p.Selector
	}
	return fmt.Sprintf("%s:has-text(%q)", p.Selector, p.Text)
}

// tabPatterns matches tab-like controls, tried in order.
var tabPatterns = []clickPattern{
	{Selector: `[role="tab"]`},
	{Selector: `button[aria-controls]`},
	{Selector: `.tab`},
	{Selector: `[data-toggle="tab"]`},
	{Selector: `.nav-link[data-bs-toggle="tab"]`},
}

// loadMorePatterns matches "load more"-style expanders, tried in order.
var loadMorePatterns = []clickPattern{
	{Selector: `button`, Text: "Load more"},
	{Selector: `button`, Text: "Show more"},
	{Selector: `button`, Text: "See more"},
	{Selector: `button`, Text: "View more"},
	{Selector: `[class*="load-more"]`},
	{Selector: `[class*="loadmore"]`},
	{Selector: `[class*="show-more"]`},
	{Selector: `[data-action="load-more"]`},
}

// paginationPatterns matches "next page" links, tried in order.
var paginationPatterns = []clickPattern{
	{Selector: `a`, Text: "Next"},
	{Selector: `a`, Text: "next"},
	{Selector: `[rel="next"]`},
	{Selector: `.pagination a:last-child`},
	{Selector: `[aria-label="Next page"]`},
	{Selector: `.next > a`},
	{Selector: `a.next`},
}

// findVisible returns the visible elements matching the pattern, in document
// order, applying the pattern's text filter if set.
func findVisible(p *rod.Page, pat clickPattern) ([]*rod.Element, error) {
	els, err := p.Elements(pat.Selector)
	if err != nil {
		return nil, err
	}
	var out []*rod.Element
	for _, el := range els {
		if pat.Text != "" {
			text, textErr := el.Text()
			if textErr != nil || !strings.Contains(text, pat.Text) {
				continue
			}
		}
		visible, visErr := el.Visible()
		if visErr != nil || !visible {
			continue
		}
		out = append(out, el)
	}
	return out, nil
}

// pause sleeps for d unless the page context expires first.
func pause(p *rod.Page, d time.Duration) {
	select {
	case <-time.After(d):
	case <-p.GetContext().Done():
	}
}

// waitQuiescent waits up to timeout for the page to have no in-flight
// network requests for a settling period. Returns whether quiescence was
// reached before the timeout.
func waitQuiescent(p *rod.Page, timeout time.Duration) bool {
	pt := p.Timeout(timeout)
	defer pt.CancelTimeout()
	wait := pt.WaitRequestIdle(requestIdlePeriod, nil, nil, nil)
	wait()
	return pt.GetContext().Err() == nil
}

// clickTabs activates tab-like controls: for each pattern, up to
// maxTabClicks visible matches are clicked with a short pause between
// clicks. Each successful click records the pattern in the log.
func clickTabs(p *rod.Page, ia *models.Interactions, errs *[]models.ErrorItem) {
	for _, pat := range tabPatterns {
		els, err := findVisible(p, pat)
		if err != nil {
			*errs = append(*errs, models.NewErrorItem(models.PhaseInteraction,
				fmt.Sprintf("tab click error: %.50s", err.Error())))
			continue
		}
		if len(els) > maxTabClicks {
			els = els[:maxTabClicks]
		}
		for _, el := range els {
			if clickErr := el.Click(proto.InputMouseButtonLeft, 1); clickErr != nil {
				continue
			}
			ia.Clicks = append(ia.Clicks, pat.String())
			pause(p, tabClickDelay)
		}
	}
}

// clickLoadMore expands "load more" content: for each pattern, the first
// visible match is clicked repeatedly (up to maxLoadMoreClicks) until no
// visible match remains.
func clickLoadMore(p *rod.Page, ia *models.Interactions, errs *[]models.ErrorItem) {
	for _, pat := range loadMorePatterns {
		for i := 0; i < maxLoadMoreClicks; i++ {
			els, err := findVisible(p, pat)
			if err != nil {
				*errs = append(*errs, models.NewErrorItem(models.PhaseInteraction,
					fmt.Sprintf("load more error: %.50s", err.Error())))
				break
			}
			if len(els) == 0 {
				break
			}
			if clickErr := els[0].Click(proto.InputMouseButtonLeft, 1); clickErr != nil {
				break
			}
			ia.Clicks = append(ia.Clicks, pat.String())
			pause(p, loadMoreDelay)
		}
	}
}

// performScrolls scrolls to the document bottom scrollCount times, waiting
// after each scroll and opportunistically waiting for network quiescence so
// lazy-loaded content can land.
func performScrolls(p *rod.Page, ia *models.Interactions, errs *[]models.ErrorItem) {
	for i := 0; i < scrollCount; i++ {
		if _, err := p.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
			*errs = append(*errs, models.NewErrorItem(models.PhaseInteraction,
				fmt.Sprintf("scroll error: %.50s", err.Error())))
			return
		}
		ia.Scrolls++
		pause(p, scrollDelay)
		waitQuiescent(p, scrollIdleTimeout)
	}
}

// nextLink is the clickable surface of a pagination candidate.
type nextLink interface {
	Click(button proto.InputMouseButton, clickCount int) error
}

// followPagination follows up to maxPageFollows "next page" links whose
// target has not been visited yet, waiting for quiescence (or a fixed delay)
// after each follow and logging newly reached URLs.
func followPagination(p *rod.Page, ia *models.Interactions, errs *[]models.ErrorItem) {
	followNextLinks(ia, errs,
		func(pages []string) nextLink {
			if el := nextPageLink(p, pages); el != nil {
				return el
			}
			return nil
		},
		func() {
			if !waitQuiescent(p, paginationIdleTimeout) {
				pause(p, paginationFallbackDelay)
			}
		},
		func() string { return currentURL(p) },
	)
}

// followNextLinks is the pagination follow loop. A failed click is recorded
// and the next iteration rescans for another candidate; only the absence of
// an unvisited candidate ends the stage early.
func followNextLinks(ia *models.Interactions, errs *[]models.ErrorItem,
	find func(pages []string) nextLink, settle func(), current func() string) {
	for follow := 0; follow < maxPageFollows; follow++ {
		next := find(ia.Pages)
		if next == nil {
			return
		}

		if err := next.Click(proto.InputMouseButtonLeft, 1); err != nil {
			*errs = append(*errs, models.NewErrorItem(models.PhaseInteraction,
				fmt.Sprintf("pagination error: %.50s", err.Error())))
			continue
		}

		settle()

		if cur := current(); cur != "" && !visited(ia.Pages, cur) {
			ia.Pages = append(ia.Pages, cur)
		}
	}
}

// nextPageLink scans the pagination patterns for the first visible link
// whose resolved href has not been visited.
func nextPageLink(p *rod.Page, pages []string) *rod.Element {
	for _, pat := range paginationPatterns {
		els, err := findVisible(p, pat)
		if err != nil || len(els) == 0 {
			continue
		}
		el := els[0]
		href, attrErr := el.Attribute("href")
		if attrErr != nil || href == nil || *href == "" {
			continue
		}
		if visited(pages, resolveHref(p, *href)) {
			continue
		}
		return el
	}
	return nil
}

// resolveHref makes href absolute against the page's current URL so visited
// checks compare like with like.
func resolveHref(p *rod.Page, href string) string {
	base := currentURL(p)
	if base == "" {
		return href
	}
	return absoluteOr(base, href)
}

func currentURL(p *rod.Page) string {
	info, err := p.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func visited(pages []string, url string) bool {
	for _, p := range pages {
		if p == url {
			return true
		}
	}
	return false
}
