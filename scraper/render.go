package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/pagelens/pagelens/extract"
	"github.com/pagelens/pagelens/models"
)

// renderResult carries the outcome of an interactive render pass.
type renderResult struct {
	meta         models.MetaData
	hasMeta      bool
	sections     []models.Section
	errors       []models.ErrorItem
	interactions models.Interactions
}

// renderPass drives a headless page through the interaction pipeline and
// re-runs extraction on the settled document.
//
// Lifecycle:
//
//  1. Open a fresh page for this request; defer Close on every exit path.
//  2. Stealth injection + browser-like Referer (before navigation).
//  3. Navigate: network-idle wait, retried once with a weaker
//     DOMContentLoaded wait; a second failure ends the pass.
//  4. Settle pause.
//  5. Interaction stages: tabs → load more → scrolls → pagination.
//     Each stage is independent; failures are logged, never fatal.
//  6. Capture the document, strip noise, re-extract metadata (only when the
//     static pass produced no usable title) and sections.
//
// Pages are never shared across requests. Step 2 must precede step 3:
// stealth JS and extra headers only apply to navigations after they are
// installed.
func (s *Scraper) renderPass(ctx context.Context, pageURL string, haveStaticTitle bool) renderResult {
	res := renderResult{
		sections:     []models.Section{},
		errors:       []models.ErrorItem{},
		interactions: models.NewInteractions(pageURL),
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		res.errors = append(res.errors, models.NewErrorItem(models.PhaseRender,
			fmt.Sprintf("Browser error: %.50s", err.Error())))
		return res
	}
	// Close uses the original page reference so teardown succeeds even
	// after the request context has expired.
	defer func() { _ = page.Close() }()

	if s.browserCfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
		}
	}
	setBrowserHeaders(page, pageURL)

	p := page.Context(ctx)

	if navErr := s.navigate(p, pageURL); navErr != nil {
		res.errors = append(res.errors, models.NewErrorItem(models.PhaseRender,
			fmt.Sprintf("Navigation failed: %.50s", navErr.Error())))
		return res
	}

	pause(p, s.scrapeCfg.SettleDelay)

	clickTabs(p, &res.interactions, &res.errors)
	clickLoadMore(p, &res.interactions, &res.errors)
	performScrolls(p, &res.interactions, &res.errors)
	followPagination(p, &res.interactions, &res.errors)

	rawHTML, htmlErr := p.HTML()
	if htmlErr != nil {
		res.errors = append(res.errors, models.NewErrorItem(models.PhaseRender,
			fmt.Sprintf("Capture failed: %.50s", htmlErr.Error())))
		return res
	}

	doc, parseErr := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if parseErr != nil {
		res.errors = append(res.errors, models.NewErrorItem(models.PhaseParse,
			fmt.Sprintf("Parse error: %.50s", parseErr.Error())))
		return res
	}

	extract.RemoveNoise(doc)
	if !haveStaticTitle {
		res.meta = extract.Metadata(doc, pageURL)
		res.hasMeta = true
	}
	res.sections = extract.Sections(doc, pageURL)

	return res
}

// navigate loads the URL waiting for network idle; on failure it retries
// once with the weaker DOMContentLoaded wait and a shorter deadline.
func (s *Scraper) navigate(p *rod.Page, pageURL string) error {
	err := navigateAndWait(p, pageURL, proto.PageLifecycleEventNameNetworkIdle, s.scrapeCfg.NavTimeout)
	if err == nil {
		return nil
	}
	slog.Debug("primary navigation failed, retrying with weaker wait",
		"url", pageURL, "error", err)
	return navigateAndWait(p, pageURL, proto.PageLifecycleEventNameDOMContentLoaded, s.scrapeCfg.NavRetryTimeout)
}

// navigateAndWait navigates and blocks until the lifecycle event fires or
// the deadline passes. The wait listener is registered before Navigate so
// an early event is not missed.
func navigateAndWait(p *rod.Page, pageURL string, event proto.PageLifecycleEventName, timeout time.Duration) error {
	pt := p.Timeout(timeout)
	defer pt.CancelTimeout()

	wait := pt.WaitNavigation(event)
	if err := pt.Navigate(pageURL); err != nil {
		return err
	}
	wait()

	if ctxErr := pt.GetContext().Err(); ctxErr != nil {
		return ctxErr
	}
	return nil
}

// setBrowserHeaders installs a plausible Referer for the landing navigation.
func setBrowserHeaders(page *rod.Page, pageURL string) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return
	}
	headers := proto.NetworkHeaders{
		"Referer": gson.New("https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())),
	}
	_ = proto.NetworkSetExtraHTTPHeaders{Headers: headers}.Call(page)
}

// absoluteOr resolves href against base, returning href unchanged when
// either side fails to parse.
func absoluteOr(base, href string) string {
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
