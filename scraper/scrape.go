package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/pagelens/pagelens/models"
)

// Scrape runs the full pipeline for one URL: static pass → escalation
// decision → optional render pass → merge. It never fails outright; every
// call returns a ScrapeResult with an accumulated, phase-tagged error list.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) *models.ScrapeResult {
	result := &models.ScrapeResult{
		URL:          pageURL,
		ScrapedAt:    time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		Interactions: models.NewInteractions(pageURL),
	}

	static := s.staticPass(ctx, pageURL)
	result.Meta = static.meta
	result.Sections = static.sections
	result.Errors = static.errors

	if !static.needsRender {
		return result
	}

	slog.Debug("escalating to render pass",
		"url", pageURL,
		"staticSections", len(static.sections),
		"staticErrors", len(static.errors),
	)

	render := s.renderFn
	if render == nil {
		render = s.renderPass
	}
	rendered := render(ctx, pageURL, static.meta.Title != "")

	if rendered.hasMeta && rendered.meta.Title != "" {
		result.Meta = rendered.meta
	}
	result.Sections = MergeSections(static.sections, rendered.sections)
	result.Errors = append(result.Errors, rendered.errors...)
	result.Interactions = rendered.interactions

	return result
}
