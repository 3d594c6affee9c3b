package scraper

import (
	"context"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"

	"github.com/pagelens/pagelens/config"
	"github.com/pagelens/pagelens/models"
)

// Scraper owns the shared browser process and the static HTTP fetcher.
// Render passes open a fresh page per request; nothing else is shared
// between requests, so Scraper is safe for concurrent use.
type Scraper struct {
	browser    *rod.Browser
	fetcher    *httpFetcher
	browserCfg config.BrowserConfig
	scrapeCfg  config.ScrapeConfig

	// renderFn runs the render pass; defaults to renderPass. Tests swap it
	// to exercise the escalation wiring without a browser.
	renderFn func(ctx context.Context, pageURL string, haveStaticTitle bool) renderResult
}

// NewScraper launches a headless browser and connects to it. Close must be
// called on shutdown to kill the browser process.
func NewScraper(browserCfg config.BrowserConfig, scrapeCfg config.ScrapeConfig) (*Scraper, error) {
	l := launcher.New().
		Headless(browserCfg.Headless).
		NoSandbox(browserCfg.NoSandbox)

	if browserCfg.BrowserBin != "" {
		l = l.Bin(browserCfg.BrowserBin)
	}
	if browserCfg.DefaultProxy != "" {
		l = l.Proxy(browserCfg.DefaultProxy)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	s := &Scraper{
		browser:    browser,
		fetcher:    newHTTPFetcher(browserCfg.DefaultProxy),
		browserCfg: browserCfg,
		scrapeCfg:  scrapeCfg,
	}
	s.renderFn = s.renderPass
	return s, nil
}

// Close kills the browser process. Call this on graceful shutdown to
// prevent zombie Chrome processes.
func (s *Scraper) Close() {
	slog.Info("scraper shutting down: closing browser")
	if s.browser != nil {
		_ = s.browser.Close()
	}
	slog.Info("scraper shutdown complete")
}
