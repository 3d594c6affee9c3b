package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pagelens/pagelens/config"
	"github.com/pagelens/pagelens/models"
)

func newTestScraper() *Scraper {
	return &Scraper{
		fetcher: newHTTPFetcher(""),
		scrapeCfg: config.ScrapeConfig{
			FetchTimeout: 5 * time.Second,
		},
	}
}

// richPage has enough visible text and a non-empty landmark section, so the
// static pass alone is sufficient.
var richPage = `<!DOCTYPE html>
<html lang="en"><head>
	<title>Rich Page</title>
	<meta name="description" content="plenty of server-rendered content">
</head><body>
	<main><p>` + strings.Repeat("server rendered text. ", 40) + `</p></main>
	<footer><p>about us and friends</p></footer>
</body></html>`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStaticPass_RichPage(t *testing.T) {
	srv := serve(t, http.StatusOK, richPage)
	s := newTestScraper()

	res := s.staticPass(context.Background(), srv.URL)

	if res.needsRender {
		t.Error("rich static page should not escalate to render")
	}
	if len(res.errors) != 0 {
		t.Errorf("unexpected errors: %+v", res.errors)
	}
	if res.meta.Title != "Rich Page" {
		t.Errorf("title = %q, want %q", res.meta.Title, "Rich Page")
	}
	if len(res.sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(res.sections))
	}
	if res.sections[0].ID != "section-0" || res.sections[1].ID != "footer-0" {
		t.Errorf("unexpected section ids: %q, %q", res.sections[0].ID, res.sections[1].ID)
	}
}

func TestStaticPass_SparsePageEscalates(t *testing.T) {
	srv := serve(t, http.StatusOK, `<html><body><div id="root"></div></body></html>`)
	s := newTestScraper()

	res := s.staticPass(context.Background(), srv.URL)

	if !res.needsRender {
		t.Error("SPA shell should escalate to render")
	}
	if len(res.errors) != 0 {
		t.Errorf("a thin page is not an error: %+v", res.errors)
	}
}

func TestStaticPass_HTTPErrorEscalates(t *testing.T) {
	srv := serve(t, http.StatusNotFound, "not found")
	s := newTestScraper()

	res := s.staticPass(context.Background(), srv.URL)

	if !res.needsRender {
		t.Error("fetch failure should escalate to render")
	}
	if len(res.errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(res.errors))
	}
	if res.errors[0].Phase != models.PhaseFetch {
		t.Errorf("phase = %q, want %q", res.errors[0].Phase, models.PhaseFetch)
	}
	if res.errors[0].Message != "HTTP 404" {
		t.Errorf("message = %q, want %q", res.errors[0].Message, "HTTP 404")
	}
	if len(res.sections) != 0 {
		t.Errorf("failed fetch should yield no sections, got %d", len(res.sections))
	}
}

func TestStaticPass_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	s := newTestScraper()
	s.scrapeCfg.FetchTimeout = 50 * time.Millisecond

	res := s.staticPass(context.Background(), srv.URL)

	if !res.needsRender {
		t.Error("timeout should escalate to render")
	}
	if len(res.errors) != 1 || res.errors[0].Message != "Request timeout" {
		t.Errorf("expected a single 'Request timeout' error, got %+v", res.errors)
	}
}

// TestScrape_EscalatesToRender exercises the escalation wiring: a sparse
// page must trigger the render pass, and the merged result must carry the
// rendered pass's sections and its pages log seeded with the original URL.
func TestScrape_EscalatesToRender(t *testing.T) {
	srv := serve(t, http.StatusOK, `<html><body><div id="root"></div></body></html>`)
	s := newTestScraper()

	var renderCalled bool
	s.renderFn = func(ctx context.Context, pageURL string, haveStaticTitle bool) renderResult {
		renderCalled = true
		if haveStaticTitle {
			t.Error("sparse page has no title, haveStaticTitle should be false")
		}
		return renderResult{
			meta:     models.MetaData{Title: "Rendered Title"},
			hasMeta:  true,
			sections: []models.Section{{ID: "section-0", Content: models.SectionContent{Text: "script rendered content"}}},
			errors:   []models.ErrorItem{},
			interactions: models.Interactions{
				Clicks: []string{`button:has-text("Load more")`},
				Pages:  []string{pageURL},
			},
		}
	}

	result := s.Scrape(context.Background(), srv.URL)

	if !renderCalled {
		t.Fatal("sparse page must invoke the render pass")
	}
	if result.Meta.Title != "Rendered Title" {
		t.Errorf("title = %q, want the rendered title", result.Meta.Title)
	}
	found := false
	for _, sec := range result.Sections {
		if sec.ID == "section-0" && sec.Content.Text == "script rendered content" {
			found = true
		}
	}
	if !found {
		t.Errorf("merged sections missing the rendered section: %+v", result.Sections)
	}
	if len(result.Interactions.Pages) == 0 || result.Interactions.Pages[0] != srv.URL {
		t.Errorf("pages log should be seeded with the original URL, got %v", result.Interactions.Pages)
	}
}

// TestScrape_StaticOnly exercises the full Scrape pipeline on a page that
// never escalates, so no browser is needed.
func TestScrape_StaticOnly(t *testing.T) {
	srv := serve(t, http.StatusOK, richPage)
	s := newTestScraper()

	result := s.Scrape(context.Background(), srv.URL)

	if result.URL != srv.URL {
		t.Errorf("url = %q, want %q", result.URL, srv.URL)
	}
	if _, err := time.Parse("2006-01-02T15:04:05Z", result.ScrapedAt); err != nil {
		t.Errorf("scrapedAt %q is not the expected UTC format: %v", result.ScrapedAt, err)
	}
	if len(result.Sections) == 0 {
		t.Error("expected sections from the static pass")
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %+v", result.Errors)
	}
	if len(result.Interactions.Pages) != 1 || result.Interactions.Pages[0] != srv.URL {
		t.Errorf("pages should be seeded with the original URL, got %v", result.Interactions.Pages)
	}
	if result.Interactions.Scrolls != 0 || len(result.Interactions.Clicks) != 0 {
		t.Errorf("static-only scrape should record no interactions: %+v", result.Interactions)
	}
}
