package scraper

import (
	"errors"
	"testing"

	"github.com/go-rod/rod/lib/proto"

	"github.com/pagelens/pagelens/models"
)

type fakeLink struct {
	err error
}

func (f *fakeLink) Click(_ proto.InputMouseButton, _ int) error {
	return f.err
}

func TestClickPatternString(t *testing.T) {
	tests := []struct {
		pattern clickPattern
		want    string
	}{
		{clickPattern{Selector: `[role="tab"]`}, `[role="tab"]`},
		{clickPattern{Selector: "button", Text: "Load more"}, `button:has-text("Load more")`},
		{clickPattern{Selector: "a", Text: "Next"}, `a:has-text("Next")`},
	}

	for _, tt := range tests {
		if got := tt.pattern.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestVisited(t *testing.T) {
	pages := []string{"https://example.com/", "https://example.com/page/2"}

	if !visited(pages, "https://example.com/page/2") {
		t.Error("expected page 2 to be visited")
	}
	if visited(pages, "https://example.com/page/3") {
		t.Error("page 3 was never visited")
	}
}

func TestFollowNextLinks_ClickFailureContinues(t *testing.T) {
	ia := models.NewInteractions("https://example.com/list")
	var errs []models.ErrorItem

	links := []nextLink{
		&fakeLink{err: errors.New("element detached")},
		&fakeLink{},
	}
	urls := []string{"https://example.com/list", "https://example.com/list?page=2"}
	finds := 0

	followNextLinks(&ia, &errs,
		func(pages []string) nextLink {
			link := links[finds%len(links)]
			finds++
			return link
		},
		func() {},
		func() string { return urls[(finds-1)%len(urls)] },
	)

	if finds != maxPageFollows {
		t.Errorf("a dead link must not end the stage: %d finds, want %d", finds, maxPageFollows)
	}
	if len(errs) != 1 || errs[0].Phase != models.PhaseInteraction {
		t.Fatalf("expected 1 interaction error, got %+v", errs)
	}
	if len(ia.Pages) != 2 || ia.Pages[1] != "https://example.com/list?page=2" {
		t.Errorf("second follow should log the new page, got %v", ia.Pages)
	}
}

func TestFollowNextLinks_NoCandidateEndsStage(t *testing.T) {
	ia := models.NewInteractions("https://example.com/")
	var errs []models.ErrorItem
	finds := 0

	followNextLinks(&ia, &errs,
		func(pages []string) nextLink {
			finds++
			return nil
		},
		func() {},
		func() string { return "" },
	)

	if finds != 1 {
		t.Errorf("stage should end on the first empty scan, got %d finds", finds)
	}
	if len(errs) != 0 || len(ia.Pages) != 1 {
		t.Errorf("no candidate means no errors and no new pages: %+v %v", errs, ia.Pages)
	}
}

func TestAbsoluteOr(t *testing.T) {
	tests := []struct {
		base, href, want string
	}{
		{"https://example.com/list/page/1", "/list/page/2", "https://example.com/list/page/2"},
		{"https://example.com/list/", "page/2", "https://example.com/list/page/2"},
		{"https://example.com/", "https://other.example.org/x", "https://other.example.org/x"},
	}

	for _, tt := range tests {
		if got := absoluteOr(tt.base, tt.href); got != tt.want {
			t.Errorf("absoluteOr(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}
