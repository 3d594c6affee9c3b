package extract

import (
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/pagelens/pagelens/models"
)

// minStaticTextLen is the visible body text length below which the static
// pass is considered insufficient.
const minStaticTextLen = 500

// StaticOutcome summarizes a static pass for the render escalation decision.
type StaticOutcome struct {
	FetchFailed bool
	BodyTextLen int
	Sections    []models.Section
}

// NeedsRender reports whether an interactive render pass is required:
// the fetch failed, the visible body text is too short, no sections were
// extracted, or every extracted section has empty text.
func NeedsRender(o StaticOutcome) bool {
	if o.FetchFailed {
		return true
	}
	if o.BodyTextLen < minStaticTextLen {
		return true
	}
	if len(o.Sections) == 0 {
		return true
	}
	for _, s := range o.Sections {
		if s.Content.Text != "" {
			return false
		}
	}
	return true
}

// VisibleTextLength measures the trimmed visible text in <body>. Intended
// to run after RemoveNoise so scripts, styles, and hidden nodes do not
// inflate the count.
func VisibleTextLength(doc *goquery.Document) int {
	return utf8.RuneCountInString(trimmedText(doc.Find("body").First()))
}
