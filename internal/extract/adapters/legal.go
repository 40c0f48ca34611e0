package adapters

import (
	"strings"

	"github.com/ppiankov/lockscore/internal/extract"
	"golang.org/x/net/html"
)

// LegalAdapter normalizes hosted legal pages (terms of service, customer
// agreements) by reading only the main content region, so site chrome
// around the agreement does not produce sections.
type LegalAdapter struct {
	BaseAdapter
	html      *HTMLAdapter
	pathHints []string
}

// NewLegalAdapter creates a new legal page adapter
func NewLegalAdapter() *LegalAdapter {
	return &LegalAdapter{
		html: NewHTMLAdapter(),
		pathHints: []string{
			"/legal", "/terms", "/tos", "/eula", "/agreement",
			"/service-terms", "/customer-agreement", "/subscription-agreement",
			"_tos", "_terms", "-terms", "_agreement",
		},
	}
}

// Name returns the adapter name
func (a *LegalAdapter) Name() string {
	return "legal"
}

// CanHandle checks for an HTML source whose name looks like a legal page
func (a *LegalAdapter) CanHandle(name string, contentType string) bool {
	if !a.html.CanHandle(name, contentType) {
		return false
	}

	lower := strings.ToLower(name)
	for _, hint := range a.pathHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// Normalize narrows the document to <main>, <article> or role="main"
// and falls back to the whole page when none is present
func (a *LegalAdapter) Normalize(raw string) string {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return ""
	}

	main := a.FindFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "main"
	})
	if main == nil {
		main = a.FindFirst(doc, func(n *html.Node) bool {
			return n.Type == html.ElementNode &&
				(n.Data == "article" || a.GetAttribute(n, "role") == "main")
		})
	}
	if main == nil {
		return a.html.Normalize(raw)
	}

	var buf strings.Builder
	if err := html.Render(&buf, main); err != nil {
		return a.html.Normalize(raw)
	}

	text := extract.NormalizeHTML(buf.String())
	if text == "" {
		return a.html.Normalize(raw)
	}
	return text
}
