package adapters

import (
	"github.com/ppiankov/lockscore/internal/extract"
)

// HTMLAdapter normalizes any HTML contract page
type HTMLAdapter struct {
	BaseAdapter
}

// NewHTMLAdapter creates a new HTML adapter
func NewHTMLAdapter() *HTMLAdapter {
	return &HTMLAdapter{}
}

// Name returns the adapter name
func (a *HTMLAdapter) Name() string {
	return "html"
}

// CanHandle accepts HTML content types and .html/.htm files
func (a *HTMLAdapter) CanHandle(name string, contentType string) bool {
	switch a.mediaType(contentType) {
	case "text/html", "application/xhtml+xml":
		return true
	case "":
		ext := a.extension(name)
		return ext == ".html" || ext == ".htm" || ext == ".xhtml"
	}
	return false
}

// Normalize extracts visible text from the whole document
func (a *HTMLAdapter) Normalize(raw string) string {
	return extract.NormalizeHTML(raw)
}
