package adapters

import (
	"github.com/ppiankov/lockscore/internal/extract"
)

// TextAdapter normalizes plain text and markdown contracts
type TextAdapter struct {
	BaseAdapter
}

// NewTextAdapter creates a new text adapter
func NewTextAdapter() *TextAdapter {
	return &TextAdapter{}
}

// Name returns the adapter name
func (a *TextAdapter) Name() string {
	return "text"
}

// CanHandle accepts text/plain, text/markdown and .txt/.md files
func (a *TextAdapter) CanHandle(name string, contentType string) bool {
	switch a.mediaType(contentType) {
	case "text/plain", "text/markdown", "text/x-markdown":
		return true
	case "":
		switch a.extension(name) {
		case ".txt", ".text", ".md", ".markdown":
			return true
		}
	}
	return false
}

// Normalize collapses whitespace but keeps paragraph breaks, which the
// section splitter relies on
func (a *TextAdapter) Normalize(raw string) string {
	return extract.NormalizeText(raw)
}
