package adapters

import (
	"path"
	"strings"

	"golang.org/x/net/html"
)

// Adapter turns one source format into normalized contract text
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter can handle a source with the given
	// name (file path or URL) and content type
	CanHandle(name string, contentType string) bool

	// Normalize converts raw source content into flat contract text
	Normalize(raw string) string
}

// Registry manages format adapters
type Registry struct {
	adapters []Adapter
	fallback Adapter
}

// NewRegistry creates a registry with the built-in adapters.
// Order matters: the legal-page adapter is more specific than plain HTML.
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make([]Adapter, 0),
	}

	registry.Register(NewLegalAdapter())
	registry.Register(NewHTMLAdapter())
	registry.Register(NewTextAdapter())

	registry.fallback = NewTextAdapter()

	return registry
}

// Register registers a new adapter
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// Find returns the first adapter that handles the source, or the text
// adapter when none does
func (r *Registry) Find(name string, contentType string) Adapter {
	if adapter, ok := r.Lookup(name, contentType); ok {
		return adapter
	}
	return r.fallback
}

// Lookup is Find without the fallback
func (r *Registry) Lookup(name string, contentType string) (Adapter, bool) {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(name, contentType) {
			return adapter, true
		}
	}
	return nil, false
}

// Names lists registered adapters in match order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for _, a := range r.adapters {
		names = append(names, a.Name())
	}
	return names
}

// BaseAdapter provides common functionality for adapters
type BaseAdapter struct{}

// mediaType strips parameters from a content type: "text/html; charset=utf-8" -> "text/html"
func (b *BaseAdapter) mediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// extension returns the lowercase extension of a file path or URL path
func (b *BaseAdapter) extension(name string) string {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(path.Ext(name))
}

// GetAttribute gets an attribute value from a node
func (b *BaseAdapter) GetAttribute(n *html.Node, attrKey string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrKey {
			return attr.Val
		}
	}
	return ""
}

// FindFirst finds the first node matching a predicate, depth first
func (b *BaseAdapter) FindFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	var result *html.Node

	var walk func(*html.Node) bool
	walk = func(node *html.Node) bool {
		if predicate(node) {
			result = node
			return true
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	walk(n)
	return result
}
