package extract

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// skippedElements never contribute text to a normalized contract
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"nav":      true,
	"footer":   true,
	"header":   true,
}

// blockElements end the current line of text
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "figure": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"hr": true, "li": true, "main": true, "ol": true, "p": true, "pre": true,
	"section": true, "table": true, "td": true, "th": true, "title": true,
	"tr": true, "ul": true,
}

// NormalizeHTML converts contract markup into flat text: one line per
// block of visible text, whitespace collapsed, empty lines dropped.
// Unparseable input yields an empty string.
func NormalizeHTML(markup string) string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return ""
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.Data] {
			return
		}
		if n.Type == html.CommentNode {
			return
		}

		if n.Type == html.TextNode {
			// Source line breaks inside text are plain whitespace in HTML.
			buf.WriteString(strings.Map(flattenSpace, n.Data))
		}

		block := n.Type == html.ElementNode && blockElements[n.Data]
		if block {
			buf.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			buf.WriteByte('\n')
		}
	}

	walk(doc)
	return collapseLines(buf.String(), false)
}

func flattenSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return ' '
	}
	return r
}

// NormalizeText cleans plain-text or markdown contracts. Whitespace runs
// inside a line collapse to one space; runs of blank lines collapse to a
// single blank line so paragraph boundaries survive for the splitter.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return collapseLines(text, true)
}

func collapseLines(text string, keepParagraphs bool) string {
	var lines []string
	blank := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank = len(lines) > 0
			continue
		}
		if keepParagraphs && blank {
			lines = append(lines, "")
		}
		blank = false
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}
