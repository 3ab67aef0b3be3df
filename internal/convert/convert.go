// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns fetched description pages into the plain clause
// text the extraction engine consumes. eFlora pages arrive as HTML; plain
// text passes through unchanged.
// See docs/ARCHITECTURE § Ingest.
package convert

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// skipElements are non-content HTML elements whose text is never part of
// a description.
var skipElements = map[string]bool{
	"script": true,
	"style":  true,
	"nav":    true,
	"header": true,
	"footer": true,
	"head":   true,
}

// blockElements introduce a break between text runs so clause labels
// don't fuse with preceding prose.
var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "td": true, "th": true,
	"tr": true, "br": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "blockquote": true,
}

// ToText converts page content to plain description text. HTML is
// stripped to its visible text with whitespace normalized; anything that
// doesn't look like HTML is returned trimmed as-is.
func ToText(data []byte) (string, error) {
	if !looksLikeHTML(data) {
		return strings.TrimSpace(string(data)), nil
	}

	doc, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipElements[n.Data] {
				return
			}
			if blockElements[n.Data] {
				writeBreak(&b)
			}
		}
		if n.Type == html.TextNode {
			if t := collapseSpace(n.Data); t != "" {
				if b.Len() > 0 && !endsWithBreak(&b) {
					b.WriteByte(' ')
				}
				b.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(b.String()), nil
}

// looksLikeHTML sniffs for a markup prefix. Descriptions saved as plain
// text skip the HTML pass entirely.
func looksLikeHTML(data []byte) bool {
	head := strings.ToLower(strings.TrimSpace(string(data[:min(len(data), 256)])))
	return strings.HasPrefix(head, "<!doctype") ||
		strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<body") ||
		strings.Contains(head, "<p>") ||
		strings.Contains(head, "<div")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func writeBreak(b *strings.Builder) {
	if b.Len() > 0 && !endsWithBreak(b) {
		b.WriteByte('\n')
	}
}

func endsWithBreak(b *strings.Builder) bool {
	s := b.String()
	return len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == ' ')
}
