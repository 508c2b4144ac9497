// Package goquery locates readable article text in noisy HTML using goquery.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lexcov"
	"golang.org/x/net/html"
)

// adTextRe matches promotional phrases; blocks and lines containing one
// are discarded.
var adTextRe = regexp.MustCompile(`(?i)(black\s*friday|buy\s*now|subscribe|sign\s*up|sponsored|deal(s)?|coupon|newsletter|shop|read\s*more|related\s*articles?)`)

var lineBreakRe = regexp.MustCompile(`[\r\n]+`)

// Elements whose text is never rendered.
var hiddenTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// VisibleText returns the rendered text of the selection: every text node
// trimmed, empty ones dropped, joined by single spaces.
func VisibleText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		parts = appendText(parts, n)
	}
	return strings.Join(parts, " ")
}

func appendText(parts []string, n *html.Node) []string {
	switch n.Type {
	case html.TextNode:
		if s := strings.TrimSpace(n.Data); s != "" {
			parts = append(parts, s)
		}
		return parts
	case html.ElementNode:
		if hiddenTags[n.Data] {
			return parts
		}
	case html.CommentNode, html.DoctypeNode:
		return parts
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		parts = appendText(parts, c)
	}
	return parts
}

// LinkDensity returns the share of the selection's visible text that sits
// inside anchors, between 0 and 1. A selection without visible text has
// density 1.
func LinkDensity(sel *goquery.Selection) float64 {
	textLen := lexcov.TextLen(VisibleText(sel))
	if textLen == 0 {
		return 1.0
	}
	var links []string
	sel.Find("a").Each(func(_ int, a *goquery.Selection) {
		links = append(links, VisibleText(a))
	})
	// Anchor texts are joined with a space, so empty or nested anchors can
	// push the ratio past one.
	return min(float64(lexcov.TextLen(strings.Join(links, " ")))/float64(textLen), 1.0)
}

// cleanLines drops lines containing promotional phrases and joins the rest
// with single spaces.
func cleanLines(text string) string {
	var kept []string
	for _, line := range lineBreakRe.Split(text, -1) {
		line = strings.TrimSpace(line)
		if line == "" || adTextRe.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, " ")
}
