package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lexcov"
)

// Link-dense elements shorter than this are treated as navigation.
const (
	maxLinkDensity  = 0.5
	minProseTextLen = 1200
)

// nonContentSelector matches elements that never carry article prose.
const nonContentSelector = "script, style, noscript, svg, form, iframe, picture, object, embed"

// noiseRe matches advertising, navigation, social and page-chrome vocabulary
// in tag names, classes and ids.
var noiseRe = regexp.MustCompile(`(?i)(advert|ads?|promo|sponsor|subscribe|newsletter|related|share|social|cookie|banner|signup|footer|header|nav|sidebar|outbrain|taboola)`)

// Prune removes boilerplate from doc in place and returns the number of
// elements removed. Running it again on the same document removes nothing.
//
// Non-content tags go first, then every element whose tag name, class or
// id matches the noise vocabulary, then link-dense elements with little
// text. The last pass repeats until it no longer removes anything, since
// each removal can change the density of the ancestors.
func Prune(doc *goquery.Document) int {
	nonContent := doc.Find(nonContentSelector)
	removed := nonContent.Length()
	nonContent.Remove()

	removed += removeWhere(doc.Selection, isNoise)
	for {
		n := removeWhere(doc.Selection, isLinkDense)
		if n == 0 {
			break
		}
		removed += n
	}
	return removed
}

// removeWhere walks the element tree top-down, removing every element
// matching fn without descending into it.
func removeWhere(sel *goquery.Selection, fn func(*goquery.Selection) bool) int {
	var removed int
	sel.Children().Each(func(_ int, child *goquery.Selection) {
		if fn(child) {
			child.Remove()
			removed++
			return
		}
		removed += removeWhere(child, fn)
	})
	return removed
}

func isNoise(sel *goquery.Selection) bool {
	if noiseRe.MatchString(goquery.NodeName(sel)) {
		return true
	}
	if class, ok := sel.Attr("class"); ok && noiseRe.MatchString(strings.Join(strings.Fields(class), " ")) {
		return true
	}
	id, ok := sel.Attr("id")
	return ok && noiseRe.MatchString(id)
}

func isLinkDense(sel *goquery.Selection) bool {
	return LinkDensity(sel) > maxLinkDensity && lexcov.TextLen(VisibleText(sel)) < minProseTextLen
}
