package goquery

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lexcov"
)

// minStructuredBodyLen is the body length a structured-data article must
// exceed to be trusted without further heuristics.
const minStructuredBodyLen = 300

// articleTypes are the lowercased schema.org types treated as articles.
var articleTypes = map[string]bool{
	"article":     true,
	"newsarticle": true,
	"blogposting": true,
}

// ldBlock is one decoded <script type="application/ld+json"> block.
// Either objects holds the decoded JSON objects, or malformed is set and
// raw keeps the undecodable text.
type ldBlock struct {
	objects   []map[string]any
	raw       string
	malformed bool
}

func parseLDBlock(raw string) ldBlock {
	var v any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &v); err != nil {
		return ldBlock{raw: raw, malformed: true}
	}
	return ldBlock{objects: collectObjects(v, nil)}
}

// collectObjects flattens objects, arrays of objects and @graph arrays.
func collectObjects(v any, out []map[string]any) []map[string]any {
	switch v := v.(type) {
	case []any:
		for _, item := range v {
			out = collectObjects(item, out)
		}
	case map[string]any:
		out = append(out, v)
		if graph, ok := v["@graph"]; ok {
			out = collectObjects(graph, out)
		}
	}
	return out
}

// ldArticle is an article declared in structured data.
type ldArticle struct {
	Title string
	Body  string
}

// isArticle reports whether the object's @type, a string or a list of
// strings, names an article type.
func isArticle(obj map[string]any) bool {
	switch typ := obj["@type"].(type) {
	case string:
		return articleTypes[strings.ToLower(typ)]
	case []any:
		for _, t := range typ {
			if s, ok := t.(string); ok && articleTypes[strings.ToLower(s)] {
				return true
			}
		}
	}
	return false
}

// firstString returns the first key of obj holding a non-blank string.
func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// structuredArticle returns the first article declared in the document's
// JSON-LD blocks whose body is long enough. Malformed blocks are skipped.
func structuredArticle(doc *goquery.Document) (ldArticle, bool) {
	var found ldArticle
	var ok bool
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if typ, _ := s.Attr("type"); !strings.EqualFold(strings.TrimSpace(typ), "application/ld+json") {
			return true
		}
		block := parseLDBlock(s.Text())
		if block.malformed {
			return true
		}
		for _, obj := range block.objects {
			if !isArticle(obj) {
				continue
			}
			body := firstString(obj, "articleBody", "description")
			if lexcov.TextLen(body) <= minStructuredBodyLen {
				continue
			}
			found = ldArticle{
				Title: firstString(obj, "headline", "name"),
				Body:  lexcov.NormalizeText(body),
			}
			ok = true
			return false
		}
		return true
	})
	return found, ok
}
