package lexcov

import (
	"encoding/csv"
	"regexp"
	"strings"
)

var (
	listHeaderRe = regexp.MustCompile(`(?i)^(ngsl|nawl|spoken.*ver|version|copyright|corpus|cambridge)`)
	bareWordRe   = regexp.MustCompile(`^[A-Za-z-]+$`)
	listWordRe   = regexp.MustCompile(`^[a-z\-']+$`)
)

// ParseWordList extracts the words of a published vocabulary list.
//
// The input may be a plain one-word-per-line file or a comma or tab
// separated table whose first column holds the word; the delimiter is
// sniffed from the first five content lines. Blank lines, comment lines
// starting with "#" or "//" and prose header lines are skipped. Words are
// lowercased, must consist of letters, hyphens and apostrophes only, and
// are returned once each in their first-seen order.
func ParseWordList(raw string) []string {
	raw = strings.ReplaceAll(raw, "\ufeff", "")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		s := strings.TrimSpace(line)
		switch {
		case s == "":
			continue
		case strings.HasPrefix(s, "#"), strings.HasPrefix(s, "//"):
			continue
		case isListHeader(s):
			continue
		}
		lines = append(lines, s)
	}

	var candidates []string
	if delim, ok := sniffDelimiter(lines); ok {
		r := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
		r.Comma = delim
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
		r.ReuseRecord = true
		for {
			row, err := r.Read()
			if err != nil {
				// io.EOF or a malformed row; the remainder cannot be read reliably.
				break
			}
			if len(row) == 0 {
				continue
			}
			candidates = append(candidates, row[0])
		}
	} else {
		candidates = lines
	}

	seen := make(WordSet)
	var words []string
	for _, c := range candidates {
		w := strings.ToLower(strings.TrimSpace(c))
		if w == "" || !listWordRe.MatchString(w) || seen.Has(w) {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}

// isListHeader reports whether s looks like a title or copyright line.
// A single word such as "version" is still a word.
func isListHeader(s string) bool {
	if !listHeaderRe.MatchString(s) {
		return false
	}
	return strings.ContainsAny(s, " \t\v\f") && !bareWordRe.MatchString(s)
}

func sniffDelimiter(lines []string) (rune, bool) {
	sample := lines[:min(len(lines), 5)]
	for _, delim := range []string{",", "\t"} {
		for _, s := range sample {
			if strings.Contains(s, delim) {
				return rune(delim[0]), true
			}
		}
	}
	return 0, false
}
