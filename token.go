package lexcov

import (
	"regexp"
	"strings"
)

var tokenRe = regexp.MustCompile(`[A-Za-z']+`)

// StopWords is the closed-class word set excluded from coverage tokens:
// articles, pronouns, common auxiliaries, conjunctions, prepositions and
// wh-words.
var StopWords = newWordSet(strings.Fields(`
a an the i you he she it we they me him her us them my your his her its our their
and or but so because although if when while as of in on at to for from with by
this that these those is am are was were be been being do does did will would can
could should might must not no nor than then there here who which what where why how
`))

// Tokenize lowercases text and returns every maximal run of ASCII letters
// and apostrophes. Digits, hyphens and all other characters separate tokens.
func Tokenize(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(text), -1)
}

// ContentTokens is like Tokenize but drops StopWords.
func ContentTokens(text string) []string {
	tokens := Tokenize(text)
	out := tokens[:0]
	for _, t := range tokens {
		if _, stop := StopWords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Counts maps a word to its number of occurrences.
type Counts map[string]int

// CountTokens builds the frequency table of tokens.
func CountTokens(tokens []string) Counts {
	counts := make(Counts, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

// WordSet is a set of lowercase words.
type WordSet map[string]struct{}

func newWordSet(words []string) WordSet {
	s := make(WordSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// NewWordSet builds a WordSet from words, lowercasing and trimming each one.
// Empty words are skipped.
func NewWordSet(words ...string) WordSet {
	s := make(WordSet, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		s[w] = struct{}{}
	}
	return s
}

// Has reports whether w is in the set.
func (s WordSet) Has(w string) bool {
	_, ok := s[w]
	return ok
}

// Union returns a new set holding the words of s and every other set.
func (s WordSet) Union(others ...WordSet) WordSet {
	out := make(WordSet, len(s))
	for w := range s {
		out[w] = struct{}{}
	}
	for _, o := range others {
		for w := range o {
			out[w] = struct{}{}
		}
	}
	return out
}
