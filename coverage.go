package lexcov

import (
	"fmt"
	"sort"
	"strings"
)

// Default list tags.
const (
	ListNGSL   = "NGSL"
	ListNAWL   = "NAWL"
	ListSpoken = "Spoken"
)

// MaxNonCore caps CoverageMetrics.TopNonCore.
const MaxNonCore = 20

// MaxAnalysisLen caps the length of FormatAnalysis output.
const MaxAnalysisLen = 1900

// CoverageConfig names the list tags that make up the aggregate figures.
type CoverageConfig struct {
	// WrittenTags form the written-register aggregate.
	WrittenTags []string `yaml:"written"`
	// SpokenTag is the spoken-register list.
	SpokenTag string `yaml:"spoken"`
	// Order is the preference order of per-list summary lines.
	Order []string `yaml:"order"`
}

// DefaultCoverageConfig treats NGSL and NAWL as the general and academic
// written vocabulary and NGSL-Spoken as the spoken vocabulary.
func DefaultCoverageConfig() CoverageConfig {
	return CoverageConfig{
		WrittenTags: []string{ListNGSL, ListNAWL},
		SpokenTag:   ListSpoken,
		Order:       []string{ListNGSL, ListNAWL, ListSpoken},
	}
}

// ListCoverage is the coverage of one list.
type ListCoverage struct {
	// Tokens counts list tokens after specialized terms were excluded.
	Tokens int `json:"tokens"`
	// TokensAll counts list tokens before exclusion.
	TokensAll int `json:"tokensAll"`
	// Percent is Tokens over the filtered token total.
	Percent float64 `json:"pct"`
}

// WordCount is a word with its number of occurrences.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// CoverageMetrics holds the lexical coverage of one text.
type CoverageMetrics struct {
	TokensTotal         int                     `json:"tokensTotal"`
	TokensTotalFiltered int                     `json:"tokensTotalFiltered"`
	PerList             map[string]ListCoverage `json:"perList"`
	WrittenTokens       int                     `json:"writtenTokens"`
	WrittenPercent      float64                 `json:"writtenPct"`
	SpokenTokens        int                     `json:"spokenTokens"`
	SpokenPercent       float64                 `json:"spokenPct"`
	TopNonCore          []WordCount             `json:"topNonCore"`

	// Unfiltered aggregates kept for older reports.
	TokensNGSL   int `json:"tokensNgsl"`
	TokensNAWL   int `json:"tokensNawl"`
	TokensSpoken int `json:"tokensSpoken"`
	TokensCore   int `json:"tokensCore"`
	TokensCoreEx int `json:"tokensCoreEx"`
}

// Coverage computes the coverage of text against the vocabulary lists.
//
// Stop words are always removed. Tokens in exclude (specialized or jargon
// terms, may be nil) are removed from the filtered counts and every
// percentage is computed over the filtered total; percentages are zero when
// no filtered tokens remain. Lists without words are omitted from PerList.
func Coverage(text string, wordsByList map[string]WordSet, exclude WordSet, cfg CoverageConfig) *CoverageMetrics {
	tokensAll := ContentTokens(text)
	countsAll := CountTokens(tokensAll)

	tokensFiltered := make([]string, 0, len(tokensAll))
	for _, t := range tokensAll {
		if exclude.Has(t) {
			continue
		}
		tokensFiltered = append(tokensFiltered, t)
	}
	countsFiltered := CountTokens(tokensFiltered)
	total := len(tokensFiltered)

	m := &CoverageMetrics{
		TokensTotal:         len(tokensAll),
		TokensTotalFiltered: total,
		PerList:             make(map[string]ListCoverage),
	}

	for tag, words := range wordsByList {
		if len(words) == 0 {
			continue
		}
		filtered := sumCounts(countsFiltered, words)
		m.PerList[tag] = ListCoverage{
			Tokens:    filtered,
			TokensAll: sumCounts(countsAll, words),
			Percent:   percent(filtered, total),
		}
	}

	written := make(WordSet)
	for _, tag := range cfg.WrittenTags {
		written = written.Union(wordsByList[tag])
	}
	m.WrittenTokens = sumCounts(countsFiltered, written)
	m.WrittenPercent = percent(m.WrittenTokens, total)
	m.SpokenTokens = sumCounts(countsFiltered, wordsByList[cfg.SpokenTag])
	m.SpokenPercent = percent(m.SpokenTokens, total)

	known := make(WordSet)
	for _, words := range wordsByList {
		known = known.Union(words)
	}
	m.TopNonCore = rankNonCore(tokensFiltered, countsFiltered, known)

	m.TokensNGSL = m.PerList[ListNGSL].TokensAll
	m.TokensNAWL = m.PerList[ListNAWL].TokensAll
	m.TokensSpoken = m.PerList[ListSpoken].TokensAll
	m.TokensCore = m.TokensNGSL + m.TokensNAWL
	m.TokensCoreEx = m.WrittenTokens

	return m
}

func sumCounts(counts Counts, words WordSet) int {
	var n int
	for w, c := range counts {
		if words.Has(w) {
			n += c
		}
	}
	return n
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// rankNonCore orders words missing from every list by descending count,
// breaking ties by first occurrence.
func rankNonCore(tokens []string, counts Counts, known WordSet) []WordCount {
	var ranked []WordCount
	seen := make(WordSet)
	for _, t := range tokens {
		if seen.Has(t) || known.Has(t) {
			continue
		}
		seen[t] = struct{}{}
		ranked = append(ranked, WordCount{Word: t, Count: counts[t]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > MaxNonCore {
		ranked = ranked[:MaxNonCore]
	}
	return ranked
}

// CoverageSummary renders the metrics as report lines: one line per list in
// cfg.Order (lists absent from the metrics are skipped), then the written
// and spoken aggregates.
func CoverageSummary(m *CoverageMetrics, cfg CoverageConfig) []string {
	var lines []string
	for _, tag := range cfg.Order {
		lc, ok := m.PerList[tag]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %d tokens (%.1f%% specialized-free)", tag, lc.Tokens, lc.Percent))
	}
	lines = append(lines,
		fmt.Sprintf("Written (%s): %d tokens (%.1f%% specialized-free)",
			strings.Join(cfg.WrittenTags, "+"), m.WrittenTokens, m.WrittenPercent),
		fmt.Sprintf("Spoken (%s): %d tokens (%.1f%% specialized-free)",
			cfg.SpokenTag, m.SpokenTokens, m.SpokenPercent),
	)
	return lines
}

// FormatNonCore renders TopNonCore as "word(count), word(count)".
func FormatNonCore(m *CoverageMetrics) string {
	parts := make([]string, 0, len(m.TopNonCore))
	for _, wc := range m.TopNonCore {
		parts = append(parts, fmt.Sprintf("%s(%d)", wc.Word, wc.Count))
	}
	return strings.Join(parts, ", ")
}

// FormatAnalysis renders the coverage block stored alongside an article:
// the summary lines, the top non-core words and the detected specialized
// terms, at most MaxAnalysisLen characters.
func FormatAnalysis(m *CoverageMetrics, cfg CoverageConfig, detected []string) string {
	var b strings.Builder
	b.WriteString("Coverage (specialized-free):\n")
	b.WriteString(strings.Join(CoverageSummary(m, cfg), "\n"))
	if nonCore := FormatNonCore(m); nonCore != "" {
		b.WriteString("\nTop non-core: ")
		b.WriteString(nonCore)
	}
	if len(detected) > 0 {
		b.WriteString("\nSpecialized terms (AI): ")
		b.WriteString(strings.Join(detected[:min(len(detected), MaxNonCore)], ", "))
	}
	return Truncate(b.String(), MaxAnalysisLen)
}
