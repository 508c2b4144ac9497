package lexcov_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/lexcov"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLists() map[string]lexcov.WordSet {
	return map[string]lexcov.WordSet{
		lexcov.ListNGSL:   lexcov.NewWordSet("market", "price", "rise", "people"),
		lexcov.ListNAWL:   lexcov.NewWordSet("analysis", "volatility"),
		lexcov.ListSpoken: lexcov.NewWordSet("people", "yeah"),
	}
}

func TestCoverage(t *testing.T) {
	t.Parallel()

	cfg := lexcov.DefaultCoverageConfig()

	t.Run("computes per-list and aggregate figures", func(t *testing.T) {
		t.Parallel()

		text := "The market price will rise. People watch market analysis and blockchain volatility."

		m := lexcov.Coverage(text, testLists(), nil, cfg)

		// market price rise people watch market analysis blockchain volatility
		assert.Equal(t, 9, m.TokensTotal)
		assert.Equal(t, 9, m.TokensTotalFiltered)
		assert.Equal(t, 5, m.PerList[lexcov.ListNGSL].Tokens)
		assert.Equal(t, 2, m.PerList[lexcov.ListNAWL].Tokens)
		assert.Equal(t, 1, m.PerList[lexcov.ListSpoken].Tokens)
		assert.Equal(t, 7, m.WrittenTokens)
		assert.InDelta(t, 700.0/9, m.WrittenPercent, 1e-9)
		assert.Equal(t, 1, m.SpokenTokens)
		assert.Equal(t, []lexcov.WordCount{{Word: "watch", Count: 1}, {Word: "blockchain", Count: 1}}, m.TopNonCore)
	})

	t.Run("excludes specialized terms from the filtered figures", func(t *testing.T) {
		t.Parallel()

		text := "Blockchain blockchain market volatility"
		exclude := lexcov.NewWordSet("blockchain", "volatility")

		m := lexcov.Coverage(text, testLists(), exclude, cfg)

		assert.Equal(t, 4, m.TokensTotal)
		assert.Equal(t, 1, m.TokensTotalFiltered)
		assert.Equal(t, 0, m.PerList[lexcov.ListNAWL].Tokens)
		assert.Equal(t, 1, m.PerList[lexcov.ListNAWL].TokensAll)
		assert.InDelta(t, 100.0, m.PerList[lexcov.ListNGSL].Percent, 1e-9)
		assert.Empty(t, m.TopNonCore)
	})

	t.Run("fills the legacy aggregates from unfiltered counts", func(t *testing.T) {
		t.Parallel()

		text := "market analysis volatility people"
		exclude := lexcov.NewWordSet("analysis")

		m := lexcov.Coverage(text, testLists(), exclude, cfg)

		assert.Equal(t, 2, m.TokensNGSL)
		assert.Equal(t, 2, m.TokensNAWL)
		assert.Equal(t, 1, m.TokensSpoken)
		assert.Equal(t, 4, m.TokensCore)
		assert.Equal(t, 3, m.TokensCoreEx)
	})

	t.Run("reports zero percentages for empty text", func(t *testing.T) {
		t.Parallel()

		m := lexcov.Coverage("the and of", testLists(), nil, cfg)

		assert.Zero(t, m.TokensTotalFiltered)
		for tag, lc := range m.PerList {
			assert.Zero(t, lc.Percent, tag)
		}
		assert.Zero(t, m.WrittenPercent)
		assert.Zero(t, m.SpokenPercent)
	})

	t.Run("omits lists without words", func(t *testing.T) {
		t.Parallel()

		lists := testLists()
		lists["Empty"] = lexcov.NewWordSet()

		m := lexcov.Coverage("market", lists, nil, cfg)

		assert.NotContains(t, m.PerList, "Empty")
	})

	t.Run("keeps percentages within bounds", func(t *testing.T) {
		t.Parallel()

		texts := []string{
			"people people people",
			"market yeah analysis zebra",
			"unknown words only here",
		}
		for _, text := range texts {
			m := lexcov.Coverage(text, testLists(), nil, cfg)
			for tag, lc := range m.PerList {
				assert.GreaterOrEqual(t, lc.Percent, 0.0, tag)
				assert.LessOrEqual(t, lc.Percent, 100.0, tag)
			}
		}
	})

	t.Run("ranks non-core words by count then first occurrence", func(t *testing.T) {
		t.Parallel()

		text := "zeta beta zeta alpha beta zeta gamma"

		m := lexcov.Coverage(text, testLists(), nil, cfg)

		assert.Equal(t, []lexcov.WordCount{
			{Word: "zeta", Count: 3},
			{Word: "beta", Count: 2},
			{Word: "alpha", Count: 1},
			{Word: "gamma", Count: 1},
		}, m.TopNonCore)
	})

	t.Run("caps non-core words", func(t *testing.T) {
		t.Parallel()

		var words []string
		for i := range 30 {
			words = append(words, strings.Repeat("x", i+1))
		}

		m := lexcov.Coverage(strings.Join(words, " "), testLists(), nil, cfg)

		assert.Len(t, m.TopNonCore, lexcov.MaxNonCore)
	})
}

func TestCoverageSummary(t *testing.T) {
	t.Parallel()

	cfg := lexcov.DefaultCoverageConfig()

	t.Run("renders lists in order followed by aggregates", func(t *testing.T) {
		t.Parallel()

		m := lexcov.Coverage("market price analysis yeah zebra", testLists(), nil, cfg)

		lines := lexcov.CoverageSummary(m, cfg)

		assert.Equal(t, []string{
			"NGSL: 2 tokens (40.0% specialized-free)",
			"NAWL: 1 tokens (20.0% specialized-free)",
			"Spoken: 1 tokens (20.0% specialized-free)",
			"Written (NGSL+NAWL): 3 tokens (60.0% specialized-free)",
			"Spoken (Spoken): 1 tokens (20.0% specialized-free)",
		}, lines)
	})

	t.Run("skips lists missing from the metrics", func(t *testing.T) {
		t.Parallel()

		lists := map[string]lexcov.WordSet{lexcov.ListNGSL: lexcov.NewWordSet("market")}
		m := lexcov.Coverage("market", lists, nil, cfg)

		lines := lexcov.CoverageSummary(m, cfg)

		require.Len(t, lines, 3)
		assert.Equal(t, "NGSL: 1 tokens (100.0% specialized-free)", lines[0])
	})
}

func TestFormatAnalysis(t *testing.T) {
	t.Parallel()

	cfg := lexcov.DefaultCoverageConfig()

	t.Run("includes non-core words and detected terms", func(t *testing.T) {
		t.Parallel()

		m := lexcov.Coverage("market zebra zebra", testLists(), nil, cfg)

		text := lexcov.FormatAnalysis(m, cfg, []string{"defi", "staking"})

		assert.True(t, strings.HasPrefix(text, "Coverage (specialized-free):\nNGSL: 1 tokens"))
		assert.Contains(t, text, "\nTop non-core: zebra(2)")
		assert.True(t, strings.HasSuffix(text, "\nSpecialized terms (AI): defi, staking"))
	})

	t.Run("omits empty sections", func(t *testing.T) {
		t.Parallel()

		m := lexcov.Coverage("market", testLists(), nil, cfg)

		text := lexcov.FormatAnalysis(m, cfg, nil)

		assert.NotContains(t, text, "Top non-core")
		assert.NotContains(t, text, "Specialized terms")
	})

	t.Run("caps the output length", func(t *testing.T) {
		t.Parallel()

		terms := make([]string, 20)
		for i := range terms {
			terms[i] = strings.Repeat("t", 200)
		}
		m := lexcov.Coverage("market", testLists(), nil, cfg)

		text := lexcov.FormatAnalysis(m, cfg, terms)

		assert.Equal(t, lexcov.MaxAnalysisLen, lexcov.TextLen(text))
	})
}

func TestFormatNonCore(t *testing.T) {
	t.Parallel()

	m := &lexcov.CoverageMetrics{TopNonCore: []lexcov.WordCount{{Word: "defi", Count: 3}, {Word: "dao", Count: 1}}}

	assert.Equal(t, "defi(3), dao(1)", lexcov.FormatNonCore(m))
}
