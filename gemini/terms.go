package gemini

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/fwojciec/lexcov"
)

// Ensure TermDetector implements lexcov.TermDetector at compile time.
var _ lexcov.TermDetector = (*TermDetector)(nil)

// TermDetector implements lexcov.TermDetector by asking a model for the
// specialized terms of an article.
type TermDetector struct {
	gen   Generator
	model string
	limit int
}

// NewTermDetector creates a TermDetector returning at most
// lexcov.MaxDetectedTerms terms. An empty model selects DefaultModel.
func NewTermDetector(gen Generator, model string) *TermDetector {
	if model == "" {
		model = DefaultModel
	}
	return &TermDetector{gen: gen, model: model, limit: lexcov.MaxDetectedTerms}
}

// DetectTerms returns lowercase specialized terms found in text.
func (d *TermDetector) DetectTerms(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	raw, err := d.gen.Generate(ctx, d.model, BuildTermsPrompt(text, d.limit))
	if err != nil {
		return nil, fmt.Errorf("generate with %s: %w", d.model, err)
	}
	terms, err := ParseTerms(raw, d.limit)
	if err != nil {
		return nil, err
	}
	return terms, nil
}

// BuildTermsPrompt constructs the terminology prompt.
func BuildTermsPrompt(text string, limit int) string {
	var sb strings.Builder
	sb.WriteString("You are a terminology miner.\n")
	sb.WriteString("Read the article below and list domain-specific or specialized terms that general learners might not know.\n")
	sb.WriteString("Return ONLY valid JSON with the schema: {\"terms\": [\"word\", ...]}.\n")
	fmt.Fprintf(&sb, "Limit to at most %d single words or short phrases.\n", limit)
	sb.WriteString("Lowercase the terms, remove duplicates, and include only alphabetic tokens.\n\n")
	sb.WriteString("[ARTICLE]\n")
	sb.WriteString(text)
	return sb.String()
}

var termCleanRe = regexp.MustCompile(`[^a-z0-9\- ]`)

// ParseTerms decodes a terms reply into at most limit cleaned, unique
// terms. Non-string entries are ignored.
func ParseTerms(raw string, limit int) ([]string, error) {
	rep := decodeReply(raw)
	if rep.malformed {
		return nil, lexcov.Errorf(lexcov.EINTERNAL, "terms reply is not a JSON object")
	}
	items, ok := rep.fields["terms"].([]any)
	if !ok {
		return nil, lexcov.Errorf(lexcov.EINTERNAL, "terms reply has no terms array")
	}

	seen := make(map[string]bool)
	var terms []string
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		term := strings.TrimSpace(termCleanRe.ReplaceAllString(strings.ToLower(s), ""))
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		terms = append(terms, term)
		if limit > 0 && len(terms) == limit {
			break
		}
	}
	return terms, nil
}
