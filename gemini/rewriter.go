package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/lexcov"
)

// Ensure Rewriter implements lexcov.Rewriter at compile time.
var _ lexcov.Rewriter = (*Rewriter)(nil)

// Rewriter implements lexcov.Rewriter by asking a model for a graded-reader
// version of the article.
type Rewriter struct {
	gen           Generator
	model         string
	fallbackModel string
}

// RewriterOption configures a Rewriter.
type RewriterOption func(*Rewriter)

// WithFallbackModel sets the model retried once when the primary model
// returns an empty reply. An empty name disables the retry.
func WithFallbackModel(model string) RewriterOption {
	return func(r *Rewriter) {
		r.fallbackModel = model
	}
}

// NewRewriter creates a Rewriter. An empty model selects DefaultModel.
func NewRewriter(gen Generator, model string, opts ...RewriterOption) *Rewriter {
	if model == "" {
		model = DefaultModel
	}
	r := &Rewriter{
		gen:           gen,
		model:         model,
		fallbackModel: FallbackModel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rewrite simplifies text for the given CEFR level.
func (r *Rewriter) Rewrite(ctx context.Context, text, level string) (*lexcov.Rewrite, error) {
	if strings.TrimSpace(text) == "" {
		return nil, lexcov.Errorf(lexcov.EINVALID, "text required")
	}
	if !lexcov.ValidLevel(level) {
		return nil, lexcov.Errorf(lexcov.EINVALID, "invalid level %q: want one of %s",
			level, strings.Join(lexcov.Levels, ", "))
	}

	prompt := BuildRewritePrompt(text, level)
	raw, err := r.gen.Generate(ctx, r.model, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate with %s: %w", r.model, err)
	}
	if strings.TrimSpace(raw) == "" && r.fallbackModel != "" && r.fallbackModel != r.model {
		raw, err = r.gen.Generate(ctx, r.fallbackModel, prompt)
		if err != nil {
			return nil, fmt.Errorf("generate with %s: %w", r.fallbackModel, err)
		}
	}
	if strings.TrimSpace(raw) == "" {
		return nil, lexcov.Errorf(lexcov.EINTERNAL, "model returned an empty reply")
	}
	return ParseRewrite(raw), nil
}

// BuildRewritePrompt constructs the graded-reader rewrite prompt.
func BuildRewritePrompt(text, level string) string {
	var sb strings.Builder
	sb.WriteString("You are an expert editor for graded readers.\n")
	sb.WriteString("Rewrite the article for CEFR " + level + " English.\n")
	sb.WriteString("Constraints:\n")
	sb.WriteString("- Keep facts accurate but make it simpler.\n")
	sb.WriteString("- Short sentences, active voice, common vocabulary.\n")
	sb.WriteString("- Keep the body around 1,500-1,800 characters.\n")
	sb.WriteString("- Include a brief glossary of key terms (English only).\n")
	sb.WriteString("Return ONLY valid JSON with keys:\n")
	sb.WriteString("  \"body\": simplified article (~300-600 words),\n")
	sb.WriteString("  \"glossary\": array of { \"term\": \"...\", \"definition\": \"...\" }.\n\n")
	sb.WriteString("[ARTICLE]\n")
	sb.WriteString(text)
	return sb.String()
}

// ParseRewrite decodes a rewrite reply. A reply without a JSON object or
// without a string body is marked malformed and its text is used as body.
// Glossary items that are not objects with a non-empty string term are
// dropped.
func ParseRewrite(raw string) *lexcov.Rewrite {
	rep := decodeReply(raw)
	if rep.malformed {
		return &lexcov.Rewrite{Body: rep.raw, Malformed: true}
	}

	body, ok := rep.fields["body"].(string)
	if !ok || strings.TrimSpace(body) == "" {
		return &lexcov.Rewrite{Body: rep.raw, Malformed: true}
	}

	out := &lexcov.Rewrite{Body: strings.TrimSpace(body)}
	items, _ := rep.fields["glossary"].([]any)
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		term, _ := obj["term"].(string)
		def, _ := obj["definition"].(string)
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		out.Glossary = append(out.Glossary, lexcov.GlossaryEntry{
			Term:       term,
			Definition: strings.TrimSpace(def),
		})
	}
	return out
}
