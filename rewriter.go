package lexcov

import "context"

// Rewrite is the result of rewriting an article for a reading level.
type Rewrite struct {
	Body     string
	Glossary []GlossaryEntry

	// Malformed is set when the reply could not be decoded as structured
	// output; Body then holds the raw reply text.
	Malformed bool
}

// Rewriter rewrites article text as a graded reader.
type Rewriter interface {
	// Rewrite simplifies text for the reading level (see Levels) and
	// returns the new body with a short glossary.
	Rewrite(ctx context.Context, text, level string) (*Rewrite, error)
}

// MaxDetectedTerms caps the number of terms a TermDetector returns.
const MaxDetectedTerms = 20

// TermDetector finds specialized or jargon terms in text.
type TermDetector interface {
	// DetectTerms returns at most MaxDetectedTerms lowercase terms.
	DetectTerms(ctx context.Context, text string) ([]string, error)
}
