// Package gemini implements the generative collaborators on Google Gemini:
// graded-reader rewriting and specialized-term detection.
package gemini

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/fwojciec/lexcov"
	"google.golang.org/genai"
)

// Models.
const (
	DefaultModel  = "gemini-2.5-flash"
	FallbackModel = "gemini-2.0-flash"
)

// Generator produces a text reply for a prompt.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Ensure Client implements Generator at compile time.
var _ Generator = (*Client)(nil)

// Client implements Generator with the Gemini API, requesting JSON replies.
type Client struct {
	client *genai.Client
}

// NewClient wraps a genai client.
func NewClient(client *genai.Client) *Client {
	return &Client{client: client}
}

// Generate sends the prompt to model and returns the reply text.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", lexcov.Errorf(lexcov.EINTERNAL, "gemini returned nil result")
	}
	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      &temp,
	}
}

var trailingObjectRe = regexp.MustCompile(`\{[\s\S]*\}\s*$`)

// reply is a decoded model reply: either the fields of a JSON object, or
// malformed with the raw text kept.
type reply struct {
	fields    map[string]any
	raw       string
	malformed bool
}

// decodeReply strips a markdown code fence and decodes the JSON object in
// raw. When the whole text is not JSON, a trailing {...} block is tried.
func decodeReply(raw string) reply {
	raw = stripFence(raw)
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err == nil && fields != nil {
		return reply{fields: fields, raw: raw}
	}
	if m := trailingObjectRe.FindString(raw); m != "" {
		if err := json.Unmarshal([]byte(m), &fields); err == nil && fields != nil {
			return reply{fields: fields, raw: raw}
		}
	}
	return reply{raw: raw, malformed: true}
}

// stripFence returns the content of a ``` fenced block, or s trimmed.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	parts := strings.Split(s, "```")
	if len(parts) < 3 {
		return s
	}
	inner := parts[1]
	// Drop the info string of ```json fences.
	if i := strings.IndexAny(inner, "\n"); i >= 0 && !strings.ContainsAny(inner[:i], "{[") {
		inner = inner[i+1:]
	}
	return strings.TrimSpace(inner)
}
