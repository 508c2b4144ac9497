// Package openai generates rewrite and term-detection replies through an
// OpenAI-compatible chat completion endpoint. Prompts and reply decoding
// are shared with the gemini package.
package openai

import (
	"context"
	"strings"

	"github.com/fwojciec/lexcov"
	"github.com/fwojciec/lexcov/gemini"
	goopenai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// ChatClient is the subset of *goopenai.Client the generator calls.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

var _ gemini.Generator = (*Generator)(nil)

// Generator implements gemini.Generator on chat completions, asking for a
// JSON object reply.
type Generator struct {
	client      ChatClient
	temperature float32
}

// NewGenerator wraps a chat client.
func NewGenerator(client ChatClient) *Generator {
	return &Generator{client: client, temperature: 0.4}
}

// NewClient connects to the endpoint at baseURL, or to the OpenAI API when
// baseURL is empty.
func NewClient(apiKey, baseURL string) *goopenai.Client {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return goopenai.NewClientWithConfig(cfg)
}

// Generate sends prompt as a single user message. A response without
// choices yields an empty reply.
func (g *Generator) Generate(ctx context.Context, model, prompt string) (string, error) {
	if strings.TrimSpace(model) == "" {
		return "", lexcov.Errorf(lexcov.EINVALID, "model required")
	}
	resp, err := g.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.temperature,
		N:           1,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
