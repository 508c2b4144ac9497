package openai_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/lexcov"
	"github.com/fwojciec/lexcov/gemini"
	"github.com/fwojciec/lexcov/openai"
	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatFunc func(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)

func (f chatFunc) CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
	return f(ctx, req)
}

func reply(content string) goopenai.ChatCompletionResponse {
	return goopenai.ChatCompletionResponse{
		Choices: []goopenai.ChatCompletionChoice{
			{Message: goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleAssistant, Content: content}},
		},
	}
}

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	t.Run("sends the prompt and returns the first choice", func(t *testing.T) {
		t.Parallel()

		var got goopenai.ChatCompletionRequest
		client := chatFunc(func(_ context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
			got = req
			return reply(`{"terms": []}`), nil
		})

		text, err := openai.NewGenerator(client).Generate(context.Background(), "local-model", "list the terms")

		require.NoError(t, err)
		assert.Equal(t, `{"terms": []}`, text)
		assert.Equal(t, "local-model", got.Model)
		require.Len(t, got.Messages, 1)
		assert.Equal(t, goopenai.ChatMessageRoleUser, got.Messages[0].Role)
		assert.Equal(t, "list the terms", got.Messages[0].Content)
		require.NotNil(t, got.ResponseFormat)
		assert.Equal(t, goopenai.ChatCompletionResponseFormatTypeJSONObject, got.ResponseFormat.Type)
	})

	t.Run("returns an empty reply when there are no choices", func(t *testing.T) {
		t.Parallel()

		client := chatFunc(func(_ context.Context, _ goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
			return goopenai.ChatCompletionResponse{}, nil
		})

		text, err := openai.NewGenerator(client).Generate(context.Background(), "m", "p")

		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("returns the client error", func(t *testing.T) {
		t.Parallel()

		apiErr := errors.New("rate limited")
		client := chatFunc(func(_ context.Context, _ goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
			return goopenai.ChatCompletionResponse{}, apiErr
		})

		_, err := openai.NewGenerator(client).Generate(context.Background(), "m", "p")

		assert.ErrorIs(t, err, apiErr)
	})

	t.Run("returns error without a model", func(t *testing.T) {
		t.Parallel()

		_, err := openai.NewGenerator(nil).Generate(context.Background(), " ", "p")

		assert.Equal(t, lexcov.EINVALID, lexcov.ErrorCode(err))
	})

	t.Run("drives the rewriter", func(t *testing.T) {
		t.Parallel()

		client := chatFunc(func(_ context.Context, _ goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
			return reply(`{"body": "Short text.", "glossary": []}`), nil
		})
		rw := gemini.NewRewriter(openai.NewGenerator(client), openai.DefaultModel)

		got, err := rw.Rewrite(context.Background(), "A much longer original text.", lexcov.LevelA2)

		require.NoError(t, err)
		assert.Equal(t, "Short text.", got.Body)
		assert.False(t, got.Malformed)
	})
}
