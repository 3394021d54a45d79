package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"promptlab-api/internal/domain/entity"
)

const systemPrompt = `Answer using only the provided context. If the answer is not in the context, say "I don't know based on the given document."`

type ChatClient struct {
	client *openai.Client
	model  string
}

func NewChatClient(apiKey, model string) *ChatClient {
	return &ChatClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// GenerateAnswer asks the model the question against the assembled context.
// It never returns an error: upstream failures come back as a degraded
// Answer so the caller can still return its retrieved sources.
func (c *ChatClient) GenerateAnswer(ctx context.Context, question, docContext string) entity.Answer {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Context: %s\n\nQuestion: %s", docContext, question),
			},
		},
		Temperature: 0.3,
		MaxTokens:   500,
	})

	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			msg := apiErr.Message
			if msg == "" {
				msg = "Unknown OpenAI error"
			}
			return entity.DegradedAnswer(msg)
		}
		return entity.DegradedAnswer("Failed to reach AI service")
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return entity.DegradedAnswer("Invalid response from AI")
	}

	return entity.GroundedAnswer(strings.TrimSpace(resp.Choices[0].Message.Content))
}
