package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatClientFor(t *testing.T, handler http.HandlerFunc) (*ChatClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return &ChatClient{client: openai.NewClientWithConfig(cfg), model: "gpt-3.5-turbo"}, srv
}

func TestGenerateAnswer_Success(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	client, _ := newChatClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "  Cats are mentioned.  "}},
			},
		})
	})

	answer := client.GenerateAnswer(context.Background(), "what animal?", "a document about cats")

	assert.True(t, answer.OK)
	assert.Equal(t, "Cats are mentioned.", answer.Render())

	// two-message prompt with the context and question embedded verbatim
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[0].Content, "only the provided context")
	assert.Equal(t, "Context: a document about cats\n\nQuestion: what animal?", gotReq.Messages[1].Content)

	// fixed generation parameters
	assert.InDelta(t, 0.3, gotReq.Temperature, 0.001)
	assert.Equal(t, 500, gotReq.MaxTokens)
}

func TestGenerateAnswer_UpstreamError(t *testing.T) {
	client, _ := newChatClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "The server had an error", "type": "server_error"},
		})
	})

	answer := client.GenerateAnswer(context.Background(), "q", "c")

	assert.False(t, answer.OK)
	assert.Equal(t, "Error: The server had an error", answer.Render())
}

func TestGenerateAnswer_UpstreamErrorWithoutMessage(t *testing.T) {
	client, _ := newChatClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "", "type": "rate_limit"},
		})
	})

	answer := client.GenerateAnswer(context.Background(), "q", "c")

	assert.False(t, answer.OK)
	assert.Equal(t, "Error: Unknown OpenAI error", answer.Render())
}

func TestGenerateAnswer_TransportFailure(t *testing.T) {
	client, srv := newChatClientFor(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	answer := client.GenerateAnswer(context.Background(), "q", "c")

	assert.False(t, answer.OK)
	assert.Equal(t, "Error: Failed to reach AI service", answer.Render())
}

func TestGenerateAnswer_MalformedResponse(t *testing.T) {
	t.Run("no choices", func(t *testing.T) {
		client, _ := newChatClientFor(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
		})

		answer := client.GenerateAnswer(context.Background(), "q", "c")
		assert.False(t, answer.OK)
		assert.Equal(t, "Error: Invalid response from AI", answer.Render())
	})

	t.Run("empty content", func(t *testing.T) {
		client, _ := newChatClientFor(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"role": "assistant", "content": ""}},
				},
			})
		})

		answer := client.GenerateAnswer(context.Background(), "q", "c")
		assert.False(t, answer.OK)
		assert.True(t, strings.HasPrefix(answer.Render(), "Error: "))
	})
}
