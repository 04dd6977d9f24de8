package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-docqa-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCallsCompletionEndpoint(t *testing.T) {
	var got ollamaGenerateRequest
	var path string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "generated text", Done: true})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3", time.Second)
	out, err := p.Generate(context.Background(), "describe hypertension",
		llm.WithTemperature(0.2), llm.WithMaxTokens(64))
	require.NoError(t, err)

	assert.Equal(t, "generated text", out)
	assert.Equal(t, "/api/generate", path)
	assert.Equal(t, "llama3", got.Model)
	assert.Equal(t, "describe hypertension", got.Prompt)
	assert.False(t, got.Stream)
	require.NotNil(t, got.Options)
	assert.Equal(t, 0.2, got.Options.Temperature)
	assert.Equal(t, 64, got.Options.NumPredict)
}

func TestChatMapsModelRoleToAssistant(t *testing.T) {
	var got ollamaChatRequest
	var path string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: "reply"},
			Done:    true,
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3", time.Second)
	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: "user", Content: "hi"},
		{Role: "model", Content: "previous turn"},
	})
	require.NoError(t, err)

	assert.Equal(t, "reply", out)
	assert.Equal(t, "/api/chat", path)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "assistant", got.Messages[1].Role)
}

func TestGenerateSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3", time.Second)
	_, err := p.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
