package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"haven-planner/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroqClient_GenerateContent(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "llama-test",
			"choices": [{"message": {"content": "Once upon a time"}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 30, "total_tokens": 42}
		}`))
	}))
	defer srv.Close()

	c := NewGroqClient(&config.Config{GroqAPIKey: "secret"})
	c.url = srv.URL

	resp, err := c.GenerateContent(context.Background(), "tell a story")
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, groqModel, gotBody["model"])
	assert.EqualValues(t, storyMaxTokens, gotBody["max_tokens"])
	messages, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "tell a story", messages[1].(map[string]any)["content"])
	assert.Equal(t, "Once upon a time", resp.Content)
	assert.Equal(t, 12, resp.Usage.PromptTokens)
	assert.Equal(t, 30, resp.Usage.CompletionTokens)
	assert.Equal(t, 42, resp.Usage.TotalTokens)
	assert.Equal(t, "llama-test", resp.Usage.Model)
}

func TestGroqClient_Errors(t *testing.T) {
	t.Run("Status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		c := NewGroqClient(&config.Config{})
		c.url = srv.URL
		_, err := c.GenerateContent(context.Background(), "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status=429")
	})

	t.Run("NoChoices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices": []}`))
		}))
		defer srv.Close()

		c := NewGroqClient(&config.Config{})
		c.url = srv.URL
		_, err := c.GenerateContent(context.Background(), "x")
		assert.ErrorIs(t, err, ErrNoContent)
	})
}

func TestNewFromConfig(t *testing.T) {
	gen, err := NewFromConfig(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, gen)

	gen, err = NewFromConfig(context.Background(), &config.Config{StoryProvider: config.ProviderGroq})
	require.NoError(t, err)
	assert.NotNil(t, gen)

	_, err = NewFromConfig(context.Background(), &config.Config{StoryProvider: "openai"})
	assert.Error(t, err)

	_, err = NewFromConfig(context.Background(), &config.Config{StoryProvider: config.ProviderGemini})
	assert.Error(t, err)
}

func TestNewFromConfig_LocalOnly(t *testing.T) {
	gen, err := NewFromConfig(context.Background(), &config.Config{LocalOnly: true, StoryProvider: config.ProviderGroq})
	require.NoError(t, err)
	assert.Nil(t, gen)
}
