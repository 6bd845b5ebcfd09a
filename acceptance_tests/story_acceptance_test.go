package acceptance_tests

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"haven-planner/internal/app"
	"haven-planner/internal/config"
	"haven-planner/internal/llm"
	"haven-planner/internal/server"
	"haven-planner/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Mock LLM Client ---
type mockLLMClient struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (m *mockLLMClient) GenerateContent(_ context.Context, prompt string) (llm.ContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail {
		return llm.ContentResponse{}, errors.New("model unavailable")
	}
	if !strings.Contains(prompt, "Ava") {
		return llm.ContentResponse{}, errors.New("prompt is missing the child name")
	}
	return llm.ContentResponse{
		Content: "# The Kite\nAva flew a red kite over the dunes.",
		Usage:   shared.TokenUsage{PromptTokens: 120, CompletionTokens: 40, TotalTokens: 160},
	}, nil
}

func (m *mockLLMClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockLLMClient) setFail(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = v
}

func post(t *testing.T, srv *httptest.Server, path string, body any) map[string]any {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func get(t *testing.T, srv *httptest.Server, path string) []byte {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return data
}

// --- Acceptance Test ---
func TestStoryWorkflow(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		DatabasePath:  filepath.Join(dir, "haven.db"),
		DataDir:       dir,
		RetentionDays: 180,
		LocalOnly:     true,
		JWTSecret:     "acceptance",
	}
	application, cleanup, err := app.Bootstrap(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	model := &mockLLMClient{}
	application.UseStoryModel(model, "mock")

	srv := httptest.NewServer(server.New(application, zap.NewNop()).Handler())
	defer srv.Close()

	child := map[string]any{"name": "Ava", "age_years": 4}

	// --- Step 1: Model story ---
	t.Log("--- Step 1: Story from the model ---")
	out := post(t, srv, "/story/generate", map[string]any{"child": child})
	assert.Equal(t, "The Kite", out["title"])
	assert.Equal(t, "Ava flew a red kite over the dunes.", out["story"])
	assert.Equal(t, 1, model.callCount())

	// --- Step 2: Bilingual stories stay on templates ---
	t.Log("--- Step 2: Bilingual story ---")
	out = post(t, srv, "/story/generate", map[string]any{"child": child, "bilingual": true})
	assert.Contains(t, out["story"], "[Nederlands]")
	assert.Equal(t, 1, model.callCount())

	// --- Step 3: Failing model falls back, then the breaker opens ---
	t.Log("--- Step 3: Model outage ---")
	model.setFail(true)
	for i := 0; i < 4; i++ {
		out = post(t, srv, "/story/generate", map[string]any{"child": child})
		assert.Contains(t, out["story"], "Ava")
		assert.NotEqual(t, "The Kite", out["title"])
	}
	assert.Equal(t, 4, model.callCount(), "breaker should stop calls after three failures")

	// --- Step 4: Usage report ---
	t.Log("--- Step 4: Usage report ---")
	var report struct {
		Usage []struct {
			Prompt     int `json:"prompt_tokens"`
			Completion int `json:"completion_tokens"`
			Calls      int `json:"calls"`
			Fallbacks  int `json:"fallbacks"`
		} `json:"usage"`
	}
	require.NoError(t, json.Unmarshal(get(t, srv, "/admin/metrics/llm?days=1"), &report))
	require.Len(t, report.Usage, 1)
	assert.Equal(t, 120, report.Usage[0].Prompt)
	assert.Equal(t, 40, report.Usage[0].Completion)
	assert.Equal(t, 4, report.Usage[0].Calls)
	assert.Equal(t, 3, report.Usage[0].Fallbacks)

	exposition := string(get(t, srv, "/metrics"))
	assert.Contains(t, exposition, `haven_llm_tokens_total{provider="mock",type="prompt"} 120`)
	assert.Contains(t, exposition, `haven_events_recorded_total{kind="story"} 6`)
}
