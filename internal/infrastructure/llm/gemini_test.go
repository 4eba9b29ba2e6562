package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-forge-api/internal/config"
)

func newTestGeminiBackend(t *testing.T, cfg config.ProviderConfig) *GeminiBackend {
	t.Helper()
	backend, err := NewGeminiBackend(context.Background(), cfg, "test-key")
	require.NoError(t, err)
	return backend
}

func TestGeminiGenerateEmptyPrompt(t *testing.T) {
	backend := newTestGeminiBackend(t, config.ProviderConfig{Model: "gemini-2.0-flash"})

	_, err := backend.Generate(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty prompt")

	_, err = backend.Generate(context.Background(), []*schema.Message{
		{Role: schema.User, Content: ""},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty prompt")
}

func TestGeminiListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"models":[{"name":"models/gemini-2.0-flash"},{"name":"models/gemini-1.5-pro"}]}`))
	}))
	defer srv.Close()

	backend := newTestGeminiBackend(t, config.ProviderConfig{
		BaseURL: srv.URL,
		Model:   "gemini-2.0-flash",
		Timeout: 5 * time.Second,
	})

	models, err := backend.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "gemini-2.0-flash", models[0].ID)
	assert.Equal(t, "gemini-1.5-pro", models[1].ID)
	assert.Equal(t, string(ProviderGemini), models[0].Provider)
}

func TestGeminiListModelsFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	backend := newTestGeminiBackend(t, config.ProviderConfig{
		BaseURL:        srv.URL,
		Model:          "gemini-2.0-flash",
		Timeout:        5 * time.Second,
		FallbackModels: []string{"gemini-2.0-flash", "gemini-1.5-flash"},
	})

	models, err := backend.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "gemini-2.0-flash", models[0].ID)

	// 上游不可用且无兜底列表时错误向上透传
	bare := newTestGeminiBackend(t, config.ProviderConfig{
		BaseURL: srv.URL,
		Model:   "gemini-2.0-flash",
		Timeout: 5 * time.Second,
	})
	_, err = bare.ListModels(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestFlattenMessages(t *testing.T) {
	prompt := flattenMessages([]*schema.Message{
		{Role: schema.System, Content: "You narrate a campaign."},
		{Role: schema.User, Content: "Describe the keep."},
		{Role: schema.Assistant, Content: "A ruined keep on a cliff."},
		nil,
		{Role: schema.User, Content: ""},
		{Role: schema.User, Content: "What lives inside?"},
	})

	assert.Equal(t,
		"You narrate a campaign.\n\nUser: Describe the keep.\n\nAssistant: A ruined keep on a cliff.\n\nUser: What lives inside?",
		prompt)
	assert.Equal(t, "", flattenMessages(nil))
}
