package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aiopenai "github.com/okwan/promptvault/internal/adapter/openai"
	"github.com/okwan/promptvault/internal/port/ai"
)

// fakeBackend serves the two OpenAI endpoints the client touches, with
// per-test overrides for the embedding payload.
func fakeBackend(t *testing.T, embedDims int, embedCount int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/embeddings":
			data := make([]map[string]any, embedCount)
			for i := range data {
				data[i] = map[string]any{
					"object":    "embedding",
					"index":     i,
					"embedding": make([]float32, embedDims),
				}
			}
			json.NewEncoder(w).Encode(map[string]any{
				"object": "list",
				"data":   data,
				"model":  "text-embedding-3-small",
			})
		case "/chat/completions":
			json.NewEncoder(w).Encode(map[string]any{
				"id":     "chatcmpl-1",
				"object": "chat.completion",
				"choices": []map[string]any{
					{
						"index":         0,
						"message":       map[string]any{"role": "assistant", "content": "  keyword one, keyword two  "},
						"finish_reason": "stop",
					},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func newClient(baseURL string) *aiopenai.Client {
	return aiopenai.NewClient(aiopenai.Config{APIKey: "test-key", BaseURL: baseURL})
}

func TestEmbed_Success(t *testing.T) {
	srv := fakeBackend(t, aiopenai.Dimensions, 1)
	defer srv.Close()

	vec, err := newClient(srv.URL).Embed(context.Background(), "some text")
	require.NoError(t, err)
	assert.Len(t, vec.Slice(), aiopenai.Dimensions)
}

func TestEmbed_WrongDimensions(t *testing.T) {
	srv := fakeBackend(t, 8, 1)
	defer srv.Close()

	_, err := newClient(srv.URL).Embed(context.Background(), "some text")
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrEmbedding)
}

func TestEmbed_EmptyPayload(t *testing.T) {
	srv := fakeBackend(t, aiopenai.Dimensions, 0)
	defer srv.Close()

	_, err := newClient(srv.URL).Embed(context.Background(), "some text")
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrEmbedding)
}

func TestEmbed_BackendDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).Embed(context.Background(), "some text")
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrEmbedding)
}

func TestComplete_TrimsFirstChoice(t *testing.T) {
	srv := fakeBackend(t, aiopenai.Dimensions, 1)
	defer srv.Close()

	out, err := newClient(srv.URL).Complete(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "keyword one, keyword two", out)
}

func TestComplete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-2",
			"object":  "chat.completion",
			"choices": []any{},
		})
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).Complete(context.Background(), "system", "user")
	require.Error(t, err)
}

func TestDimensions(t *testing.T) {
	c := aiopenai.NewClient(aiopenai.Config{APIKey: "test-key"})
	assert.Equal(t, aiopenai.Dimensions, c.Dimensions())
}
