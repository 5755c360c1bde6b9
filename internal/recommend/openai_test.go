package recommend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockOpenAIServer(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/models":
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"data": []}`))

		case "/chat/completions":
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req chatRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Messages, 2)

			content := "1. Heat\n2. Thief\n3. Collateral"
			if strings.Contains(req.Messages[1].Content, "opposite") {
				content = "1. Paddington\n2. Amelie"
			}

			json.NewEncoder(w).Encode(map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{"role": "assistant", "content": content}},
				},
			})

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestOpenAIRecommend(t *testing.T) {
	server := newMockOpenAIServer(t)
	defer server.Close()

	src := NewOpenAI(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-4o-mini",
	})

	batch, err := src.Recommend(context.Background(), "Ronin", 15)
	require.NoError(t, err)
	assert.Equal(t, []string{"Heat", "Thief", "Collateral"}, batch.Similar)
	assert.Equal(t, []string{"Paddington", "Amelie"}, batch.Contrasting)
}

func TestOpenAIRecommendCapsCount(t *testing.T) {
	server := newMockOpenAIServer(t)
	defer server.Close()

	src := NewOpenAI(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL})

	batch, err := src.Recommend(context.Background(), "Ronin", 2)
	require.NoError(t, err)
	assert.Len(t, batch.Similar, 2)
}

func TestOpenAIRecommendAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	src := NewOpenAI(OpenAIConfig{APIKey: "bad-key", BaseURL: server.URL})

	_, err := src.Recommend(context.Background(), "Ronin", 15)
	require.Error(t, err)

	var recErr *Error
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, "related", recErr.Op)
	assert.Contains(t, err.Error(), "Incorrect API key")
}

func TestOpenAIRecommendEmptyCompletions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "\n\n"}},
			},
		})
	}))
	defer server.Close()

	src := NewOpenAI(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL})

	_, err := src.Recommend(context.Background(), "Ronin", 15)
	require.Error(t, err)

	var recErr *Error
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, "parse", recErr.Op)
}

func TestOpenAIPing(t *testing.T) {
	server := newMockOpenAIServer(t)
	defer server.Close()

	src := NewOpenAI(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL})
	assert.NoError(t, src.Ping(context.Background()))
}
