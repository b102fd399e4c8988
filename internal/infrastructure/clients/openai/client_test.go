package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/villamare/concierge-nlu/internal/domain/providers"
	"github.com/villamare/concierge-nlu/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&config.OpenAIConfig{
		APIKey:       "test-key",
		BaseURL:      server.URL,
		RateLimitRPM: -1, // limiter off in tests
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(nil)
	assert.Error(t, err)

	_, err = NewClient(&config.OpenAIConfig{})
	assert.Error(t, err)
}

func TestClient_Dimensions(t *testing.T) {
	client, err := NewClient(&config.OpenAIConfig{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, 1536, client.Dimensions())
}

func TestEmbed_Success(t *testing.T) {
	var gotAuth, gotModel string
	var gotInput []string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotModel = req.Model
		gotInput = req.Input

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float32{0.1, 0.2, 0.3}},
			},
		})
	})

	vec, err := client.Embed(context.Background(), "quero reservar")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "text-embedding-3-small", gotModel)
	assert.Equal(t, []string{"quero reservar"}, gotInput)
}

func TestEmbed_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Embed(context.Background(), "olá")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestEmbed_MissingData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	})

	_, err := client.Embed(context.Background(), "olá")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing embedding data")
}

// After five consecutive failures the breaker opens and requests fail fast
// with the sentinel the classifier degrades on.
func TestEmbed_CircuitOpensAfterConsecutiveFailures(t *testing.T) {
	requests := 0
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < 5; i++ {
		_, err := client.Embed(context.Background(), "olá")
		require.Error(t, err)
		require.False(t, errors.Is(err, providers.ErrEmbeddingUnavailable), "breaker must still be closed on attempt %d", i+1)
	}

	_, err := client.Embed(context.Background(), "olá")
	require.Error(t, err)
	assert.ErrorIs(t, err, providers.ErrEmbeddingUnavailable)
	assert.Equal(t, 5, requests, "open circuit must not reach the backend")
}

func TestEmbed_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{{"embedding": []float32{1}}},
		})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Embed(ctx, "olá")
	assert.Error(t, err)
}
