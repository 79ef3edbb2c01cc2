package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idea-workers/internal/common/config"
	"idea-workers/internal/common/logger"
	"idea-workers/internal/models"
)

func newTestClient(t *testing.T, url string) *Client {
	return NewClient(config.SuggestAPIConfig{
		BaseURL:    url + "/",
		APIKey:     "test-key",
		Timeout:    2000,
		MaxRetries: 1,
	}, 3, logger.NewTestLogger(t))
}

func TestClient_SuggestPriorities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/ai/suggest-priorities", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req suggestRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "solar pumps for farms", req.Text)
		assert.Equal(t, 3, req.MaxTags)
		assert.Len(t, req.AllowedTags, len(models.AllPriorityTags))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"tags":       []string{" Green_Economy", "rural_development"},
			"confidence": 0.8,
		})
	}))
	defer srv.Close()

	tags, err := newTestClient(t, srv.URL).SuggestPriorities(context.Background(), "solar pumps for farms")
	require.NoError(t, err)
	assert.Equal(t, []models.PriorityTag{models.TagGreenEconomy, models.TagRuralDevelopment}, tags)
}

func TestClient_SuggestPriorities_EmptyCorpus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	tags, err := newTestClient(t, srv.URL).SuggestPriorities(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, tags)
	assert.Zero(t, calls.Load())
}

func TestClient_SuggestPriorities_Errors(t *testing.T) {
	t.Run("server error after retries", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).SuggestPriorities(context.Background(), "text")
		assert.ErrorIs(t, err, ErrSuggestionFailed)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("deadline", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := newTestClient(t, srv.URL).SuggestPriorities(ctx, "text")
		assert.ErrorIs(t, err, ErrSuggestionTimeout)
	})
}
