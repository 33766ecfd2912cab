package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"skillbloom_backend/internal/config"
	"skillbloom_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-3-small", req.Model)
		require.Len(t, req.Input, 1)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float64{0.1, 0.2, 0.3}},
			},
		})
	}))
	defer server.Close()

	svc := NewEmbeddingService(config.EmbeddingConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "text-embedding-3-small",
	}, nil)

	vec, err := svc.Vector(context.Background(), "Python")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
}

func TestEmbeddingVectorUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := NewEmbeddingService(config.EmbeddingConfig{BaseURL: server.URL}, nil)

	_, err := svc.Vector(context.Background(), "Python")
	assert.ErrorIs(t, err, util.ErrEmbeddingUnavailable)
}

func TestEmbeddingVectorEmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	svc := NewEmbeddingService(config.EmbeddingConfig{BaseURL: server.URL}, nil)

	_, err := svc.Vector(context.Background(), "Python")
	assert.ErrorIs(t, err, util.ErrEmbeddingUnavailable)
}

func TestCosine(t *testing.T) {
	assert.Equal(t, 1.0, Cosine([]float64{1, 0}, []float64{1, 0}))
	assert.Equal(t, 0.0, Cosine([]float64{1, 0}, []float64{0, 1}))
	// 反向向量截断到 0
	assert.Equal(t, 0.0, Cosine([]float64{1, 0}, []float64{-1, 0}))
	// 长度不一致或空向量
	assert.Equal(t, 0.0, Cosine([]float64{1, 0}, []float64{1}))
	assert.Equal(t, 0.0, Cosine(nil, nil))
	assert.Equal(t, 0.0, Cosine([]float64{0, 0}, []float64{0, 0}))

	assert.InDelta(t, 0.7071, Cosine([]float64{1, 0}, []float64{1, 1}), 1e-4)
}
