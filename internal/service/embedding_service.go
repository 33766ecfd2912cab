package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"skillbloom_backend/internal/config"
	"skillbloom_backend/internal/util"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// Embedder 把文本映射为向量。MatchService 只依赖这个接口。
type Embedder interface {
	Vector(ctx context.Context, text string) ([]float64, error)
}

// EmbeddingService 调用 OpenAI 兼容的 /embeddings 接口，
// 向量按 模型+文本 缓存到 Redis，进程内可并发共享。
type EmbeddingService struct {
	config config.EmbeddingConfig
	rdb    *redis.Client
	client *http.Client
}

func NewEmbeddingService(cfg config.EmbeddingConfig, rdb *redis.Client) *EmbeddingService {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &EmbeddingService{
		config: cfg,
		rdb:    rdb,
		client: &http.Client{Timeout: timeout},
	}
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (s *EmbeddingService) cacheKey(text string) string {
	return fmt.Sprintf("embedding:%s:%s", s.config.Model, strings.ToLower(strings.TrimSpace(text)))
}

func (s *EmbeddingService) Vector(ctx context.Context, text string) ([]float64, error) {
	// 命中缓存则不打外部接口
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, s.cacheKey(text)).Result(); err == nil {
			var vec []float64
			if err := json.Unmarshal([]byte(cached), &vec); err == nil {
				return vec, nil
			}
		}
	}

	reqBody := embeddingRequest{
		Model: s.config.Model,
		Input: []string{text},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrEmbeddingUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: embedding API error (status %d): %s", util.ErrEmbeddingUnavailable, resp.StatusCode, string(body))
	}

	var result embeddingResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrEmbeddingUnavailable, err)
	}

	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", util.ErrEmbeddingUnavailable, result.Error.Message)
	}

	if len(result.Data) == 0 {
		return nil, fmt.Errorf("%w: embedding API returned no data", util.ErrEmbeddingUnavailable)
	}

	vec := result.Data[0].Embedding

	if s.rdb != nil {
		if encoded, err := json.Marshal(vec); err == nil {
			s.rdb.Set(ctx, s.cacheKey(text), encoded, 24*time.Hour)
		}
	}

	return vec, nil
}

// Cosine 余弦相似度，截断到 [0,1]
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
