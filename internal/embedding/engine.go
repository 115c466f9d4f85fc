// Package embedding generates batched vector embeddings over code
// chunks with retry-on-failure: batch size 16 by default, 3 attempts
// per batch with a 1s base delay doubling each attempt.
package embedding

import (
	"context"
	"fmt"
	"math"
	"time"
)

// DefaultBatchSize is the default chunk-batch size for Embed calls.
const DefaultBatchSize = 16

// Engine generates vector embeddings for source chunks.
type Engine interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Name() string
}

// TaskTypeAware is implemented by engines whose provider supports an
// embedding task-type hint (e.g. "SEMANTIC_SIMILARITY" vs "RETRIEVAL_QUERY").
type TaskTypeAware interface {
	EmbedWithTaskType(ctx context.Context, text, taskType string) ([]float32, error)
}

// GetOptimalTaskType picks the provider task-type hint appropriate for a
// given use: indexing code chunks uses RETRIEVAL_DOCUMENT, searching
// with a user query uses RETRIEVAL_QUERY, and everything else defaults
// to SEMANTIC_SIMILARITY.
func GetOptimalTaskType(purpose string) string {
	switch purpose {
	case "index":
		return "RETRIEVAL_DOCUMENT"
	case "query":
		return "RETRIEVAL_QUERY"
	default:
		return "SEMANTIC_SIMILARITY"
	}
}

// RetryConfig controls the per-batch exponential backoff: 3 attempts,
// base 1s, factor 2 (waits of 1s then 2s between attempts).
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Factor      float64
}

// DefaultRetryConfig is the standard per-batch backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, BaseDelay: time.Second, Factor: 2}
}

// BatchEmbedder wraps an Engine with batching and retry: texts are
// grouped into batches of size BatchSize, and a partial batch is never
// silently dropped — a batch that exhausts its retries returns an error
// for that batch's indices.
type BatchEmbedder struct {
	Engine    Engine
	BatchSize int
	Retry     RetryConfig
	Sleep     func(time.Duration) // overridable for deterministic tests
}

// NewBatchEmbedder builds a BatchEmbedder with the default knobs.
func NewBatchEmbedder(engine Engine) *BatchEmbedder {
	return &BatchEmbedder{
		Engine:    engine,
		BatchSize: DefaultBatchSize,
		Retry:     DefaultRetryConfig(),
		Sleep:     time.Sleep,
	}
}

// EmbedAll embeds every text, batching and retrying per batch. Returns
// one vector per input text in input order.
func (b *BatchEmbedder) EmbedAll(ctx context.Context, texts []string) ([][]float32, error) {
	batchSize := b.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	results := make([][]float32, len(texts))

	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		vectors, err := b.embedBatchWithRetry(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("embed batch [%d:%d]: %w", start, end, err)
		}
		copy(results[start:end], vectors)
	}
	return results, nil
}

func (b *BatchEmbedder) embedBatchWithRetry(ctx context.Context, batch []string) ([][]float32, error) {
	attempts := b.Retry.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := b.Retry.BaseDelay
	if delay <= 0 {
		delay = time.Second
	}
	factor := b.Retry.Factor
	if factor <= 0 {
		factor = 2
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		vectors, err := b.Engine.EmbedBatch(ctx, batch)
		if err == nil {
			if len(vectors) != len(batch) {
				lastErr = fmt.Errorf("partial batch: got %d vectors for %d inputs", len(vectors), len(batch))
			} else {
				return vectors, nil
			}
		} else {
			lastErr = err
		}
		if attempt < attempts {
			if b.Sleep != nil {
				b.Sleep(delay)
			}
			delay = time.Duration(float64(delay) * factor)
		}
	}
	return nil, lastErr
}

// CosineSimilarity computes cosine similarity between two equal-length
// vectors; a zero-magnitude vector yields 0 similarity rather than NaN.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch: %d vs %d", len(a), len(b))
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB)), nil
}

// SimilarityResult is one ranked match from FindTopK.
type SimilarityResult struct {
	Index      int
	Similarity float64
}

// FindTopK returns the k corpus vectors most similar to query, descending.
func FindTopK(query []float32, corpus [][]float32, k int) ([]SimilarityResult, error) {
	results := make([]SimilarityResult, 0, len(corpus))
	for i, v := range corpus {
		sim, err := CosineSimilarity(query, v)
		if err != nil {
			return nil, err
		}
		results = append(results, SimilarityResult{Index: i, Similarity: sim})
	}
	for i := 0; i < len(results); i++ {
		for j := i + 1; j < len(results); j++ {
			if results[j].Similarity > results[i].Similarity {
				results[i], results[j] = results[j], results[i]
			}
		}
	}
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}
